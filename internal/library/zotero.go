// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citegap/pkg/types"
)

// ZoteroReader reads library items from a Zotero SQLite database. The
// database is opened read-only and immutable so a running Zotero instance
// holding the file lock does not block reads.
type ZoteroReader struct {
	db *sql.DB
}

// OpenZotero opens the Zotero database at path.
func OpenZotero(path string) (*ZoteroReader, error) {
	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro&immutable=1"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening zotero database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening zotero database %s: %w", path, err)
	}
	return &ZoteroReader{db: db}, nil
}

// Close releases the database connection.
func (r *ZoteroReader) Close() error {
	return r.db.Close()
}

// Items returns the non-deleted items of the library, or of one collection
// when collection is non-empty, ordered by item id.
func (r *ZoteroReader) Items(ctx context.Context, collection string) ([]types.LibraryItem, error) {
	query := `SELECT i.itemID, i.key, t.typeName
		FROM items i
		JOIN itemTypes t ON t.itemTypeID = i.itemTypeID
		WHERE i.itemID NOT IN (SELECT itemID FROM deletedItems)`
	var args []any
	if collection != "" {
		query += ` AND i.itemID IN (
			SELECT ci.itemID FROM collectionItems ci
			JOIN collections c ON c.collectionID = ci.collectionID
			WHERE c.collectionName = ?)`
		args = append(args, collection)
	}
	query += ` ORDER BY i.itemID`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []types.LibraryItem
	index := make(map[int64]int)
	for rows.Next() {
		var id int64
		var item types.LibraryItem
		var typeName string
		if err := rows.Scan(&id, &item.Key, &typeName); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Type = types.ItemType(typeName)
		index[id] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	if err := r.loadFields(ctx, items, index); err != nil {
		return nil, err
	}
	if err := r.loadCreators(ctx, items, index); err != nil {
		return nil, err
	}
	if err := r.loadCollections(ctx, items, index); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ZoteroReader) loadFields(ctx context.Context, items []types.LibraryItem, index map[int64]int) error {
	rows, err := r.db.QueryContext(ctx, `SELECT d.itemID, f.fieldName, v.value
		FROM itemData d
		JOIN fields f ON f.fieldID = d.fieldID
		JOIN itemDataValues v ON v.valueID = d.valueID
		WHERE f.fieldName IN ('title', 'date', 'DOI', 'extra', 'url', 'abstractNote')`)
	if err != nil {
		return fmt.Errorf("querying item fields: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var field, value string
		if err := rows.Scan(&id, &field, &value); err != nil {
			return fmt.Errorf("scanning item field: %w", err)
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		item := &items[i]
		switch field {
		case "title":
			item.Title = value
		case "date":
			item.Date = value
		case "DOI":
			item.DOI = value
		case "extra":
			item.Extra = value
		case "url":
			item.URL = value
		case "abstractNote":
			item.Abstract = value
		}
	}
	return rows.Err()
}

func (r *ZoteroReader) loadCreators(ctx context.Context, items []types.LibraryItem, index map[int64]int) error {
	rows, err := r.db.QueryContext(ctx, `SELECT ic.itemID, c.firstName, c.lastName, ct.creatorType
		FROM itemCreators ic
		JOIN creators c ON c.creatorID = ic.creatorID
		JOIN creatorTypes ct ON ct.creatorTypeID = ic.creatorTypeID
		ORDER BY ic.itemID, ic.orderIndex`)
	if err != nil {
		return fmt.Errorf("querying creators: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var first, last sql.NullString
		var role string
		if err := rows.Scan(&id, &first, &last, &role); err != nil {
			return fmt.Errorf("scanning creator: %w", err)
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		items[i].Creators = append(items[i].Creators, types.Creator{
			FirstName: first.String,
			LastName:  last.String,
			Type:      role,
		})
	}
	return rows.Err()
}

func (r *ZoteroReader) loadCollections(ctx context.Context, items []types.LibraryItem, index map[int64]int) error {
	rows, err := r.db.QueryContext(ctx, `SELECT ci.itemID, c.collectionName
		FROM collectionItems ci
		JOIN collections c ON c.collectionID = ci.collectionID
		ORDER BY ci.itemID, c.collectionName`)
	if err != nil {
		return fmt.Errorf("querying collections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scanning collection: %w", err)
		}
		if i, ok := index[id]; ok {
			items[i].Collections = append(items[i].Collections, name)
		}
	}
	return rows.Err()
}
