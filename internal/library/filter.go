// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library selects citation seeds from a reference-manager library
// snapshot. It reads snapshots from YAML/JSON files or a Zotero SQLite
// database, keeps allowlisted academic item types, and converts items into
// SourcePapers split by whether they carry an external identifier.
package library

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/citegap/pkg/types"
)

const (
	maxAbstractRunes = 500
	maxAuthors       = 3
)

// AllowedTypes is the academic item type allowlist.
var AllowedTypes = map[types.ItemType]bool{
	types.ItemJournalArticle:  true,
	types.ItemConferencePaper: true,
	types.ItemPreprint:        true,
	types.ItemBook:            true,
	types.ItemBookSection:     true,
	types.ItemThesis:          true,
	types.ItemReport:          true,
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// Partition splits allowlisted sources by identifier availability.
type Partition struct {
	WithIdentifier    []types.SourcePaper
	WithoutIdentifier []types.SourcePaper
}

// Total returns the number of allowlisted sources.
func (p Partition) Total() int {
	return len(p.WithIdentifier) + len(p.WithoutIdentifier)
}

// Filter returns the items whose type is allowlisted, in input order.
func Filter(items []types.LibraryItem) []types.LibraryItem {
	var out []types.LibraryItem
	for _, item := range items {
		if AllowedTypes[item.Type] {
			out = append(out, item)
		}
	}
	return out
}

// PartitionItems filters items and converts the survivors to SourcePapers.
func PartitionItems(items []types.LibraryItem) Partition {
	var p Partition
	for _, item := range Filter(items) {
		src := NewSourcePaper(item)
		if src.HasIdentifier() {
			p.WithIdentifier = append(p.WithIdentifier, src)
		} else {
			p.WithoutIdentifier = append(p.WithoutIdentifier, src)
		}
	}
	return p
}

// NewSourcePaper builds the immutable source view of a library item.
func NewSourcePaper(item types.LibraryItem) types.SourcePaper {
	id, scheme := ExtractIdentifier(item)
	return types.SourcePaper{
		ID:         item.Key,
		Identifier: id,
		Scheme:     scheme,
		Title:      strings.TrimSpace(item.Title),
		Year:       ParseYear(item.Date),
		Abstract:   truncateRunes(strings.TrimSpace(item.Abstract), maxAbstractRunes),
		Authors:    surnames(item.Creators),
	}
}

// ParseYear returns the first four-digit year in a date string, or 0.
func ParseYear(date string) int {
	m := yearPattern.FindStringSubmatch(date)
	if m == nil {
		return 0
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return y
}

// surnames returns up to maxAuthors author last names. Non-author creators
// are skipped when a role is set.
func surnames(creators []types.Creator) []string {
	var out []string
	for _, c := range creators {
		if c.Type != "" && c.Type != "author" {
			continue
		}
		name := strings.TrimSpace(c.LastName)
		if name == "" {
			continue
		}
		out = append(out, name)
		if len(out) == maxAuthors {
			break
		}
	}
	return out
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
