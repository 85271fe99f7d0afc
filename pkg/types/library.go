// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citegap pipeline:
// library items and source papers (inbound), citation records and
// candidates (fetch and aggregation), and the run report (outbound).
package types

// ItemType is the reference manager's item type tag (e.g. "journalArticle").
type ItemType string

const (
	ItemJournalArticle  ItemType = "journalArticle"
	ItemConferencePaper ItemType = "conferencePaper"
	ItemPreprint        ItemType = "preprint"
	ItemBook            ItemType = "book"
	ItemBookSection     ItemType = "bookSection"
	ItemThesis          ItemType = "thesis"
	ItemReport          ItemType = "report"
)

// Creator is one author or editor entry on a library item.
type Creator struct {
	FirstName string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName  string `json:"last_name" yaml:"last_name"`

	// Type is the creator role (e.g. "author", "editor").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// LibraryItem is one entry of the host reference manager's library snapshot.
// The pipeline reads items and never mutates them.
type LibraryItem struct {
	// Key is the stable local identifier of the item.
	Key string `json:"key" yaml:"key"`

	Type  ItemType `json:"type" yaml:"type"`
	Title string   `json:"title" yaml:"title"`

	// Date is the year-or-date string as entered in the library (e.g. "2019", "March 2019", "2019-03-04").
	Date string `json:"date,omitempty" yaml:"date,omitempty"`

	DOI      string    `json:"doi,omitempty" yaml:"doi,omitempty"`
	Extra    string    `json:"extra,omitempty" yaml:"extra,omitempty"`
	URL      string    `json:"url,omitempty" yaml:"url,omitempty"`
	Abstract string    `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Creators []Creator `json:"creators,omitempty" yaml:"creators,omitempty"`

	// Collections lists the names of the collections containing the item.
	Collections []string `json:"collections,omitempty" yaml:"collections,omitempty"`
}

// IdentifierScheme is the external identifier namespace understood by the
// citation API.
type IdentifierScheme string

const (
	SchemeDOI   IdentifierScheme = "DOI"
	SchemeArxiv IdentifierScheme = "ARXIV"
)

// SourcePaper is a paper from the user's library used as a citation seed.
// It is built once per run from a LibraryItem and is immutable afterward.
type SourcePaper struct {
	// ID is the stable local id (the library item key).
	ID string `json:"id" yaml:"id"`

	// Identifier is the external identifier; empty when the item has none.
	Identifier string           `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Scheme     IdentifierScheme `json:"scheme,omitempty" yaml:"scheme,omitempty"`

	Title string `json:"title" yaml:"title"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Abstract is truncated to a short prefix.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Authors holds at most three author surnames.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`
}

// HasIdentifier reports whether the source can be looked up externally.
func (p SourcePaper) HasIdentifier() bool {
	return p.Identifier != ""
}
