// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate merges raw citation records into unique candidates and
// counts how often each was mentioned.
package aggregate

import "github.com/pdiddy/citegap/pkg/types"

// IDSet is a set of external paper identifiers.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts ids, ignoring empty strings.
func (s IDSet) Add(ids ...string) {
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
}

// Options controls how mentions are counted.
type Options struct {
	// DistinctSources counts a candidate at most once per source.
	DistinctSources bool
}

// Aggregation is the result of merging one run's records.
type Aggregation struct {
	// Candidates are unique by PaperID, in first-seen order.
	Candidates []types.Candidate
	// OwnIdentifiers holds the API ids of the library's own papers.
	OwnIdentifiers IDSet
}

// AddOwn adds identifiers of sources that produced no records.
func (a *Aggregation) AddOwn(ids ...string) {
	if a.OwnIdentifiers == nil {
		a.OwnIdentifiers = IDSet{}
	}
	a.OwnIdentifiers.Add(ids...)
}

// Aggregate merges records by PaperID. The first record seen for a paper
// supplies its title, year and citation count. Records without a PaperID
// are dropped.
func Aggregate(records []types.CitationRecord, opts Options) Aggregation {
	agg := Aggregation{OwnIdentifiers: IDSet{}}
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)

	for _, r := range records {
		agg.OwnIdentifiers.Add(r.SourcePaperID)
		if r.PaperID == "" {
			continue
		}

		i, ok := index[r.PaperID]
		if !ok {
			i = len(agg.Candidates)
			index[r.PaperID] = i
			seen[r.PaperID] = make(map[string]bool)
			agg.Candidates = append(agg.Candidates, types.Candidate{
				PaperID:       r.PaperID,
				Title:         r.Title,
				Year:          r.Year,
				CitationCount: r.CitationCount,
			})
		}

		c := &agg.Candidates[i]
		bySource := seen[r.PaperID]
		if !bySource[r.SourceID] {
			bySource[r.SourceID] = true
			if r.SourceID != "" {
				c.CitedBy = append(c.CitedBy, r.SourceID)
			}
		} else if opts.DistinctSources {
			continue
		}
		c.MentionCount++
	}
	return agg
}
