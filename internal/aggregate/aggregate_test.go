// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citegap/pkg/types"
)

func rec(paper, source string) types.CitationRecord {
	return types.CitationRecord{PaperID: paper, Title: "T" + paper, Year: 2020, CitationCount: 1, SourceID: source, SourcePaperID: "S" + source}
}

func mentions(cands []types.Candidate) map[string]int {
	m := make(map[string]int)
	for _, c := range cands {
		m[c.PaperID] = c.MentionCount
	}
	return m
}

func TestAggregateCountsRepeats(t *testing.T) {
	agg := Aggregate([]types.CitationRecord{rec("A", "1"), rec("A", "2"), rec("B", "1")}, Options{})
	require.Len(t, agg.Candidates, 2)
	assert.Equal(t, "A", agg.Candidates[0].PaperID)
	assert.Equal(t, 2, agg.Candidates[0].MentionCount)
	assert.Equal(t, []string{"1", "2"}, agg.Candidates[0].CitedBy)
	assert.Equal(t, 1, agg.Candidates[1].MentionCount)
}

func TestAggregateFirstSeenWins(t *testing.T) {
	first := types.CitationRecord{PaperID: "A", Title: "First", Year: 2019, CitationCount: 10, SourceID: "1"}
	second := types.CitationRecord{PaperID: "A", Title: "Second", Year: 2022, CitationCount: 99, SourceID: "2"}
	agg := Aggregate([]types.CitationRecord{first, second}, Options{})
	require.Len(t, agg.Candidates, 1)
	c := agg.Candidates[0]
	assert.Equal(t, "First", c.Title)
	assert.Equal(t, 2019, c.Year)
	assert.Equal(t, 10, c.CitationCount)
	assert.Equal(t, 2, c.MentionCount)
}

func TestAggregateDropsEmptyPaperID(t *testing.T) {
	agg := Aggregate([]types.CitationRecord{{PaperID: "", SourceID: "1", SourcePaperID: "S1"}, rec("A", "1")}, Options{})
	require.Len(t, agg.Candidates, 1)
	assert.True(t, agg.OwnIdentifiers.Has("S1"))
}

func TestAggregateRepeatWithinOneSource(t *testing.T) {
	records := []types.CitationRecord{rec("A", "1"), rec("A", "1"), rec("B", "1")}

	perRecord := Aggregate(records, Options{})
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, mentions(perRecord.Candidates))

	perSource := Aggregate(records, Options{DistinctSources: true})
	assert.Equal(t, map[string]int{"A": 1, "B": 1}, mentions(perSource.Candidates))
	assert.Equal(t, []string{"1"}, perSource.Candidates[0].CitedBy)
}

func TestAggregateThreeSources(t *testing.T) {
	// Source 1 cites X, Y, Z; source 2 cites X, Y; source 3 cites X, Y, W.
	records := []types.CitationRecord{
		rec("X", "1"), rec("Y", "1"), rec("Z", "1"),
		rec("X", "2"), rec("Y", "2"),
		rec("X", "3"), rec("Y", "3"), rec("W", "3"),
	}
	agg := Aggregate(records, Options{})
	assert.Equal(t, map[string]int{"X": 3, "Y": 3, "Z": 1, "W": 1}, mentions(agg.Candidates))

	var kept int
	for _, c := range agg.Candidates {
		if c.MentionCount >= 2 {
			kept++
		}
	}
	assert.Equal(t, 2, kept)
	assert.Len(t, agg.OwnIdentifiers, 3)
}

func TestAggregateEmpty(t *testing.T) {
	agg := Aggregate(nil, Options{})
	assert.Empty(t, agg.Candidates)
	assert.NotNil(t, agg.OwnIdentifiers)
	assert.False(t, agg.OwnIdentifiers.Has("anything"))
}

func TestAddOwn(t *testing.T) {
	var agg Aggregation
	agg.AddOwn("S9", "")
	assert.True(t, agg.OwnIdentifiers.Has("S9"))
	assert.False(t, agg.OwnIdentifiers.Has(""))
}
