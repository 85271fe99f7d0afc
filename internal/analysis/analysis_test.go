// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citegap/internal/fetch"
	"github.com/pdiddy/citegap/internal/s2"
	"github.com/pdiddy/citegap/pkg/types"
)

type stubClient struct {
	links map[string]s2.PaperLinks
}

func (c stubClient) PaperCitations(_ context.Context, _ types.IdentifierScheme, id string) (s2.PaperLinks, error) {
	if l, ok := c.links[id]; ok {
		return l, nil
	}
	return s2.PaperLinks{}, s2.ErrNotFound
}

func item(key, doi string) types.LibraryItem {
	return types.LibraryItem{Key: key, Type: types.ItemJournalArticle, Title: "Paper " + key, Date: "2019", DOI: doi}
}

func linked(ids ...string) []s2.LinkedPaper {
	var out []s2.LinkedPaper
	for _, id := range ids {
		out = append(out, s2.LinkedPaper{PaperID: id, Title: "Cited " + id, Year: 2023, CitationCount: 150})
	}
	return out
}

func fixedNow() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

func testConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Scoring:  types.ScoringConfig{MinYear: 2010, TopN: 10, MinMentions: 2},
		Sampling: types.SamplingConfig{NoSamplingMax: 30, AdvisoryMax: 100, SampleSize: 50, Seed: 42, AcceptAdvisory: true},
	}
}

func TestRun(t *testing.T) {
	client := stubClient{links: map[string]s2.PaperLinks{
		"10.1000/a": {PaperID: "SA", Papers: linked("X", "Y", "SB")},
		"10.1000/b": {PaperID: "SB", Papers: linked("X", "Y")},
		"10.1000/c": {PaperID: "SC", Papers: linked("X", "W")},
	}}
	items := []types.LibraryItem{
		item("A", "10.1000/a"),
		item("B", "10.1000/b"),
		item("C", "10.1000/c"),
		item("D", ""),
		{Key: "N", Type: "note", Title: "a note"},
	}

	var progress int
	deps := Deps{
		Fetcher:  fetch.New(client, 0, zerolog.Nop()),
		Logger:   zerolog.Nop(),
		Progress: func(int, int, string) { progress++ },
		Now:      fixedNow,
	}
	report, err := Run(context.Background(), items, deps, testConfig())
	require.NoError(t, err)

	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)
	assert.Equal(t, fixedNow(), report.GeneratedAt)
	assert.Equal(t, 3, report.Eligible)
	assert.Equal(t, 3, report.Analyzed)
	assert.False(t, report.Sampled)
	assert.Equal(t, 4, progress, "one callback per source including the one without identifier")
	assert.Equal(t, types.FetchStats{Total: 4, Successful: 3, NoIdentifier: 1, Citations: 7}, report.Stats)
	assert.Equal(t, 4, report.Candidates)

	require.Len(t, report.Gaps, 2)
	assert.Equal(t, "X", report.Gaps[0].PaperID)
	assert.Equal(t, 3, report.Gaps[0].MentionCount)
	assert.Equal(t, []string{"A", "B", "C"}, report.Gaps[0].CitedBy)
	assert.Equal(t, "Y", report.Gaps[1].PaperID)
}

func TestRunNoEligibleSources(t *testing.T) {
	deps := Deps{Fetcher: fetch.New(stubClient{}, 0, zerolog.Nop()), Logger: zerolog.Nop()}
	report, err := Run(context.Background(), []types.LibraryItem{item("A", "")}, deps, testConfig())
	assert.ErrorIs(t, err, fetch.ErrNoUsableData)
	assert.Equal(t, 0, report.Eligible)
}

func TestRunNoCitations(t *testing.T) {
	deps := Deps{Fetcher: fetch.New(stubClient{}, 0, zerolog.Nop()), Logger: zerolog.Nop()}
	report, err := Run(context.Background(), []types.LibraryItem{item("A", "10.1000/a")}, deps, testConfig())
	assert.ErrorIs(t, err, fetch.ErrNoUsableData)
	assert.Equal(t, 1, report.Stats.NotFound)
}

func TestRunInvalidScoring(t *testing.T) {
	cfg := testConfig()
	cfg.Scoring.TopN = -1
	deps := Deps{Fetcher: fetch.New(stubClient{}, 0, zerolog.Nop()), Logger: zerolog.Nop()}
	_, err := Run(context.Background(), []types.LibraryItem{item("A", "10.1000/a")}, deps, cfg)
	require.Error(t, err)
	assert.NotErrorIs(t, err, fetch.ErrNoUsableData)
}

func TestNewPlanSamples(t *testing.T) {
	var items []types.LibraryItem
	for i := 0; i < 120; i++ {
		items = append(items, item(fmt.Sprintf("K%03d", i), fmt.Sprintf("10.1000/%d", i)))
	}
	items = append(items, item("NOID", ""))

	p := NewPlan(items, testConfig().Sampling)
	assert.True(t, p.Decision.Mandatory)
	assert.True(t, p.Sampled)
	require.Len(t, p.Sources, 51)
	assert.Equal(t, "NOID", p.Sources[50].ID)

	again := NewPlan(items, testConfig().Sampling)
	assert.Equal(t, p.Sources, again.Sources)
}

func TestNewPlanAdvisoryDeclined(t *testing.T) {
	var items []types.LibraryItem
	for i := 0; i < 40; i++ {
		items = append(items, item(fmt.Sprintf("K%03d", i), fmt.Sprintf("10.1000/%d", i)))
	}
	cfg := testConfig().Sampling
	cfg.AcceptAdvisory = false

	p := NewPlan(items, cfg)
	assert.True(t, p.Decision.ShouldSample)
	assert.False(t, p.Decision.Mandatory)
	assert.False(t, p.Sampled)
	assert.Len(t, p.Sources, 40)
}
