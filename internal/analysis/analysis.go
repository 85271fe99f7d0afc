// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis runs one citation-gap analysis end to end: filter the
// library, decide on sampling, fetch citations, aggregate and score.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/citegap/internal/aggregate"
	"github.com/pdiddy/citegap/internal/fetch"
	"github.com/pdiddy/citegap/internal/gap"
	"github.com/pdiddy/citegap/internal/library"
	"github.com/pdiddy/citegap/internal/sampling"
	"github.com/pdiddy/citegap/pkg/types"
)

// CitationFetcher runs the fetch stage.
type CitationFetcher interface {
	Fetch(ctx context.Context, sources []types.SourcePaper, onProgress fetch.ProgressFunc) (fetch.Result, error)
}

// Deps are the collaborators of a run.
type Deps struct {
	Fetcher  CitationFetcher
	Logger   zerolog.Logger
	Progress fetch.ProgressFunc

	// Now defaults to time.Now.
	Now func() time.Time
}

// Plan is the pre-fetch view of a library: what would be analyzed.
type Plan struct {
	Partition library.Partition
	Decision  types.SamplingDecision
	Sampled   bool
	// Sources are the sources the fetcher will see, sampled sources with
	// identifiers first.
	Sources []types.SourcePaper
}

// NewPlan filters items and applies the sampling decision.
func NewPlan(items []types.LibraryItem, cfg types.SamplingConfig) Plan {
	part := library.PartitionItems(items)
	decision := sampling.NewStrategist(cfg).Decide(len(part.WithIdentifier))

	p := Plan{Partition: part, Decision: decision}
	eligible := part.WithIdentifier
	if sampling.Apply(decision, cfg.AcceptAdvisory) {
		eligible = sampling.Sample(part.WithIdentifier, decision.SampleSize, cfg.Seed)
		p.Sampled = true
	}
	p.Sources = append(append([]types.SourcePaper(nil), eligible...), part.WithoutIdentifier...)
	return p
}

// Run analyzes items and returns the report. fetch.ErrNoUsableData is
// returned when no source has an identifier or no citation was collected.
// On cancellation the error is ctx.Err().
func Run(ctx context.Context, items []types.LibraryItem, deps Deps, cfg types.PipelineConfig) (types.Report, error) {
	opts := gap.OptionsFromConfig(cfg.Scoring)
	if err := opts.Validate(); err != nil {
		return types.Report{}, fmt.Errorf("scoring options: %w", err)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	runID := uuid.NewString()
	log := deps.Logger.With().Str("run_id", runID).Logger()

	plan := NewPlan(items, cfg.Sampling)
	report := types.Report{
		RunID:       runID,
		GeneratedAt: now().UTC(),
		Eligible:    len(plan.Partition.WithIdentifier),
		Sampling:    plan.Decision,
		Sampled:     plan.Sampled,
		Options: types.ScoringOptions{
			MinYear:     opts.MinYear,
			TopN:        opts.TopN,
			MinMentions: opts.MinMentions,
		},
		Gaps: []types.Candidate{},
	}

	log.Info().
		Int("items", len(items)).
		Int("eligible", report.Eligible).
		Int("without_identifier", len(plan.Partition.WithoutIdentifier)).
		Bool("sampled", plan.Sampled).
		Msg("library filtered")

	if report.Eligible == 0 {
		return report, fetch.ErrNoUsableData
	}
	report.Analyzed = len(plan.Sources) - len(plan.Partition.WithoutIdentifier)

	res, err := deps.Fetcher.Fetch(ctx, plan.Sources, deps.Progress)
	report.Stats = res.Stats
	if err != nil {
		return report, err
	}

	agg := aggregate.Aggregate(res.Citations, aggregate.Options{DistinctSources: cfg.Scoring.DistinctSources})
	agg.AddOwn(res.OwnIdentifiers...)
	report.Candidates = len(agg.Candidates)

	opts.CurrentYear = now().Year()
	gaps, funnel := gap.ScoreWithFunnel(agg.Candidates, agg.OwnIdentifiers, opts)
	report.Gaps = gaps

	log.Debug().
		Int("input", funnel.Input).
		Int("not_owned", funnel.NotOwned).
		Int("recent_enough", funnel.RecentEnough).
		Int("mentioned", funnel.Mentioned).
		Int("returned", funnel.Returned).
		Msg("candidates scored")
	log.Info().
		Int("citations", res.Stats.Citations).
		Int("candidates", report.Candidates).
		Int("gaps", len(gaps)).
		Msg("analysis complete")

	return report, nil
}
