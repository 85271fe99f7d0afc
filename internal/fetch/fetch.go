// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves the citation lists of source papers one at a
// time, in input order, pacing requests to stay within the citation API's
// rate limits. Per-source failures are recorded and never abort the run.
package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/citegap/internal/s2"
	"github.com/pdiddy/citegap/pkg/types"
)

// DefaultInterRequestDelay is the pause between consecutive requests.
const DefaultInterRequestDelay = 3 * time.Second

// ErrNoUsableData is returned when a run collected no citations at all.
var ErrNoUsableData = errors.New("no citation data collected from any source")

// PaperClient looks up the linked papers of one source.
type PaperClient interface {
	PaperCitations(ctx context.Context, scheme types.IdentifierScheme, id string) (s2.PaperLinks, error)
}

// ProgressFunc is called once per source, after it is processed, with a
// 1-based index.
type ProgressFunc func(index, total int, title string)

// wait pauses for d or until ctx is done. Tests replace it.
var wait = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Result holds everything collected by one run.
type Result struct {
	Citations []types.CitationRecord
	// OwnIdentifiers are the API ids of every source found, including
	// sources with no citations.
	OwnIdentifiers []string
	Outcomes       []SourceOutcome
	Stats          types.FetchStats
}

// Fetcher runs the serialized fetch loop.
type Fetcher struct {
	client PaperClient
	delay  time.Duration
	logger zerolog.Logger
}

// New returns a Fetcher using client. A negative delay is treated as zero.
func New(client PaperClient, delay time.Duration, logger zerolog.Logger) *Fetcher {
	if delay < 0 {
		delay = 0
	}
	return &Fetcher{client: client, delay: delay, logger: logger}
}

// Fetch looks up every source in order. Sources without an identifier are
// skipped without a request or delay. onProgress may be nil.
//
// If ctx is cancelled the partial Result is returned with ctx.Err(). If the
// run completes without any citation, the Result is returned with
// ErrNoUsableData.
func (f *Fetcher) Fetch(ctx context.Context, sources []types.SourcePaper, onProgress ProgressFunc) (Result, error) {
	var res Result
	res.Stats.Total = len(sources)

	issued := false
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		log := f.logger.With().Str("source", src.ID).Logger()

		if !src.HasIdentifier() {
			res.Stats.NoIdentifier++
			res.Outcomes = append(res.Outcomes, SourceOutcome{SourceID: src.ID, Outcome: OutcomeSkipped})
			log.Debug().Str("outcome", OutcomeSkipped.String()).Msg("no identifier")
			progress(onProgress, i+1, len(sources), src.Title)
			continue
		}

		if issued {
			if err := wait(ctx, f.delay); err != nil {
				return res, err
			}
		}
		issued = true

		links, err := f.client.PaperCitations(ctx, src.Scheme, src.Identifier)
		if err != nil && ctx.Err() != nil {
			return res, ctx.Err()
		}

		out := SourceOutcome{SourceID: src.ID, Err: err}
		switch {
		case err == nil:
			out.Outcome = OutcomeSuccess
			out.Citations = len(links.Papers)
			res.Stats.Successful++
			if links.PaperID != "" {
				res.OwnIdentifiers = append(res.OwnIdentifiers, links.PaperID)
			}
			for _, p := range links.Papers {
				res.Citations = append(res.Citations, types.CitationRecord{
					PaperID:       p.PaperID,
					Title:         p.Title,
					Year:          p.Year,
					CitationCount: p.CitationCount,
					SourceID:      src.ID,
					SourcePaperID: links.PaperID,
				})
			}
			res.Stats.Citations = len(res.Citations)
		case s2.IsNotFound(err):
			out.Outcome = OutcomeNotFound
			res.Stats.NotFound++
		case s2.IsRateLimited(err):
			out.Outcome = OutcomeFailure
			out.Reason = ReasonRateLimited
			res.Stats.RateLimited++
		default:
			out.Outcome = OutcomeFailure
			out.Reason = ReasonOther
			res.Stats.Failed++
		}
		res.Outcomes = append(res.Outcomes, out)

		ev := log.Debug()
		if out.Outcome != OutcomeSuccess {
			ev = log.Warn().Err(err)
		}
		ev.Str("identifier", string(src.Scheme)+":"+src.Identifier).
			Str("outcome", out.Outcome.String()).
			Int("citations", out.Citations)
		if out.Reason != ReasonNone {
			ev = ev.Str("reason", out.Reason.String())
		}
		ev.Msg("source fetched")

		progress(onProgress, i+1, len(sources), src.Title)
	}

	if len(res.Citations) == 0 {
		return res, ErrNoUsableData
	}
	return res, nil
}

func progress(fn ProgressFunc, index, total int, title string) {
	if fn != nil {
		fn(index, total, title)
	}
}
