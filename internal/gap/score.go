// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gap ranks aggregated candidates as citation gaps: papers the
// library's sources keep citing that the library does not contain.
package gap

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pdiddy/citegap/pkg/types"
)

// Default scoring options.
const (
	DefaultMinYear     = 2010
	DefaultTopN        = 10
	DefaultMinMentions = 2
)

const (
	mentionWeight = 10.0
	impactDivisor = 100.0
	impactCap     = 5.0
	recentAge     = 3
	fairlyNewAge  = 5
	decadeAge     = 10
)

// IDLookup reports whether an identifier belongs to the library.
type IDLookup interface {
	Has(id string) bool
}

// Options configures Score.
type Options struct {
	MinYear     int
	TopN        int
	MinMentions int
	// CurrentYear anchors recency; 0 means the current calendar year.
	CurrentYear int
}

// DefaultOptions returns the built-in scoring options.
func DefaultOptions() Options {
	return Options{MinYear: DefaultMinYear, TopN: DefaultTopN, MinMentions: DefaultMinMentions}
}

// OptionsFromConfig converts the scoring configuration.
func OptionsFromConfig(cfg types.ScoringConfig) Options {
	return Options{MinYear: cfg.MinYear, TopN: cfg.TopN, MinMentions: cfg.MinMentions}
}

// Validate rejects options that cannot produce a ranking.
func (o Options) Validate() error {
	var errs []error
	if o.TopN <= 0 {
		errs = append(errs, fmt.Errorf("top_n must be positive, got %d", o.TopN))
	}
	if o.MinMentions < 0 {
		errs = append(errs, fmt.Errorf("min_mentions must not be negative, got %d", o.MinMentions))
	}
	return errors.Join(errs...)
}

// Funnel counts candidates remaining after each filter stage.
type Funnel struct {
	Input        int
	NotOwned     int
	RecentEnough int
	Mentioned    int
	Returned     int
}

// Score filters, scores, sorts and truncates candidates. It does not
// modify its input.
func Score(candidates []types.Candidate, own IDLookup, opts Options) []types.Candidate {
	out, _ := ScoreWithFunnel(candidates, own, opts)
	return out
}

// ScoreWithFunnel is Score plus the per-stage counts.
func ScoreWithFunnel(candidates []types.Candidate, own IDLookup, opts Options) ([]types.Candidate, Funnel) {
	f := Funnel{Input: len(candidates)}
	currentYear := opts.CurrentYear
	if currentYear == 0 {
		currentYear = time.Now().Year()
	}

	var kept []types.Candidate
	for _, c := range candidates {
		if own != nil && own.Has(c.PaperID) {
			continue
		}
		f.NotOwned++
		if c.Year == 0 || c.Year < opts.MinYear {
			continue
		}
		f.RecentEnough++
		if c.MentionCount < opts.MinMentions {
			continue
		}
		f.Mentioned++

		c.CitedBy = append([]string(nil), c.CitedBy...)
		c.MentionedScore = float64(c.MentionCount) * mentionWeight
		c.ImpactScore = math.Min(float64(c.CitationCount)/impactDivisor, impactCap)
		c.RecencyScore = recency(currentYear - c.Year)
		c.TotalScore = c.MentionedScore + c.ImpactScore + c.RecencyScore
		c.EarlyInfluential = false
		kept = append(kept, c)
	}

	if len(kept) == 0 {
		return []types.Candidate{}, f
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].TotalScore != kept[j].TotalScore {
			return kept[i].TotalScore > kept[j].TotalScore
		}
		return kept[i].PaperID < kept[j].PaperID
	})

	MarkInfluential(kept, opts.TopN)

	if opts.TopN > 0 && len(kept) > opts.TopN {
		kept = kept[:opts.TopN]
	}
	f.Returned = len(kept)
	return kept, f
}

func recency(age int) float64 {
	switch {
	case age <= recentAge:
		return 3
	case age <= fairlyNewAge:
		return 2
	case age <= decadeAge:
		return 1
	default:
		return 0
	}
}
