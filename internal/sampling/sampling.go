// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sampling decides whether a library is small enough to analyze in
// full and, when it is not, draws a reproducible subsample of sources.
package sampling

import (
	"fmt"
	"math"

	"github.com/pdiddy/citegap/pkg/types"
)

// Default thresholds and seed.
const (
	DefaultNoSamplingMax = 30
	DefaultAdvisoryMax   = 100
	DefaultSampleSize    = 50
	DefaultSeed          = 42

	// secondsPerSource is the per-source time used for full-library estimates.
	secondsPerSource = 1.5

	// sampledMinutes is the fixed estimate for a sampled run.
	sampledMinutes = 2
)

// DefaultConfig returns the built-in thresholds.
func DefaultConfig() types.SamplingConfig {
	return types.SamplingConfig{
		NoSamplingMax:  DefaultNoSamplingMax,
		AdvisoryMax:    DefaultAdvisoryMax,
		SampleSize:     DefaultSampleSize,
		Seed:           DefaultSeed,
		AcceptAdvisory: true,
	}
}

// Strategist applies the sampling thresholds.
type Strategist struct {
	cfg types.SamplingConfig
}

// NewStrategist returns a Strategist for cfg. Zero thresholds fall back to
// the defaults.
func NewStrategist(cfg types.SamplingConfig) Strategist {
	if cfg.NoSamplingMax <= 0 {
		cfg.NoSamplingMax = DefaultNoSamplingMax
	}
	if cfg.AdvisoryMax <= 0 {
		cfg.AdvisoryMax = DefaultAdvisoryMax
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = DefaultSampleSize
	}
	return Strategist{cfg: cfg}
}

// Decide classifies a library of eligibleCount sources.
func (s Strategist) Decide(eligibleCount int) types.SamplingDecision {
	if eligibleCount < 0 {
		eligibleCount = 0
	}

	switch {
	case eligibleCount <= s.cfg.NoSamplingMax:
		minutes := int(math.Ceil(float64(eligibleCount) * secondsPerSource / 60))
		if minutes < 1 {
			minutes = 1
		}
		return types.SamplingDecision{
			Rationale:        fmt.Sprintf("%d sources is small enough to analyze in full", eligibleCount),
			EstimatedMinutes: minutes,
		}
	case eligibleCount <= s.cfg.AdvisoryMax:
		return types.SamplingDecision{
			ShouldSample:     true,
			SampleSize:       s.cfg.SampleSize,
			Rationale:        fmt.Sprintf("%d sources: sampling %d is recommended to stay within the API budget", eligibleCount, s.cfg.SampleSize),
			EstimatedMinutes: sampledMinutes,
		}
	default:
		return types.SamplingDecision{
			ShouldSample:     true,
			Mandatory:        true,
			SampleSize:       s.cfg.SampleSize,
			Rationale:        fmt.Sprintf("%d sources exceeds %d: sampling %d is required", eligibleCount, s.cfg.AdvisoryMax, s.cfg.SampleSize),
			Suggestion:       fmt.Sprintf("split the library into collections of at most %d items for a full analysis", s.cfg.AdvisoryMax),
			EstimatedMinutes: sampledMinutes,
		}
	}
}

// Apply reports whether a decision should be acted on: mandatory
// decisions always apply, advisory ones only when accepted.
func Apply(d types.SamplingDecision, acceptAdvisory bool) bool {
	if !d.ShouldSample {
		return false
	}
	return d.Mandatory || acceptAdvisory
}
