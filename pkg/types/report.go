// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SamplingDecision describes whether, and how, sources are subsampled
// before fetching.
type SamplingDecision struct {
	ShouldSample bool `json:"should_sample" yaml:"should_sample"`

	// Mandatory is true when the library is too large to analyze in full.
	Mandatory bool `json:"mandatory" yaml:"mandatory"`

	// SampleSize is the number of sources kept when sampling (0 otherwise).
	SampleSize int `json:"sample_size,omitempty" yaml:"sample_size,omitempty"`

	Rationale  string `json:"rationale" yaml:"rationale"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`

	EstimatedMinutes int `json:"estimated_minutes" yaml:"estimated_minutes"`
}

// ScoringOptions are the knobs of the gap scorer recorded with a report.
type ScoringOptions struct {
	MinYear     int `json:"min_year" yaml:"min_year"`
	TopN        int `json:"top_n" yaml:"top_n"`
	MinMentions int `json:"min_mentions" yaml:"min_mentions"`
}

// Report is the outcome of one analysis run, handed to report formatting.
type Report struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// Library labels the analyzed library (file path or collection name).
	Library string `json:"library,omitempty" yaml:"library,omitempty"`

	// Eligible is the number of allowlisted sources carrying an identifier.
	Eligible int `json:"eligible" yaml:"eligible"`

	// Analyzed is the number of sources sent to the fetcher after sampling.
	Analyzed int `json:"analyzed" yaml:"analyzed"`

	Sampling SamplingDecision `json:"sampling" yaml:"sampling"`
	Sampled  bool             `json:"sampled" yaml:"sampled"`
	Stats    FetchStats       `json:"stats" yaml:"stats"`
	Options  ScoringOptions   `json:"options" yaml:"options"`

	// Candidates is the number of unique candidates before filtering.
	Candidates int `json:"candidates" yaml:"candidates"`

	Gaps      []Candidate `json:"gaps" yaml:"gaps"`
	Narrative string      `json:"narrative,omitempty" yaml:"narrative,omitempty"`
}
