// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests (e.g. "citegap/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// CitationDirection selects which side of a source's citation network is fetched.
type CitationDirection string

const (
	// DirectionCitations fetches papers linked through the API's "citations" field.
	DirectionCitations CitationDirection = "citations"

	// DirectionReferences fetches the source's reference list.
	DirectionReferences CitationDirection = "references"
)

// FetchConfig holds settings for the citation fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the citation API base (default https://api.semanticscholar.org/graph/v1).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// InterRequestDelay is the pause between consecutive source lookups (default 3s).
	InterRequestDelay time.Duration `json:"inter_request_delay" yaml:"inter_request_delay" mapstructure:"inter_request_delay"`

	// MaxRetries is the number of retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RateLimit caps requests per second at the client; 0 disables the cap.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// Direction selects citations (default) or references.
	Direction CitationDirection `json:"direction" yaml:"direction" mapstructure:"direction"`
}

// ScoringConfig holds settings for the gap scoring stage.
type ScoringConfig struct {
	// MinYear drops candidates published before this year (default 2010).
	MinYear int `json:"min_year" yaml:"min_year" mapstructure:"min_year"`

	// TopN is the number of ranked gaps to keep (default 10).
	TopN int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`

	// MinMentions drops candidates mentioned fewer times (default 2).
	MinMentions int `json:"min_mentions" yaml:"min_mentions" mapstructure:"min_mentions"`

	// DistinctSources counts a candidate once per source instead of once per record.
	DistinctSources bool `json:"distinct_sources" yaml:"distinct_sources" mapstructure:"distinct_sources"`
}

// SamplingConfig holds the sampling thresholds and generator seed.
type SamplingConfig struct {
	// NoSamplingMax is the largest library analyzed in full (default 30).
	NoSamplingMax int `json:"no_sampling_max" yaml:"no_sampling_max" mapstructure:"no_sampling_max"`

	// AdvisoryMax is the largest library for which sampling is only advised (default 100).
	AdvisoryMax int `json:"advisory_max" yaml:"advisory_max" mapstructure:"advisory_max"`

	// SampleSize is the number of sources kept when sampling (default 50).
	SampleSize int `json:"sample_size" yaml:"sample_size" mapstructure:"sample_size"`

	// Seed seeds the sampling generator (default 42).
	Seed int64 `json:"seed" yaml:"seed" mapstructure:"seed"`

	// AcceptAdvisory applies advisory sampling decisions (default true).
	AcceptAdvisory bool `json:"accept_advisory" yaml:"accept_advisory" mapstructure:"accept_advisory"`
}

// NarrativeConfig holds settings for the optional AI gap narrative.
type NarrativeConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Provider is one of "anthropic", "openai", or "command".
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the provider model identifier; empty selects the provider default.
	Model string `json:"model,omitempty" yaml:"model,omitempty" mapstructure:"model"`

	// APIKey authenticates against the provider API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Command is the local command line used by the "command" provider.
	Command string `json:"command,omitempty" yaml:"command,omitempty" mapstructure:"command"`

	// MaxRetries is the number of retry attempts for failed completions (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum level (trace, debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Scoring   ScoringConfig   `json:"scoring" yaml:"scoring" mapstructure:"scoring"`
	Sampling  SamplingConfig  `json:"sampling" yaml:"sampling" mapstructure:"sampling"`
	Narrative NarrativeConfig `json:"narrative" yaml:"narrative" mapstructure:"narrative"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging" mapstructure:"logging"`
}
