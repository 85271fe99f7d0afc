// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationRecord is one raw edge returned by the citation API for a single
// source query: candidate PaperID is linked to the source. Several records
// may share a PaperID before aggregation.
type CitationRecord struct {
	// PaperID is the candidate's external (Semantic Scholar) identifier.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	Title string `json:"title" yaml:"title"`

	// Year is 0 when the API returned no year or a non-numeric one.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// SourceID is the local id of the source paper that produced the record.
	SourceID string `json:"source_id" yaml:"source_id"`

	// SourcePaperID is the source's own external identifier as reported by the API.
	SourcePaperID string `json:"source_paper_id,omitempty" yaml:"source_paper_id,omitempty"`
}

// Candidate is one unique cited paper after aggregation. Score fields and
// EarlyInfluential are set only by the gap scorer.
type Candidate struct {
	PaperID       string `json:"paper_id" yaml:"paper_id"`
	Title         string `json:"title" yaml:"title"`
	Year          int    `json:"year,omitempty" yaml:"year,omitempty"`
	CitationCount int    `json:"citation_count" yaml:"citation_count"`

	// MentionCount is how many times the candidate appeared across source
	// citation lists.
	MentionCount int `json:"mention_count" yaml:"mention_count"`

	// CitedBy lists the local ids of the sources that mentioned the candidate,
	// in first-mention order and without repeats.
	CitedBy []string `json:"cited_by,omitempty" yaml:"cited_by,omitempty"`

	TotalScore     float64 `json:"total_score" yaml:"total_score"`
	MentionedScore float64 `json:"mentioned_score" yaml:"mentioned_score"`
	ImpactScore    float64 `json:"impact_score" yaml:"impact_score"`
	RecencyScore   float64 `json:"recency_score" yaml:"recency_score"`

	EarlyInfluential bool `json:"early_influential" yaml:"early_influential"`
}

// FetchStats counts per-source outcomes of one fetch run.
type FetchStats struct {
	Total        int `json:"total" yaml:"total"`
	Successful   int `json:"successful" yaml:"successful"`
	NotFound     int `json:"not_found" yaml:"not_found"`
	RateLimited  int `json:"rate_limited" yaml:"rate_limited"`
	Failed       int `json:"failed" yaml:"failed"`
	NoIdentifier int `json:"no_identifier" yaml:"no_identifier"`

	// Citations is the number of raw citation records collected.
	Citations int `json:"citations" yaml:"citations"`
}

// Unsuccessful returns the number of sources that contributed nothing.
func (s FetchStats) Unsuccessful() int {
	return s.NotFound + s.RateLimited + s.Failed + s.NoIdentifier
}
