// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

// Outcome classifies what happened when one source was looked up.
type Outcome int

const (
	// OutcomeSuccess means the API returned the source and its citations.
	OutcomeSuccess Outcome = iota
	// OutcomeNotFound means the API has no paper for the identifier.
	OutcomeNotFound
	// OutcomeFailure means the lookup failed; see FailureReason.
	OutcomeFailure
	// OutcomeSkipped means the source had no identifier and no request was made.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFailure:
		return "failure"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// FailureReason refines OutcomeFailure.
type FailureReason int

const (
	// ReasonNone is set on every non-failure outcome.
	ReasonNone FailureReason = iota

	// ReasonRateLimited means the API kept answering 429 after all retries.
	ReasonRateLimited

	// ReasonOther covers server errors, transport errors and bad payloads.
	ReasonOther
)

func (r FailureReason) String() string {
	switch r {
	case ReasonRateLimited:
		return "rate_limited"
	case ReasonOther:
		return "other"
	default:
		return ""
	}
}

// SourceOutcome is the per-source result of a fetch run.
type SourceOutcome struct {
	SourceID  string
	Outcome   Outcome
	Reason    FailureReason
	Citations int
	Err       error
}
