// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package s2

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates the API has no paper for the identifier.
	ErrNotFound = errors.New("paper not found in Semantic Scholar")

	// ErrRateLimited indicates HTTP 429 persisted after all retries.
	ErrRateLimited = errors.New("Semantic Scholar rate limit exceeded")
)

// APIError is a non-2xx response other than 404 and 429.
type APIError struct {
	StatusCode int
	Message    string
	PaperID    string
}

func (e *APIError) Error() string {
	if e.PaperID != "" {
		return fmt.Sprintf("Semantic Scholar API returned HTTP %d: %s (paper: %s)", e.StatusCode, e.Message, e.PaperID)
	}
	return fmt.Sprintf("Semantic Scholar API returned HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err means the paper does not exist.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited reports whether err means the request was throttled.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
