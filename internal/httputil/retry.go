// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the API clients.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Policy controls retries on HTTP 429 (Too Many Requests).
type Policy struct {
	// MaxRetries is the number of retries after the first attempt. Zero
	// disables retrying.
	MaxRetries int

	// Backoff returns the wait before retry attempt n (1-based).
	Backoff func(attempt int) time.Duration
}

// LinearDoubling returns a backoff of base × 2 × attempt: with a 3 s base
// the waits are 6 s, 12 s, 18 s.
func LinearDoubling(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return base * 2 * time.Duration(attempt)
	}
}

// Exponential returns a backoff of base × 2^(attempt-1).
func Exponential(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return base << (attempt - 1)
	}
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 following
// policy. On each 429 the response body is drained and closed before
// waiting. If the context is cancelled during a wait the function returns
// ctx.Err(). After exhausting retries the last 429 response is returned so
// the caller can classify it. Transport errors are returned immediately.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, policy Policy) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= policy.MaxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		var wait time.Duration
		if policy.Backoff != nil {
			wait = policy.Backoff(attempt + 1)
		}
		if wait <= 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
