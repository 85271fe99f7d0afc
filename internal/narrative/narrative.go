// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package narrative

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/citegap/internal/httputil"
	"github.com/pdiddy/citegap/pkg/types"
)

// ErrNoGaps is returned by Generate when the report has nothing to
// describe.
var ErrNoGaps = errors.New("report has no gaps to describe")

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// Generate builds the prompt for r and asks c for a narrative, retrying
// failed calls up to maxRetries times with exponential backoff.
func Generate(ctx context.Context, c Completer, r types.Report, maxRetries int) (string, error) {
	if len(r.Gaps) == 0 {
		return "", ErrNoGaps
	}
	prompt := BuildPrompt(r)

	backoff := httputil.Exponential(backoffBase)
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}

		text, err := c.Complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
