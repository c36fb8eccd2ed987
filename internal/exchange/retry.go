package exchange

import (
	"context"
	"time"
)

// withRetry runs fn up to attempts times, sleeping delay between failed
// attempts. Returns nil on the first success, the last error otherwise.
// Context cancellation cuts the wait short.
func withRetry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return lastErr
}
