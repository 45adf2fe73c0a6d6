package jobs

import (
	"context"
	"time"
)

// Backoff returns the delay before retry number attempt.
// Delays grow linearly: base, 2*base, 3*base. Linear growth keeps the worst
// case bounded and predictable for the short transient outages retries are
// meant to ride out.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base * time.Duration(attempt)
}

// sleep waits for the duration or until the context is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
