// Package retry provides a bounded exponential backoff wrapper for remote calls.
package retry

import (
	"context"
	"time"
)

// Config controls how an operation is retried.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the wait before the first retry. Each further retry
	// doubles it: BaseDelay, 2*BaseDelay, 4*BaseDelay, ...
	BaseDelay time.Duration

	// OnRetry, if set, is called once per scheduled wait with the attempt
	// number that just failed, the upcoming delay, and the error.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Do runs op until it succeeds, fails with a non-retryable error, or exhausts
// cfg.MaxAttempts. retryable decides whether an error is worth another attempt;
// a nil retryable retries every error. The wait between attempts honors ctx:
// cancellation aborts the wait and returns ctx.Err().
func Do[T any](ctx context.Context, cfg Config, retryable func(error) bool, op func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if retryable != nil && !retryable(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		delay := cfg.BaseDelay * time.Duration(1<<(attempt-1))
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
