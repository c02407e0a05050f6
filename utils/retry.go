package utils

import (
	"context"
	"fmt"
	"math"
	"time"

	"mealplanner/utils/apperr"
)

// RetryConfig controls Retry. MaxAttempts counts every invocation of the
// operation, the first one included.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// MaxDelay caps a single wait; zero means uncapped.
	MaxDelay time.Duration
	// Sleep waits between attempts; nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry runs after a failed attempt that will be retried.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultRetryConfig returns three attempts starting at 200ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Backoff returns the wait before attempt (zero-based, attempt >= 1):
// BaseDelay * 2^(attempt-1), capped at MaxDelay.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	if attempt < 1 || c.BaseDelay <= 0 {
		return 0
	}
	d := c.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if c.MaxDelay > 0 && d >= c.MaxDelay {
			return c.MaxDelay
		}
		if d <= 0 { // overflow
			if c.MaxDelay > 0 {
				return c.MaxDelay
			}
			return time.Duration(math.MaxInt64)
		}
	}
	if c.MaxDelay > 0 && d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}

// Retry runs op until it succeeds, returns a non-retryable error, or
// MaxAttempts is reached. Attempts are sequential; ctx is only consulted
// while waiting between them.
func Retry[T any](ctx context.Context, cfg RetryConfig, op func() (T, error)) (T, error) {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			d := cfg.Backoff(attempt)
			if cfg.OnRetry != nil {
				cfg.OnRetry(attempt, d, lastErr)
			}
			if err := sleep(ctx, d); err != nil {
				return zero, fmt.Errorf("retry aborted after %d attempt(s): %w (last error: %w)", attempt, err, lastErr)
			}
		}

		v, err := op()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !apperr.Retryable(err) {
			return zero, err
		}
	}
	return zero, fmt.Errorf("giving up after %d attempt(s): %w", attempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
