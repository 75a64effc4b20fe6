package watch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound reports that a fetch pipeline found no eligible candidate.
// It is a defined outcome, not a transient failure.
var ErrNotFound = errors.New("no matching content found")

// ErrLiveOnly refines ErrNotFound: matches exist but every one is live or
// upcoming. Callers that only care about "nothing eligible" can keep
// matching on ErrNotFound.
var ErrLiveOnly = fmt.Errorf("only live or upcoming matches: %w", ErrNotFound)

// Sleeper pauses between retry attempts. Tests inject a recording
// implementation to assert the backoff ladder without waiting.
type Sleeper func(ctx context.Context, d time.Duration)

// SleepContext waits for d or until the context finishes.
func SleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Backoff returns the wait before retrying attempt (0-based): 2^attempt seconds.
func Backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// Retry runs op up to attempts times. Failures the retryable predicate
// rejects return immediately; retryable failures sleep Backoff(attempt)
// before the next try, except after the final attempt, whose error is
// returned as-is. A nil predicate treats every error as retryable.
func Retry[T any](
	ctx context.Context,
	attempts int,
	sleep Sleeper,
	retryable func(error) bool,
	op func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	if attempts <= 0 {
		attempts = 1
	}
	if sleep == nil {
		sleep = SleepContext
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if retryable != nil && !retryable(err) {
			return zero, err
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if attempt < attempts-1 {
			sleep(ctx, Backoff(attempt))
		}
	}
	return zero, lastErr
}
