// Package retry provides a generic retry-with-backoff combinator.
//
// Callers describe what is retryable through a Policy value instead of
// catching provider-specific error types at every call site.
package retry

import (
	"context"
	"time"
)

// Decision tells the combinator whether an error is worth another attempt
// and, when the upstream supplied one, how long to wait before it.
type Decision struct {
	Retry bool
	// DelayHint overrides the backoff schedule for the next wait when > 0
	// (e.g. a Retry-After header value).
	DelayHint time.Duration
}

// Policy describes a bounded exponential backoff schedule.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration
	// MaxDelay caps the doubling schedule.
	MaxDelay time.Duration
	// Classify decides whether an error is transient. Nil means never retry.
	Classify func(err error) Decision
	// Sleep is swappable for tests. Nil means a context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy matches the generation retry schedule: three attempts,
// 1s initial delay doubling up to a 10s cap.
func DefaultPolicy(classify func(err error) Decision) Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Classify:     classify,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs fn until it succeeds, the policy's attempts are exhausted, or a
// non-retryable error occurs. The last error is returned unwrapped so callers
// can still classify it.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	sleep := policy.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	delay := policy.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if policy.Classify == nil {
			return lastErr
		}
		decision := policy.Classify(lastErr)
		if !decision.Retry {
			return lastErr
		}
		if attempt == policy.MaxAttempts {
			return lastErr
		}

		wait := delay
		if decision.DelayHint > 0 {
			wait = decision.DelayHint
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}

		delay = wait * 2
		if delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}

	return lastErr
}
