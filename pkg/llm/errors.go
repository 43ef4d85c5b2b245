package llm

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError is returned when the provider answers with HTTP 429.
// RetryAfter carries the provider's Retry-After hint (zero when absent).
type RateLimitError struct {
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm rate limited (retry after %s)", e.RetryAfter)
	}
	return "llm rate limited"
}

// TimeoutError is returned when the request to the provider timed out.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("llm request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ProviderError covers every other provider fault (bad request, auth,
// malformed response). These are never retried.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm provider error (status %d): %s", e.StatusCode, e.Body)
}

// IsRateLimit reports whether err is (or wraps) a RateLimitError.
func IsRateLimit(err error) bool {
	var target *RateLimitError
	return errors.As(err, &target)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}

// RetryAfterHint extracts the Retry-After duration from a rate-limit error,
// or zero when none was supplied.
func RetryAfterHint(err error) time.Duration {
	var target *RateLimitError
	if errors.As(err, &target) {
		return target.RetryAfter
	}
	return 0
}
