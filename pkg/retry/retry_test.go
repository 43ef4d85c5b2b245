package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")
var errFatal = errors.New("fatal")

func classify(err error) Decision {
	if errors.Is(err, errTransient) {
		return Decision{Retry: true}
	}
	return Decision{}
}

func fakeSleep(waits *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
}

func TestDoBackoffSchedule(t *testing.T) {
	var waits []time.Duration
	policy := DefaultPolicy(classify)
	policy.Sleep = fakeSleep(&waits)

	attempts := 0
	err := Do(context.Background(), policy, func(ctx context.Context) error {
		attempts++
		return errTransient
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	// 1s before the second attempt, 2s before the third, then give up.
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, waits)
}

func TestDoDelayHintOverridesSchedule(t *testing.T) {
	var waits []time.Duration
	policy := DefaultPolicy(func(err error) Decision {
		return Decision{Retry: true, DelayHint: 3 * time.Second}
	})
	policy.Sleep = fakeSleep(&waits)

	err := Do(context.Background(), policy, func(ctx context.Context) error {
		return errTransient
	})

	require.Error(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second}, waits)
}

func TestDoDelayCappedAtMax(t *testing.T) {
	var waits []time.Duration
	policy := Policy{
		MaxAttempts:  5,
		InitialDelay: 4 * time.Second,
		MaxDelay:     10 * time.Second,
		Classify:     classify,
		Sleep:        fakeSleep(&waits),
	}

	err := Do(context.Background(), policy, func(ctx context.Context) error {
		return errTransient
	})

	require.Error(t, err)
	assert.Equal(t, []time.Duration{4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second}, waits)
}

func TestDoNonRetryableFailsImmediately(t *testing.T) {
	var waits []time.Duration
	policy := DefaultPolicy(classify)
	policy.Sleep = fakeSleep(&waits)

	attempts := 0
	err := Do(context.Background(), policy, func(ctx context.Context) error {
		attempts++
		return errFatal
	})

	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, waits)
}

func TestDoSuccessAfterRetry(t *testing.T) {
	var waits []time.Duration
	policy := DefaultPolicy(classify)
	policy.Sleep = fakeSleep(&waits)

	attempts := 0
	err := Do(context.Background(), policy, func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return errTransient
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []time.Duration{1 * time.Second}, waits)
}

func TestDoContextCancelledDuringSleep(t *testing.T) {
	policy := DefaultPolicy(classify)
	policy.Sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	err := Do(context.Background(), policy, func(ctx context.Context) error {
		return errTransient
	})

	assert.ErrorIs(t, err, context.Canceled)
}
