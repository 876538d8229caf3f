package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_Success(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_ZeroRetriesIsSingleAttempt(t *testing.T) {
	t.Parallel()
	attempts := 0
	want := errors.New("metadata unavailable")

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return want
	}, WithMaxRetries(0))

	assert.Equal(t, 1, attempts)
	assert.Same(t, want, err, "single attempt returns the error unwrapped")
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, WithMaxRetries(5), WithInitialDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_MaxRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	persistent := errors.New("persistent error")

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return persistent
	}, WithMaxRetries(3), WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.ErrorIs(t, err, persistent)
	assert.Equal(t, 4, attempts, "1 attempt + 3 retries")
	assert.Contains(t, err.Error(), "after 4 attempts")
}

func TestDo_NegativeRetriesClamped(t *testing.T) {
	t.Parallel()
	attempts := 0

	_ = Do(context.Background(), func(context.Context) error {
		attempts++
		return errors.New("x")
	}, WithMaxRetries(-2))

	assert.Equal(t, 1, attempts)
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()
	attempts := 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func(context.Context) error {
		attempts++
		return errors.New("error")
	}, WithMaxRetries(3), WithInitialDelay(10*time.Millisecond))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestDo_FatalError(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return Fatal(errors.New("404 from metadata server"))
	}, WithMaxRetries(5), WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 1, attempts)
}

func TestDo_OnRetryHook(t *testing.T) {
	t.Parallel()
	var seen []int

	_ = Do(context.Background(), func(context.Context) error {
		return errors.New("again")
	},
		WithMaxRetries(2),
		WithInitialDelay(time.Millisecond),
		WithMultiplier(3),
		WithOnRetry(func(attempt int, _ error, _ time.Duration) {
			seen = append(seen, attempt)
		}),
	)

	assert.Equal(t, []int{1, 2}, seen)
}

func TestDo_DelayCappedAtMax(t *testing.T) {
	t.Parallel()
	var delays []time.Duration

	_ = Do(context.Background(), func(context.Context) error {
		return errors.New("again")
	},
		WithMaxRetries(4),
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(4*time.Millisecond),
		WithOnRetry(func(_ int, _ error, d time.Duration) {
			delays = append(delays, d)
		}),
	)

	assert.Equal(t, []time.Duration{
		time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond,
	}, delays)
}

func TestFatal(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, Fatal(nil))
	})

	t.Run("wraps and unwraps", func(t *testing.T) {
		t.Parallel()
		inner := errors.New("inner")
		err := Fatal(inner)
		assert.True(t, IsFatal(err))
		assert.ErrorIs(t, err, inner)
		assert.Equal(t, "inner", err.Error())
	})

	t.Run("plain error is not fatal", func(t *testing.T) {
		t.Parallel()
		assert.False(t, IsFatal(errors.New("plain")))
	})
}
