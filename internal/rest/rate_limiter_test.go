package rest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter(t *testing.T) {
	t.Run("starts with a full bucket", func(t *testing.T) {
		limiter := NewRateLimiter(10, 5)

		assert.Equal(t, 10.0, limiter.Rate())
		assert.Equal(t, 5, limiter.Burst())
	})
}

func TestRateLimiter_TryAcquire(t *testing.T) {
	t.Run("allows burst requests immediately", func(t *testing.T) {
		limiter := NewRateLimiter(10, 5)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.TryAcquire(), "burst request %d should be allowed", i+1)
		}
	})

	t.Run("blocks after burst is exhausted", func(t *testing.T) {
		limiter := NewRateLimiter(10, 3)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.TryAcquire())
		}
		assert.False(t, limiter.TryAcquire())
	})

	t.Run("refills over time", func(t *testing.T) {
		limiter := NewRateLimiter(100, 1)

		assert.True(t, limiter.TryAcquire())
		assert.False(t, limiter.TryAcquire())

		time.Sleep(20 * time.Millisecond) // 100/s refills within ~10ms
		assert.True(t, limiter.TryAcquire())
	})
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("returns immediately when a token is available", func(t *testing.T) {
		limiter := NewRateLimiter(10, 1)

		start := time.Now()
		err := limiter.Wait(context.Background())

		assert.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("blocks until a token refills", func(t *testing.T) {
		limiter := NewRateLimiter(50, 1)
		assert.True(t, limiter.TryAcquire())

		start := time.Now()
		err := limiter.Wait(context.Background())

		assert.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		limiter := NewRateLimiter(0.001, 1)
		assert.True(t, limiter.TryAcquire())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := limiter.Wait(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("fails fast with zero rate and empty bucket", func(t *testing.T) {
		limiter := NewRateLimiter(0, 1)
		assert.True(t, limiter.TryAcquire())

		err := limiter.Wait(context.Background())
		assert.Error(t, err)
	})
}
