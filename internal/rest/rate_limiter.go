package rest

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket limiter shared by all requests going
// through a Client. Binance weights requests per endpoint; a flat
// per-request budget is a conservative approximation for a CLI client.
type RateLimiter struct {
	rate  float64 // tokens added per second
	burst int     // bucket capacity

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a token bucket limiter starting at full capacity
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		rate:   requestsPerSecond,
		burst:  burst,
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// Rate returns the configured refill rate in tokens per second
func (rl *RateLimiter) Rate() float64 {
	return rl.rate
}

// Burst returns the configured burst capacity
func (rl *RateLimiter) Burst() int {
	return rl.burst
}

// TryAcquire takes a token if one is available, without blocking
func (rl *RateLimiter) TryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	if rl.tokens >= 1.0 {
		rl.tokens -= 1.0
		return true
	}
	return false
}

// Wait blocks until a token is available or the context is done
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rl.TryAcquire() {
			return nil
		}
		if rl.rate <= 0 {
			// Empty bucket will never refill
			return context.DeadlineExceeded
		}

		interval := time.Duration(float64(time.Second) / rl.rate)

		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// refill adds tokens for the elapsed time, capped at burst.
// Must be called with the mutex held.
func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.last).Seconds()

	rl.tokens += elapsed * rl.rate
	if rl.tokens > float64(rl.burst) {
		rl.tokens = float64(rl.burst)
	}
	rl.last = now
}
