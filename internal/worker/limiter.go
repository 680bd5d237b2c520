package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces outbound LLM API requests during batch runs with a single
// token bucket. The engine itself is never rate limited.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a new rate limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until a request is allowed or the context is cancelled
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow checks if a request is allowed without waiting
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
