// Package ratelimit throttles requests to a record endpoint.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter bounds the request rate to one endpoint. It is shared by every
// concurrent fetch against that endpoint.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing perSecond requests per second with the
// given burst. A non-positive perSecond means unlimited.
func New(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}

	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Limiter{limiter: rate.NewLimiter(limit, burst)}
}

// Unlimited returns a limiter that never blocks.
func Unlimited() *Limiter {
	return New(0, 1)
}

// Wait blocks until the limiter permits a request.
// It returns an error if the context is canceled before the request can proceed
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return ctx.Err()
	}
	return l.limiter.Wait(ctx)
}

// Allow reports whether a request may happen now
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.limiter.Allow()
}
