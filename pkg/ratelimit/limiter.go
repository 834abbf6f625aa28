package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outgoing API requests
type Limiter interface {
	// Wait blocks until a request may proceed or ctx is done
	Wait(ctx context.Context) error
}

// PerMinute spreads a per-minute request budget evenly over the minute
type PerMinute struct {
	limiter *rate.Limiter
}

// NewPerMinute creates a limiter allowing requestsPerMinute requests with the given burst
func NewPerMinute(requestsPerMinute, burst int) *PerMinute {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = 1
	}
	interval := time.Minute / time.Duration(requestsPerMinute)
	return &PerMinute{limiter: rate.NewLimiter(rate.Every(interval), burst)}
}

// Wait blocks until the next request fits the budget. It fails at once when
// ctx would expire before then.
func (p *PerMinute) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Unlimited never blocks. NewClient falls back to it when given no limiter.
type Unlimited struct{}

// Wait returns immediately unless ctx is already done
func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }
