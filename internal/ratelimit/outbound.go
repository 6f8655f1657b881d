package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// OutboundLimiter holds one golang.org/x/time/rate token bucket per
// platform API method, so a slow method (e.g. sendFile) never starves a
// fast one (e.g. sendText) of its own budget (spec §4.6 "per-method").
type OutboundLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	defaultRate rate.Limit
	defaultBurst int
}

// NewOutboundLimiter builds a limiter that lazily creates a token bucket
// per method the first time it is asked for, seeded with ratePerSecond
// and burst.
func NewOutboundLimiter(ratePerSecond float64, burst int) *OutboundLimiter {
	return &OutboundLimiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(ratePerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until method has a free token, or ctx is done (spec §4.6
// "wait for an available slot, respecting caller cancellation").
func (o *OutboundLimiter) Wait(ctx context.Context, method string) error {
	return o.limiterFor(method).WaitN(ctx, 1)
}

func (o *OutboundLimiter) limiterFor(method string) *rate.Limiter {
	o.mu.Lock()
	defer o.mu.Unlock()

	l, ok := o.limiters[method]
	if !ok {
		l = rate.NewLimiter(o.defaultRate, o.defaultBurst)
		o.limiters[method] = l
	}
	return l
}
