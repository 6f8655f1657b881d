// Package dedup implements the TTL dedup set from spec §4.1: a bounded
// record of recently-seen dedup keys that lets ingress silently drop
// duplicate deliveries of the same update within a configurable window.
package dedup

import (
	"sync"
	"time"
)

// Set is a thread-safe TTL set of dedup keys, modeled on the teacher's
// pkg/msgworker singleton's use of a plain mutex-guarded map rather than
// a generic third-party cache — ristretto is reserved for the settings
// cache (spec §4.3); this set only ever needs insert+expire, not eviction
// by cost, so a map plus a sweep goroutine is the simpler idiomatic fit.
type Set struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
	now     func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates a dedup set with the given TTL. Call Close when done to stop
// the background sweep goroutine.
func New(ttl time.Duration) *Set {
	s := &Set{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// SeenOrRecord reports whether key was already recorded and unexpired; if
// not, it records key with a fresh expiry and returns false. This is the
// single atomic "check-then-insert" spec §4.1 requires to avoid a race
// between two concurrent deliveries of the same update.
func (s *Set) SeenOrRecord(key string) bool {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.entries[key]; ok && now.Before(expiry) {
		return true
	}
	s.entries[key] = now.Add(s.ttl)
	return false
}

// Len reports the number of entries currently tracked, including any not
// yet swept past expiry. Exposed for tests and diagnostics.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Set) sweepLoop() {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Set) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, expiry := range s.entries {
		if !now.Before(expiry) {
			delete(s.entries, key)
		}
	}
}

// Close stops the background sweep goroutine.
func (s *Set) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
