// Package stats is the process-wide counters collector from spec §4.5,
// grounded on pkg/botmonitor/monitor.go's atomic-counter shape but
// stripped of that file's valkey distributed-fan-out subscriber, which
// Non-goals exclude here ("no multi-node coordination"). Counters are
// exposed two ways: the JSON shape GET /health/queue requires, and
// Prometheus metrics on GET /metrics (spec §3 domain stack).
package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rubikabot/ingestcore/internal/domain"
)

// Collector owns every counter in domain.Stats plus the queue/worker
// gauges reported alongside them.
type Collector struct {
	startedAt time.Time

	totalUpdates       int64
	totalErrors        int64
	totalEnqueued      int64
	totalDropped       int64
	totalDeduped       int64
	cumulativeDispatch int64
	lastDispatchMs     int64

	mu             sync.Mutex
	lastQueueSize  int
	lastEnqueueAt  time.Time
	lastDispatchAt time.Time
	lastErrorAt    time.Time
}

// New starts a collector with its clock running from now.
func New() *Collector {
	return &Collector{startedAt: time.Now()}
}

func (c *Collector) RecordUpdate() {
	atomic.AddInt64(&c.totalUpdates, 1)
}

func (c *Collector) RecordEnqueued(queueSize int) {
	atomic.AddInt64(&c.totalEnqueued, 1)
	c.mu.Lock()
	c.lastQueueSize = queueSize
	c.lastEnqueueAt = time.Now()
	c.mu.Unlock()
}

func (c *Collector) RecordDropped() {
	atomic.AddInt64(&c.totalDropped, 1)
}

func (c *Collector) RecordDeduped() {
	atomic.AddInt64(&c.totalDeduped, 1)
}

func (c *Collector) RecordError() {
	atomic.AddInt64(&c.totalErrors, 1)
	c.mu.Lock()
	c.lastErrorAt = time.Now()
	c.mu.Unlock()
}

// RecordDispatch records one job's processing duration, used to derive
// the average/last dispatch latency spec §4.5 exposes.
func (c *Collector) RecordDispatch(d time.Duration) {
	ms := d.Milliseconds()
	atomic.AddInt64(&c.cumulativeDispatch, ms)
	atomic.StoreInt64(&c.lastDispatchMs, ms)
	c.mu.Lock()
	c.lastDispatchAt = time.Now()
	c.mu.Unlock()
}

// Snapshot returns a consistent copy of every counter (spec §4.5
// GET /health/queue payload source).
func (c *Collector) Snapshot() domain.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Stats{
		TotalUpdates:       atomic.LoadInt64(&c.totalUpdates),
		TotalErrors:        atomic.LoadInt64(&c.totalErrors),
		TotalEnqueued:      atomic.LoadInt64(&c.totalEnqueued),
		TotalDropped:       atomic.LoadInt64(&c.totalDropped),
		TotalDeduped:       atomic.LoadInt64(&c.totalDeduped),
		CumulativeDispatch: atomic.LoadInt64(&c.cumulativeDispatch),
		LastDispatchMs:     atomic.LoadInt64(&c.lastDispatchMs),
		LastQueueSize:      c.lastQueueSize,
		LastEnqueueAt:      c.lastEnqueueAt,
		LastDispatchAt:     c.lastDispatchAt,
		LastErrorAt:        c.lastErrorAt,
		StartedAt:          c.startedAt,
	}
}
