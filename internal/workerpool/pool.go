// Package workerpool runs the N worker goroutines that drain the queue
// package's two-priority queue and dispatch each job to a Handler (spec
// §4.8). The panic-recovery-per-job, per-worker job counters, and
// stop-channel graceful shutdown are adapted from the teacher's
// pkg/msgworker/pool.go worker.run/drainQueue, generalized from its
// per-worker-channel shape to workers pulling from one shared Queue.
package workerpool

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rubikabot/ingestcore/internal/domain"
	"github.com/rubikabot/ingestcore/internal/queue"
	"github.com/rubikabot/ingestcore/internal/stats"
)

// Handler processes one job. A returned error is logged and counted but
// never stops the pool; a panic is recovered the same way (spec §4.8
// "a failing job never takes down a worker").
type Handler func(job domain.Job) error

// Pool owns N worker goroutines draining a shared queue.Queue.
type Pool struct {
	queue   *queue.Queue
	handler Handler
	stats   *stats.Collector
	log     *logrus.Entry

	mu      sync.Mutex
	workers []*domain.WorkerStatus

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New builds a pool of n workers, not yet started.
func New(n int, q *queue.Queue, handler Handler, collector *stats.Collector, log *logrus.Logger) *Pool {
	workers := make([]*domain.WorkerStatus, n)
	for i := range workers {
		workers[i] = &domain.WorkerStatus{ID: i}
	}
	return &Pool{
		queue:   q,
		handler: handler,
		stats:   collector,
		log:     log.WithField("component", "WORKER"),
		workers: workers,
		stopCh:  make(chan struct{}),
	}
}

// Start launches every worker goroutine (spec §4.8).
func (p *Pool) Start() {
	for i := range p.workers {
		i := i
		p.mu.Lock()
		p.workers[i].StartedAt = time.Now()
		p.workers[i].Alive = true
		p.mu.Unlock()

		p.wg.Add(1)
		go p.run(i)
	}
	p.log.WithField("workers", len(p.workers)).Info("worker pool started")
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	for {
		job, ok := p.queue.Dequeue(p.stopCh)
		if !ok {
			p.mu.Lock()
			p.workers[id].Alive = false
			p.mu.Unlock()
			return
		}
		p.process(id, job)
	}
}

func (p *Pool) process(id int, job domain.Job) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.recordFailure(id, "panic")
			p.log.WithFields(logrus.Fields{"worker": id, "job_id": job.JobID, "panic": r}).
				Error("job handler panicked")
		}
		// Always runs regardless of success, error, or panic (spec §4.8
		// step 4 "Always: increment processed, update last_job_at, record
		// dispatch stat").
		p.mu.Lock()
		p.workers[id].Processed++
		p.mu.Unlock()
		p.stats.RecordDispatch(time.Since(start))
	}()

	p.mu.Lock()
	p.workers[id].LastJobAt = start
	p.mu.Unlock()

	if err := p.handler(job); err != nil {
		p.recordFailure(id, err.Error())
		p.log.WithFields(logrus.Fields{"worker": id, "job_id": job.JobID, "error": err}).
			Error("job handler failed")
		return
	}
}

func (p *Pool) recordFailure(id int, reason string) {
	p.stats.RecordError()
	p.mu.Lock()
	p.workers[id].LastError = reason
	p.workers[id].LastErrorAt = time.Now()
	p.mu.Unlock()
}

// Statuses returns a snapshot of every worker's status, for /health/queue
// (spec §4.8, §6).
func (p *Pool) Statuses() []domain.WorkerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.WorkerStatus, len(p.workers))
	for i, w := range p.workers {
		out[i] = *w
	}
	return out
}

// Stop signals every worker to exit once the queue is empty and waits for
// them: jobs still queued when Stop is called are dequeued and processed
// first (spec §4.13 "stop workers" during ordered shutdown).
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.wg.Wait()
		p.log.Info("worker pool stopped")
	})
}
