package workerpool

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubikabot/ingestcore/internal/dedup"
	"github.com/rubikabot/ingestcore/internal/domain"
	"github.com/rubikabot/ingestcore/internal/queue"
	"github.com/rubikabot/ingestcore/internal/stats"
)

func newTestQueue(t *testing.T) *queue.Queue {
	t.Helper()
	d := dedup.New(time.Minute)
	t.Cleanup(d.Close)
	return queue.New(100, queue.PolicyReject, d)
}

func TestPool_ProcessesEnqueuedJobs(t *testing.T) {
	q := newTestQueue(t)
	var processed int32
	handler := func(job domain.Job) error {
		atomic.AddInt32(&processed, 1)
		return nil
	}

	collector := stats.New()
	pool := New(2, q, handler, collector, logrus.New())
	pool.Start()
	defer pool.Stop()

	for i := 0; i < 5; i++ {
		q.Enqueue(domain.Job{DedupKey: string(rune('a' + i)), JobID: string(rune('a' + i))})
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&processed) == 5
	}, time.Second, 5*time.Millisecond)
}

func TestPool_RecoversFromPanicAndContinues(t *testing.T) {
	q := newTestQueue(t)
	var processed int32
	handler := func(job domain.Job) error {
		if job.JobID == "boom" {
			panic("simulated failure")
		}
		atomic.AddInt32(&processed, 1)
		return nil
	}

	collector := stats.New()
	pool := New(1, q, handler, collector, logrus.New())
	pool.Start()
	defer pool.Stop()

	q.Enqueue(domain.Job{DedupKey: "boom", JobID: "boom"})
	q.Enqueue(domain.Job{DedupKey: "ok", JobID: "ok"})

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&processed) == 1
	}, time.Second, 5*time.Millisecond)

	snap := collector.Snapshot()
	assert.Equal(t, int64(1), snap.TotalErrors)
}

func TestPool_RecordsHandlerErrors(t *testing.T) {
	q := newTestQueue(t)
	handler := func(job domain.Job) error {
		return errors.New("handler failed")
	}

	collector := stats.New()
	pool := New(1, q, handler, collector, logrus.New())
	pool.Start()
	defer pool.Stop()

	q.Enqueue(domain.Job{DedupKey: "x", JobID: "x"})

	require.Eventually(t, func() bool {
		return collector.Snapshot().TotalErrors == 1
	}, time.Second, 5*time.Millisecond)

	statuses := pool.Statuses()
	require.Len(t, statuses, 1)
	assert.Equal(t, "handler failed", statuses[0].LastError)
	assert.Equal(t, int64(1), statuses[0].Processed, "a failed job still counts as processed")
}

func TestPool_StopWaitsForWorkers(t *testing.T) {
	q := newTestQueue(t)
	handler := func(job domain.Job) error { return nil }
	collector := stats.New()
	pool := New(1, q, handler, collector, logrus.New())
	pool.Start()

	pool.Stop()
	statuses := pool.Statuses()
	assert.False(t, statuses[0].Alive)
}
