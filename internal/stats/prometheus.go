package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusExporter mirrors Collector's counters as Prometheus metrics,
// supplementing (not replacing) the JSON shape GET /health/queue returns
// (spec §3 domain stack: prometheus/client_golang, pulled from the
// insiderfyr-ShopMindAI go.mod, has no other home in this spec).
type PrometheusExporter struct {
	c *Collector

	totalUpdates  prometheus.CounterFunc
	totalErrors   prometheus.CounterFunc
	totalEnqueued prometheus.CounterFunc
	totalDropped  prometheus.CounterFunc
	totalDeduped  prometheus.CounterFunc
	lastQueueSize prometheus.GaugeFunc
	avgDispatchMs prometheus.GaugeFunc
}

// NewPrometheusExporter builds and registers the collector's metrics
// against reg.
func NewPrometheusExporter(c *Collector, reg prometheus.Registerer) *PrometheusExporter {
	e := &PrometheusExporter{c: c}

	e.totalUpdates = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "rubika_ingest_updates_total",
		Help: "Total inbound updates accepted by the webhook router.",
	}, func() float64 { return float64(c.Snapshot().TotalUpdates) })

	e.totalErrors = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "rubika_ingest_errors_total",
		Help: "Total job processing errors recorded by worker pool.",
	}, func() float64 { return float64(c.Snapshot().TotalErrors) })

	e.totalEnqueued = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "rubika_ingest_enqueued_total",
		Help: "Total jobs admitted to the queue.",
	}, func() float64 { return float64(c.Snapshot().TotalEnqueued) })

	e.totalDropped = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "rubika_ingest_dropped_total",
		Help: "Total jobs dropped due to queue overflow.",
	}, func() float64 { return float64(c.Snapshot().TotalDropped) })

	e.totalDeduped = prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "rubika_ingest_deduped_total",
		Help: "Total updates rejected as duplicates.",
	}, func() float64 { return float64(c.Snapshot().TotalDeduped) })

	e.lastQueueSize = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rubika_ingest_queue_size",
		Help: "Queue size observed at the last enqueue.",
	}, func() float64 { return float64(c.Snapshot().LastQueueSize) })

	e.avgDispatchMs = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "rubika_ingest_avg_dispatch_ms",
		Help: "Average job dispatch latency in milliseconds.",
	}, func() float64 { return c.Snapshot().AverageDispatchMs() })

	reg.MustRegister(e.totalUpdates, e.totalErrors, e.totalEnqueued,
		e.totalDropped, e.totalDeduped, e.lastQueueSize, e.avgDispatchMs)
	return e
}
