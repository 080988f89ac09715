// Package metrics exposes Prometheus collectors for a running taskpool.Pool:
// cumulative counters for submitted/rejected/completed tasks, plus gauges
// sampled from the pool's own Stats snapshot.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riftforge/taskpool"
)

// Recorder owns the Prometheus collectors for one pool.
type Recorder struct {
	submitted prometheus.Counter
	rejected  prometheus.Counter
	completed prometheus.Counter
	running   prometheus.Gauge
	queued    prometheus.Gauge

	registry *prometheus.Registry
}

// NewRecorder creates a Recorder with its own registry, so multiple pools in
// the same process (e.g. under test) don't collide on metric names.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		submitted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "taskpool_tasks_submitted_total",
			Help: "Total tasks successfully submitted to the pool.",
		}),
		rejected: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "taskpool_tasks_rejected_total",
			Help: "Total Submit calls rejected because the pool is being destroyed.",
		}),
		completed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "taskpool_tasks_completed_total",
			Help: "Total tasks whose closures have returned.",
		}),
		running: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "taskpool_tasks_running",
			Help: "Tasks currently executing.",
		}),
		queued: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "taskpool_tasks_queued",
			Help: "Tasks waiting in the queue.",
		}),
	}

	return r
}

// RecordSubmitted increments the submitted counter.
func (r *Recorder) RecordSubmitted() { r.submitted.Inc() }

// RecordRejected increments the rejected counter.
func (r *Recorder) RecordRejected() { r.rejected.Inc() }

// RecordCompleted increments the completed counter.
func (r *Recorder) RecordCompleted() { r.completed.Inc() }

// SetGauges sets the running/queued gauges from a point-in-time sample.
func (r *Recorder) SetGauges(running, queued int) {
	r.running.Set(float64(running))
	r.queued.Set(float64(queued))
}

// Handler returns the HTTP handler serving this Recorder's metrics in the
// Prometheus text exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// PollPool samples pool.Stats() into the running/queued gauges every
// interval, until ctx is cancelled. It is meant to run in its own goroutine
// alongside the metrics HTTP listener.
func (r *Recorder) PollPool(ctx context.Context, pool *taskpool.Pool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := pool.Stats()
			r.SetGauges(stats.Running, stats.Queued)
		}
	}
}
