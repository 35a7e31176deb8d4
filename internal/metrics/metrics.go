// Package metrics exposes run progress as Prometheus metrics for long
// benchmark sessions.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the benchmark run gauges and counters.
type Metrics struct {
	registry *prometheus.Registry

	TasksTotal       prometheus.Counter
	TasksFailed      prometheus.Counter
	SamplesCollected prometheus.Counter
	RunDuration      prometheus.Gauge
	WorkersActive    prometheus.Gauge
}

// New creates and registers the metric set on a private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.TasksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hashmark_tasks_total",
		Help: "Total number of benchmark tasks completed (including failures)",
	})
	m.TasksFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hashmark_tasks_failed_total",
		Help: "Number of benchmark tasks that failed",
	})
	m.SamplesCollected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hashmark_samples_collected_total",
		Help: "Number of timing samples collected",
	})
	m.RunDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hashmark_run_duration_seconds",
		Help: "Wall-clock duration of the current benchmark run",
	})
	m.WorkersActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "hashmark_workers_active",
		Help: "Configured worker pool size for the current run",
	})

	m.registry.MustRegister(
		m.TasksTotal, m.TasksFailed, m.SamplesCollected, m.RunDuration, m.WorkersActive,
	)
	return m
}

// Registry returns the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape handler for the metric set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on the given port in the background. The returned
// server should be closed by the caller when the run ends.
func (m *Metrics) Serve(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}
