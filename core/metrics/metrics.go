package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the sync collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal       *prometheus.CounterVec
	ActionsTotal    *prometheus.CounterVec
	RecordFailures  prometheus.Counter
	RunDuration     prometheus.Histogram
	LastSuccessTime prometheus.Gauge
}

// New creates and registers the sync collectors plus the Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autosync_runs_total",
				Help: "Sync runs by final status.",
			},
			[]string{"status"},
		),
		ActionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autosync_actions_total",
				Help: "Catalog mutations by action type and outcome.",
			},
			[]string{"action", "outcome"},
		),
		RecordFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "autosync_record_failures_total",
				Help: "Source records skipped because they could not be normalized.",
			},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "autosync_run_duration_seconds",
				Help:    "Wall time of sync runs.",
				Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1800},
			},
		),
		LastSuccessTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "autosync_last_success_timestamp_seconds",
				Help: "Unix time of the last successful run.",
			},
		),
	}

	m.registry.MustRegister(
		m.RunsTotal,
		m.ActionsTotal,
		m.RecordFailures,
		m.RunDuration,
		m.LastSuccessTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRun records the outcome and duration of a run.
func (m *Metrics) ObserveRun(status string, started, finished time.Time) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(finished.Sub(started).Seconds())
	if status == "succeeded" {
		m.LastSuccessTime.Set(float64(finished.Unix()))
	}
}

// AddActions counts applied mutations of one action type.
func (m *Metrics) AddActions(action string, succeeded, failed int) {
	if succeeded > 0 {
		m.ActionsTotal.WithLabelValues(action, "succeeded").Add(float64(succeeded))
	}
	if failed > 0 {
		m.ActionsTotal.WithLabelValues(action, "failed").Add(float64(failed))
	}
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
