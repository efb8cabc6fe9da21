package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "class_sync"

// Outcome labels for record counters.
const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// RunCounts is what a finished run reports.
type RunCounts struct {
	Created int
	Updated int
	Skipped int
	Failed  int
}

// Metrics owns a private registry with the sync collectors.
type Metrics struct {
	registry *prometheus.Registry

	records     *prometheus.CounterVec
	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
}

// New registers the sync collectors plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.records = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_total",
		Help:      "Destination records processed, by run kind and outcome",
	}, []string{"kind", "outcome"})
	m.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Finished sync runs, by kind and status",
	}, []string{"kind", "status"})
	m.runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of sync runs",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
	}, []string{"kind"})
	m.lastSuccess = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last run without failures",
	}, []string{"kind"})

	m.registry.MustRegister(
		m.records, m.runs, m.runDuration, m.lastSuccess,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(kind string, counts RunCounts, elapsed time.Duration, finishedAt time.Time) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(kind, OutcomeCreated).Add(float64(counts.Created))
	m.records.WithLabelValues(kind, OutcomeUpdated).Add(float64(counts.Updated))
	m.records.WithLabelValues(kind, OutcomeSkipped).Add(float64(counts.Skipped))
	m.records.WithLabelValues(kind, OutcomeFailed).Add(float64(counts.Failed))
	m.runDuration.WithLabelValues(kind).Observe(elapsed.Seconds())

	status := "ok"
	if counts.Failed > 0 {
		status = "partial"
	} else {
		m.lastSuccess.WithLabelValues(kind).Set(float64(finishedAt.Unix()))
	}
	m.runs.WithLabelValues(kind, status).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
