// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"time"
)

const namespace = "tabvc"

// Batch outcomes.
const (
	OutcomeCommitted = "committed"
	OutcomeAborted   = "aborted"
	OutcomeFailed    = "failed"
)

// Commit reasons.
const (
	ReasonInit     = "init"
	ReasonApply    = "apply"
	ReasonRollback = "rollback"
	ReasonBatch    = "batch"
)

type Metrics struct {
	registry *prometheus.Registry

	operations    *prometheus.CounterVec
	batches       *prometheus.CounterVec
	commits       *prometheus.CounterVec
	batchDuration prometheus.Histogram
	workbooks     prometheus.Gauge
}

// New registers every collector on a fresh registry, together with the Go runtime and process
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_applied_total",
			Help:      "Operations dispatched by kind",
		}, []string{"kind"}),
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Operation batches by outcome",
		}, []string{"outcome"}),
		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Commits recorded by reason",
		}, []string{"reason"}),
		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time to apply and commit one batch",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		workbooks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workbooks",
			Help:      "Workbooks held in memory",
		}),
	}
}

func (m *Metrics) OperationApplied(kind string) {
	m.operations.WithLabelValues(kind).Inc()
}

func (m *Metrics) BatchFinished(outcome string, took time.Duration) {
	m.batches.WithLabelValues(outcome).Inc()
	m.batchDuration.Observe(took.Seconds())
}

func (m *Metrics) Committed(reason string) {
	m.commits.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetWorkbooks(n int) {
	m.workbooks.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
