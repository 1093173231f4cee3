package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the engine's Prometheus collectors on a registry of their
// own, so several engines can live in one process
type Metrics struct {
	Registry *prometheus.Registry

	// designs counts results by code and status
	designs *prometheus.CounterVec

	// duration measures one Design call. Labels: code
	duration *prometheus.HistogramVec

	// clamps counts table lookups clamped to the table range. Labels: code
	clamps *prometheus.CounterVec

	// batchSize observes the number of requests per batch
	batchSize prometheus.Histogram
}

func newMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		designs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rcbeam",
			Subsystem: "engine",
			Name:      "designs_total",
			Help:      "Beam designs by code and result status",
		}, []string{"code", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rcbeam",
			Subsystem: "engine",
			Name:      "design_duration_seconds",
			Help:      "Time to design one request",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"code"}),
		clamps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rcbeam",
			Subsystem: "engine",
			Name:      "table_clamps_total",
			Help:      "Design table lookups clamped to the tabulated range",
		}, []string{"code"}),
		batchSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rcbeam",
			Subsystem: "engine",
			Name:      "batch_size",
			Help:      "Requests per batch",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
		}),
	}
}
