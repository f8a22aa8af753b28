package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for resource operations
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics registers the resource collectors with reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Operations by resource, operation and outcome (ok or the error kind)
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "officehub_resource_operations_total",
			Help: "Total number of resource operations by outcome",
		}, []string{"resource", "operation", "outcome"}),

		// Store round-trip latency per operation
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "officehub_resource_operation_duration_seconds",
			Help:    "Resource operation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"resource", "operation"}),
	}
}

func (m *Metrics) observe(resource, operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
	}
	m.Operations.WithLabelValues(resource, operation, outcome).Inc()
	m.Duration.WithLabelValues(resource, operation).Observe(seconds)
}
