// Package metrics exposes engine counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of one engine. Engines never share them, so
// several engines can register on different registries.
type Metrics struct {
	invocations *prometheus.CounterVec
	tasks       *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New creates unregistered collectors.
func New() *Metrics {
	return &Metrics{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tensor",
				Subsystem: "add",
				Name:      "invocations_total",
				Help:      "Total number of block-sparse operations by strategy.",
			}, []string{"strategy"}),
		tasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tensor",
				Name:      "tasks_total",
				Help:      "Total number of per-block tasks scheduled by kind.",
			}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tensor",
				Subsystem: "add",
				Name:      "duration_seconds",
				Help:      "Bucketed histogram of block-sparse operation duration.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 12),
			}, []string{"strategy"}),
	}
}

// Register adds the collectors to r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.invocations, m.tasks, m.duration} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Observe records one finished operation.
func (m *Metrics) Observe(strategy string, zero, scale, add int, elapsed time.Duration) {
	m.invocations.WithLabelValues(strategy).Inc()
	m.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	if zero > 0 {
		m.tasks.WithLabelValues("zero").Add(float64(zero))
	}
	if scale > 0 {
		m.tasks.WithLabelValues("scale").Add(float64(scale))
	}
	if add > 0 {
		m.tasks.WithLabelValues("add").Add(float64(add))
	}
}
