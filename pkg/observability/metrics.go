package observability

import (
	"context"

	"github.com/aretw0/weir/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine collectors.
type Metrics struct {
	Firings        *prometheus.CounterVec
	Errors         *prometheus.CounterVec
	Runs           prometheus.Counter
	FiringDuration prometheus.Histogram
}

// NewMetrics creates and registers the collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Firings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weir",
			Name:      "node_firings_total",
			Help:      "Completed node firings by node type.",
		}, []string{"node_type"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weir",
			Name:      "node_errors_total",
			Help:      "Error packets routed by error code.",
		}, []string{"code"}),
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weir",
			Name:      "runs_total",
			Help:      "Run invocations, including auto-resumes.",
		}),
		FiringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weir",
			Name:      "node_firing_duration_seconds",
			Help:      "Wall time of node Process calls.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}

	reg.MustRegister(m.Firings, m.Errors, m.Runs, m.FiringDuration)
	return m
}

// Hooks adapts the collectors to the engine's lifecycle hooks.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnRunStarted: func(ctx context.Context, ev *domain.RunEvent) {
			m.Runs.Inc()
		},
		OnNodeFired: func(ctx context.Context, ev *domain.NodeFiredEvent) {
			m.Firings.WithLabelValues(ev.NodeType).Inc()
			m.FiringDuration.Observe(ev.Duration.Seconds())
		},
		OnNodeError: func(ctx context.Context, ev *domain.NodeErrorEvent) {
			m.Errors.WithLabelValues(ev.Packet.Code).Inc()
		},
	}
}
