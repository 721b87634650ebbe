// Package metrics exposes engine activity as Prometheus collectors.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/formflow/pkg/domain"
)

// Metrics groups the formflow collectors.
type Metrics struct {
	Transitions      *prometheus.CounterVec
	Materializations *prometheus.CounterVec
	WriteDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formflow_transitions_total",
				Help: "Total number of rule evaluations by outcome",
			},
			[]string{"form", "outcome"},
		),
		Materializations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formflow_materializations_total",
				Help: "Total number of document writes by result",
			},
			[]string{"form", "result"},
		),
		WriteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formflow_materialize_duration_seconds",
				Help:    "Duration of document writes",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"form"},
		),
	}
	for _, c := range []prometheus.Collector{m.Transitions, m.Materializations, m.WriteDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks records events into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.Form, string(e.Step.Outcome)).Inc()
		},
		OnMaterialize: func(_ context.Context, e *domain.MaterializeEvent) {
			result := "ok"
			if e.Err != nil {
				result = "error"
			}
			m.Materializations.WithLabelValues(e.Form, result).Inc()
			m.WriteDuration.WithLabelValues(e.Form).Observe(e.Duration.Seconds())
		},
	}
}
