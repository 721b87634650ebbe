package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/formflow/internal/metrics"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	base := domain.EventBase{Form: "i589"}

	hooks.OnTransition(ctx, &domain.TransitionEvent{EventBase: base, Step: domain.Step{Outcome: domain.OutcomeAdvance}})
	hooks.OnTransition(ctx, &domain.TransitionEvent{EventBase: base, Step: domain.Step{Outcome: domain.OutcomeAdvance}})
	hooks.OnTransition(ctx, &domain.TransitionEvent{EventBase: base, Step: domain.Step{Outcome: domain.OutcomeExhausted}})
	hooks.OnMaterialize(ctx, &domain.MaterializeEvent{EventBase: base, Duration: time.Second})
	hooks.OnMaterialize(ctx, &domain.MaterializeEvent{EventBase: base, Err: errors.New("boom")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("i589", "advance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("i589", "exhausted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Materializations.WithLabelValues("i589", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Materializations.WithLabelValues("i589", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.WriteDuration))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)

	_, err = metrics.New(reg)
	assert.Error(t, err)
}
