package domain_test

import (
	"context"
	"testing"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestMergeHooks(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnTransition: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnTransition:  func(context.Context, *domain.TransitionEvent) { calls = append(calls, "b") },
		OnMaterialize: func(context.Context, *domain.MaterializeEvent) { calls = append(calls, "b-write") },
	}

	merged := domain.MergeHooks(a, domain.LifecycleHooks{}, b)
	merged.OnTransition(context.Background(), &domain.TransitionEvent{})
	merged.OnMaterialize(context.Background(), &domain.MaterializeEvent{})

	assert.Equal(t, []string{"a", "b", "b-write"}, calls)
	assert.Nil(t, domain.MergeHooks().OnTransition)
}
