package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition  EventType = "transition"
	EventMaterialize EventType = "materialize"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	Form      string    `json:"form,omitempty"`
}

// TransitionEvent reports the evaluation of a node's rules.
type TransitionEvent struct {
	EventBase
	Step Step `json:"step"`
}

// MaterializeEvent reports the outcome of writing a filled document.
type MaterializeEvent struct {
	EventBase
	Filename string        `json:"filename,omitempty"`
	Fields   int           `json:"fields"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTransition  func(context.Context, *TransitionEvent)
	OnMaterialize func(context.Context, *MaterializeEvent)
}

// MergeHooks returns hooks that call each of the given hooks in order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	for _, h := range hooks {
		if h.OnTransition != nil {
			prev, next := merged.OnTransition, h.OnTransition
			merged.OnTransition = func(ctx context.Context, e *TransitionEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnMaterialize != nil {
			prev, next := merged.OnMaterialize, h.OnMaterialize
			merged.OnMaterialize = func(ctx context.Context, e *MaterializeEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
	}
	return merged
}
