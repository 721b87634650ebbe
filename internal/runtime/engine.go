package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/schema"
)

// ErrSessionClosed is returned when navigating a session that is no longer active.
var ErrSessionClosed = errors.New("session is not active")

// Engine drives questionnaire sessions over an immutable schema.
// It holds no session state; every call takes a state and returns a new one.
type Engine struct {
	schema   *schema.Schema
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	maxInput int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxInputSize bounds raw answers passed to Navigate. Zero disables the limit.
func WithMaxInputSize(n int) EngineOption {
	return func(e *Engine) {
		e.maxInput = n
	}
}

// NewEngine creates a new engine for s.
func NewEngine(s *schema.Schema, opts ...EngineOption) *Engine {
	e := &Engine{
		schema:   s,
		logger:   logging.NewNop(),
		maxInput: DefaultMaxInputSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Schema returns the schema the engine drives.
func (e *Engine) Schema() *schema.Schema {
	return e.schema
}

// Start creates a session positioned at the initial node.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	initial := e.schema.Initial()
	if initial == "" {
		return nil, fmt.Errorf("schema %s has no nodes", e.schema.Name())
	}
	state := domain.NewState(sessionID, initial)
	state.Form = e.schema.Name()
	e.logger.Debug("session started", "session", sessionID, "form", state.Form, "node", initial)
	return state, nil
}

// Navigate parses raw as the answer to the current node and advances the session.
// An unparsable answer returns an error wrapping domain.ErrInvalidAnswer and leaves
// the session where it was.
func (e *Engine) Navigate(ctx context.Context, state *domain.State, raw string) (*domain.State, domain.Step, error) {
	node, ok := e.schema.Node(state.CurrentKey)
	if !ok {
		return e.Submit(ctx, state, domain.Value{})
	}
	clean, err := SanitizeInput(raw, e.maxInput)
	if err != nil {
		return nil, domain.Step{}, err
	}
	v, err := ParseAnswer(node, clean)
	if err != nil {
		return nil, domain.Step{}, err
	}
	return e.Submit(ctx, state, v)
}

// Submit records v as the answer to the current node and evaluates its rules.
// The zero Value is accepted for nodes that collect nothing.
func (e *Engine) Submit(ctx context.Context, state *domain.State, v domain.Value) (*domain.State, domain.Step, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Step{}, err
	}
	if state.Status != domain.StatusActive {
		return nil, domain.Step{}, fmt.Errorf("%w: %s", ErrSessionClosed, state.Status)
	}

	next := state.Snapshot()
	if node, ok := e.schema.Node(state.CurrentKey); ok && node.CollectsAnswer() {
		if err := checkAnswer(node, v); err != nil {
			return nil, domain.Step{}, err
		}
		next.Answers[node.Field] = v
	}

	step, err := e.schema.Transition(ctx, state.CurrentKey, next.Answers)
	if err != nil {
		return nil, domain.Step{}, err
	}

	switch step.Outcome {
	case domain.OutcomeAdvance:
		next.CurrentKey = step.Next
		next.History = append(next.History, step.Next)
	case domain.OutcomeTerminal:
		next.Status = domain.StatusTerminated
	default:
		next.Status = domain.StatusStuck
		e.logger.Warn("session cannot advance",
			"session", state.SessionID,
			"node", state.CurrentKey,
			"outcome", step.Outcome,
			"reason", step.Reason,
			"target", step.Target,
		)
	}

	e.emitTransition(ctx, next, step)
	return next, step, nil
}

func (e *Engine) emitTransition(ctx context.Context, state *domain.State, step domain.Step) {
	if e.hooks.OnTransition == nil {
		return
	}
	e.hooks.OnTransition(ctx, &domain.TransitionEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventTransition,
			SessionID: state.SessionID,
			Form:      state.Form,
		},
		Step: step,
	})
}
