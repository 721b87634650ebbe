package formflow

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/internal/runtime"
	"github.com/aretw0/formflow/pkg/adapters/file"
	"github.com/aretw0/formflow/pkg/adapters/pdftk"
	"github.com/aretw0/formflow/pkg/catalog"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/materialize"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/aretw0/formflow/pkg/schema"
)

// Version is the release of this module.
//
//go:embed VERSION
var Version string

// ErrNotFinished is returned when materializing a session that has not reached a final node.
var ErrNotFinished = errors.New("session has not reached a final node")

// Prompt is what a session presents at its current node.
type Prompt = runtime.Prompt

// Engine is the high-level entry point for the formflow library.
// It drives sessions of one form and writes the filled document once a session ends.
type Engine struct {
	form         catalog.Form
	runtime      *runtime.Engine
	materializer *materialize.Materializer

	registry    *catalog.Registry
	templateDir string
	outputDir   string
	filler      ports.Filler
	writer      ports.OutputWriter
	reserver    ports.NameReserver
	fillOpts    *domain.FillOptions
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog replaces the built-in catalog of forms.
func WithCatalog(r *catalog.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithTemplateDir sets where the built-in catalog looks for <form>.pdf templates.
func WithTemplateDir(dir string) Option {
	return func(e *Engine) {
		e.templateDir = dir
	}
}

// WithOutputDir sets the directory of the default file store.
func WithOutputDir(dir string) Option {
	return func(e *Engine) {
		e.outputDir = dir
	}
}

// WithFiller sets the filling capability (default: pdftk on PATH).
func WithFiller(f ports.Filler) Option {
	return func(e *Engine) {
		e.filler = f
	}
}

// WithWriter sets the output storage (default: a file store).
func WithWriter(w ports.OutputWriter) Option {
	return func(e *Engine) {
		e.writer = w
	}
}

// WithReserver sets the name reserver (default: the writer, when it reserves names).
func WithReserver(r ports.NameReserver) Option {
	return func(e *Engine) {
		e.reserver = r
	}
}

// WithFillOptions overrides the options passed to the filler.
func WithFillOptions(opts domain.FillOptions) Option {
	return func(e *Engine) {
		e.fillOpts = &opts
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an engine for the form with the given ID.
func New(formID string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		templateDir: "templates",
		outputDir:   "published",
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.registry == nil {
		reg, err := catalog.Default(eng.templateDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		eng.registry = reg
	}

	form, err := eng.registry.Get(formID)
	if err != nil {
		return nil, err
	}
	eng.form = form

	if eng.filler == nil {
		eng.filler = pdftk.New(pdftk.WithLogger(eng.logger))
	}
	if eng.writer == nil {
		eng.writer = file.New(eng.outputDir)
	}

	eng.runtime = runtime.NewEngine(form.Schema,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)

	mopts := []materialize.Option{
		materialize.WithForm(form.ID),
		materialize.WithMapper(form.Mapper),
		materialize.WithLifecycleHooks(eng.hooks),
		materialize.WithLogger(eng.logger),
	}
	if eng.reserver != nil {
		mopts = append(mopts, materialize.WithReserver(eng.reserver))
	}
	if eng.fillOpts != nil {
		mopts = append(mopts, materialize.WithFillOptions(*eng.fillOpts))
	}
	m, err := materialize.New(form.Template, eng.filler, eng.writer, mopts...)
	if err != nil {
		return nil, fmt.Errorf("failed to set up materializer: %w", err)
	}
	eng.materializer = m

	return eng, nil
}

// Form returns the form the engine drives.
func (e *Engine) Form() catalog.Form {
	return e.form
}

// Schema returns the questionnaire of the form.
func (e *Engine) Schema() *schema.Schema {
	return e.form.Schema
}

// Start creates a session at the initial node.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	return e.runtime.Start(ctx, sessionID)
}

// Render describes the current node of state.
func (e *Engine) Render(state *domain.State) (Prompt, error) {
	return e.runtime.Render(state)
}

// Navigate answers the current node with raw terminal input and advances the session.
func (e *Engine) Navigate(ctx context.Context, state *domain.State, raw string) (*domain.State, domain.Step, error) {
	return e.runtime.Navigate(ctx, state, raw)
}

// Submit answers the current node with a typed value and advances the session.
func (e *Engine) Submit(ctx context.Context, state *domain.State, v domain.Value) (*domain.State, domain.Step, error) {
	return e.runtime.Submit(ctx, state, v)
}

// Fields lists the fields of the form's template.
func (e *Engine) Fields(ctx context.Context) ([]domain.FieldDescriptor, error) {
	return e.materializer.Fields(ctx)
}

// Materialize writes the filled document of a finished session and returns its filename.
func (e *Engine) Materialize(ctx context.Context, state *domain.State) (string, error) {
	if state.Status != domain.StatusTerminated {
		return "", fmt.Errorf("%w: %s at %s", ErrNotFinished, state.Status, state.CurrentKey)
	}
	return e.materializer.Write(ctx, state.Answers)
}

// Materializer exposes the underlying materializer.
func (e *Engine) Materializer() *materialize.Materializer {
	return e.materializer
}
