package materialize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
)

// Materializer turns a completed answer record into a filled document on storage.
type Materializer struct {
	template    string
	form        string
	mapper      FieldMapper
	filler      ports.Filler
	writer      ports.OutputWriter
	reserver    ports.NameReserver
	fillOpts    domain.FillOptions
	maxAttempts int
	intn        func(n int) int
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithMapper sets the document-specific field mapper.
func WithMapper(mapper FieldMapper) Option {
	return func(m *Materializer) {
		m.mapper = mapper
	}
}

// WithReserver overrides name reservation. By default the writer is used
// when it also implements ports.NameReserver.
func WithReserver(r ports.NameReserver) Option {
	return func(m *Materializer) {
		m.reserver = r
	}
}

// WithFillOptions overrides the options passed to the filler.
func WithFillOptions(opts domain.FillOptions) Option {
	return func(m *Materializer) {
		m.fillOpts = opts
	}
}

// WithMaxAttempts caps the name candidates tried per write.
func WithMaxAttempts(n int) Option {
	return func(m *Materializer) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithRand makes name generation draw from r.
func WithRand(r *rand.Rand) Option {
	var mu sync.Mutex
	return func(m *Materializer) {
		m.intn = func(n int) int {
			mu.Lock()
			defer mu.Unlock()
			return r.IntN(n)
		}
	}
}

// WithForm labels events and logs with the document type.
func WithForm(id string) Option {
	return func(m *Materializer) {
		m.form = id
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Materializer) {
		m.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Materializer) {
		m.logger = logger
	}
}

// New creates a Materializer for the document template at templatePath.
func New(templatePath string, filler ports.Filler, writer ports.OutputWriter, opts ...Option) (*Materializer, error) {
	m := &Materializer{
		template:    templatePath,
		mapper:      BaseMapper{},
		filler:      filler,
		writer:      writer,
		fillOpts:    domain.DefaultFillOptions(),
		maxAttempts: DefaultMaxAttempts,
		intn:        rand.IntN,
		logger:      logging.NewNop(),
	}
	if r, ok := writer.(ports.NameReserver); ok {
		m.reserver = r
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.filler == nil {
		return nil, fmt.Errorf("materializer requires a filler")
	}
	if m.writer == nil {
		return nil, fmt.Errorf("materializer requires an output writer")
	}
	if m.reserver == nil {
		return nil, fmt.Errorf("materializer requires a name reserver")
	}
	return m, nil
}

// Template returns the path of the document template.
func (m *Materializer) Template() string {
	return m.template
}

// Fields reads the fillable fields of the template.
func (m *Materializer) Fields(ctx context.Context) ([]domain.FieldDescriptor, error) {
	return m.filler.ReadSchema(ctx, m.template)
}

// MapFields applies the document's field mapper.
func (m *Materializer) MapFields(answers domain.Answers) (map[string]string, error) {
	return m.mapper.MapFields(answers)
}

// Write maps answers, reserves a unique name, fills the template and stores
// the result. It returns the stored filename. Failures are not retried; a
// reservation that was not written is released.
func (m *Materializer) Write(ctx context.Context, answers domain.Answers) (filename string, err error) {
	started := time.Now()
	var fields map[string]string
	defer func() {
		m.emit(ctx, filename, len(fields), time.Since(started), err)
	}()

	fields, err = m.MapFields(answers)
	if err != nil {
		return "", fmt.Errorf("failed to map fields: %w", err)
	}

	name, err := m.GenerateUniqueFilename(ctx)
	if err != nil {
		return "", err
	}

	data, err := m.filler.Fill(ctx, m.template, fields, m.fillOpts)
	if err != nil {
		return "", m.abandon(ctx, name, fmt.Errorf("failed to fill %s: %w", m.template, err))
	}

	if err := m.writer.Write(ctx, name, data); err != nil {
		return "", m.abandon(ctx, name, fmt.Errorf("failed to write %s: %w", name, err))
	}

	m.logger.Debug("document materialized", "form", m.form, "filename", name, "fields", len(fields), "bytes", len(data))
	return name, nil
}

// WriteAsync runs Write on its own goroutine and reports through onComplete.
func (m *Materializer) WriteAsync(ctx context.Context, answers domain.Answers, onComplete func(filename string, err error)) {
	answers = answers.Clone()
	go func() {
		name, err := m.Write(ctx, answers)
		if onComplete != nil {
			onComplete(name, err)
		}
	}()
}

func (m *Materializer) abandon(ctx context.Context, name string, cause error) error {
	// Release even when ctx is already canceled.
	if rerr := m.reserver.Release(context.WithoutCancel(ctx), name); rerr != nil {
		return errors.Join(cause, fmt.Errorf("failed to release %s: %w", name, rerr))
	}
	return cause
}

func (m *Materializer) emit(ctx context.Context, filename string, fields int, d time.Duration, err error) {
	if m.hooks.OnMaterialize == nil {
		return
	}
	m.hooks.OnMaterialize(ctx, &domain.MaterializeEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventMaterialize,
			Form:      m.form,
		},
		Filename: filename,
		Fields:   fields,
		Duration: d,
		Err:      err,
	})
}
