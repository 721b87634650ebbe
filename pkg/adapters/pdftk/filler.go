// Package pdftk fills AcroForm documents by driving the pdftk binary.
package pdftk

import (
	"bufio"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/domain"
)

// Filler implements ports.Filler.
// At most lanes pdftk processes run at once. A fill request additionally
// shares min(lanes, Parallelism) slots with requests of the same Parallelism.
type Filler struct {
	binary string
	lanes  int64
	sem    *semaphore.Weighted
	logger *slog.Logger

	mu       sync.Mutex
	limiters map[int64]*semaphore.Weighted
}

// Option configures a Filler.
type Option func(*Filler)

// WithBinary sets the pdftk executable (name or path).
func WithBinary(path string) Option {
	return func(f *Filler) {
		f.binary = path
	}
}

// WithLanes bounds the number of concurrent pdftk processes.
func WithLanes(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.lanes = int64(n)
		}
	}
}

// WithLogger sets the logger for command tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filler) {
		f.logger = logger
	}
}

// New creates a filler. It does not check that the binary exists.
func New(opts ...Option) *Filler {
	f := &Filler{
		binary: "pdftk",
		lanes:  int64(domain.DefaultFillOptions().Parallelism),
		logger:   logging.NewNop(),
		limiters: make(map[int64]*semaphore.Weighted),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.sem = semaphore.NewWeighted(f.lanes)
	return f
}

// Lanes returns the number of concurrent pdftk processes allowed.
func (f *Filler) Lanes() int {
	return int(f.lanes)
}

// ReadSchema lists the form fields of the document.
func (f *Filler) ReadSchema(ctx context.Context, documentPath string) ([]domain.FieldDescriptor, error) {
	out, err := f.run(ctx, nil, documentPath, "dump_data_fields_utf8")
	if err != nil {
		return nil, err
	}
	return parseFields(bytes.NewReader(out))
}

// Fill merges fields into the document and returns the filled bytes.
// Only the pdf output format is supported.
func (f *Filler) Fill(ctx context.Context, documentPath string, fields map[string]string, opts domain.FillOptions) ([]byte, error) {
	if opts.OutputFormat != "" && opts.OutputFormat != "pdf" {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, opts.OutputFormat)
	}

	data, err := encodeXFDF(fields)
	if err != nil {
		return nil, err
	}

	if limiter := f.limiter(opts.Parallelism); limiter != nil {
		if err := limiter.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer limiter.Release(1)
	}
	return f.run(ctx, data, documentPath, "fill_form", "-", "output", "-")
}

// limiter returns the semaphore shared by fills asking for n lanes.
// It is nil when n does not narrow the filler's own lanes.
func (f *Filler) limiter(n int) *semaphore.Weighted {
	if n <= 0 || int64(n) >= f.lanes {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[int64(n)]
	if !ok {
		l = semaphore.NewWeighted(int64(n))
		f.limiters[int64(n)] = l
	}
	return l
}

func (f *Filler) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.sem.Release(1)

	cmd := exec.CommandContext(ctx, f.binary, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	f.logger.Debug("running pdftk", "args", args)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("pdftk %s: %w", args[1], err)
		}
		return nil, fmt.Errorf("pdftk %s: %w: %s", args[1], err, msg)
	}
	return stdout.Bytes(), nil
}

// parseFields reads the "Key: value" blocks of dump_data_fields, separated by "---".
func parseFields(r io.Reader) ([]domain.FieldDescriptor, error) {
	var (
		fields  []domain.FieldDescriptor
		current *domain.FieldDescriptor
	)
	flush := func() {
		if current != nil && current.Name != "" {
			fields = append(fields, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if current == nil {
			current = &domain.FieldDescriptor{}
		}
		value = strings.TrimSpace(value)
		switch key {
		case "FieldName":
			current.Name = value
		case "FieldType":
			current.Type = value
		case "FieldValue":
			current.Value = value
		case "FieldStateOption":
			current.Options = append(current.Options, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read field dump: %w", err)
	}
	flush()
	return fields, nil
}

type xfdfDocument struct {
	XMLName xml.Name    `xml:"xfdf"`
	Xmlns   string      `xml:"xmlns,attr"`
	Fields  []xfdfField `xml:"fields>field"`
}

type xfdfField struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

// encodeXFDF renders fields in name order so output is reproducible.
func encodeXFDF(fields map[string]string) ([]byte, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	doc := xfdfDocument{Xmlns: "http://ns.adobe.com/xfdf/"}
	for _, name := range names {
		doc.Fields = append(doc.Fields, xfdfField{Name: name, Value: fields[name]})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode xfdf: %w", err)
	}
	return buf.Bytes(), nil
}
