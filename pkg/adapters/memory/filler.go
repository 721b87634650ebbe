package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/formflow/pkg/domain"
)

// FillCall records one request made to a Filler.
type FillCall struct {
	Document string
	Fields   map[string]string
	Options  domain.FillOptions
}

// Filler implements ports.Filler without touching any document format.
// Fill returns the requested fields encoded as JSON, which makes it useful
// for dry runs and tests.
type Filler struct {
	mu     sync.Mutex
	schema map[string][]domain.FieldDescriptor
	calls  []FillCall

	// Err, when set, is returned by every Fill call.
	Err error
}

// NewFiller creates a filler that knows the given templates' fields.
func NewFiller(schemas map[string][]domain.FieldDescriptor) *Filler {
	if schemas == nil {
		schemas = make(map[string][]domain.FieldDescriptor)
	}
	return &Filler{schema: schemas}
}

// ReadSchema returns the registered fields of documentPath.
func (f *Filler) ReadSchema(ctx context.Context, documentPath string) ([]domain.FieldDescriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fields, ok := f.schema[documentPath]
	if !ok {
		return nil, fmt.Errorf("document not found: %s", documentPath)
	}
	return append([]domain.FieldDescriptor(nil), fields...), nil
}

// Fill records the call and returns the fields as JSON.
func (f *Filler) Fill(ctx context.Context, documentPath string, fields map[string]string, opts domain.FillOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	f.calls = append(f.calls, FillCall{Document: documentPath, Fields: cp, Options: opts})
	failure := f.Err
	f.mu.Unlock()

	if failure != nil {
		return nil, failure
	}
	if opts.OutputFormat != "" && opts.OutputFormat != "pdf" {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, opts.OutputFormat)
	}
	return json.Marshal(cp)
}

// Calls returns the recorded Fill requests.
func (f *Filler) Calls() []FillCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FillCall(nil), f.calls...)
}
