package ports

import (
	"context"

	"github.com/aretw0/formflow/pkg/domain"
)

// Filler is the external document-filling capability.
type Filler interface {
	// ReadSchema lists the fillable fields of the document at documentPath.
	ReadSchema(ctx context.Context, documentPath string) ([]domain.FieldDescriptor, error)

	// Fill produces the bytes of the document with fields set to the given values.
	Fill(ctx context.Context, documentPath string, fields map[string]string, opts domain.FillOptions) ([]byte, error)
}
