package ports

import "context"

// NameReserver atomically claims output names so concurrent writers never share one.
type NameReserver interface {
	// Reserve claims name. It returns false, without error, when the name is already taken.
	Reserve(ctx context.Context, name string) (bool, error)

	// Release gives up a claim that will not be written.
	Release(ctx context.Context, name string) error
}

// OutputWriter stores materialized documents in the target location.
type OutputWriter interface {
	// Write stores data under name, replacing any reservation placeholder.
	Write(ctx context.Context, name string, data []byte) error
}
