package dsl

import (
	"fmt"

	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/schema"
)

// Builder collects nodes in declaration order and compiles them into a schema.
type Builder struct {
	name  string
	nodes []*NodeBuilder
	seen  map[string]bool
	err   error
}

// New creates a new schema builder for the named document type.
func New(name string) *Builder {
	return &Builder{
		name: name,
		seen: make(map[string]bool),
	}
}

// Add registers a node. A duplicate key is remembered and reported by Build.
func (b *Builder) Add(nb *NodeBuilder) *NodeBuilder {
	key := nb.node.Key
	if b.seen[key] && b.err == nil {
		b.err = fmt.Errorf("duplicate node key %q", key)
	}
	b.seen[key] = true
	b.nodes = append(b.nodes, nb)
	return nb
}

// Question declares a node and registers it in one call.
func (b *Builder) Question(cfg NodeConfig) *NodeBuilder {
	nb, err := NewNode(cfg)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		// Keep chaining usable; Build reports the error.
		nb = &NodeBuilder{node: domain.Node{Key: cfg.Key}}
		return nb
	}
	return b.Add(nb)
}

// Build compiles the registered nodes into an immutable schema.
func (b *Builder) Build(opts ...schema.Option) (*schema.Schema, error) {
	if b.err != nil {
		return nil, fmt.Errorf("schema %s: %w", b.name, b.err)
	}

	nodes := make([]domain.Node, 0, len(b.nodes))
	for _, nb := range b.nodes {
		nodes = append(nodes, nb.Build())
	}

	s, err := schema.New(b.name, nodes, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}
	return s, nil
}
