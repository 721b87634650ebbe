package schema

import (
	"fmt"

	"github.com/aretw0/formflow/pkg/domain"
)

// Schema is the ordered set of question nodes for one document type.
// It is immutable after New and safe to share across sessions.
type Schema struct {
	name      string
	nodes     []domain.Node
	index     map[string]int
	evaluator domain.ConditionEvaluator
}

// Option configures a Schema.
type Option func(*Schema)

// WithConditionEvaluator sets the evaluator used by expression rules.
func WithConditionEvaluator(eval domain.ConditionEvaluator) Option {
	return func(s *Schema) {
		s.evaluator = eval
	}
}

// New builds a schema from nodes in declaration order.
// Node keys must be non-empty and unique, and every answer type must be recognized.
func New(name string, nodes []domain.Node, opts ...Option) (*Schema, error) {
	s := &Schema{
		name:  name,
		nodes: make([]domain.Node, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}

	for _, n := range nodes {
		if n.Key == "" {
			return nil, fmt.Errorf("schema %s: node missing key", name)
		}
		if _, dup := s.index[n.Key]; dup {
			return nil, fmt.Errorf("schema %s: duplicate node key %q", name, n.Key)
		}
		if _, err := domain.ParseAnswerType(string(n.Type)); err != nil {
			return nil, fmt.Errorf("schema %s: node %q: %w", name, n.Key, err)
		}
		s.index[n.Key] = len(s.nodes)
		s.nodes = append(s.nodes, n.Clone())
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns the document type this schema describes.
func (s *Schema) Name() string {
	return s.name
}

// Node looks up a node by key. The result is a deep copy.
func (s *Schema) Node(key string) (domain.Node, bool) {
	n, ok := s.node(key)
	if !ok {
		return domain.Node{}, false
	}
	return n.Clone(), true
}

// Nodes returns deep copies of the nodes in declaration order.
func (s *Schema) Nodes() []domain.Node {
	out := make([]domain.Node, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Clone()
	}
	return out
}

func (s *Schema) node(key string) (*domain.Node, bool) {
	i, ok := s.index[key]
	if !ok {
		return nil, false
	}
	return &s.nodes[i], true
}

// Initial returns the key of the first node flagged initial,
// or the first declared node when none is flagged.
func (s *Schema) Initial() string {
	for _, n := range s.nodes {
		if n.Initial {
			return n.Key
		}
	}
	if len(s.nodes) == 0 {
		return ""
	}
	return s.nodes[0].Key
}
