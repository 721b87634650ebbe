package dsl

import (
	"fmt"
	"slices"

	"github.com/aretw0/formflow/pkg/domain"
)

// NodeConfig carries the descriptive part of a question node.
type NodeConfig struct {
	Key         string
	Type        string
	Field       string
	Options     []string
	Context     string
	Placeholder string
	Question    string
	Initial     bool
	Final       bool
}

// NodeBuilder provides a fluent API for appending transition rules to a node.
// Every rule method appends exactly one rule and returns the same builder.
type NodeBuilder struct {
	node domain.Node
}

// NewNode validates the answer type and returns a builder for the node.
func NewNode(cfg NodeConfig) (*NodeBuilder, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("node missing key")
	}
	typ, err := domain.ParseAnswerType(cfg.Type)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", cfg.Key, err)
	}
	return &NodeBuilder{
		node: domain.Node{
			Key:         cfg.Key,
			Type:        typ,
			Field:       cfg.Field,
			Options:     slices.Clone(cfg.Options),
			Context:     cfg.Context,
			Placeholder: cfg.Placeholder,
			Question:    cfg.Question,
			Initial:     cfg.Initial,
			Final:       cfg.Final,
		},
	}, nil
}

// MustNode is like NewNode but panics on an invalid definition.
// It is meant for catalog forms declared in Go.
func MustNode(cfg NodeConfig) *NodeBuilder {
	nb, err := NewNode(cfg)
	if err != nil {
		panic(err)
	}
	return nb
}

func (n *NodeBuilder) add(r domain.Rule) *NodeBuilder {
	n.node.Rules = append(n.node.Rules, r)
	return n
}

func (n *NodeBuilder) compare(op domain.CompareOp, threshold domain.Value, to string) *NodeBuilder {
	return n.add(domain.Rule{Kind: domain.RuleCompare, Op: op, Field: n.node.Field, Threshold: &threshold, To: to})
}

// IfTrue transitions to `to` when the node's field holds true.
func (n *NodeBuilder) IfTrue(to string) *NodeBuilder {
	return n.add(domain.Rule{Kind: domain.RuleIfTrue, Field: n.node.Field, To: to})
}

// IfFalse transitions to `to` when the node's field holds false or is unanswered.
func (n *NodeBuilder) IfFalse(to string) *NodeBuilder {
	return n.add(domain.Rule{Kind: domain.RuleIfFalse, Field: n.node.Field, To: to})
}

// IfGreaterThanOrEqualTo transitions when the numeric answer is >= threshold.
func (n *NodeBuilder) IfGreaterThanOrEqualTo(threshold float64, to string) *NodeBuilder {
	return n.compare(domain.OpGreaterOrEqual, domain.Number(threshold), to)
}

// IfLessThanOrEqualTo transitions when the numeric answer is <= threshold.
func (n *NodeBuilder) IfLessThanOrEqualTo(threshold float64, to string) *NodeBuilder {
	return n.compare(domain.OpLessOrEqual, domain.Number(threshold), to)
}

// IfEqualTo transitions when the answer equals v. Kinds must agree at evaluation time.
func (n *NodeBuilder) IfEqualTo(v domain.Value, to string) *NodeBuilder {
	return n.compare(domain.OpEqual, v, to)
}

// IfSelected transitions when a MULTI answer includes option.
func (n *NodeBuilder) IfSelected(option string, to string) *NodeBuilder {
	return n.compare(domain.OpHas, domain.String(option), to)
}

// When adds a transition guarded by a condition expression.
func (n *NodeBuilder) When(expr string, to string) *NodeBuilder {
	return n.add(domain.Rule{Kind: domain.RuleExpr, Expr: expr, To: to})
}

// GoTo adds an unconditional transition.
func (n *NodeBuilder) GoTo(to string) *NodeBuilder {
	return n.add(domain.Rule{Kind: domain.RuleAlways, To: to})
}

// Build returns a copy of the underlying domain.Node.
func (n *NodeBuilder) Build() domain.Node {
	out := n.node
	out.Options = slices.Clone(n.node.Options)
	out.Rules = slices.Clone(n.node.Rules)
	return out
}
