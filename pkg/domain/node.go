package domain

import "slices"

// Node is a single question of a questionnaire.
// Nodes are built once at definition time and shared by every session.
type Node struct {
	Key   string     `json:"key" yaml:"key"`
	Type  AnswerType `json:"type" yaml:"type"`
	Field string     `json:"field,omitempty" yaml:"field,omitempty"`

	// Options lists the choices of a MULTI node.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	Context     string `json:"context,omitempty" yaml:"context,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Question    string `json:"question,omitempty" yaml:"question,omitempty"`

	Initial bool `json:"initial,omitempty" yaml:"initial,omitempty"`
	Final   bool `json:"final,omitempty" yaml:"final,omitempty"`

	// Rules are evaluated in declaration order; the first match wins.
	Rules []Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// CollectsAnswer reports whether the node writes to its field.
func (n Node) CollectsAnswer() bool {
	return n.Type != AnswerNone && n.Field != ""
}

// Clone returns a deep copy whose options and rules share no memory with n.
func (n Node) Clone() Node {
	n.Options = slices.Clone(n.Options)
	if n.Rules != nil {
		rules := make([]Rule, len(n.Rules))
		for i, r := range n.Rules {
			rules[i] = r.Clone()
		}
		n.Rules = rules
	}
	return n
}
