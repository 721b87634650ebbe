package runtime

import (
	"fmt"
	"slices"

	"github.com/aretw0/formflow/pkg/domain"
)

// Prompt is what a session presents at its current node.
type Prompt struct {
	Key         string            `json:"key"`
	Type        domain.AnswerType `json:"type"`
	Question    string            `json:"question,omitempty"`
	Context     string            `json:"context,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Options     []string          `json:"options,omitempty"`
	Final       bool              `json:"final"`
}

// NeedsInput reports whether the prompt waits for an answer.
func (p Prompt) NeedsInput() bool {
	return p.Type != domain.AnswerNone
}

// Render describes the current node of state.
func (e *Engine) Render(state *domain.State) (Prompt, error) {
	node, ok := e.schema.Node(state.CurrentKey)
	if !ok {
		return Prompt{}, fmt.Errorf("node %q not found in schema %s", state.CurrentKey, e.schema.Name())
	}
	return Prompt{
		Key:         node.Key,
		Type:        node.Type,
		Question:    node.Question,
		Context:     node.Context,
		Placeholder: node.Placeholder,
		Options:     slices.Clone(node.Options),
		Final:       node.Final,
	}, nil
}
