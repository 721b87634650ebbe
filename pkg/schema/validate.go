package schema

import (
	"fmt"

	"github.com/aretw0/formflow/pkg/domain"
)

// Validate reports structural problems that New does not reject:
// initial/final flags, dangling destinations, unreachable nodes and
// MULTI nodes without options. It returns nil or an *AggregateError.
func (s *Schema) Validate() error {
	var errs []error

	initials := 0
	finals := 0
	for _, n := range s.nodes {
		if n.Initial {
			initials++
		}
		if n.Final {
			finals++
		}
		if n.Type == domain.AnswerMulti && len(n.Options) == 0 {
			errs = append(errs, &ValidationError{Key: n.Key, Reason: "MULTI node declares no options"})
		}
		if n.Type != domain.AnswerNone && n.Field == "" {
			errs = append(errs, &ValidationError{Key: n.Key, Reason: "node collects an answer but has no field"})
		}
		for i, r := range n.Rules {
			if _, ok := s.index[r.To]; !ok {
				errs = append(errs, &ValidationError{
					Key:    n.Key,
					Reason: fmt.Sprintf("rule %d (%s) targets unknown node %q", i, r, r.To),
				})
			}
		}
	}

	switch {
	case initials == 0:
		errs = append(errs, &ValidationError{Reason: "no initial node"})
	case initials > 1:
		errs = append(errs, &ValidationError{Reason: fmt.Sprintf("%d initial nodes, expected exactly one", initials)})
	}
	if finals == 0 {
		errs = append(errs, &ValidationError{Reason: "no final node"})
	}

	for _, key := range s.unreachable() {
		errs = append(errs, &ValidationError{Key: key, Reason: "unreachable from the initial node"})
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// unreachable crawls the rules breadth-first from the initial node.
func (s *Schema) unreachable() []string {
	start := s.Initial()
	if start == "" {
		return nil
	}

	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node, ok := s.node(current)
		if !ok {
			continue
		}
		for _, r := range node.Rules {
			if _, ok := s.index[r.To]; !ok || visited[r.To] {
				continue
			}
			visited[r.To] = true
			queue = append(queue, r.To)
		}
	}

	var out []string
	for _, n := range s.nodes {
		if !visited[n.Key] {
			out = append(out, n.Key)
		}
	}
	return out
}
