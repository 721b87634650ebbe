package schema

import (
	"context"
	"fmt"

	"github.com/aretw0/formflow/pkg/domain"
)

// Transition evaluates the rules of node current against answers and returns
// the classified step. Rules are consulted in declaration order and the first
// match wins, even if a later rule would also match.
//
// An unknown current key, or a matching rule whose destination is not
// registered, yields OutcomeNoTransition. When no rule matches, Next is the
// current key and the outcome tells a final node apart from exhausted rules.
// Errors are only returned when a predicate cannot be evaluated.
func (s *Schema) Transition(ctx context.Context, current string, answers domain.Answers) (domain.Step, error) {
	step := domain.Step{From: current, Rule: -1}

	node, ok := s.node(current)
	if !ok {
		step.Outcome = domain.OutcomeNoTransition
		step.Reason = domain.ReasonUnknownState
		return step, nil
	}

	for i, rule := range node.Rules {
		matched, err := rule.Matches(ctx, answers, s.evaluator)
		if err != nil {
			return domain.Step{}, fmt.Errorf("node %s rule %d: %w", current, i, err)
		}
		if !matched {
			continue
		}

		step.Rule = i
		if _, ok := s.index[rule.To]; !ok {
			step.Outcome = domain.OutcomeNoTransition
			step.Reason = domain.ReasonInvalidDestination
			step.Target = rule.To
			return step, nil
		}
		step.Next = rule.To
		step.Outcome = domain.OutcomeAdvance
		return step, nil
	}

	step.Next = current
	if node.Final {
		step.Outcome = domain.OutcomeTerminal
	} else {
		step.Outcome = domain.OutcomeExhausted
	}
	return step, nil
}
