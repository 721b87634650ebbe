package domain

import (
	"context"
	"fmt"
	"slices"
)

// RuleKind tags the predicate variant of a transition rule.
type RuleKind string

const (
	RuleAlways  RuleKind = "always"
	RuleIfTrue  RuleKind = "if_true"
	RuleIfFalse RuleKind = "if_false"
	RuleCompare RuleKind = "compare"
	RuleExpr    RuleKind = "expr"
)

// CompareOp is the comparison applied by a RuleCompare rule.
type CompareOp string

const (
	OpGreaterOrEqual CompareOp = "gte"
	OpLessOrEqual    CompareOp = "lte"
	OpEqual          CompareOp = "eq"
	// OpHas matches when a multi selection contains the threshold option.
	OpHas CompareOp = "has"
)

// ConditionEvaluator decides expression rules against the accumulated answers.
type ConditionEvaluator func(ctx context.Context, expr string, answers Answers) (bool, error)

// Rule pairs a predicate over the answer record with a destination node key.
// Rules are plain data so they can be inspected, rendered and serialized.
type Rule struct {
	Kind      RuleKind  `json:"kind" yaml:"kind"`
	Op        CompareOp `json:"op,omitempty" yaml:"op,omitempty"`
	Field     string    `json:"field,omitempty" yaml:"field,omitempty"`
	Threshold *Value    `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Expr      string    `json:"expr,omitempty" yaml:"expr,omitempty"`
	To        string    `json:"to" yaml:"to"`
}

// Clone returns a copy that does not share its threshold with r.
func (r Rule) Clone() Rule {
	if r.Threshold != nil {
		t := *r.Threshold
		t.Multi = slices.Clone(t.Multi)
		r.Threshold = &t
	}
	return r
}

// Matches reports whether the rule's predicate holds for answers.
// An absent field never satisfies a rule, except RuleIfFalse where an
// unanswered flag counts as false.
func (r Rule) Matches(ctx context.Context, answers Answers, eval ConditionEvaluator) (bool, error) {
	switch r.Kind {
	case RuleAlways:
		return true, nil
	case RuleIfTrue, RuleIfFalse:
		v, ok := answers[r.Field]
		if !ok {
			return r.Kind == RuleIfFalse, nil
		}
		if v.Kind != KindBool {
			return false, &TypeMismatchError{Field: r.Field, Want: KindBool, Got: v.Kind}
		}
		return v.Bool == (r.Kind == RuleIfTrue), nil
	case RuleCompare:
		return r.compare(answers)
	case RuleExpr:
		if eval == nil {
			return false, ErrNoEvaluator
		}
		return eval(ctx, r.Expr, answers)
	}
	return false, fmt.Errorf("unknown rule kind %q", r.Kind)
}

func (r Rule) compare(answers Answers) (bool, error) {
	if r.Threshold == nil {
		return false, fmt.Errorf("compare rule on %q has no threshold", r.Field)
	}
	v, ok := answers[r.Field]
	if !ok {
		return false, nil
	}
	t := *r.Threshold

	switch r.Op {
	case OpGreaterOrEqual, OpLessOrEqual:
		if v.Kind != KindNumber {
			return false, &TypeMismatchError{Field: r.Field, Want: KindNumber, Got: v.Kind}
		}
		if r.Op == OpGreaterOrEqual {
			return v.Num >= t.Num, nil
		}
		return v.Num <= t.Num, nil
	case OpEqual:
		if v.Kind != t.Kind {
			return false, &TypeMismatchError{Field: r.Field, Want: t.Kind, Got: v.Kind}
		}
		return v.Equal(t), nil
	case OpHas:
		if v.Kind != KindMulti {
			return false, &TypeMismatchError{Field: r.Field, Want: KindMulti, Got: v.Kind}
		}
		return slices.Contains(v.Multi, t.Str), nil
	}
	return false, fmt.Errorf("unknown compare op %q", r.Op)
}

func (r Rule) String() string {
	switch r.Kind {
	case RuleAlways:
		return "always"
	case RuleIfTrue:
		return r.Field
	case RuleIfFalse:
		return "not " + r.Field
	case RuleCompare:
		sym := map[CompareOp]string{OpGreaterOrEqual: ">=", OpLessOrEqual: "<=", OpEqual: "==", OpHas: "has"}[r.Op]
		if r.Threshold == nil {
			return fmt.Sprintf("%s %s ?", r.Field, sym)
		}
		return fmt.Sprintf("%s %s %s", r.Field, sym, r.Threshold)
	case RuleExpr:
		return r.Expr
	}
	return string(r.Kind)
}
