// Package cel evaluates expression rules with the Common Expression Language.
//
// Expressions see a single variable, answers, holding the accumulated answers
// as plain values: strings, bools, doubles and lists of strings.
//
//	has(answers.age) && answers.age >= 18
//	"asylum" in answers.relief
package cel

import (
	"context"
	"fmt"
	"sync"

	celgo "github.com/google/cel-go/cel"

	"github.com/aretw0/formflow/pkg/domain"
)

// DefaultCostLimit bounds the work a single expression may do.
const DefaultCostLimit = 1_000_000

// Evaluator compiles expressions once and caches the resulting programs.
// It is safe for concurrent use.
type Evaluator struct {
	env      *celgo.Env
	programs map[string]celgo.Program
	mu       sync.RWMutex
}

// New creates an evaluator with the answers variable declared.
func New() (*Evaluator, error) {
	env, err := celgo.NewEnv(
		celgo.Variable("answers", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{
		env:      env,
		programs: make(map[string]celgo.Program),
	}, nil
}

// Compile parses and checks expr, caching the program.
// Loaders call it up front so that malformed rules fail before a session starts.
func (e *Evaluator) Compile(expr string) error {
	_, err := e.program(expr)
	return err
}

func (e *Evaluator) program(expr string) (celgo.Program, error) {
	e.mu.RLock()
	prog, ok := e.programs[expr]
	e.mu.RUnlock()
	if ok {
		return prog, nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error in %q: %w", expr, issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(celgo.BoolType) && !out.IsExactType(celgo.DynType) {
		return nil, fmt.Errorf("expression %q yields %s, want bool", expr, out)
	}
	prog, err := e.env.Program(ast,
		celgo.CostLimit(DefaultCostLimit),
		celgo.InterruptCheckFrequency(100),
	)
	if err != nil {
		return nil, fmt.Errorf("program creation error in %q: %w", expr, err)
	}

	e.mu.Lock()
	e.programs[expr] = prog
	e.mu.Unlock()
	return prog, nil
}

// Evaluate runs expr against answers. It satisfies domain.ConditionEvaluator.
func (e *Evaluator) Evaluate(ctx context.Context, expr string, answers domain.Answers) (bool, error) {
	prog, err := e.program(expr)
	if err != nil {
		return false, err
	}

	out, _, err := prog.ContextEval(ctx, map[string]any{"answers": answers.Native()})
	if err != nil {
		return false, fmt.Errorf("evaluating %q: %w", expr, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q yields %T, want bool", expr, out.Value())
	}
	return matched, nil
}
