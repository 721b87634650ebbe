package cel_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/formflow/pkg/adapters/cel"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/dsl"
	"github.com/aretw0/formflow/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluator_Evaluate(t *testing.T) {
	eval, err := cel.New()
	require.NoError(t, err)

	answers := domain.Answers{
		"age":     domain.Number(19),
		"name":    domain.String("Ana"),
		"married": domain.Bool(true),
		"relief":  domain.Multi("asylum", "cat"),
	}

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"int literal against double", "answers.age >= 18", true},
		{"double literal", "answers.age < 18.5", false},
		{"string", `answers.name == "Ana"`, true},
		{"bool", "answers.married", true},
		{"list membership", `"asylum" in answers.relief`, true},
		{"list size", "size(answers.relief) == 3", false},
		{"absent field guarded", "has(answers.spouse) && answers.spouse == 'x'", false},
		{"combined", "answers.married && answers.age >= 18", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Evaluate(context.Background(), tt.expr, answers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluator_Errors(t *testing.T) {
	eval, err := cel.New()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eval.Evaluate(ctx, "answers.age >=", domain.Answers{})
	assert.ErrorContains(t, err, "compile error")

	assert.Error(t, eval.Compile("1 + 2"), "non-boolean expressions are rejected at compile time")

	_, err = eval.Evaluate(ctx, "answers.age >= 18", domain.Answers{})
	assert.Error(t, err, "missing keys surface as evaluation errors")
}

func TestEvaluator_Concurrent(t *testing.T) {
	eval, err := cel.New()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			got, err := eval.Evaluate(context.Background(), "answers.n >= 8", domain.Answers{"n": domain.Number(float64(n))})
			assert.NoError(t, err)
			assert.Equal(t, n >= 8, got)
		}(i)
	}
	wg.Wait()
}

func TestEvaluator_DrivesTransitions(t *testing.T) {
	eval, err := cel.New()
	require.NoError(t, err)

	b := dsl.New("cel")
	b.Add(dsl.MustNode(dsl.NodeConfig{Key: "age", Type: "NUMERIC", Field: "age", Initial: true}).
		When("answers.age >= 18", "adult").
		GoTo("minor"))
	b.Question(dsl.NodeConfig{Key: "adult", Type: "NONE", Final: true})
	b.Question(dsl.NodeConfig{Key: "minor", Type: "NONE", Final: true})
	s, err := b.Build(schema.WithConditionEvaluator(eval.Evaluate))
	require.NoError(t, err)

	step, err := s.Transition(context.Background(), "age", domain.Answers{"age": domain.Number(30)})
	require.NoError(t, err)
	assert.Equal(t, "adult", step.Next)

	step, err = s.Transition(context.Background(), "age", domain.Answers{"age": domain.Number(12)})
	require.NoError(t, err)
	assert.Equal(t, "minor", step.Next)
}
