package yamlform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/formflow/pkg/adapters/cel"
	"github.com/aretw0/formflow/pkg/adapters/yamlform"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
name: sample
title: Sample form
nodes:
  - key: married
    type: BOOLEAN
    field: married
    question: Are you married?
    initial: true
    rules:
      - if_true: spouse
      - if_false: age
  - key: spouse
    type: STRING
    field: spouse_name
    rules:
      - goto: age
  - key: age
    type: NUMERIC
    field: age
    rules:
      - gte: 18
        to: relief
      - lte: 17
        to: minor
  - key: relief
    type: MULTI
    field: relief
    options: [asylum, withholding]
    rules:
      - has: asylum
        to: done
      - eq: [withholding]
        to: minor
  - key: minor
    type: NONE
    final: true
  - key: done
    type: NONE
    final: true
fields:
  separator: "; "
  bindings:
    - answer: spouse_name
      field: SpouseName
    - answer: married
      field: Married
      on: "Y"
      off: "N"
    - answer: relief
      field: Asylum
      option: asylum
`

func TestLoader_Parse(t *testing.T) {
	def, err := yamlform.New().Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "sample", def.Name)
	assert.Equal(t, "Sample form", def.Title)
	assert.Equal(t, "married", def.Schema.Initial())
	require.NoError(t, def.Schema.Validate())

	ctx := context.Background()
	step, err := def.Schema.Transition(ctx, "married", domain.Answers{"married": domain.Bool(true)})
	require.NoError(t, err)
	assert.Equal(t, "spouse", step.Next)

	step, err = def.Schema.Transition(ctx, "age", domain.Answers{"age": domain.Number(18)})
	require.NoError(t, err)
	assert.Equal(t, "relief", step.Next)

	step, err = def.Schema.Transition(ctx, "relief", domain.Answers{"relief": domain.Multi("withholding")})
	require.NoError(t, err)
	assert.Equal(t, "minor", step.Next)

	node, ok := def.Schema.Node("relief")
	require.True(t, ok)
	assert.Equal(t, []string{"asylum", "withholding"}, node.Options)

	fields, err := def.Fields.MapFields(domain.Answers{
		"married": domain.Bool(false),
		"relief":  domain.Multi("asylum"),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Married": "N", "Asylum": "Yes"}, fields)
	assert.Equal(t, "; ", def.Fields.Separator)
}

func TestLoader_Expressions(t *testing.T) {
	doc := `
name: expr
nodes:
  - key: age
    type: NUMERIC
    field: age
    initial: true
    rules:
      - when: "answers.age >= 65"
        to: senior
      - goto: done
  - key: senior
    type: NONE
    final: true
  - key: done
    type: NONE
    final: true
`
	eval, err := cel.New()
	require.NoError(t, err)

	def, err := yamlform.New(yamlform.WithExpressions(eval)).Parse([]byte(doc))
	require.NoError(t, err)

	step, err := def.Schema.Transition(context.Background(), "age", domain.Answers{"age": domain.Number(70)})
	require.NoError(t, err)
	assert.Equal(t, "senior", step.Next)

	// Without an engine the rule is kept but cannot be evaluated.
	def, err = yamlform.New().Parse([]byte(doc))
	require.NoError(t, err)
	_, err = def.Schema.Transition(context.Background(), "age", domain.Answers{"age": domain.Number(70)})
	assert.ErrorIs(t, err, domain.ErrNoEvaluator)
}

func TestLoader_Errors(t *testing.T) {
	eval, err := cel.New()
	require.NoError(t, err)
	loader := yamlform.New(yamlform.WithExpressions(eval))

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"syntax", "name: [", "failed to parse"},
		{"missing name", "nodes: []", "missing name"},
		{"unknown key", "name: x\ncolour: red", "failed to decode"},
		{"bad type", "name: x\nnodes:\n  - key: a\n    type: DATE", "invalid answer type"},
		{"two conditions", "name: x\nnodes:\n  - key: a\n    type: BOOLEAN\n    field: a\n    rules:\n      - if_true: a\n        if_false: a", "exactly one condition"},
		{"no destination", "name: x\nnodes:\n  - key: a\n    type: NUMERIC\n    field: a\n    rules:\n      - gte: 3", "no destination"},
		{"bad expression", "name: x\nnodes:\n  - key: a\n    type: NUMERIC\n    field: a\n    rules:\n      - when: 'answers.a >'\n        to: a", "compile error"},
		{"duplicate", "name: x\nnodes:\n  - key: a\n    type: NONE\n  - key: a\n    type: NONE", "duplicate node key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	def, err := yamlform.New().LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, def.Schema.Nodes(), 6)

	_, err = yamlform.New().LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
