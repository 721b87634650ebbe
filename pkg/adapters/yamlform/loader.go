// Package yamlform loads questionnaire definitions written in YAML.
//
// A definition lists nodes in declaration order, each with ordered rules:
//
//	name: example
//	nodes:
//	  - key: married
//	    type: BOOLEAN
//	    field: married
//	    initial: true
//	    rules:
//	      - if_true: spouse
//	      - goto: done
//	fields:
//	  bindings:
//	    - answer: married
//	      field: "Pt1Line9_Married[0]"
package yamlform

import (
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/formflow/internal/dto"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/dsl"
	"github.com/aretw0/formflow/pkg/materialize"
	"github.com/aretw0/formflow/pkg/schema"
)

// ExpressionEngine compiles and evaluates "when" rules.
type ExpressionEngine interface {
	Compile(expr string) error
	Evaluate(ctx context.Context, expr string, answers domain.Answers) (bool, error)
}

// Definition is a loaded questionnaire.
type Definition struct {
	Name   string
	Title  string
	Schema *schema.Schema
	Fields materialize.FieldMap
}

// Loader turns definition documents into schemas.
type Loader struct {
	engine ExpressionEngine
}

// Option configures a Loader.
type Option func(*Loader)

// WithExpressions makes "when" rules compile at load time and evaluate through engine.
func WithExpressions(engine ExpressionEngine) Option {
	return func(l *Loader) {
		l.engine = engine
	}
}

// New creates a new loader.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads and parses the definition at path.
func (l *Loader) LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form definition: %w", err)
	}
	def, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a YAML (or JSON) definition and builds its schema.
func (l *Loader) Parse(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse form definition: %w", err)
	}

	var def dto.FormDefinition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &def,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode form definition: %w", err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("form definition missing name")
	}

	b := dsl.New(def.Name)
	for _, nd := range def.Nodes {
		nb, err := dsl.NewNode(dsl.NodeConfig{
			Key:         nd.Key,
			Type:        nd.Type,
			Field:       nd.Field,
			Options:     nd.Options,
			Context:     nd.Context,
			Placeholder: nd.Placeholder,
			Question:    nd.Question,
			Initial:     nd.Initial,
			Final:       nd.Final,
		})
		if err != nil {
			return nil, err
		}
		for i, rd := range nd.Rules {
			if err := l.applyRule(nb, rd); err != nil {
				return nil, fmt.Errorf("node %q rule %d: %w", nd.Key, i, err)
			}
		}
		b.Add(nb)
	}

	var opts []schema.Option
	if l.engine != nil {
		opts = append(opts, schema.WithConditionEvaluator(l.engine.Evaluate))
	}
	s, err := b.Build(opts...)
	if err != nil {
		return nil, err
	}

	return &Definition{
		Name:   def.Name,
		Title:  def.Title,
		Schema: s,
		Fields: fieldMap(def.Fields),
	}, nil
}

func (l *Loader) applyRule(nb *dsl.NodeBuilder, rd dto.RuleDefinition) error {
	conditions := 0
	for _, set := range []bool{
		rd.IfTrue != "", rd.IfFalse != "", rd.GTE != nil, rd.LTE != nil,
		rd.EQ != nil, rd.Has != "", rd.When != "", rd.GoTo != "",
	} {
		if set {
			conditions++
		}
	}
	if conditions != 1 {
		return fmt.Errorf("expected exactly one condition, found %d", conditions)
	}

	switch {
	case rd.IfTrue != "":
		nb.IfTrue(rd.IfTrue)
		return nil
	case rd.IfFalse != "":
		nb.IfFalse(rd.IfFalse)
		return nil
	case rd.GoTo != "":
		nb.GoTo(rd.GoTo)
		return nil
	}

	if rd.To == "" {
		return fmt.Errorf("rule has no destination")
	}
	switch {
	case rd.GTE != nil:
		nb.IfGreaterThanOrEqualTo(*rd.GTE, rd.To)
	case rd.LTE != nil:
		nb.IfLessThanOrEqualTo(*rd.LTE, rd.To)
	case rd.EQ != nil:
		v, err := domain.ValueOf(rd.EQ)
		if err != nil {
			return err
		}
		nb.IfEqualTo(v, rd.To)
	case rd.Has != "":
		nb.IfSelected(rd.Has, rd.To)
	case rd.When != "":
		if l.engine != nil {
			if err := l.engine.Compile(rd.When); err != nil {
				return err
			}
		}
		nb.When(rd.When, rd.To)
	}
	return nil
}

func fieldMap(fs *dto.FieldsSection) materialize.FieldMap {
	if fs == nil {
		return materialize.FieldMap{}
	}
	m := materialize.FieldMap{Separator: fs.Separator}
	for _, b := range fs.Bindings {
		m.Bindings = append(m.Bindings, materialize.Binding{
			Answer:   b.Answer,
			Document: b.Field,
			On:       b.On,
			Off:      b.Off,
			Option:   b.Option,
		})
	}
	return m
}
