package materialize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/formflow/pkg/domain"
)

// FieldMapper translates the generic answer record into the field names and
// values a concrete document template expects.
type FieldMapper interface {
	MapFields(answers domain.Answers) (map[string]string, error)
}

// MapperFunc adapts a function to FieldMapper.
type MapperFunc func(answers domain.Answers) (map[string]string, error)

func (f MapperFunc) MapFields(answers domain.Answers) (map[string]string, error) {
	return f(answers)
}

// BaseMapper maps nothing. Concrete document types replace it entirely.
type BaseMapper struct{}

func (BaseMapper) MapFields(domain.Answers) (map[string]string, error) {
	return map[string]string{}, nil
}

// Binding ties one answer field to one document field.
type Binding struct {
	Answer   string
	Document string

	// On/Off override the rendering of boolean answers (checkbox export values).
	On  string
	Off string

	// Option binds a document checkbox to one choice of a MULTI answer.
	Option string
}

// FieldMap is a declarative FieldMapper. Unanswered fields are left out.
type FieldMap struct {
	Bindings  []Binding
	Separator string // Joins multi selections; defaults to ", "
}

func (m FieldMap) MapFields(answers domain.Answers) (map[string]string, error) {
	out := make(map[string]string, len(m.Bindings))
	for _, b := range m.Bindings {
		if b.Document == "" {
			return nil, fmt.Errorf("binding for answer %q has no document field", b.Answer)
		}
		v, ok := answers[b.Answer]
		if !ok {
			continue
		}
		s, err := m.render(b, v)
		if err != nil {
			return nil, err
		}
		out[b.Document] = s
	}
	return out, nil
}

func (m FieldMap) render(b Binding, v domain.Value) (string, error) {
	on, off := b.On, b.Off
	if on == "" {
		on = "Yes"
	}
	if off == "" {
		off = "Off"
	}

	if b.Option != "" {
		if v.Kind != domain.KindMulti {
			return "", &domain.TypeMismatchError{Field: b.Answer, Want: domain.KindMulti, Got: v.Kind}
		}
		for _, sel := range v.Multi {
			if sel == b.Option {
				return on, nil
			}
		}
		return off, nil
	}

	switch v.Kind {
	case domain.KindBool:
		if v.Bool {
			return on, nil
		}
		return off, nil
	case domain.KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64), nil
	case domain.KindMulti:
		sep := m.Separator
		if sep == "" {
			sep = ", "
		}
		return strings.Join(v.Multi, sep), nil
	}
	return v.Str, nil
}
