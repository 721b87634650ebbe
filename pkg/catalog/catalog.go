// Package catalog lists the document types formflow can prepare.
package catalog

import (
	"embed"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"github.com/aretw0/formflow/pkg/adapters/cel"
	"github.com/aretw0/formflow/pkg/adapters/yamlform"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/materialize"
	"github.com/aretw0/formflow/pkg/schema"
)

// SupportedForms names the built-in document types.
var SupportedForms = []string{"i589"}

//go:embed forms/*.yaml
var definitions embed.FS

// Form is a questionnaire bound to the fillable template it produces.
type Form struct {
	ID       string
	Title    string
	Schema   *schema.Schema
	Template string
	Mapper   materialize.FieldMapper
}

// Registry manages the available forms.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]Form
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		forms: make(map[string]Form),
	}
}

// Register adds a form to the registry.
// If a form with the same ID exists, it is overwritten.
func (r *Registry) Register(f Form) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms[f.ID] = f
}

// Get looks up a form by ID.
func (r *Registry) Get(id string) (Form, error) {
	r.mu.RLock()
	f, ok := r.forms[id]
	r.mu.RUnlock()

	if !ok {
		return Form{}, fmt.Errorf("%w: %s", domain.ErrUnknownForm, id)
	}
	return f, nil
}

// List returns the registered forms ordered by ID.
func (r *Registry) List() []Form {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Form, 0, len(r.forms))
	for _, f := range r.forms {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b Form) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Default registers every supported form. Templates are expected at
// <templateDir>/<id>.pdf; they are only opened when a document is read or filled.
func Default(templateDir string) (*Registry, error) {
	eval, err := cel.New()
	if err != nil {
		return nil, err
	}
	loader := yamlform.New(yamlform.WithExpressions(eval))

	r := NewRegistry()
	for _, id := range SupportedForms {
		data, err := definitions.ReadFile("forms/" + id + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("form %s: %w", id, err)
		}
		def, err := loader.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("form %s: %w", id, err)
		}
		r.Register(Form{
			ID:       id,
			Title:    def.Title,
			Schema:   def.Schema,
			Template: filepath.Join(templateDir, id+".pdf"),
			Mapper:   mapperFor(id, def.Fields),
		})
	}
	return r, nil
}

func mapperFor(id string, fields materialize.FieldMap) materialize.FieldMapper {
	switch id {
	case "i589":
		return i589Mapper{fields: fields}
	}
	return fields
}

// i589Mapper adds the derived fields the declarative bindings cannot express.
type i589Mapper struct {
	fields materialize.FieldMap
}

const (
	i589FullName      = "form1[0].#subform[9].PtAIILine1_Name[0]"
	i589ChildrenCount = "form1[0].#subform[1].TotalChild[0]"
	i589NotMarried    = "form1[0].#subform[0].ChkBox1[0]"
)

func (m i589Mapper) MapFields(answers domain.Answers) (map[string]string, error) {
	out, err := m.fields.MapFields(answers)
	if err != nil {
		return nil, err
	}

	family, given := answers["family_name"], answers["given_name"]
	if family.Kind == domain.KindString && given.Kind == domain.KindString {
		out[i589FullName] = given.Str + " " + family.Str
	}

	if married, ok := answers["married"]; ok && married.Kind == domain.KindBool && !married.Bool {
		out[i589NotMarried] = "1"
	}

	children := 0.0
	if n, ok := answers["children_count"]; ok {
		if n.Kind != domain.KindNumber {
			return nil, &domain.TypeMismatchError{Field: "children_count", Want: domain.KindNumber, Got: n.Kind}
		}
		children = n.Num
	}
	if has, ok := answers["has_children"]; ok && has.Kind == domain.KindBool && !has.Bool {
		children = 0
	}
	if _, answered := answers["has_children"]; answered {
		out[i589ChildrenCount] = strconv.FormatFloat(children, 'f', -1, 64)
	}
	return out, nil
}
