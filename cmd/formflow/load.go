package main

import (
	"os"
	"path/filepath"

	"github.com/aretw0/formflow/pkg/adapters/cel"
	"github.com/aretw0/formflow/pkg/adapters/yamlform"
	"github.com/aretw0/formflow/pkg/catalog"
	"github.com/aretw0/formflow/pkg/schema"
)

// loadSchema resolves a catalog form ID or a path to a YAML definition.
func loadSchema(ref, templateDir string) (*schema.Schema, error) {
	if ext := filepath.Ext(ref); ext == ".yaml" || ext == ".yml" {
		if _, err := os.Stat(ref); err == nil {
			eval, err := cel.New()
			if err != nil {
				return nil, err
			}
			def, err := yamlform.New(yamlform.WithExpressions(eval)).LoadFile(ref)
			if err != nil {
				return nil, err
			}
			return def.Schema, nil
		}
	}

	reg, err := catalog.Default(templateDir)
	if err != nil {
		return nil, err
	}
	f, err := reg.Get(ref)
	if err != nil {
		return nil, err
	}
	return f.Schema, nil
}
