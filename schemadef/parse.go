// Package schemadef declares attribute schemas from YAML definition files.
//
// A definition file lists models in order. A model may extend an earlier one,
// inheriting its attributes before declaring its own:
//
//	models:
//	  - name: User
//	    table: users
//	    attributes:
//	      - name: id
//	        type: integer
//	      - name: reward_points
//	        type: integer
//	        default: 0
//	      - name: password_digest
//	        type: string
//	        visibility: private
//	  - name: Admin
//	    extends: User
//	    attributes:
//	      - name: level
//	        type: integer
package schemadef

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jacentio/modelattr/attribute"
)

// File is the top level of a definition file.
type File struct {
	Models []ModelDef `yaml:"models" json:"models" validate:"required,min=1,unique=Name,dive"`
}

// ModelDef defines one model.
type ModelDef struct {
	Name       string         `yaml:"name" json:"name" validate:"required"`
	Table      string         `yaml:"table,omitempty" json:"table,omitempty"`
	Extends    string         `yaml:"extends,omitempty" json:"extends,omitempty"`
	Attributes []AttributeDef `yaml:"attributes" json:"attributes" validate:"dive"`
}

// AttributeDef defines one attribute of a model.
type AttributeDef struct {
	Name       string `yaml:"name" json:"name" validate:"required"`
	Type       string `yaml:"type" json:"type" validate:"required"`
	Default    any    `yaml:"default" json:"default"`
	Visibility string `yaml:"visibility,omitempty" json:"visibility,omitempty" validate:"omitempty,oneof=public private"`
	Identity   bool   `yaml:"identity,omitempty" json:"identity,omitempty"`
}

var validate = validator.New()

// Load reads and parses the definition file at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a definition file and builds a Registry of its models.
// Unknown fields are rejected.
func Parse(data []byte) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	return Build(f)
}

// Build validates f and declares its models in order.
func Build(f File) (*Registry, error) {
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	r := NewRegistry()
	for _, def := range f.Models {
		schema, err := buildModel(r, def)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", def.Name, err)
		}
		if err := r.Register(schema, def.Table); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func buildModel(r *Registry, def ModelDef) (*attribute.Schema, error) {
	b := attribute.NewSchemaBuilder(def.Name)

	if def.Extends != "" {
		parent, err := r.Schema(def.Extends)
		if err != nil {
			return nil, fmt.Errorf("%w: extends must name an earlier model: %w", ErrInvalidDefinition, err)
		}
		if err := b.Extend(parent); err != nil {
			return nil, err
		}
	}

	for _, attr := range def.Attributes {
		t, err := attribute.ParseType(attr.Type)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", attr.Name, err)
		}

		var opts []attribute.AttributeOption
		if attr.Default != nil {
			opts = append(opts, attribute.Default(attr.Default))
		}
		if attr.Visibility == "private" {
			opts = append(opts, attribute.Private())
		}
		if attr.Identity {
			opts = append(opts, attribute.Identity())
		}

		if err := b.Attribute(attr.Name, t, opts...); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// Describe returns the definition of a built schema. Inherited attributes are
// listed as the model's own, and defaults are given in their JSON form.
func Describe(schema *attribute.Schema) ModelDef {
	id, _ := schema.Identity()

	def := ModelDef{Name: schema.Name()}
	for _, name := range schema.Attributes() {
		t, _ := schema.Type(name)
		attr := AttributeDef{
			Name:     name,
			Type:     t.String(),
			Identity: name == id && name != "id",
		}
		if v, ok := schema.Default(name); ok {
			attr.Default = v.JSONValue()
		}
		if vis, _ := schema.Visibility(name); vis == attribute.VisibilityPrivate {
			attr.Visibility = vis.String()
		}
		def.Attributes = append(def.Attributes, attr)
	}
	return def
}

// Definition returns the definition file of every registered model.
func (r *Registry) Definition() File {
	var f File
	for _, entry := range r.entries {
		def := Describe(entry.Schema)
		def.Table = entry.Table
		f.Models = append(f.Models, def)
	}
	return f
}
