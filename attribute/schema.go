package attribute

import "fmt"

// Visibility controls whether mass assignment may set an attribute.
type Visibility uint8

const (
	// VisibilityPublic attributes are set by SetAttributes.
	VisibilityPublic Visibility = iota
	// VisibilityPrivate attributes are set by SetAttributes only when private access is allowed.
	VisibilityPrivate
)

func (v Visibility) String() string {
	if v == VisibilityPrivate {
		return "private"
	}
	return "public"
}

// definition is a declared attribute.
type definition struct {
	typ        Type
	def        Value
	visibility Visibility
}

// Schema is the ordered set of attributes declared for a model. A Schema is
// immutable once built and is shared by every Model of that model.
type Schema struct {
	name     string
	order    []string
	defs     map[string]definition
	identity string
}

// Name returns the model name the schema was declared for.
func (s *Schema) Name() string { return s.name }

// Attributes returns the attribute names in declaration order.
func (s *Schema) Attributes() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of declared attributes.
func (s *Schema) Len() int { return len(s.order) }

// Has reports whether name is declared.
func (s *Schema) Has(name string) bool {
	_, ok := s.defs[name]
	return ok
}

// Type returns the declared type of name.
func (s *Schema) Type(name string) (Type, bool) {
	d, ok := s.defs[name]
	return d.typ, ok
}

// Default returns the default value of name. It returns Absent and false when
// name has no default.
func (s *Schema) Default(name string) (Value, bool) {
	d, ok := s.defs[name]
	return d.def, ok && !d.def.IsAbsent()
}

// Defaults returns the attributes that have a default.
func (s *Schema) Defaults() map[string]Value {
	defaults := make(map[string]Value)
	for name, d := range s.defs {
		if !d.def.IsAbsent() {
			defaults[name] = d.def
		}
	}
	return defaults
}

// Visibility returns the mass-assignment visibility of name.
func (s *Schema) Visibility(name string) (Visibility, bool) {
	d, ok := s.defs[name]
	return d.visibility, ok
}

// Identity returns the identity attribute, if the schema has one.
func (s *Schema) Identity() (string, bool) {
	return s.identity, s.identity != ""
}

// New returns an empty Model bound to the schema.
func (s *Schema) New() *Model {
	return NewModel(s)
}

// declaration collects the options of a single Attribute call.
type declaration struct {
	def        any
	visibility Visibility
	identity   bool
}

// AttributeOption configures a declared attribute.
type AttributeOption func(*declaration)

// Default sets the value read when the attribute has not been written. The
// value is cast to the declared type when the attribute is declared.
func Default(v any) AttributeOption {
	return func(d *declaration) { d.def = v }
}

// Private excludes the attribute from mass assignment unless private access is allowed.
func Private() AttributeOption {
	return func(d *declaration) { d.visibility = VisibilityPrivate }
}

// Identity marks the attribute that alone determines equality between models.
func Identity() AttributeOption {
	return func(d *declaration) { d.identity = true }
}

// SchemaBuilder declares the attributes of a Schema.
type SchemaBuilder struct {
	schema *Schema
	err    error
	built  bool
}

// NewSchemaBuilder creates a builder for the named model.
func NewSchemaBuilder(model string) *SchemaBuilder {
	return &SchemaBuilder{
		schema: &Schema{
			name: model,
			defs: make(map[string]definition),
		},
	}
}

// Attribute declares an attribute. A failed declaration leaves the builder
// unchanged, and the first failure is also returned by Build.
func (b *SchemaBuilder) Attribute(name string, t Type, opts ...AttributeOption) error {
	var decl declaration
	for _, opt := range opts {
		opt(&decl)
	}
	return b.record(b.declare(name, t, decl))
}

// Extend declares every attribute of parent, in order, with its default,
// visibility and identity.
func (b *SchemaBuilder) Extend(parent *Schema) error {
	for _, name := range parent.order {
		d := parent.defs[name]
		decl := declaration{
			def:        d.def,
			visibility: d.visibility,
			identity:   name == parent.identity,
		}
		if err := b.record(b.declare(name, d.typ, decl)); err != nil {
			return err
		}
	}
	return nil
}

func (b *SchemaBuilder) record(err error) error {
	if err != nil && b.err == nil {
		b.err = err
	}
	return err
}

func (b *SchemaBuilder) declare(name string, t Type, decl declaration) error {
	if b.built {
		return ErrSchemaBuilt
	}
	s := b.schema
	if name == "" {
		return &InvalidAttributeNameError{Model: s.name, Name: name}
	}
	if !t.valid() {
		return &UnsupportedTypeError{Type: t.String()}
	}
	if _, exists := s.defs[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateAttribute, name)
	}
	if decl.identity && s.identity != "" {
		return fmt.Errorf("%w: %q and %q", ErrMultipleIdentity, s.identity, name)
	}

	def, err := Cast(decl.def, t)
	if err != nil {
		return fmt.Errorf("default for %q: %w", name, err)
	}

	s.order = append(s.order, name)
	s.defs[name] = definition{typ: t, def: def, visibility: decl.visibility}
	if decl.identity {
		s.identity = name
	}
	return nil
}

// Build returns the declared schema. When no attribute was declared with
// Identity, an attribute named "id" becomes the identity attribute.
func (b *SchemaBuilder) Build() (*Schema, error) {
	if b.built {
		return nil, ErrSchemaBuilt
	}
	if b.err != nil {
		return nil, b.err
	}
	b.built = true

	s := b.schema
	if s.identity == "" {
		if _, ok := s.defs["id"]; ok {
			s.identity = "id"
		}
	}
	return s, nil
}

// MustBuild is like Build but panics on error. It is intended for schemas
// declared in package-level variables.
func (b *SchemaBuilder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
