package attribute

import "fmt"

// Change is a change log entry: the value before the first unreverted write
// and the current value. Original and Current are never equal.
type Change struct {
	Original Value
	Current  Value
}

// Model holds the attribute values of one instance and the log of changes
// made to them. A Model must not be mutated concurrently.
type Model struct {
	schema  *Schema
	values  map[string]Value
	changes map[string]Change
}

// NewModel returns an empty Model bound to schema.
func NewModel(schema *Schema) *Model {
	return &Model{
		schema:  schema,
		values:  make(map[string]Value),
		changes: make(map[string]Change),
	}
}

// Schema returns the schema the model is bound to.
func (m *Model) Schema() *Schema { return m.schema }

func (m *Model) lookup(name string) (definition, error) {
	d, ok := m.schema.defs[name]
	if !ok {
		return definition{}, &InvalidAttributeNameError{Model: m.schema.name, Name: name}
	}
	return d, nil
}

// read returns the materialized value of name, or its default.
func (m *Model) read(name string, d definition) Value {
	if v, ok := m.values[name]; ok {
		return v
	}
	return d.def
}

// Get returns the value of name: the last value written, else the default,
// else Absent.
func (m *Model) Get(name string) (Value, error) {
	d, err := m.lookup(name)
	if err != nil {
		return Absent, err
	}
	return m.read(name, d), nil
}

// Set casts raw to the declared type of name and writes it. On error the
// model is left unchanged.
func (m *Model) Set(name string, raw any) error {
	d, err := m.lookup(name)
	if err != nil {
		return err
	}
	v, err := Cast(raw, d.typ)
	if err != nil {
		return err
	}
	m.write(name, d, v)
	return nil
}

// write stores a cast value and maintains the change log.
func (m *Model) write(name string, d definition, v Value) {
	current := m.read(name, d)
	if v.Equal(current) {
		return
	}

	original := current
	if c, ok := m.changes[name]; ok {
		original = c.Original
	}
	if original.Equal(v) {
		delete(m.changes, name)
	} else {
		m.changes[name] = Change{Original: original, Current: v}
	}

	m.values[name] = v
}

// Changed reports whether name has a change log entry.
func (m *Model) Changed(name string) (bool, error) {
	if _, err := m.lookup(name); err != nil {
		return false, err
	}
	_, ok := m.changes[name]
	return ok, nil
}

// Changes returns a copy of the change log.
func (m *Model) Changes() map[string]Change {
	changes := make(map[string]Change, len(m.changes))
	for name, c := range m.changes {
		changes[name] = c
	}
	return changes
}

// ClearChanges empties the change log, making the current values the baseline
// for later writes.
func (m *Model) ClearChanges() {
	clear(m.changes)
}

// Bool reports whether a Boolean attribute holds true. Absent reads as false.
func (m *Model) Bool(name string) (bool, error) {
	d, err := m.lookup(name)
	if err != nil {
		return false, err
	}
	if d.typ != Boolean {
		return false, fmt.Errorf("%w: %q is %s", ErrNotBoolean, name, d.typ)
	}
	v := m.read(name, d)
	return v.Type() == Boolean && v.Bool(), nil
}
