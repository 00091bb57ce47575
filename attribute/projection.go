package attribute

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attribute is a name and value pair of a snapshot.
type Attribute struct {
	Name  string
	Value Value
}

// Attributes returns every attribute in declaration order. Unset attributes
// have their default or Absent.
func (m *Model) Attributes() []Attribute {
	attrs := make([]Attribute, len(m.schema.order))
	for i, name := range m.schema.order {
		attrs[i] = Attribute{Name: name, Value: m.read(name, m.schema.defs[name])}
	}
	return attrs
}

// AttributeMap returns every attribute keyed by name.
func (m *Model) AttributeMap() map[string]Value {
	attrs := make(map[string]Value, len(m.schema.order))
	for _, name := range m.schema.order {
		attrs[name] = m.read(name, m.schema.defs[name])
	}
	return attrs
}

// AttributesForJSON returns the attributes suitable for serializing to JSON.
//
//   - Attributes still equal to their default (or unset without a default) are omitted.
//   - Time attributes are integer milliseconds since the Unix epoch.
//   - An attribute changed from a default to Absent is included as nil.
func (m *Model) AttributesForJSON() map[string]any {
	attrs := make(map[string]any)
	for _, name := range m.schema.order {
		d := m.schema.defs[name]
		v := m.read(name, d)
		if v.Equal(d.def) {
			continue
		}
		attrs[name] = v.JSONValue()
	}
	return attrs
}

// ChangesForJSON returns the new value of every changed attribute, in the
// same form as AttributesForJSON. Unlike AttributesForJSON, attributes changed
// to Absent are included as nil. The map is built on every call.
func (m *Model) ChangesForJSON() map[string]any {
	changes := make(map[string]any, len(m.changes))
	for name, c := range m.changes {
		changes[name] = c.Current.JSONValue()
	}
	return changes
}

// MarshalJSON encodes AttributesForJSON as an object with keys in declaration order.
func (m *Model) MarshalJSON() ([]byte, error) {
	attrs := m.AttributesForJSON()

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, name := range m.schema.order {
		v, ok := attrs[name]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Equal reports whether two models are equal. A model is always equal to
// itself. Models of different schemas are never equal. When the schema has an
// identity attribute only that attribute is compared; otherwise every
// attribute is. An attribute left at its default equals one written with the
// default value.
func (m *Model) Equal(other *Model) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil || m.schema != other.schema {
		return false
	}

	if id, ok := m.schema.Identity(); ok {
		d := m.schema.defs[id]
		return m.read(id, d).Equal(other.read(id, d))
	}
	for _, name := range m.schema.order {
		d := m.schema.defs[name]
		if !m.read(name, d).Equal(other.read(name, d)) {
			return false
		}
	}
	return true
}
