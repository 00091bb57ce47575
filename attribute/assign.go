package attribute

import "fmt"

// SetAttributes writes every key of attrs that names a declared attribute.
// Keys that are not declared, and private attributes unless allowPrivate is
// set, are ignored.
//
// Values are cast in declaration order before anything is written; if any
// cast fails, that error is returned and the model is left unchanged.
func (m *Model) SetAttributes(attrs map[string]any, allowPrivate bool) error {
	type pending struct {
		name string
		def  definition
		v    Value
	}

	writes := make([]pending, 0, len(attrs))
	for _, name := range m.schema.order {
		raw, ok := attrs[name]
		if !ok {
			continue
		}
		d := m.schema.defs[name]
		if d.visibility == VisibilityPrivate && !allowPrivate {
			continue
		}
		v, err := Cast(raw, d.typ)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		writes = append(writes, pending{name: name, def: d, v: v})
	}

	for _, w := range writes {
		m.write(w.name, w.def, w.v)
	}
	return nil
}
