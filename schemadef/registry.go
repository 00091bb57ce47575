package schemadef

import (
	"fmt"

	"github.com/jacentio/modelattr/attribute"
)

// Entry is a registered schema and the table its items are stored in.
type Entry struct {
	// Schema is the built attribute schema.
	Schema *attribute.Schema

	// Table is the DynamoDB table name for the model (e.g., "users").
	// Empty when the model is not stored.
	Table string
}

// Registry holds all known model schemas, by model name and by table.
type Registry struct {
	entries []Entry
	byName  map[string]Entry
	byTable map[string]Entry
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: []Entry{},
		byName:  make(map[string]Entry),
		byTable: make(map[string]Entry),
	}
}

// Register adds a schema to the registry.
// Model names and non-empty table names must be unique.
func (r *Registry) Register(schema *attribute.Schema, table string) error {
	name := schema.Name()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("%w: model %q registered twice", ErrInvalidDefinition, name)
	}
	if table != "" {
		if other, exists := r.byTable[table]; exists {
			return fmt.Errorf("%w: table %q used by %q and %q", ErrInvalidDefinition, table, other.Schema.Name(), name)
		}
	}

	entry := Entry{Schema: schema, Table: table}
	r.entries = append(r.entries, entry)
	r.byName[name] = entry
	if table != "" {
		r.byTable[table] = entry
	}
	return nil
}

// Schema returns the schema registered under name.
func (r *Registry) Schema(name string) (*attribute.Schema, error) {
	entry, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return entry.Schema, nil
}

// ForTable returns the schema stored in table.
func (r *Registry) ForTable(table string) (*attribute.Schema, bool) {
	entry, ok := r.byTable[table]
	return entry.Schema, ok
}

// Table returns the table of the named model, or "" if it has none.
func (r *Registry) Table(name string) string {
	return r.byName[name].Table
}

// Names returns the registered model names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, entry := range r.entries {
		names[i] = entry.Schema.Name()
	}
	return names
}

// Entries returns all registered entries in registration order.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}
