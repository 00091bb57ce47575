// Package attribute provides typed attributes with casting, change tracking
// and JSON-oriented projections.
//
// A [Schema] is declared once per model with a [SchemaBuilder] and shared by
// every instance of that model. Each instance owns a [Model], which stores the
// current values and a change log relative to the values held before the
// first unreverted write.
//
// # Declaring a Schema
//
//	b := attribute.NewSchemaBuilder("User")
//	b.Attribute("id", attribute.Integer)
//	b.Attribute("paid", attribute.Boolean)
//	b.Attribute("created_at", attribute.Time)
//	b.Attribute("reward_points", attribute.Integer, attribute.Default(0))
//	b.Attribute("password_digest", attribute.String, attribute.Private())
//	schema, err := b.Build()
//
// An attribute named "id" is the identity attribute unless another attribute
// is declared with [Identity].
//
// # Types and Casting
//
// Every write goes through [Cast]. The supported types form a closed set:
//
//   - [Integer] - integers, integral floats, integer text ("3", "0x1A")
//   - [Float] - any number or numeric text
//   - [Boolean] - bool, "t", "true", "f", "false"
//   - [String] - anything, formatted as text
//   - [Time] - time.Time, [Date], integers as milliseconds since the epoch,
//     other numbers as seconds since the epoch, timestamp text
//   - [JSON] - nil, bool, numbers, strings, and slices and string-keyed maps
//     of those; validated, never converted
//
// A nil input casts to the absent [Value] for every type.
//
// # Change Tracking
//
//	u := schema.New()
//	u.Set("id", "3")     // Changes: id: [absent, 3]
//	u.Set("id", 5)       // Changes: id: [absent, 5]
//	u.Set("id", nil)     // Changes: (empty)
//
// Writing a value equal to the current one is a no-op. Writing a value equal to
// the original removes the entry from the change log.
//
// # Projections
//
//   - [Model.Attributes] - every attribute in declaration order
//   - [Model.AttributesForJSON] - attributes that differ from their defaults,
//     with Time as integer milliseconds
//   - [Model.ChangesForJSON] - new values of changed attributes, including nil
//   - [Model.Equal] - identity attribute comparison, or full snapshot comparison
//
// # Errors
//
//   - [ErrUnsupportedType] - type outside the closed set, at declaration time
//   - [ErrInvalidAttributeName] - read or write of an undeclared attribute
//   - [ErrCast] - value could not be cast; see [CastError] for the kind
//
// A Model is not safe for concurrent mutation. A built Schema is immutable and
// may be shared freely.
package attribute
