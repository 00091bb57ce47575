package schemadef

import "errors"

var (
	// ErrUnknownModel is returned when a model name is not registered.
	ErrUnknownModel = errors.New("modelattr: unknown model")

	// ErrInvalidDefinition is returned when a schema definition cannot be decoded or fails validation.
	ErrInvalidDefinition = errors.New("modelattr: invalid schema definition")
)
