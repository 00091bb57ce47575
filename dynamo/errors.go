package dynamo

import "errors"

var (
	// ErrNoChanges is returned by UpdateInput when the model has nothing to write.
	ErrNoChanges = errors.New("modelattr: no changes to write")

	// ErrKeyChanged is returned when a key attribute changed from a stored
	// value. The item can't be updated in place; Put the model under its new
	// key and Delete the old item instead.
	ErrKeyChanged = errors.New("modelattr: key attribute changed")

	// ErrNoIdentity is returned when a key cannot be built: the schema has no
	// identity attribute or a key attribute is absent.
	ErrNoIdentity = errors.New("modelattr: no identity for key")

	// ErrNotFound is returned when an item doesn't exist.
	ErrNotFound = errors.New("modelattr: item not found")

	// ErrNoTable is returned when a model has no table in the registry.
	ErrNoTable = errors.New("modelattr: model has no table")
)
