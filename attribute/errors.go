package attribute

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedType is returned when a declared type is not one of the supported types.
	ErrUnsupportedType = errors.New("modelattr: unsupported type")

	// ErrInvalidAttributeName is returned when an attribute is not declared in the schema.
	ErrInvalidAttributeName = errors.New("modelattr: invalid attribute name")

	// ErrDuplicateAttribute is returned when an attribute name is declared twice.
	ErrDuplicateAttribute = errors.New("modelattr: duplicate attribute")

	// ErrMultipleIdentity is returned when more than one attribute is declared as the identity.
	ErrMultipleIdentity = errors.New("modelattr: more than one identity attribute")

	// ErrSchemaBuilt is returned when a builder is used after Build.
	ErrSchemaBuilt = errors.New("modelattr: schema already built")

	// ErrNotBoolean is returned by Model.Bool for attributes of other types.
	ErrNotBoolean = errors.New("modelattr: attribute is not boolean")

	// ErrCast is matched by every CastError.
	ErrCast = errors.New("modelattr: cast failed")

	// ErrParse is the CastError kind for input that could not be parsed.
	ErrParse = errors.New("modelattr: parse error")

	// ErrPrecisionLoss is the CastError kind for floats with a fractional part cast to Integer.
	ErrPrecisionLoss = errors.New("modelattr: loss of precision")

	// ErrInvalidBoolean is the CastError kind for input that is not a boolean.
	ErrInvalidBoolean = errors.New("modelattr: invalid boolean")

	// ErrNotJSON is the CastError kind for values that cannot be represented as JSON.
	ErrNotJSON = errors.New("modelattr: value is not JSON-representable")
)

// CastError describes a value that could not be cast to a type.
type CastError struct {
	Type  Type
	Value any
	// Kind is one of ErrParse, ErrPrecisionLoss, ErrInvalidBoolean or ErrNotJSON.
	Kind error
	msg  string
}

func castError(t Type, value any, kind error, format string, args ...any) *CastError {
	return &CastError{
		Type:  t,
		Value: value,
		Kind:  kind,
		msg:   fmt.Sprintf(format, args...),
	}
}

func (e *CastError) Error() string { return e.msg }

// Is reports whether target is ErrCast.
func (e *CastError) Is(target error) bool { return target == ErrCast }

// Unwrap returns the kind of the failure.
func (e *CastError) Unwrap() error { return e.Kind }

// InvalidAttributeNameError is returned for names that are not declared in the schema.
type InvalidAttributeNameError struct {
	Model string
	Name  string
}

func (e *InvalidAttributeNameError) Error() string {
	return fmt.Sprintf("invalid attribute name %q", e.Name)
}

// Is reports whether target is ErrInvalidAttributeName.
func (e *InvalidAttributeNameError) Is(target error) bool { return target == ErrInvalidAttributeName }

// UnsupportedTypeError is returned for types outside the supported set.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	names := make([]string, len(supportedTypes))
	for i, t := range supportedTypes {
		names[i] = t.String()
	}
	return fmt.Sprintf("unsupported type %q. Must be one of %s.", e.Type, strings.Join(names, ", "))
}

// Is reports whether target is ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }
