package attribute

import (
	"fmt"
	"time"
)

// Type is the declared type of an attribute.
type Type uint8

const (
	Integer Type = iota + 1
	Float
	Boolean
	String
	Time
	JSON
)

var supportedTypes = []Type{Integer, Float, Boolean, String, Time, JSON}

var typeNames = map[Type]string{
	Integer: "integer",
	Float:   "float",
	Boolean: "boolean",
	String:  "string",
	Time:    "time",
	JSON:    "json",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

func (t Type) valid() bool {
	_, ok := typeNames[t]
	return ok
}

// Types returns the supported types in declaration order.
func Types() []Type {
	return append([]Type(nil), supportedTypes...)
}

// ParseType returns the type with the given lowercase name.
func ParseType(name string) (Type, error) {
	for _, t := range supportedTypes {
		if typeNames[t] == name {
			return t, nil
		}
	}
	return 0, &UnsupportedTypeError{Type: name}
}

// Date is a calendar date without a time of day. It casts to Time as midnight UTC.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Time returns midnight UTC at the start of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
