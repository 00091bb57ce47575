package attribute

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// Value is a cast attribute value. The zero Value is absent.
type Value struct {
	typ Type
	i   int64
	f   float64
	b   bool
	s   string
	t   time.Time
	j   any
}

// Absent is the value of an unset attribute with no default.
var Absent = Value{}

// IntegerValue returns an Integer value.
func IntegerValue(i int64) Value { return Value{typ: Integer, i: i} }

// FloatValue returns a Float value.
func FloatValue(f float64) Value { return Value{typ: Float, f: f} }

// BooleanValue returns a Boolean value.
func BooleanValue(b bool) Value { return Value{typ: Boolean, b: b} }

// StringValue returns a String value.
func StringValue(s string) Value { return Value{typ: String, s: s} }

// TimeValue returns a Time value.
func TimeValue(t time.Time) Value { return Value{typ: Time, t: t} }

// Type returns the type of the value, or zero for an absent value.
func (v Value) Type() Type { return v.typ }

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool { return v.typ == 0 }

// Int returns the payload of an Integer value.
func (v Value) Int() int64 { return v.i }

// Float returns the payload of a Float value.
func (v Value) Float() float64 { return v.f }

// Bool returns the payload of a Boolean value.
func (v Value) Bool() bool { return v.b }

// Text returns the payload of a String value.
func (v Value) Text() string { return v.s }

// Time returns the payload of a Time value.
func (v Value) Time() time.Time { return v.t }

// JSON returns a copy of the payload of a JSON value. Containers are []any
// and map[string]any, so changes to the result never reach the value.
func (v Value) JSON() any {
	j, _ := cloneJSON(reflect.ValueOf(v.j))
	return j
}

// Interface returns the Go value held, or nil when absent.
func (v Value) Interface() any {
	switch v.typ {
	case Integer:
		return v.i
	case Float:
		return v.f
	case Boolean:
		return v.b
	case String:
		return v.s
	case Time:
		return v.t
	case JSON:
		return v.JSON()
	}
	return nil
}

// JSONValue returns the value in its serialized form. Time is returned as
// integer milliseconds since the Unix epoch.
func (v Value) JSONValue() any {
	if v.typ == Time {
		return v.t.UnixMilli()
	}
	return v.Interface()
}

// Equal reports whether two values have the same type and payload. Times are
// compared as instants and JSON numbers are compared numerically.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case Integer:
		return v.i == other.i
	case Float:
		return v.f == other.f
	case Boolean:
		return v.b == other.b
	case String:
		return v.s == other.s
	case Time:
		return v.t.Equal(other.t)
	case JSON:
		return jsonEqual(reflect.ValueOf(v.j), reflect.ValueOf(other.j))
	}
	return true
}

func (v Value) String() string {
	switch v.typ {
	case 0:
		return "<absent>"
	case String:
		return strconv.Quote(v.s)
	case Time:
		return v.t.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v.Interface())
}

// number is a numeric input classified as an integer or a float.
type number struct {
	isInt bool
	i     int64
	f     float64
}

func (n number) float() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

var jsonNumberType = reflect.TypeOf(json.Number(""))

// numberOf classifies numeric kinds and json.Number. An integer-literal
// json.Number is an integer; other valid json.Numbers are floats.
func numberOf(rv reflect.Value) (number, bool) {
	if rv.Type() == jsonNumberType {
		s := rv.String()
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return number{isInt: true, i: i}, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return number{f: f}, true
		}
		return number{}, false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{isInt: true, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return number{f: float64(u)}, true
		}
		return number{isInt: true, i: int64(u)}, true
	case reflect.Float32, reflect.Float64:
		return number{f: rv.Float()}, true
	}
	return number{}, false
}

func jsonEqual(a, b reflect.Value) bool {
	a, b = unwrapInterface(a), unwrapInterface(b)
	if !a.IsValid() || !b.IsValid() {
		return isJSONNull(a) && isJSONNull(b)
	}
	if an, ok := numberOf(a); ok {
		bn, ok := numberOf(b)
		if !ok {
			return false
		}
		if an.isInt && bn.isInt {
			return an.i == bn.i
		}
		return an.float() == bn.float()
	}
	switch a.Kind() {
	case reflect.Bool:
		return b.Kind() == reflect.Bool && a.Bool() == b.Bool()
	case reflect.String:
		return b.Kind() == reflect.String && b.Type() != jsonNumberType && a.String() == b.String()
	case reflect.Slice, reflect.Array:
		if b.Kind() != reflect.Slice && b.Kind() != reflect.Array {
			return false
		}
		if a.Len() != b.Len() || isJSONNull(a) != isJSONNull(b) {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !jsonEqual(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if b.Kind() != reflect.Map || a.Len() != b.Len() || a.IsNil() != b.IsNil() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(reflect.ValueOf(iter.Key().String()).Convert(b.Type().Key()))
			if !bv.IsValid() || !jsonEqual(iter.Value(), bv) {
				return false
			}
		}
		return true
	}
	return false
}

func unwrapInterface(rv reflect.Value) reflect.Value {
	for rv.IsValid() && rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// isJSONNull reports whether rv encodes as JSON null.
func isJSONNull(rv reflect.Value) bool {
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.IsNil()
	}
	return false
}
