package attribute

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Cast converts raw to the canonical value for type t. A nil input, nil
// pointer, nil slice or nil map casts to Absent for every type. Pointers are
// dereferenced and a Value input is cast from its payload.
func Cast(raw any, t Type) (Value, error) {
	if !t.valid() {
		return Absent, &UnsupportedTypeError{Type: t.String()}
	}
	raw = indirect(raw)
	if raw == nil {
		return Absent, nil
	}

	switch t {
	case Integer:
		return castInteger(raw)
	case Float:
		return castFloat(raw)
	case Boolean:
		return castBoolean(raw)
	case String:
		return castString(raw), nil
	case Time:
		return castTime(raw)
	default:
		return castJSON(raw)
	}
}

func indirect(raw any) any {
	for raw != nil {
		if v, ok := raw.(Value); ok {
			raw = v.Interface()
			continue
		}
		rv := reflect.ValueOf(raw)
		switch rv.Kind() {
		case reflect.Pointer:
			if rv.IsNil() {
				return nil
			}
			raw = rv.Elem().Interface()
			continue
		case reflect.Slice, reflect.Map:
			if rv.IsNil() {
				return nil
			}
		}
		return raw
	}
	return nil
}

// inspect formats a raw value for error messages.
func inspect(raw any) string {
	if s, ok := raw.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprintf("%#v", raw)
}

// textOf returns the text of string kinds other than json.Number.
func textOf(rv reflect.Value) (string, bool) {
	if rv.Kind() != reflect.String || rv.Type() == jsonNumberType {
		return "", false
	}
	return rv.String(), true
}

// castInteger accepts integers, floats without a fractional part and integer
// text. Text is parsed with base prefixes and underscores allowed.
func castInteger(raw any) (Value, error) {
	rv := reflect.ValueOf(raw)
	if n, ok := numberOf(rv); ok {
		if n.isInt {
			return IntegerValue(n.i), nil
		}
		// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) || n.f != math.Trunc(n.f) ||
			n.f < math.MinInt64 || n.f >= math.MaxInt64 {
			return Absent, castError(Integer, raw, ErrPrecisionLoss,
				"can't cast %s to an integer without loss of precision", inspect(raw))
		}
		return IntegerValue(int64(n.f)), nil
	}
	if s, ok := textOf(rv); ok {
		i, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
		if err != nil {
			return Absent, castError(Integer, raw, ErrParse, "invalid value for integer: %q", s)
		}
		return IntegerValue(i), nil
	}
	return Absent, castError(Integer, raw, ErrParse, "can't convert %s into integer", inspect(raw))
}

// castFloat accepts any finite number, float text, or integer text in the
// forms castInteger accepts.
func castFloat(raw any) (Value, error) {
	rv := reflect.ValueOf(raw)
	if n, ok := numberOf(rv); ok {
		f := n.float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Absent, castError(Float, raw, ErrParse, "invalid value for float: %s", inspect(raw))
		}
		return FloatValue(f), nil
	}
	if s, ok := textOf(rv); ok {
		text := strings.TrimSpace(s)
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			// Integer text with a base prefix or underscores.
			if i, ierr := strconv.ParseInt(text, 0, 64); ierr == nil {
				f, err = float64(i), nil
			}
		}
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Absent, castError(Float, raw, ErrParse, "invalid value for float: %q", s)
		}
		return FloatValue(f), nil
	}
	return Absent, castError(Float, raw, ErrParse, "can't convert %s into float", inspect(raw))
}

func castBoolean(raw any) (Value, error) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Bool {
		return BooleanValue(rv.Bool()), nil
	}
	if s, ok := textOf(rv); ok {
		switch s {
		case "t", "true":
			return BooleanValue(true), nil
		case "f", "false":
			return BooleanValue(false), nil
		}
	}
	return Absent, castError(Boolean, raw, ErrInvalidBoolean, "can't cast %s to boolean", inspect(raw))
}

func castString(raw any) Value {
	switch x := raw.(type) {
	case string:
		return StringValue(x)
	case []byte:
		return StringValue(string(x))
	case fmt.Stringer:
		return StringValue(x.String())
	case error:
		return StringValue(x.Error())
	}
	if s, ok := textOf(reflect.ValueOf(raw)); ok {
		return StringValue(s)
	}
	return StringValue(fmt.Sprint(raw))
}

// castTime accepts instants, dates, integers as milliseconds since the epoch,
// other numbers as seconds since the epoch, and timestamp text.
func castTime(raw any) (Value, error) {
	switch x := raw.(type) {
	case time.Time:
		return TimeValue(x), nil
	case Date:
		return TimeValue(x.Time()), nil
	}

	rv := reflect.ValueOf(raw)
	if n, ok := numberOf(rv); ok {
		if n.isInt {
			return TimeValue(time.UnixMilli(n.i).UTC()), nil
		}
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) || math.Abs(n.f) > maxEpochSeconds {
			return Absent, castError(Time, raw, ErrParse, "can't convert %s into an exact number", inspect(raw))
		}
		sec, frac := math.Modf(n.f)
		return TimeValue(time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC()), nil
	}
	if s, ok := textOf(rv); ok {
		t, err := parseTime(strings.TrimSpace(s))
		if err != nil {
			return Absent, castError(Time, raw, ErrParse, "no time information in %q", s)
		}
		return TimeValue(t.UTC()), nil
	}
	return Absent, castError(Time, raw, ErrParse, "can't convert %s into time", inspect(raw))
}

// maxEpochSeconds keeps seconds-since-epoch input within the range time.Unix
// can represent without overflowing nanoseconds.
const maxEpochSeconds = 1 << 62

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RubyDate,
	time.UnixDate,
	time.ANSIC,
}

// parseTime tries each layout in turn. Layouts without a zone parse as UTC.
func parseTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// castJSON validates that raw is composed of nil, booleans, finite numbers,
// strings, and slices and string-keyed maps of those. The value is copied into
// fresh []any and map[string]any containers; scalars are kept as given.
func castJSON(raw any) (Value, error) {
	j, ok := cloneJSON(reflect.ValueOf(raw))
	if !ok {
		return Absent, castError(JSON, raw, ErrNotJSON,
			"JSON only supports nil, numeric, string, boolean and arrays and maps of those")
	}
	return Value{typ: JSON, j: j}, nil
}

// cloneJSON returns a deep copy of rv, or false when rv holds anything JSON
// can't represent. Nil slices and maps copy to nil.
func cloneJSON(rv reflect.Value) (any, bool) {
	rv = unwrapInterface(rv)
	if !rv.IsValid() {
		return nil, true
	}
	if rv.Type() == jsonNumberType {
		_, ok := numberOf(rv)
		return rv.Interface(), ok
	}
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Interface(), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return rv.Interface(), !math.IsNaN(f) && !math.IsInf(f, 0)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, true
		}
		out := make([]any, rv.Len())
		for i := range out {
			v, ok := cloneJSON(rv.Index(i))
			if !ok {
				return nil, false
			}
			out[i] = v
		}
		return out, true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		if rv.IsNil() {
			return nil, true
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			v, ok := cloneJSON(iter.Value())
			if !ok {
				return nil, false
			}
			out[iter.Key().String()] = v
		}
		return out, true
	}
	return nil, false
}
