package attribute_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jacentio/modelattr/attribute"
)

// --- Absent ---

func TestCast_NilIsAbsentForEveryType(t *testing.T) {
	var nilPtr *int
	var nilSlice []any
	var nilMap map[string]any

	for _, typ := range attribute.Types() {
		for _, raw := range []any{nil, nilPtr, nilSlice, nilMap, attribute.Absent} {
			v, err := attribute.Cast(raw, typ)
			if err != nil {
				t.Errorf("Cast(%#v, %s) returned error: %v", raw, typ, err)
			}
			if !v.IsAbsent() {
				t.Errorf("Cast(%#v, %s) = %v, want absent", raw, typ, v)
			}
		}
	}
}

func TestCast_UnsupportedType(t *testing.T) {
	_, err := attribute.Cast(3, attribute.Type(42))
	if !errors.Is(err, attribute.ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

// --- Integer ---

func TestCast_Integer(t *testing.T) {
	three := 3
	tests := []struct {
		name string
		raw  any
		want int64
	}{
		{"int", 3, 3},
		{"int8", int8(-3), -3},
		{"uint32", uint32(3), 3},
		{"integral float", 3.0, 3},
		{"integral float32", float32(-7), -7},
		{"text", "3", 3},
		{"padded text", " 42 ", 42},
		{"hex text", "0x1A", 26},
		{"underscored text", "1_000", 1000},
		{"json number", json.Number("3"), 3},
		{"integral json number", json.Number("3.0"), 3},
		{"pointer", &three, 3},
		{"value", attribute.FloatValue(4), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := attribute.Cast(tt.raw, attribute.Integer)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Type() != attribute.Integer || v.Int() != tt.want {
				t.Errorf("expected integer %d, got %v", tt.want, v)
			}
		})
	}
}

func TestCast_IntegerErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		kind    error
		message string
	}{
		{"fractional float", 3.3, attribute.ErrPrecisionLoss, "can't cast 3.3 to an integer without loss of precision"},
		{"NaN", math.NaN(), attribute.ErrPrecisionLoss, ""},
		{"too large float", 1e19, attribute.ErrPrecisionLoss, ""},
		{"too large uint", uint64(math.MaxUint64), attribute.ErrPrecisionLoss, ""},
		{"fractional json number", json.Number("3.5"), attribute.ErrPrecisionLoss, ""},
		{"unparsable text", "3a", attribute.ErrParse, `invalid value for integer: "3a"`},
		{"float text", "3.0", attribute.ErrParse, `invalid value for integer: "3.0"`},
		{"boolean", true, attribute.ErrParse, "can't convert true into integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := attribute.Cast(tt.raw, attribute.Integer)
			if !errors.Is(err, attribute.ErrCast) {
				t.Fatalf("expected ErrCast, got %v", err)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, err)
			}
			if tt.message != "" && err.Error() != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestCast_CastErrorFields(t *testing.T) {
	_, err := attribute.Cast("3a", attribute.Integer)

	var castErr *attribute.CastError
	if !errors.As(err, &castErr) {
		t.Fatalf("expected *CastError, got %T", err)
	}
	if castErr.Type != attribute.Integer {
		t.Errorf("expected type integer, got %s", castErr.Type)
	}
	if castErr.Value != "3a" {
		t.Errorf("expected value '3a', got %#v", castErr.Value)
	}
}

// --- Float ---

func TestCast_Float(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"int", 3, 3},
		{"float", 2.5, 2.5},
		{"text", "2.5", 2.5},
		{"exponent text", "1e3", 1000},
		{"json number", json.Number("-0.25"), -0.25},
		{"hex text", "0x1A", 26},
		{"underscored text", "1_000", 1000},
		{"octal text", "0o17", 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := attribute.Cast(tt.raw, attribute.Float)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Type() != attribute.Float || v.Float() != tt.want {
				t.Errorf("expected float %v, got %v", tt.want, v)
			}
		})
	}
}

func TestCast_FloatErrors(t *testing.T) {
	for _, raw := range []any{"abc", "", "NaN", "0x", "1__0", math.Inf(1), false, []int{1}} {
		_, err := attribute.Cast(raw, attribute.Float)
		if !errors.Is(err, attribute.ErrParse) {
			t.Errorf("Cast(%#v, float): expected ErrParse, got %v", raw, err)
		}
	}
}

// --- Boolean ---

func TestCast_Boolean(t *testing.T) {
	tests := []struct {
		raw  any
		want bool
	}{
		{true, true},
		{false, false},
		{"t", true},
		{"true", true},
		{"f", false},
		{"false", false},
	}

	for _, tt := range tests {
		v, err := attribute.Cast(tt.raw, attribute.Boolean)
		if err != nil {
			t.Errorf("Cast(%#v, boolean): unexpected error: %v", tt.raw, err)
			continue
		}
		if v.Type() != attribute.Boolean || v.Bool() != tt.want {
			t.Errorf("Cast(%#v, boolean) = %v, want %v", tt.raw, v, tt.want)
		}
	}
}

func TestCast_BooleanErrors(t *testing.T) {
	_, err := attribute.Cast("3a", attribute.Boolean)
	if !errors.Is(err, attribute.ErrInvalidBoolean) {
		t.Fatalf("expected ErrInvalidBoolean, got %v", err)
	}
	if err.Error() != `can't cast "3a" to boolean` {
		t.Errorf("unexpected message %q", err.Error())
	}

	for _, raw := range []any{1, 0, "TRUE", "yes", ""} {
		if _, err := attribute.Cast(raw, attribute.Boolean); !errors.Is(err, attribute.ErrInvalidBoolean) {
			t.Errorf("Cast(%#v, boolean): expected ErrInvalidBoolean, got %v", raw, err)
		}
	}
}

// --- String ---

func TestCast_String(t *testing.T) {
	id := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"string", "Fred", "Fred"},
		{"int", 3, "3"},
		{"float", 2.5, "2.5"},
		{"bool", true, "true"},
		{"bytes", []byte("raw"), "raw"},
		{"stringer", id, "7c9e6679-7425-40de-944b-e07fc1f90ae7"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := attribute.Cast(tt.raw, attribute.String)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Type() != attribute.String || v.Text() != tt.want {
				t.Errorf("expected %q, got %v", tt.want, v)
			}
		})
	}
}

// --- Time ---

func TestCast_Time(t *testing.T) {
	christmas := time.Date(2014, 12, 25, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  any
		want time.Time
	}{
		{"time", christmas, christmas},
		{"integer milliseconds", int64(1419512400000), christmas},
		{"float seconds", 1419512400.0, christmas},
		{"fractional seconds", 1.5, time.Unix(1, 500_000_000)},
		{"negative seconds", -1.5, time.Unix(-2, 500_000_000)},
		{"json integer milliseconds", json.Number("1419512400000"), christmas},
		{"json float seconds", json.Number("1419512400.5"), christmas.Add(500 * time.Millisecond)},
		{"text with offset", "2014-12-25 14:00:00 +0100", christmas},
		{"rfc3339 text", "2014-12-25T13:00:00Z", christmas},
		{"text without zone", "2014-12-25 13:00", christmas},
		{"date text", "2014-12-25", time.Date(2014, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"date", attribute.Date{Year: 2014, Month: time.December, Day: 25}, time.Date(2014, 12, 25, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := attribute.Cast(tt.raw, attribute.Time)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Type() != attribute.Time || !v.Time().Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, v)
			}
		})
	}
}

func TestCast_TimeIntegerIsMillisecondsFloatIsSeconds(t *testing.T) {
	ms, err := attribute.Cast(1000, attribute.Time)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sec, err := attribute.Cast(1.0, attribute.Time)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ms.Equal(sec) {
		t.Errorf("expected 1000 ms to equal 1.0 s, got %v and %v", ms, sec)
	}
	if ms.Time().Unix() != 1 {
		t.Errorf("expected 1 second past the epoch, got %d", ms.Time().Unix())
	}

	thousandSeconds, _ := attribute.Cast(1000.0, attribute.Time)
	if thousandSeconds.Equal(ms) {
		t.Error("expected float 1000.0 to be seconds, not milliseconds")
	}
}

func TestCast_TimeErrors(t *testing.T) {
	_, err := attribute.Cast("Today, innit?", attribute.Time)
	if !errors.Is(err, attribute.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if err.Error() != `no time information in "Today, innit?"` {
		t.Errorf("unexpected message %q", err.Error())
	}

	for _, raw := range []any{math.NaN(), true, []any{1}} {
		if _, err := attribute.Cast(raw, attribute.Time); !errors.Is(err, attribute.ErrParse) {
			t.Errorf("Cast(%#v, time): expected ErrParse, got %v", raw, err)
		}
	}
}

// --- JSON ---

func TestCast_JSON(t *testing.T) {
	nested := map[string]any{
		"array": []any{1, 2, true, map[string]any{"inner": true}, []any{"inside", map[string]any{}}},
		"hash":  map[string]any{"getting": map[string]any{"nested": "yes"}},
		"null":  nil,
	}

	tests := []struct {
		name string
		raw  any
	}{
		{"string", "Incomplete"},
		{"integer", 3},
		{"true", true},
		{"false", false},
		{"array", []any{1, 2, 3}},
		{"typed slice", []string{"a", "b"}},
		{"hash", map[string]any{"skill": 8}},
		{"typed map", map[string]int{"skill": 8}},
		{"json number", json.Number("1.5")},
		{"nested", nested},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := attribute.Cast(tt.raw, attribute.JSON)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Type() != attribute.JSON {
				t.Fatalf("expected json value, got %v", v)
			}
			same, _ := attribute.Cast(tt.raw, attribute.JSON)
			if !v.Equal(same) {
				t.Errorf("expected value to equal itself")
			}
		})
	}
}

func TestCast_JSONErrors(t *testing.T) {
	type opaque struct{ Name string }

	tests := []struct {
		name string
		raw  any
	}{
		{"opaque object", opaque{Name: "x"}},
		{"non-string key", map[int]string{1: "first"}},
		{"unsupported map value", map[string]any{"first": opaque{}}},
		{"unsupported array value", []any{1, 2, nil, opaque{}}},
		{"deeply nested", map[string]any{"a": []any{map[string]any{"b": time.Now()}}}},
		{"NaN", math.NaN()},
		{"nested pointer", []any{new(int)}},
		{"function", func() {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := attribute.Cast(tt.raw, attribute.JSON)
			if !errors.Is(err, attribute.ErrNotJSON) {
				t.Errorf("expected ErrNotJSON, got %v", err)
			}
		})
	}
}

func TestValue_JSONEqualComparesNumbersNumerically(t *testing.T) {
	a, _ := attribute.Cast(map[string]any{"rank": 15, "tags": []any{"a"}}, attribute.JSON)
	b, _ := attribute.Cast(map[string]any{"rank": 15.0, "tags": []string{"a"}}, attribute.JSON)
	c, _ := attribute.Cast(map[string]any{"rank": 16, "tags": []any{"a"}}, attribute.JSON)

	if !a.Equal(b) {
		t.Error("expected 15 and 15.0 to be equal")
	}
	if a.Equal(c) {
		t.Error("expected different ranks to be unequal")
	}
}

// --- ParseType ---

func TestParseType(t *testing.T) {
	for _, typ := range attribute.Types() {
		got, err := attribute.ParseType(typ.String())
		if err != nil {
			t.Errorf("ParseType(%q): unexpected error: %v", typ.String(), err)
		}
		if got != typ {
			t.Errorf("ParseType(%q) = %s", typ.String(), got)
		}
	}

	_, err := attribute.ParseType("custom_type")
	if !errors.Is(err, attribute.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	want := `unsupported type "custom_type". Must be one of integer, float, boolean, string, time, json.`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
