// Package pbattr converts attribute models to and from protobuf Struct
// messages, for carrying snapshots and changes over protobuf APIs.
package pbattr

import (
	"encoding/json"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jacentio/modelattr/attribute"
)

// maxExactInteger is the largest magnitude at which every integer is exactly
// representable as a proto number (a float64).
const maxExactInteger = 1 << 53

// Struct returns the JSON snapshot of m as a Struct.
func Struct(m *attribute.Model) (*structpb.Struct, error) {
	return toStruct(m.AttributesForJSON())
}

// ChangesStruct returns the changes of m as a Struct. Attributes changed to
// Absent are null values.
func ChangesStruct(m *attribute.Model) (*structpb.Struct, error) {
	return toStruct(m.ChangesForJSON())
}

func toStruct(values map[string]any) (*structpb.Struct, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("marshal attributes: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("unmarshal struct: %w", err)
	}
	return s, nil
}

// Apply mass assigns the fields of s to m. Numbers that are integral and
// within ±2^53 are assigned as integers, so Time attributes read them as
// milliseconds.
func Apply(m *attribute.Model, s *structpb.Struct, allowPrivate bool) error {
	return m.SetAttributes(Values(s), allowPrivate)
}

// Values converts the fields of s to plain values.
func Values(s *structpb.Struct) map[string]any {
	values := make(map[string]any, len(s.GetFields()))
	for k, v := range s.GetFields() {
		values[k] = fromValue(v)
	}
	return values
}

func fromValue(v *structpb.Value) any {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n == math.Trunc(n) && math.Abs(n) <= maxExactInteger {
			return int64(n)
		}
		return n
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_BoolValue:
		return k.BoolValue
	case *structpb.Value_StructValue:
		return Values(k.StructValue)
	case *structpb.Value_ListValue:
		list := make([]any, len(k.ListValue.GetValues()))
		for i, elem := range k.ListValue.GetValues() {
			list[i] = fromValue(elem)
		}
		return list
	}
	return nil
}
