// Package dynamo stores attribute models as DynamoDB items.
//
// Items hold the JSON snapshot of a model: attributes equal to their default
// are omitted, Time attributes are numbers of milliseconds since the Unix
// epoch, and JSON attributes are nested lists and maps. Numbers read back from
// DynamoDB keep their text, so integral numbers are integers when cast.
package dynamo

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/modelattr/attribute"
)

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// Item returns the item for the JSON snapshot of m.
func Item(m *attribute.Model) (map[string]types.AttributeValue, error) {
	return encodeMap(m.AttributesForJSON())
}

// Key returns the primary key of m built from names, or from the identity
// attribute when no names are given.
func Key(m *attribute.Model, names ...string) (PK, error) {
	if len(names) == 0 {
		id, ok := m.Schema().Identity()
		if !ok {
			return nil, fmt.Errorf("%w: %s has no identity attribute", ErrNoIdentity, m.Schema().Name())
		}
		names = []string{id}
	}

	key := make(PK, len(names))
	for _, name := range names {
		v, err := m.Get(name)
		if err != nil {
			return nil, err
		}
		if v.IsAbsent() {
			return nil, fmt.Errorf("%w: key attribute %q is absent", ErrNoIdentity, name)
		}
		av, err := encode(v.JSONValue())
		if err != nil {
			return nil, fmt.Errorf("marshal key %s: %w", name, err)
		}
		key[name] = av
	}
	return key, nil
}

// Load mass assigns the attributes of item to m, private attributes included,
// and clears the change log so the item becomes the baseline. Item attributes
// the schema doesn't declare are ignored.
func Load(m *attribute.Model, item map[string]types.AttributeValue) error {
	raw, err := decodeMap(item)
	if err != nil {
		return err
	}
	if err := m.SetAttributes(raw, true); err != nil {
		return err
	}
	m.ClearChanges()
	return nil
}

// Values decodes item into plain values: numbers as json.Number, lists as
// []any and maps as map[string]any.
func Values(item map[string]types.AttributeValue) (map[string]any, error) {
	return decodeMap(item)
}

func encodeMap(values map[string]any) (map[string]types.AttributeValue, error) {
	item := make(map[string]types.AttributeValue, len(values))
	for k, v := range values {
		av, err := encode(v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", k, err)
		}
		item[k] = av
	}
	return item, nil
}

// encode converts a JSON value to an attribute value. Generic lists and maps
// are walked so that nested json.Numbers are stored as numbers.
func encode(v any) (types.AttributeValue, error) {
	switch x := v.(type) {
	case nil:
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case json.Number:
		return &types.AttributeValueMemberN{Value: x.String()}, nil
	case []any:
		list := make([]types.AttributeValue, len(x))
		for i, elem := range x {
			av, err := encode(elem)
			if err != nil {
				return nil, err
			}
			list[i] = av
		}
		return &types.AttributeValueMemberL{Value: list}, nil
	case map[string]any:
		m, err := encodeMap(x)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	}
	return attributevalue.Marshal(v)
}

func decodeMap(item map[string]types.AttributeValue) (map[string]any, error) {
	values := make(map[string]any, len(item))
	for k, av := range item {
		v, err := decode(av)
		if err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", k, err)
		}
		values[k] = v
	}
	return values, nil
}

func decode(av types.AttributeValue) (any, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, nil
	case *types.AttributeValueMemberN:
		return json.Number(v.Value), nil
	case *types.AttributeValueMemberBOOL:
		return v.Value, nil
	case *types.AttributeValueMemberNULL:
		return nil, nil
	case *types.AttributeValueMemberB:
		return v.Value, nil
	case *types.AttributeValueMemberL:
		list := make([]any, len(v.Value))
		for i, elem := range v.Value {
			x, err := decode(elem)
			if err != nil {
				return nil, err
			}
			list[i] = x
		}
		return list, nil
	case *types.AttributeValueMemberM:
		return decodeMap(v.Value)
	case *types.AttributeValueMemberSS:
		list := make([]any, len(v.Value))
		for i, s := range v.Value {
			list[i] = s
		}
		return list, nil
	case *types.AttributeValueMemberNS:
		list := make([]any, len(v.Value))
		for i, n := range v.Value {
			list[i] = json.Number(n)
		}
		return list, nil
	}
	return nil, fmt.Errorf("unsupported attribute value %T", av)
}
