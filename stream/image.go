package stream

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/modelattr/dynamo"
)

// TableFromARN returns the table name of a DynamoDB table or stream ARN,
// e.g. "users" for arn:aws:dynamodb:eu-west-1:123456789012:table/users/stream/2024-01-01T00:00:00.000.
func TableFromARN(arn string) (string, error) {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) != 6 || parts[0] != "arn" || parts[2] != "dynamodb" {
		return "", fmt.Errorf("not a DynamoDB ARN: %q", arn)
	}
	resource := strings.Split(parts[5], "/")
	if len(resource) < 2 || resource[0] != "table" || resource[1] == "" {
		return "", fmt.Errorf("no table in ARN: %q", arn)
	}
	return resource[1], nil
}

// ConvertStreamKey converts a DynamoDB stream key to a dynamo.PK.
// Use this when you need to read the item of a stream record.
func ConvertStreamKey(streamKey map[string]events.DynamoDBAttributeValue) dynamo.PK {
	result := make(dynamo.PK)
	for k, v := range streamKey {
		switch v.DataType() {
		case events.DataTypeString:
			result[k] = &types.AttributeValueMemberS{Value: v.String()}
		case events.DataTypeNumber:
			result[k] = &types.AttributeValueMemberN{Value: v.Number()}
		case events.DataTypeBinary:
			result[k] = &types.AttributeValueMemberB{Value: v.Binary()}
		}
	}
	return result
}

// imageValues converts a stream image to plain values in the form dynamo.Values
// returns: numbers as json.Number, lists as []any and maps as map[string]any.
func imageValues(image map[string]events.DynamoDBAttributeValue) (map[string]any, error) {
	values := make(map[string]any, len(image))
	for k, v := range image {
		x, err := imageValue(v)
		if err != nil {
			return nil, fmt.Errorf("image attribute %s: %w", k, err)
		}
		values[k] = x
	}
	return values, nil
}

func imageValue(v events.DynamoDBAttributeValue) (any, error) {
	switch v.DataType() {
	case events.DataTypeString:
		return v.String(), nil
	case events.DataTypeNumber:
		return json.Number(v.Number()), nil
	case events.DataTypeBoolean:
		return v.Boolean(), nil
	case events.DataTypeNull:
		return nil, nil
	case events.DataTypeBinary:
		return v.Binary(), nil
	case events.DataTypeList:
		list := make([]any, len(v.List()))
		for i, elem := range v.List() {
			x, err := imageValue(elem)
			if err != nil {
				return nil, err
			}
			list[i] = x
		}
		return list, nil
	case events.DataTypeMap:
		return imageValues(v.Map())
	case events.DataTypeStringSet:
		list := make([]any, len(v.StringSet()))
		for i, s := range v.StringSet() {
			list[i] = s
		}
		return list, nil
	case events.DataTypeNumberSet:
		list := make([]any, len(v.NumberSet()))
		for i, n := range v.NumberSet() {
			list[i] = json.Number(n)
		}
		return list, nil
	}
	return nil, fmt.Errorf("unsupported data type %d", v.DataType())
}
