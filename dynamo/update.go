package dynamo

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/modelattr/attribute"
)

// UpdateInput builds an UpdateItem request writing the changes of m to the
// item with key in table. Placeholders are numbered in declaration order.
//
// Attributes changed to a value are SET. Attributes changed to Absent are
// SET to NULL when they have a default, so loading the item doesn't bring the
// default back, and REMOVEd otherwise. Key attributes are never written: a key
// attribute set on a new model only creates the item, and one changed from a
// stored value returns ErrKeyChanged.
func UpdateInput(table string, key PK, m *attribute.Model) (*dynamodb.UpdateItemInput, error) {
	changes := m.ChangesForJSON()
	log := m.Changes()

	var setClauses, removeClauses []string
	exprNames := map[string]string{}
	exprValues := map[string]types.AttributeValue{}

	i := 0
	created := false
	for _, name := range m.Schema().Attributes() {
		v, changed := changes[name]
		if !changed {
			continue
		}
		if _, isKey := key[name]; isKey {
			if !log[name].Original.IsAbsent() {
				return nil, fmt.Errorf("%w: %q", ErrKeyChanged, name)
			}
			created = true
			continue
		}

		nameKey := fmt.Sprintf("#a%d", i)
		exprNames[nameKey] = name
		if _, hasDefault := m.Schema().Default(name); v == nil && !hasDefault {
			removeClauses = append(removeClauses, nameKey)
		} else {
			valueKey := fmt.Sprintf(":v%d", i)
			av, err := encode(v)
			if err != nil {
				return nil, fmt.Errorf("marshal %s: %w", name, err)
			}
			exprValues[valueKey] = av
			setClauses = append(setClauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
		}
		i++
	}

	if i == 0 {
		if !created {
			return nil, ErrNoChanges
		}
		// No update expression: UpdateItem creates the item with only its key.
		return &dynamodb.UpdateItemInput{
			TableName: aws.String(table),
			Key:       key,
		}, nil
	}

	var expr []string
	if len(setClauses) > 0 {
		expr = append(expr, "SET "+strings.Join(setClauses, ", "))
	}
	if len(removeClauses) > 0 {
		expr = append(expr, "REMOVE "+strings.Join(removeClauses, ", "))
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                aws.String(table),
		Key:                      key,
		UpdateExpression:         aws.String(strings.Join(expr, " ")),
		ExpressionAttributeNames: exprNames,
	}
	// DynamoDB rejects an empty value map.
	if len(exprValues) > 0 {
		input.ExpressionAttributeValues = exprValues
	}
	return input, nil
}
