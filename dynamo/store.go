package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/jacentio/modelattr/attribute"
	"github.com/jacentio/modelattr/schemadef"
)

// API is the subset of the DynamoDB client used by Store. *dynamodb.Client
// implements it.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Store reads and writes models in the tables named by a schema registry.
type Store struct {
	client   API
	registry *schemadef.Registry
}

// New creates a new Store instance.
func New(client API, registry *schemadef.Registry) *Store {
	return &Store{
		client:   client,
		registry: registry,
	}
}

// Registry returns the schema registry.
func (s *Store) Registry() *schemadef.Registry {
	return s.registry
}

func (s *Store) table(schema *attribute.Schema) (string, error) {
	table := s.registry.Table(schema.Name())
	if table == "" {
		return "", fmt.Errorf("%w: %s", ErrNoTable, schema.Name())
	}
	return table, nil
}

// Get reads the item with key and loads it into a new model of schema.
func (s *Store) Get(ctx context.Context, schema *attribute.Schema, key PK) (*attribute.Model, error) {
	table, err := s.table(schema)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	m := schema.New()
	if err := Load(m, result.Item); err != nil {
		return nil, fmt.Errorf("load %s: %w", schema.Name(), err)
	}
	return m, nil
}

// Put writes the full snapshot of m, replacing any existing item, and clears
// its change log.
func (s *Store) Put(ctx context.Context, m *attribute.Model) error {
	table, err := s.table(m.Schema())
	if err != nil {
		return err
	}
	item, err := Item(m)
	if err != nil {
		return err
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	}); err != nil {
		return err
	}
	m.ClearChanges()
	return nil
}

// Save writes only the changes of m to its item, keyed by the identity
// attribute, and clears its change log. A model without changes is not written.
// A changed identity returns ErrKeyChanged with the change log kept.
func (s *Store) Save(ctx context.Context, m *attribute.Model) error {
	table, err := s.table(m.Schema())
	if err != nil {
		return err
	}
	key, err := Key(m)
	if err != nil {
		return err
	}

	input, err := UpdateInput(table, key, m)
	if errors.Is(err, ErrNoChanges) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		return err
	}
	m.ClearChanges()
	return nil
}

// Delete removes the item of m, keyed by the identity attribute.
func (s *Store) Delete(ctx context.Context, m *attribute.Model) error {
	table, err := s.table(m.Schema())
	if err != nil {
		return err
	}
	key, err := Key(m)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	return err
}
