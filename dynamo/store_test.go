package dynamo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/modelattr/attribute"
	"github.com/jacentio/modelattr/dynamo"
	"github.com/jacentio/modelattr/schemadef"
)

// fakeClient records requests and serves GetItem from items.
type fakeClient struct {
	items   map[string]map[string]types.AttributeValue
	puts    []*dynamodb.PutItemInput
	updates []*dynamodb.UpdateItemInput
	deletes []*dynamodb.DeleteItemInput
	err     error
}

func (f *fakeClient) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := in.Key["id"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[aws.ToString(in.TableName)+"/"+id]}, nil
}

func (f *fakeClient) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeClient) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updates = append(f.updates, in)
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, in)
	return &dynamodb.DeleteItemOutput{}, nil
}

var _ dynamo.API = (*dynamodb.Client)(nil)

func newTestStore(t *testing.T) (*dynamo.Store, *fakeClient, *attribute.Schema) {
	t.Helper()
	schema := newUserSchema(t)
	r := schemadef.NewRegistry()
	if err := r.Register(schema, "users"); err != nil {
		t.Fatalf("register: %v", err)
	}
	client := &fakeClient{items: map[string]map[string]types.AttributeValue{}}
	return dynamo.New(client, r), client, schema
}

// --- Store ---

func TestStore_Get(t *testing.T) {
	s, client, schema := newTestStore(t)
	client.items["users/u-1"] = map[string]types.AttributeValue{
		"id":   &types.AttributeValueMemberS{Value: "u-1"},
		"name": &types.AttributeValueMemberS{Value: "Fred"},
	}

	m, err := s.Get(context.Background(), schema, dynamo.PK{"id": &types.AttributeValueMemberS{Value: "u-1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := m.Get("name"); v.Text() != "Fred" {
		t.Errorf("expected name Fred, got %v", v)
	}
	if len(m.Changes()) != 0 {
		t.Errorf("expected loaded model to have no changes, got %v", m.Changes())
	}

	_, err = s.Get(context.Background(), schema, dynamo.PK{"id": &types.AttributeValueMemberS{Value: "u-2"}})
	if !errors.Is(err, dynamo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Put(t *testing.T) {
	s, client, schema := newTestStore(t)
	m := schema.New()
	set(t, m, "id", "u-1")
	set(t, m, "paid", true)

	if err := s.Put(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.puts) != 1 {
		t.Fatalf("expected 1 put, got %d", len(client.puts))
	}
	if aws.ToString(client.puts[0].TableName) != "users" {
		t.Errorf("expected table users, got %q", aws.ToString(client.puts[0].TableName))
	}
	if _, ok := client.puts[0].Item["paid"]; !ok {
		t.Error("expected paid in item")
	}
	if len(m.Changes()) != 0 {
		t.Errorf("expected change log to be cleared, got %v", m.Changes())
	}
}

func TestStore_Save(t *testing.T) {
	s, client, schema := newTestStore(t)
	m := schema.New()
	set(t, m, "id", "u-1")
	set(t, m, "name", "Fred")

	if err := s.Save(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(client.updates))
	}
	if got := aws.ToString(client.updates[0].UpdateExpression); got != "SET #a0 = :v0" {
		t.Errorf("unexpected expression %q", got)
	}
	if len(m.Changes()) != 0 {
		t.Errorf("expected change log to be cleared, got %v", m.Changes())
	}

	// Nothing changed since the last save.
	if err := s.Save(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.updates) != 1 {
		t.Errorf("expected no further update, got %d", len(client.updates))
	}
}

func TestStore_SaveKeepsChangesOnError(t *testing.T) {
	s, client, schema := newTestStore(t)
	client.err = fmt.Errorf("throttled")

	m := schema.New()
	set(t, m, "id", "u-1")
	set(t, m, "name", "Fred")

	if err := s.Save(context.Background(), m); err == nil {
		t.Fatal("expected error")
	}
	if changed, _ := m.Changed("name"); !changed {
		t.Error("expected changes to be kept after a failed write")
	}
}

func TestStore_SaveChangedIdentity(t *testing.T) {
	s, client, schema := newTestStore(t)
	m := schema.New()
	set(t, m, "id", "u-1")
	m.ClearChanges()
	set(t, m, "id", "u-2")

	if err := s.Save(context.Background(), m); !errors.Is(err, dynamo.ErrKeyChanged) {
		t.Fatalf("expected ErrKeyChanged, got %v", err)
	}
	if len(client.updates) != 0 {
		t.Errorf("expected no update, got %d", len(client.updates))
	}
	if changed, _ := m.Changed("id"); !changed {
		t.Error("expected the identity change to be kept")
	}
}

func TestStore_SaveNewModelWithOnlyIdentity(t *testing.T) {
	s, client, schema := newTestStore(t)
	m := schema.New()
	set(t, m, "id", "u-1")

	if err := s.Save(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.updates) != 1 {
		t.Fatalf("expected 1 update creating the item, got %d", len(client.updates))
	}
	if len(m.Changes()) != 0 {
		t.Errorf("expected change log to be cleared, got %v", m.Changes())
	}
}

func TestStore_Delete(t *testing.T) {
	s, client, schema := newTestStore(t)
	m := schema.New()
	set(t, m, "id", "u-1")

	if err := s.Delete(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.deletes) != 1 {
		t.Fatalf("expected 1 delete, got %d", len(client.deletes))
	}

	if err := s.Delete(context.Background(), schema.New()); !errors.Is(err, dynamo.ErrNoIdentity) {
		t.Errorf("expected ErrNoIdentity, got %v", err)
	}
}

func TestStore_NoTable(t *testing.T) {
	s, _, _ := newTestStore(t)

	b := attribute.NewSchemaBuilder("Draft")
	_ = b.Attribute("id", attribute.String)
	draft := b.MustBuild().New()
	set(t, draft, "id", "d-1")

	if err := s.Put(context.Background(), draft); !errors.Is(err, dynamo.ErrNoTable) {
		t.Errorf("expected ErrNoTable, got %v", err)
	}
	if err := s.Save(context.Background(), draft); !errors.Is(err, dynamo.ErrNoTable) {
		t.Errorf("expected ErrNoTable, got %v", err)
	}
}

func ExampleUpdateInput() {
	b := attribute.NewSchemaBuilder("User")
	_ = b.Attribute("id", attribute.String)
	_ = b.Attribute("name", attribute.String)
	_ = b.Attribute("reward_points", attribute.Integer, attribute.Default(0))
	m := b.MustBuild().New()

	_ = m.Set("id", "u-1")
	_ = m.Set("name", "Fred")
	_ = m.Set("reward_points", 3)
	m.ClearChanges()

	_ = m.Set("name", nil)
	_ = m.Set("reward_points", 4)

	key, _ := dynamo.Key(m)
	input, _ := dynamo.UpdateInput("users", key, m)
	fmt.Println(aws.ToString(input.UpdateExpression))
	// Output: SET #a1 = :v1 REMOVE #a0
}
