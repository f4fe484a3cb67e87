package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const dynamoItemLimit = 400 * 1024

type fakeDynamo struct {
	items        map[string]map[string]types.AttributeValue
	transactions int
	err          error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func keyOf(t map[string]types.AttributeValue) string {
	if s, ok := t["key"].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(in.TransactItems) > 100 {
		return nil, errors.New("ValidationException: too many transaction items")
	}
	for _, it := range in.TransactItems {
		if it.Put == nil {
			continue
		}
		if v, ok := it.Put.Item["value"].(*types.AttributeValueMemberS); ok && len(v.Value) > dynamoItemLimit {
			return nil, errors.New("ValidationException: Item size has exceeded the maximum allowed size")
		}
	}
	f.transactions++
	for _, it := range in.TransactItems {
		switch {
		case it.Put != nil:
			f.items[keyOf(it.Put.Item)] = it.Put.Item
		case it.Delete != nil:
			delete(f.items, keyOf(it.Delete.Key))
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func TestDynamoKeyValueStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDynamo()
	store := NewDynamoKeyValueStore(ddb, "printshop_store")

	if _, found, err := store.Get(ctx, "classes"); err != nil || found {
		t.Fatalf("expected missing key, got found=%v err=%v", found, err)
	}

	if err := store.Set(ctx, "classes", `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, found, err := store.Get(ctx, "classes")
	if err != nil || !found || v != `[]` {
		t.Fatalf("unexpected get: %q %v %v", v, found, err)
	}

	var it kvItem
	if err := attributevalue.UnmarshalMap(ddb.items["classes"], &it); err != nil {
		t.Fatalf("unmarshal stored item: %v", err)
	}
	if it.UpdatedAt == "" {
		t.Fatalf("expected updated_at to be stamped")
	}

	if err := store.Remove(ctx, "classes"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, found, _ := store.Get(ctx, "classes"); found {
		t.Fatalf("expected key to be removed")
	}
}

func TestDynamoKeyValueStore_SetManyUsesOneTransaction(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDynamo()
	store := NewDynamoKeyValueStore(ddb, "printshop_store")

	err := store.SetMany(ctx, map[string]string{"printjobs": `[]`, "classes": `[]`})
	if err != nil {
		t.Fatalf("set many: %v", err)
	}
	if ddb.transactions != 1 {
		t.Fatalf("expected 1 transaction, got %d", ddb.transactions)
	}
	if len(ddb.items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(ddb.items))
	}

	if err := store.SetMany(ctx, nil); err != nil {
		t.Fatalf("empty set many: %v", err)
	}
	if ddb.transactions != 1 {
		t.Fatalf("empty set many must not open a transaction")
	}
}

func TestDynamoKeyValueStore_ErrorsPropagate(t *testing.T) {
	ddb := newFakeDynamo()
	ddb.err = errors.New("throttled")
	store := NewDynamoKeyValueStore(ddb, "printshop_store")

	if _, _, err := store.Get(context.Background(), "classes"); err == nil {
		t.Fatalf("expected error")
	}
	if err := store.SetMany(context.Background(), map[string]string{"classes": "[]"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDynamoKeyValueStore_SplitsLargeValues(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDynamo()
	store := NewDynamoKeyValueStore(ddb, "printshop_store")

	// Multi-byte runes make sure parts never cut a UTF-8 sequence.
	large := strings.Repeat(`{"className":"Biologie é","pages":10},`, 30000)
	if len(large) <= dynamoItemLimit*2 {
		t.Fatalf("fixture too small: %d bytes", len(large))
	}

	if err := store.Set(ctx, "printjobs", large); err != nil {
		t.Fatalf("set large value: %v", err)
	}
	if len(ddb.items) < 3 {
		t.Fatalf("expected value to be split over several items, got %d", len(ddb.items))
	}
	got, found, err := store.Get(ctx, "printjobs")
	if err != nil || !found || got != large {
		t.Fatalf("large value did not round trip: found=%v err=%v len=%d", found, err, len(got))
	}

	// Shrinking drops the leftover parts in the same write.
	if err := store.SetMany(ctx, map[string]string{"printjobs": `[]`, "classes": `[]`}); err != nil {
		t.Fatalf("shrink: %v", err)
	}
	if len(ddb.items) != 2 {
		t.Fatalf("expected stale parts to be deleted, got %d items", len(ddb.items))
	}
	if got, _, _ := store.Get(ctx, "printjobs"); got != `[]` {
		t.Fatalf("unexpected value after shrink %q", got)
	}

	if err := store.Set(ctx, "printjobs", large); err != nil {
		t.Fatalf("set large value again: %v", err)
	}
	if err := store.Remove(ctx, "printjobs"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(ddb.items) != 1 {
		t.Fatalf("expected only classes to remain, got %d items", len(ddb.items))
	}
}

func TestDynamoKeyValueStore_RejectsValueOverTransactionLimit(t *testing.T) {
	ddb := newFakeDynamo()
	store := NewDynamoKeyValueStore(ddb, "printshop_store")

	err := store.Set(context.Background(), "printjobs", strings.Repeat("x", 5<<20))
	if !errors.Is(err, ErrValueTooLarge) {
		t.Fatalf("expected ErrValueTooLarge, got %v", err)
	}
	if ddb.transactions != 0 || len(ddb.items) != 0 {
		t.Fatalf("oversized write must not reach the table")
	}
}

func TestSplitValue_KeepsRunesWhole(t *testing.T) {
	parts := splitValue("aéé", 2)
	if strings.Join(parts, "") != "aéé" {
		t.Fatalf("parts do not reassemble: %q", parts)
	}
	for _, p := range parts {
		if !utf8.ValidString(p) {
			t.Fatalf("part %q is not valid UTF-8", p)
		}
	}
	if got := splitValue("", 10); len(got) != 1 || got[0] != "" {
		t.Fatalf("expected one empty part, got %q", got)
	}
}
