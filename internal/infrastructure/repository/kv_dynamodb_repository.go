package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	domainRepo "github.com/sangkips/printshop-api/internal/domain/repository"
)

// DynamoDB caps items at 400 KB and a transaction at 100 items and 4 MB.
const (
	maxPartBytes     = 350 * 1024
	maxTransactItems = 100
	maxTransactBytes = 3900 * 1024
	partSeparator    = "#"
)

// ErrValueTooLarge is returned when a write cannot fit in one DynamoDB transaction
var ErrValueTooLarge = errors.New("dynamodb: value exceeds the transaction size limit")

// DynamoDBAPI is the subset of the DynamoDB client used by the store
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

type kvItem struct {
	Key       string `dynamodbav:"key"`
	Value     string `dynamodbav:"value"`
	Parts     int    `dynamodbav:"parts,omitempty"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// dynamoKeyValueStore keeps one head item per key. Values larger than one
// item are split; the head holds the first part and the part count, and the
// rest live under "<key>#1", "<key>#2", ...
//
// Table requirements:
//   - PK: key (string)
type dynamoKeyValueStore struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ domainRepo.KeyValueStore = (*dynamoKeyValueStore)(nil)

// NewDynamoKeyValueStore creates a key-value store backed by a DynamoDB table
func NewDynamoKeyValueStore(ddb DynamoDBAPI, tableName string) domainRepo.KeyValueStore {
	return &dynamoKeyValueStore{ddb: ddb, tableName: tableName}
}

func partKey(key string, i int) string {
	if i == 0 {
		return key
	}
	return key + partSeparator + strconv.Itoa(i)
}

func (s *dynamoKeyValueStore) itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"key": &types.AttributeValueMemberS{Value: key},
	}
}

func (s *dynamoKeyValueStore) getItem(ctx context.Context, key string) (*kvItem, error) {
	out, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var it kvItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *dynamoKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	head, err := s.getItem(ctx, key)
	if err != nil || head == nil {
		return "", false, err
	}
	if head.Parts <= 1 {
		return head.Value, true, nil
	}

	value := head.Value
	for i := 1; i < head.Parts; i++ {
		part, err := s.getItem(ctx, partKey(key, i))
		if err != nil {
			return "", false, err
		}
		if part == nil {
			return "", false, fmt.Errorf("dynamodb: key %q is missing part %d of %d", key, i, head.Parts)
		}
		value += part.Value
	}
	return value, true, nil
}

func (s *dynamoKeyValueStore) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

// storedParts returns how many items the current value of key occupies
func (s *dynamoKeyValueStore) storedParts(ctx context.Context, key string) (int, error) {
	head, err := s.getItem(ctx, key)
	if err != nil || head == nil {
		return 0, err
	}
	if head.Parts < 1 {
		return 1, nil
	}
	return head.Parts, nil
}

func (s *dynamoKeyValueStore) Remove(ctx context.Context, key string) error {
	parts, err := s.storedParts(ctx, key)
	if err != nil {
		return err
	}
	// The head goes first so readers never see a value with missing parts.
	for i := 0; i < max(parts, 1); i++ {
		_, err := s.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key:       s.itemKey(partKey(key, i)),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// SetMany writes every entry, including their parts, in one transaction.
// Parts left over from a previously larger value are deleted in the same
// transaction.
func (s *dynamoKeyValueStore) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now().UTC().Format(time.RFC3339)
	items := make([]types.TransactWriteItem, 0, len(keys))
	size := 0
	for _, k := range keys {
		parts := splitValue(entries[k], maxPartBytes)
		for i, p := range parts {
			it := kvItem{Key: partKey(k, i), Value: p, UpdatedAt: now}
			if i == 0 && len(parts) > 1 {
				it.Parts = len(parts)
			}
			av, err := attributevalue.MarshalMap(it)
			if err != nil {
				return err
			}
			items = append(items, types.TransactWriteItem{
				Put: &types.Put{TableName: aws.String(s.tableName), Item: av},
			})
			size += len(p)
		}

		stored, err := s.storedParts(ctx, k)
		if err != nil {
			return err
		}
		for i := len(parts); i < stored; i++ {
			items = append(items, types.TransactWriteItem{
				Delete: &types.Delete{TableName: aws.String(s.tableName), Key: s.itemKey(partKey(k, i))},
			})
		}
	}

	if len(items) > maxTransactItems || size > maxTransactBytes {
		return fmt.Errorf("%w: %d bytes in %d items", ErrValueTooLarge, size, len(items))
	}

	_, err := s.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	return err
}

// splitValue cuts value into pieces of at most limit bytes without
// splitting a UTF-8 sequence. An empty value yields one empty piece.
func splitValue(value string, limit int) []string {
	var parts []string
	for len(value) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(value[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		parts = append(parts, value[:cut])
		value = value[cut:]
	}
	return append(parts, value)
}
