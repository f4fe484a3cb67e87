package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	domainRepo "github.com/sangkips/printshop-api/internal/domain/repository"
)

const idempotencyKeyPrefix = "idempotency:"

type idempotencyRepository struct {
	kv domainRepo.KeyValueStore
}

// NewIdempotencyRepository creates an idempotency repository sharing the key-value store
func NewIdempotencyRepository(kv domainRepo.KeyValueStore) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{kv: kv}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string) (*entity.IdempotencyKey, error) {
	storeKey := idempotencyStoreKey(key)
	raw, found, err := r.kv.Get(ctx, storeKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var ikey entity.IdempotencyKey
	if err := json.Unmarshal([]byte(raw), &ikey); err != nil {
		log.Printf("[idempotency] dropping unreadable entry %s: %v", storeKey, err)
		return nil, r.kv.Remove(ctx, storeKey)
	}
	if ikey.IsExpired() {
		return nil, r.kv.Remove(ctx, storeKey)
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	data, err := json.Marshal(ikey)
	if err != nil {
		return fmt.Errorf("failed to encode idempotency key: %w", err)
	}
	return r.kv.Set(ctx, idempotencyStoreKey(ikey.Key), string(data))
}

// idempotencyStoreKey hashes client keys so they fit any backend's key limits
// and can never collide with a collection name.
func idempotencyStoreKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return idempotencyKeyPrefix + hex.EncodeToString(sum[:])
}
