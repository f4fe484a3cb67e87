package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	domainRepo "github.com/sangkips/printshop-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormKeyValueStore struct {
	db *gorm.DB
}

// NewGormKeyValueStore creates a key-value store backed by the kv_entries table
func NewGormKeyValueStore(db *gorm.DB) domainRepo.KeyValueStore {
	return &gormKeyValueStore{db: db}
}

func (s *gormKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	var e entity.KVEntry
	err := s.db.WithContext(ctx).Where("store_key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (s *gormKeyValueStore) Set(ctx context.Context, key, value string) error {
	return upsertEntry(s.db.WithContext(ctx), key, value)
}

func (s *gormKeyValueStore) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("store_key = ?", key).
		Delete(&entity.KVEntry{}).Error
}

func (s *gormKeyValueStore) SetMany(ctx context.Context, entries map[string]string) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	// Fixed write order keeps concurrent transactions from deadlocking.
	sort.Strings(keys)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, k := range keys {
			if err := upsertEntry(tx, k, entries[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertEntry(db *gorm.DB, key, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entity.KVEntry{Key: key, Value: value}).Error
}
