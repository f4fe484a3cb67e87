package service

import (
	"context"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/repository"
)

// SettingsService handles the shop settings singleton
type SettingsService struct {
	store repository.LedgerStore
}

// NewSettingsService creates a new settings service
func NewSettingsService(store repository.LedgerStore) *SettingsService {
	return &SettingsService{store: store}
}

// GetSettings returns the stored settings, or defaults when none are saved
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.Settings, error) {
	return s.store.Settings(ctx)
}

// UpdateSettings replaces the settings wholesale. Recorded job prices are
// unaffected; new prices apply to jobs created afterwards.
func (s *SettingsService) UpdateSettings(ctx context.Context, settings *entity.Settings) (*entity.Settings, error) {
	err := s.store.Mutate(ctx, func() (repository.ChangeSet, error) {
		return repository.ChangeSet{repository.CollectionSettings: settings}, nil
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}
