package service

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/repository"
	"github.com/sangkips/printshop-api/pkg/apperror"
)

// BackupService exports and restores the whole ledger
type BackupService struct {
	store repository.LedgerStore
}

// NewBackupService creates a new backup service
func NewBackupService(store repository.LedgerStore) *BackupService {
	return &BackupService{store: store}
}

// ImportResult lists what an import overwrote
type ImportResult struct {
	Imported []string `json:"imported"`
	Ignored  []string `json:"ignored,omitempty"`
}

// Export returns every collection in one document
func (s *BackupService) Export(ctx context.Context) (*entity.Backup, error) {
	return s.store.Export(ctx)
}

// Import overwrites each known collection present in data. The document must
// parse as a JSON object; its values are stored as-is without further checks.
func (s *BackupService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	var raw map[repository.Collection]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, apperror.NewBadRequestError("Backup must be a JSON object")
	}

	result := &ImportResult{Imported: []string{}}
	for c := range raw {
		if c.IsKnown() {
			result.Imported = append(result.Imported, string(c))
		} else {
			result.Ignored = append(result.Ignored, string(c))
		}
	}
	sort.Strings(result.Imported)
	sort.Strings(result.Ignored)

	if err := s.store.Import(ctx, raw); err != nil {
		return nil, err
	}
	return result, nil
}
