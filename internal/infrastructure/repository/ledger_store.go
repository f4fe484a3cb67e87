package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	domainRepo "github.com/sangkips/printshop-api/internal/domain/repository"
)

type ledgerStore struct {
	kv domainRepo.KeyValueStore
	mu sync.Mutex
}

// NewLedgerStore creates the repository owning every persisted collection
func NewLedgerStore(kv domainRepo.KeyValueStore) domainRepo.LedgerStore {
	return &ledgerStore{kv: kv}
}

func (s *ledgerStore) PrintJobs(ctx context.Context) ([]entity.PrintJob, error) {
	return loadCollection[entity.PrintJob](ctx, s.kv, domainRepo.CollectionPrintJobs)
}

func (s *ledgerStore) Classes(ctx context.Context) ([]entity.Class, error) {
	return loadCollection[entity.Class](ctx, s.kv, domainRepo.CollectionClasses)
}

func (s *ledgerStore) Teachers(ctx context.Context) ([]entity.Teacher, error) {
	return loadCollection[entity.Teacher](ctx, s.kv, domainRepo.CollectionTeachers)
}

func (s *ledgerStore) DocumentTypes(ctx context.Context) ([]entity.DocumentType, error) {
	return loadCollection[entity.DocumentType](ctx, s.kv, domainRepo.CollectionDocumentTypes)
}

func (s *ledgerStore) Settings(ctx context.Context) (*entity.Settings, error) {
	key := string(domainRepo.CollectionSettings)
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	settings := entity.DefaultSettings()
	if !found || strings.TrimSpace(raw) == "" {
		return settings, nil
	}

	// Stored fields override defaults; absent fields keep them.
	if err := json.Unmarshal([]byte(raw), settings); err != nil {
		log.Printf("[store] corrupt JSON under key %q, falling back to defaults: %v", key, err)
		return entity.DefaultSettings(), nil
	}
	return settings, nil
}

func (s *ledgerStore) Commit(ctx context.Context, changes domainRepo.ChangeSet) error {
	if len(changes) == 0 {
		return nil
	}

	entries := make(map[string]string, len(changes))
	for c, value := range changes {
		if !c.IsKnown() {
			return fmt.Errorf("unknown collection %q", c)
		}
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", c, err)
		}
		entries[string(c)] = string(data)
	}

	if err := s.kv.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("failed to write %s: %w", changedKeys(changes), err)
	}
	return nil
}

func (s *ledgerStore) Mutate(ctx context.Context, fn func() (domainRepo.ChangeSet, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changes, err := fn()
	if err != nil {
		return err
	}
	return s.Commit(ctx, changes)
}

func (s *ledgerStore) Export(ctx context.Context) (*entity.Backup, error) {
	jobs, err := s.PrintJobs(ctx)
	if err != nil {
		return nil, err
	}
	classes, err := s.Classes(ctx)
	if err != nil {
		return nil, err
	}
	teachers, err := s.Teachers(ctx)
	if err != nil {
		return nil, err
	}
	docTypes, err := s.DocumentTypes(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}

	return &entity.Backup{
		PrintJobs:     jobs,
		Classes:       classes,
		Teachers:      teachers,
		DocumentTypes: docTypes,
		Settings:      settings,
	}, nil
}

func (s *ledgerStore) Import(ctx context.Context, raw map[domainRepo.Collection]json.RawMessage) error {
	entries := make(map[string]string, len(raw))
	for c, data := range raw {
		if !c.IsKnown() {
			continue
		}
		entries[string(c)] = string(data)
	}
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}
	return nil
}

func loadCollection[T any](ctx context.Context, kv domainRepo.KeyValueStore, c domainRepo.Collection) ([]T, error) {
	key := string(c)
	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	items := []T{}
	if !found || strings.TrimSpace(raw) == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("[store] corrupt JSON under key %q, falling back to empty: %v", key, err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func changedKeys(changes domainRepo.ChangeSet) string {
	keys := make([]string, 0, len(changes))
	for _, c := range domainRepo.Collections {
		if _, ok := changes[c]; ok {
			keys = append(keys, string(c))
		}
	}
	return strings.Join(keys, "+")
}
