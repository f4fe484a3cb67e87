package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/repository"
	infraRepo "github.com/sangkips/printshop-api/internal/infrastructure/repository"
)

var testNow = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) repository.LedgerStore {
	t.Helper()
	return infraRepo.NewLedgerStore(infraRepo.NewMemoryKeyValueStore())
}

func newTestJobService(t *testing.T, store repository.LedgerStore) *PrintJobService {
	t.Helper()
	svc := NewPrintJobService(store, time.UTC, DefaultDuplicateWindow)
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedClasses(t *testing.T, store repository.LedgerStore, classes ...entity.Class) {
	t.Helper()
	if err := store.Commit(context.Background(), repository.ChangeSet{repository.CollectionClasses: classes}); err != nil {
		t.Fatalf("failed to seed classes: %v", err)
	}
}

func seedSettings(t *testing.T, store repository.LedgerStore, mutate func(*entity.Settings)) {
	t.Helper()
	settings := entity.DefaultSettings()
	mutate(settings)
	if err := store.Commit(context.Background(), repository.ChangeSet{repository.CollectionSettings: settings}); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}
}

func classBalance(t *testing.T, store repository.LedgerStore, name string) string {
	t.Helper()
	classes, err := store.Classes(context.Background())
	if err != nil {
		t.Fatalf("failed to load classes: %v", err)
	}
	for _, c := range classes {
		if c.Name == name {
			return c.TotalUnpaid.StringFixed(2)
		}
	}
	t.Fatalf("class %q not found", name)
	return ""
}
