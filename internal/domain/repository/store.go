package repository

import (
	"context"
	"encoding/json"

	"github.com/sangkips/printshop-api/internal/domain/entity"
)

// KeyValueStore is the persistent string-keyed store every collection lives in
type KeyValueStore interface {
	// Get returns the value stored under key and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error
	Remove(ctx context.Context, key string) error
	// SetMany stores every entry atomically
	SetMany(ctx context.Context, entries map[string]string) error
}

// Collection names a persisted collection and doubles as its store key
type Collection string

const (
	CollectionPrintJobs     Collection = "printjobs"
	CollectionClasses       Collection = "classes"
	CollectionTeachers      Collection = "teachers"
	CollectionDocumentTypes Collection = "documenttypes"
	CollectionSettings      Collection = "settings"
)

// Collections lists every persisted collection in backup order
var Collections = []Collection{
	CollectionPrintJobs,
	CollectionClasses,
	CollectionTeachers,
	CollectionDocumentTypes,
	CollectionSettings,
}

// IsKnown reports whether c is one of the persisted collections
func (c Collection) IsKnown() bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}

// ChangeSet maps collections to their new full contents.
// Values are []entity.PrintJob, []entity.Class, []entity.Teacher,
// []entity.DocumentType or *entity.Settings.
type ChangeSet map[Collection]any

// LedgerStore owns every persisted collection.
//
// Readers substitute an empty collection (or default settings) when a key is
// missing or holds corrupt JSON; only storage I/O errors are returned.
type LedgerStore interface {
	PrintJobs(ctx context.Context) ([]entity.PrintJob, error)
	Classes(ctx context.Context) ([]entity.Class, error)
	Teachers(ctx context.Context) ([]entity.Teacher, error)
	DocumentTypes(ctx context.Context) ([]entity.DocumentType, error)
	Settings(ctx context.Context) (*entity.Settings, error)

	// Commit writes every collection in changes in a single atomic step
	Commit(ctx context.Context, changes ChangeSet) error
	// Mutate runs fn under the store's write lock and commits the returned
	// change set. An empty change set commits nothing.
	Mutate(ctx context.Context, fn func() (ChangeSet, error)) error

	// Export reads every collection into one backup document
	Export(ctx context.Context) (*entity.Backup, error)
	// Import overwrites each collection present in raw with its JSON text
	Import(ctx context.Context, raw map[Collection]json.RawMessage) error
}
