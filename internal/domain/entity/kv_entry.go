package entity

import "time"

// KVEntry is one row of the relational key-value store
type KVEntry struct {
	Key       string    `gorm:"column:store_key;primaryKey;size:255"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for KVEntry
func (KVEntry) TableName() string {
	return "kv_entries"
}
