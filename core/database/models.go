package database

import (
	"time"

	"gorm.io/datatypes"
)

// Record is one destination page. Properties holds the JSON-encoded property bag.
type Record struct {
	ID         string         `gorm:"column:id;primaryKey;type:varchar(36)"`
	Collection string         `gorm:"column:collection;type:varchar(191);index"`
	Properties datatypes.JSON `gorm:"column:properties"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (Record) TableName() string { return "records" }

// RecordField indexes one property value of a record for filtering.
// Multi-valued properties get one row per value.
type RecordField struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement"`
	RecordID   string `gorm:"column:record_id;type:varchar(36);index"`
	Collection string `gorm:"column:collection;type:varchar(191);index:idx_record_fields_lookup,priority:1"`
	Property   string `gorm:"column:property;type:varchar(191);index:idx_record_fields_lookup,priority:2"`
	Value      string `gorm:"column:value;type:text"`
}

func (RecordField) TableName() string { return "record_fields" }

// SyncRun is one entry of the run ledger.
type SyncRun struct {
	ID         string         `gorm:"column:id;primaryKey;type:varchar(36)"`
	Kind       string         `gorm:"column:kind;type:varchar(32);index"`
	StartedAt  time.Time      `gorm:"column:started_at;index"`
	FinishedAt time.Time      `gorm:"column:finished_at"`
	Created    int            `gorm:"column:created"`
	Updated    int            `gorm:"column:updated"`
	Skipped    int            `gorm:"column:skipped"`
	Failed     int            `gorm:"column:failed"`
	DryRun     bool           `gorm:"column:dry_run"`
	Report     datatypes.JSON `gorm:"column:report"`
}

func (SyncRun) TableName() string { return "sync_runs" }
