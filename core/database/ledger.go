package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Ledger records finished sync runs.
type Ledger struct {
	db *gorm.DB
}

// NewLedger wraps an open, migrated connection.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Record inserts one run.
func (l *Ledger) Record(ctx context.Context, run *SyncRun) error {
	if err := l.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record sync run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. An empty kind matches every kind.
func (l *Ledger) Recent(ctx context.Context, kind string, limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	q := l.db.WithContext(ctx).Order("started_at DESC").Limit(limit)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var runs []SyncRun
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	return runs, nil
}
