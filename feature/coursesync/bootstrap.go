package coursesync

import (
	"errors"
	"fmt"

	"class-sync/core/canvas"
	"class-sync/core/config"
	"class-sync/core/database"
	"class-sync/core/destination"
	"class-sync/core/httpx"
	"class-sync/core/notion"
	"class-sync/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrDatabaseRequired means a SQL destination driver was selected without a connection.
var ErrDatabaseRequired = errors.New("destination driver requires a database connection")

// NewStore opens the configured destination store.
func NewStore(cfg *config.Config, db *gorm.DB, logger *zap.Logger) (destination.Store, error) {
	switch cfg.Destination.Driver {
	case destination.DriverNotion:
		client := httpx.NewClient(cfg.Sync.RequestTimeout())
		return notion.NewClient(cfg.Notion, client, cfg.Sync.MaxAttempts, logger)
	case destination.DriverMySQL, destination.DriverSQLite:
		if db == nil {
			return nil, fmt.Errorf("%s: %w", cfg.Destination.Driver, ErrDatabaseRequired)
		}
		return database.NewStore(db), nil
	}
	return nil, fmt.Errorf("unknown destination driver %q", cfg.Destination.Driver)
}

// NewSources creates one LMS client per configured account.
func NewSources(cfg *config.Config, logger *zap.Logger) []reconcile.Source {
	client := httpx.NewClient(cfg.Sync.RequestTimeout())
	var sources []reconcile.Source
	for _, acc := range cfg.Accounts() {
		sources = append(sources, canvas.NewClient(acc, client, cfg.Sync.Retry(), logger))
	}
	return sources
}

// Targets maps the destination settings to the runner's collections.
func Targets(cfg destination.Config) reconcile.Targets {
	return reconcile.Targets{
		Assignments:   cfg.Assignments,
		Resources:     cfg.Resources,
		CoursePlanner: cfg.CoursePlanner,
		ErrorLog:      cfg.ErrorLog,
	}
}

// NewRunner wires the store, the LMS accounts and the schemas into a runner.
func NewRunner(cfg *config.Config, db *gorm.DB, logger *zap.Logger) (*reconcile.Runner, error) {
	schemas, err := destination.LoadSchemas(cfg.Destination.SchemaFile)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(cfg, db, logger)
	if err != nil {
		return nil, err
	}
	engine := reconcile.NewEngine(store, nil, logger)
	return reconcile.NewRunner(engine, store, NewSources(cfg, logger), Targets(cfg.Destination), schemas, nil, logger), nil
}
