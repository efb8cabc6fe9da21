package cmd

import (
	"fmt"

	"class-sync/core/config"
	"class-sync/core/database"
	"class-sync/core/logger"
	"class-sync/core/metrics"
	"class-sync/core/storage"
	"class-sync/feature/coursesync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application is the wired service graph shared by the commands.
type application struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	metrics *metrics.Metrics
	service *coursesync.Service
}

// bootstrap loads configuration and wires the sync service. The database and
// the archive are optional: failures are logged and the feature degrades.
func bootstrap() (*application, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		logg.Warn("Incomplete configuration; affected accounts and collections are skipped", zap.Error(err))
	}

	app := &application{cfg: cfg, logger: logg, metrics: metrics.New()}

	var ledger *database.Ledger
	if cfg.Database.Enabled() {
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else if err := database.Migrate(conn); err != nil {
			logg.Warn("Database migration failed", zap.Error(err))
		} else {
			app.db = conn
			ledger = database.NewLedger(conn)
			logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
		}
	}

	var archive *storage.Archive
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Warn("Run archive disabled: storage client failed", zap.Error(err))
		} else {
			archive = storage.NewArchive(client, cfg.Storage.Bucket, cfg.Storage.Region)
		}
	}

	runner, err := coursesync.NewRunner(cfg, app.db, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync runner: %w", err)
	}

	app.service = coursesync.NewService(runner, cfg.Sync, ledger, archive, app.metrics, logg)
	return app, nil
}
