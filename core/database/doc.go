// Package database handles the optional SQL connection.
//
// It wraps GORM to open MySQL or SQLite from the application's configuration and
// owns three tables:
//
//   - records and record_fields back Store, the SQL implementation of
//     destination.Store. Each record keeps its properties as JSON; record_fields
//     holds one row per property value so filters can run in SQL.
//   - sync_runs backs Ledger, the history of finished sync runs.
//
// Migrate creates the tables and then uses the schema inspector
// (GetTableColumns, MissingColumns) to confirm every expected column exists.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Database connection failed", zap.Error(err))
//	}
//	if err := database.Migrate(db); err != nil { ... }
//	store := database.NewStore(db)
package database
