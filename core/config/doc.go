// Package config provides configuration management for class-sync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Every setting has a default declared on its struct field.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, API key, background triggers
//   - Log: Logging level and format
//   - Canvas1, Canvas2: LMS accounts (CANVAS_1_*, CANVAS_2_*)
//   - Notion: Notion integration token and API version
//   - Destination: store driver and collection ids
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials for the run archive
//   - Sync: workers, request timeout, retries, dry run
//
// Validate returns a *ConfigurationError naming missing settings. Callers log it
// and keep running.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    logger.Warn("Incomplete configuration", zap.Error(err))
//	}
package config
