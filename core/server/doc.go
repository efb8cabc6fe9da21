// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure for server settings: the listen port, the
// API key guarding the sync triggers, and whether triggers run in the background.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the start command to build the listen address and auth middleware.
package server
