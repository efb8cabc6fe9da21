// Package logger builds the zap logger shared by the CLI, the HTTP server and
// sync runs.
//
// Level "debug" switches to zap's development preset; any other level string
// accepted by zapcore.ParseLevel tunes the production preset. Format selects
// the encoder: "console" for colored human output, "json" otherwise.
//
// Request handlers derive a child logger carrying the ray id set by the rayid
// middleware:
//
//	log := logger.WithRayID(base, c)
//	log.Warn("Sync trigger rejected", zap.String("kind", kind))
//
// Sync runs attach run_id and kind with zap.With in the same way.
package logger
