// Package coursesync exposes sync runs over HTTP and records their history.
//
// # Components
//
//   - Bootstrap (NewRunner, NewStore, NewSources): builds the reconcile runner
//     from the configuration, choosing the Notion or SQL destination store.
//   - Service: runs syncs in the foreground or background, keeps the last
//     summary per kind, and publishes each finished run to Prometheus, the
//     database ledger and the object storage archive when those are configured.
//   - Handler: the HTTP triggers and history endpoints.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /                  : liveness with memory use and uptime
//   - GET /sync              : assignment sync
//   - GET /sync-resources    : module item sync
//   - GET /sync-due-check    : update-only assignment pass
//   - GET /sync/status       : last summary per kind
//   - GET /sync/runs         : run history (?kind=, ?limit=)
//   - GET /sync/runs/report  : one archived report (?key=)
//   - GET /metrics           : Prometheus metrics
//
// Triggers accept ?dry_run=true and always answer 200 with plain text.
package coursesync
