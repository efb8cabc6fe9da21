// Package reconcile is the idempotent upsert engine that keeps destination
// records in line with the LMS.
//
// # Architecture
//
// A run walks every configured account, its available courses and their items
// (assignments, or module items for resources). Each item becomes an Entity and
// goes through Engine.Reconcile:
//
//  1. Resolve the course page through the per-run CourseCache. Without one the
//     entity is skipped and nothing is written.
//  2. Under a per-external-id lock, query the collection for the stored record.
//  3. Build the target Record with the collection's builder (classification,
//     status, grade) and, when the collection has a summary, the content resolver.
//  4. Plan the write. Plan is pure: creates carry every field and the
//     just-landed tag; updates carry only changed fields plus last synced, and
//     manage the changed tag according to the acknowledgement flag.
//  5. Apply the action unless the run is a dry run.
//
// Failures are isolated per entity (and per course or account for listing
// failures), reported through the ErrorReporter and counted in the Summary.
//
// # Usage
//
//	engine := reconcile.NewEngine(store, reconcile.NewKeyedMutex(), logger)
//	runner := reconcile.NewRunner(engine, store, sources, targets, schemas, nil, logger)
//	summary, err := runner.Run(ctx, reconcile.KindAssignments, reconcile.Options{Workers: 1})
package reconcile
