package reconcile

import (
	"context"
	"time"

	"class-sync/core/destination"
	"class-sync/core/utils"

	"go.uber.org/zap"
)

// ErrorEntry is one error log record.
type ErrorEntry struct {
	Source  string
	Message string
	Entity  string
	Course  string
}

// ErrorReporter appends entries to the error log collection. It never fails:
// entries are always logged, and a failed write is logged and dropped.
type ErrorReporter struct {
	store      destination.Store
	collection string
	schema     destination.Schema
	logger     *zap.Logger
	now        func() time.Time
}

// NewErrorReporter creates a reporter. With an empty collection entries are only logged.
func NewErrorReporter(store destination.Store, collection string, schema destination.Schema, logger *zap.Logger) *ErrorReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorReporter{store: store, collection: collection, schema: schema, logger: logger, now: time.Now}
}

// logOnly returns a reporter that never writes to the store.
func (r *ErrorReporter) logOnly() *ErrorReporter {
	cp := *r
	cp.store = nil
	return &cp
}

// Report logs entry and appends it to the error log.
func (r *ErrorReporter) Report(ctx context.Context, entry ErrorEntry) {
	if r == nil {
		return
	}
	r.logger.Error("Sync error",
		zap.String("source", entry.Source),
		zap.String("error", entry.Message),
		zap.String("entity", entry.Entity),
		zap.String("course", entry.Course),
	)
	if r.store == nil || r.collection == "" {
		return
	}

	now := r.now()
	props := destination.Properties{}
	r.schema.Put(props, destination.FieldName, destination.Title("Error: "+utils.FirstNonEmpty(entry.Entity, entry.Source)))
	r.schema.Put(props, destination.FieldDate, destination.Date(&now))
	r.schema.Put(props, destination.FieldSource, destination.RichText(entry.Source))
	r.schema.Put(props, destination.FieldMessage, destination.RichText(utils.Truncate(entry.Message, 2000)))
	if entry.Entity != "" {
		r.schema.Put(props, destination.FieldEntity, destination.RichText(entry.Entity))
	}
	if entry.Course != "" {
		r.schema.Put(props, destination.FieldCourseName, destination.RichText(entry.Course))
	}
	r.schema.Put(props, destination.FieldResolved, destination.Checkbox(false))

	if _, err := r.store.Create(ctx, r.collection, props); err != nil {
		r.logger.Warn("Failed to write error log entry", zap.String("source", entry.Source), zap.Error(err))
	}
}
