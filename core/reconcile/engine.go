package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"class-sync/core/classify"
	"class-sync/core/content"
	"class-sync/core/destination"

	"go.uber.org/zap"
)

// Collection describes one destination collection the engine writes to.
type Collection struct {
	// ID is the store's collection id (a Notion database id, or a table collection name).
	ID     string
	Schema destination.Schema
	// Build computes the target record. previous is the stored status, or "" on create.
	Build func(e Entity, previous classify.Status, now time.Time) Record
	// CreateMissing allows creates; when false, entities without a record are skipped.
	CreateMissing bool
}

// Scope carries the per-run collaborators of a reconcile call.
type Scope struct {
	Courses *CourseCache
	Content *content.Resolver
	DryRun  bool
	Logger  *zap.Logger
}

// Engine upserts one destination record per entity.
type Engine struct {
	store  destination.Store
	locks  *KeyedMutex
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates an engine. locks is shared by every run of the process
// so overlapping runs never both create the same record; nil allocates a
// private table.
func NewEngine(store destination.Store, locks *KeyedMutex, logger *zap.Logger) *Engine {
	if locks == nil {
		locks = NewKeyedMutex()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, locks: locks, logger: logger, now: time.Now}
}

// SetClock replaces the time source.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Reconcile brings the record of ent in line with the LMS. A missing course
// page, or a missing record when creates are disabled, yields OutcomeSkipped
// without any write. Any other error yields OutcomeFailed.
func (e *Engine) Reconcile(ctx context.Context, col Collection, scope Scope, ent Entity) (Outcome, error) {
	logger := scope.Logger
	if logger == nil {
		logger = e.logger
	}
	logger = logger.With(zap.String("external_id", ent.ExternalID), zap.String("course", ent.CourseName))

	if strings.TrimSpace(ent.ExternalID) == "" {
		return OutcomeFailed, fmt.Errorf("%w: %q in %s", ErrMissingExternalID, ent.Name, col.ID)
	}

	coursePageID, err := scope.Courses.Resolve(ctx, ent.CourseName)
	if errors.Is(err, ErrCourseNotFound) {
		logger.Debug("Skipping entity without course page")
		return OutcomeSkipped, nil
	}
	if err != nil {
		return OutcomeFailed, err
	}

	unlock := e.locks.Lock(col.ID + "/" + ent.ExternalID)
	defer unlock()

	filter, err := col.Schema.Equals(destination.FieldExternalID, ent.ExternalID)
	if err != nil {
		return OutcomeFailed, err
	}
	pages, err := e.store.Query(ctx, col.ID, filter)
	if err != nil {
		return OutcomeFailed, err
	}

	var existing *destination.Page
	var previous classify.Status
	if len(pages) > 0 {
		existing = &pages[0]
		previous = classify.Status(col.Schema.Text(*existing, destination.FieldStatus))
		if len(pages) > 1 {
			logger.Warn("Multiple records share an external id; updating the first", zap.Int("count", len(pages)))
		}
	} else if !col.CreateMissing {
		return OutcomeSkipped, nil
	}

	now := e.now()
	target := col.Build(ent, previous, now)
	target.ExternalID = ent.ExternalID
	target.CoursePageID = coursePageID
	if col.Schema.Has(destination.FieldSummary) {
		target.Summary = scope.Content.Summary(ctx, ent.DetailURL)
	}

	action := Plan(col.Schema, existing, target, now)
	outcome := OutcomeUpdated
	if action.Type == ActionCreate {
		outcome = OutcomeCreated
	}

	if scope.DryRun {
		logger.Info("Dry run: planned action",
			zap.String("action", string(action.Type)),
			zap.String("name", target.Name),
			zap.Any("changed", action.Changed),
		)
		return outcome, nil
	}

	pageID, err := Apply(ctx, e.store, col.ID, action)
	if err != nil {
		return OutcomeFailed, err
	}
	logger.Debug("Record synced",
		zap.String("action", string(action.Type)),
		zap.String("page_id", pageID),
		zap.String("name", target.Name),
	)
	return outcome, nil
}
