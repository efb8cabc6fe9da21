package reconcile

import (
	"context"
	"fmt"
	"time"

	"class-sync/core/canvas"
	"class-sync/core/content"
	"class-sync/core/destination"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source is one LMS account.
type Source interface {
	content.Fetcher
	Label() string
	ListCourses(ctx context.Context) ([]canvas.Course, error)
	ListAssignments(ctx context.Context, courseID canvas.ID) ([]canvas.Assignment, error)
	ListModules(ctx context.Context, courseID canvas.ID) ([]canvas.Module, error)
	ListModuleItems(ctx context.Context, courseID, moduleID canvas.ID) ([]canvas.ModuleItem, error)
}

// Targets names the destination collections. Empty ids disable the runs that need them.
type Targets struct {
	Assignments   string
	Resources     string
	CoursePlanner string
	ErrorLog      string
}

// Runner drives full sync runs: accounts, then available courses, then the
// course's items, each reconciled by the engine.
type Runner struct {
	engine    *Engine
	store     destination.Store
	sources   []Source
	targets   Targets
	schemas   destination.Schemas
	reporter  *ErrorReporter
	extractor content.Extractor
	logger    *zap.Logger
	now       func() time.Time
}

// NewRunner wires a runner. A nil extractor selects content.HTMLExtractor.
func NewRunner(engine *Engine, store destination.Store, sources []Source, targets Targets, schemas destination.Schemas, extractor content.Extractor, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		engine:    engine,
		store:     store,
		sources:   sources,
		targets:   targets,
		schemas:   schemas,
		reporter:  NewErrorReporter(store, targets.ErrorLog, schemas.ErrorLog, logger),
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
	}
}

// Collection returns the collection a run kind writes to.
func (r *Runner) Collection(kind Kind) (Collection, error) {
	switch kind {
	case KindAssignments, KindDueCheck:
		if r.targets.Assignments == "" {
			return Collection{}, fmt.Errorf("%s: %w", kind, ErrNotConfigured)
		}
		return Collection{
			ID:            r.targets.Assignments,
			Schema:        r.schemas.Assignments,
			Build:         BuildAssignment,
			CreateMissing: kind == KindAssignments,
		}, nil
	case KindResources:
		if r.targets.Resources == "" {
			return Collection{}, fmt.Errorf("%s: %w", kind, ErrNotConfigured)
		}
		return Collection{
			ID:            r.targets.Resources,
			Schema:        r.schemas.Resources,
			Build:         BuildResource,
			CreateMissing: true,
		}, nil
	}
	return Collection{}, fmt.Errorf("unknown run kind %q", kind)
}

// Run executes one run of kind. Entity, course and account failures are
// reported and counted; only an unusable configuration returns an error.
func (r *Runner) Run(ctx context.Context, kind Kind, opts Options) (Summary, error) {
	summary := Summary{
		RunID:     uuid.NewString(),
		Kind:      kind,
		DryRun:    opts.DryRun,
		StartedAt: r.now().UTC(),
	}

	col, err := r.Collection(kind)
	if err != nil {
		summary.FinishedAt = r.now().UTC()
		return summary, err
	}

	logger := r.logger.With(zap.String("run_id", summary.RunID), zap.String("kind", string(kind)))
	reporter := r.reporter
	if opts.DryRun {
		reporter = reporter.logOnly()
	}
	courses := NewCourseCache(r.store, r.targets.CoursePlanner, r.schemas.CoursePlanner)
	counts := &tally{}

	logger.Info("Sync run started", zap.Int("accounts", len(r.sources)), zap.Bool("dry_run", opts.DryRun))

	for _, src := range r.sources {
		if err := ctx.Err(); err != nil {
			break
		}
		scope := Scope{
			Courses: courses,
			Content: content.NewResolver(src, r.extractor, logger),
			DryRun:  opts.DryRun,
			Logger:  logger.With(zap.String("account", src.Label())),
		}
		r.runSource(ctx, kind, col, scope, src, reporter, counts, opts.Workers)
	}

	counts.into(&summary)
	summary.FinishedAt = r.now().UTC()
	logger.Info("Sync run finished",
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.Duration()),
	)
	return summary, nil
}

func (r *Runner) runSource(ctx context.Context, kind Kind, col Collection, scope Scope, src Source, reporter *ErrorReporter, counts *tally, workers int) {
	courses, err := src.ListCourses(ctx)
	if err != nil {
		reporter.Report(ctx, ErrorEntry{
			Source:  fmt.Sprintf("%s sync for %s", kind, src.Label()),
			Message: err.Error(),
		})
		return
	}
	scope.Logger.Info("Fetched courses", zap.Int("count", len(courses)))

	for _, course := range courses {
		if !course.Available() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return
		}

		entities, err := r.entities(ctx, kind, src, course, scope, reporter)
		if err != nil {
			reporter.Report(ctx, ErrorEntry{
				Source:  fmt.Sprintf("%s sync for %s", kind, src.Label()),
				Message: err.Error(),
				Course:  course.Name,
			})
			continue
		}
		scope.Logger.Debug("Fetched course items", zap.String("course", course.Name), zap.Int("count", len(entities)))

		r.reconcileAll(ctx, kind, col, scope, entities, reporter, counts, workers)
	}
}

// entities lists the items of one course. For resources a failing module is
// reported and skipped; the remaining modules still sync.
func (r *Runner) entities(ctx context.Context, kind Kind, src Source, course canvas.Course, scope Scope, reporter *ErrorReporter) ([]Entity, error) {
	switch kind {
	case KindResources:
		modules, err := src.ListModules(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		var out []Entity
		for _, m := range modules {
			items, err := src.ListModuleItems(ctx, course.ID, m.ID)
			if err != nil {
				reporter.Report(ctx, ErrorEntry{
					Source:  fmt.Sprintf("%s sync for %s", kind, src.Label()),
					Message: err.Error(),
					Entity:  m.Name,
					Course:  course.Name,
				})
				continue
			}
			for _, item := range items {
				out = append(out, ResourceEntity(course, m, item))
			}
		}
		return out, nil
	default:
		assignments, err := src.ListAssignments(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		out := make([]Entity, 0, len(assignments))
		for _, a := range assignments {
			out = append(out, AssignmentEntity(course, a))
		}
		return out, nil
	}
}

func (r *Runner) reconcileAll(ctx context.Context, kind Kind, col Collection, scope Scope, entities []Entity, reporter *ErrorReporter, counts *tally, workers int) {
	one := func(ent Entity) {
		outcome, err := r.engine.Reconcile(ctx, col, scope, ent)
		if err != nil {
			reporter.Report(ctx, ErrorEntry{
				Source:  fmt.Sprintf("%s: %s", kind, ent.Name),
				Message: err.Error(),
				Entity:  ent.Name,
				Course:  ent.CourseName,
			})
		}
		counts.add(outcome)
	}

	if workers < 2 {
		for _, ent := range entities {
			if ctx.Err() != nil {
				return
			}
			one(ent)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, ent := range entities {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			one(ent)
			return nil
		})
	}
	_ = g.Wait()
}
