package coursesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"class-sync/core/database"
	"class-sync/core/metrics"
	"class-sync/core/reconcile"
	"class-sync/core/storage"

	"go.uber.org/zap"
)

// archivePrefix is the object key prefix of archived run reports.
const archivePrefix = "runs/"

// Runner executes sync runs.
type Runner interface {
	Run(ctx context.Context, kind reconcile.Kind, opts reconcile.Options) (reconcile.Summary, error)
}

// Service runs syncs and keeps their history.
type Service struct {
	runner   Runner
	settings reconcile.Config
	ledger   *database.Ledger
	archive  *storage.Archive
	metrics  *metrics.Metrics
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.RWMutex
	last map[reconcile.Kind]reconcile.Summary
}

// NewService creates a sync service. ledger, archive and m are optional.
func NewService(runner Runner, settings reconcile.Config, ledger *database.Ledger, archive *storage.Archive, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		runner:   runner,
		settings: settings,
		ledger:   ledger,
		archive:  archive,
		metrics:  m,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		last:     make(map[reconcile.Kind]reconcile.Summary),
	}
}

// Run executes one run and records it. dryRun forces a dry run on top of the
// configured setting.
func (s *Service) Run(ctx context.Context, kind reconcile.Kind, dryRun bool) (reconcile.Summary, error) {
	summary, err := s.runner.Run(ctx, kind, s.settings.Options(dryRun))
	if err != nil {
		s.logger.Error("Sync run failed", zap.String("kind", string(kind)), zap.Error(err))
		return summary, err
	}
	s.record(ctx, summary)
	return summary, nil
}

// Start launches a run in the background. The run outlives the caller's
// request and stops only on Shutdown.
func (s *Service) Start(kind reconcile.Kind, dryRun bool) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _ = s.Run(s.ctx, kind, dryRun)
	}()
}

// Shutdown waits for background runs, cancelling them once ctx is done.
func (s *Service) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return ctx.Err()
	}
}

// Status returns the last summary of every run kind that has finished.
func (s *Service) Status() map[reconcile.Kind]reconcile.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[reconcile.Kind]reconcile.Summary, len(s.last))
	for k, v := range s.last {
		out[k] = v
	}
	return out
}

// History is the recorded run history.
type History struct {
	// Ledger holds the newest runs from the database, when connected.
	Ledger []database.SyncRun `json:"ledger,omitempty"`
	// Archive holds the object keys of archived run reports, newest first.
	Archive []string `json:"archive,omitempty"`
}

// History lists recorded runs of kind, or of every kind when kind is empty.
func (s *Service) History(ctx context.Context, kind string, limit int) (History, error) {
	var h History
	if s.ledger != nil {
		runs, err := s.ledger.Recent(ctx, kind, limit)
		if err != nil {
			return h, err
		}
		h.Ledger = runs
	}
	if s.archive != nil {
		prefix := archivePrefix
		if kind != "" {
			prefix += kind + "/"
		}
		keys, err := s.archive.List(ctx, prefix)
		if err != nil {
			return h, err
		}
		if limit > 0 && len(keys) > limit {
			keys = keys[:limit]
		}
		h.Archive = keys
	}
	return h, nil
}

// ArchiveKey returns the object key of a run report.
func ArchiveKey(s reconcile.Summary) string {
	return fmt.Sprintf("%s%s/%s-%s.json", archivePrefix, s.Kind, s.StartedAt.UTC().Format("20060102T150405Z"), s.RunID)
}

// record publishes a finished run. History failures are logged and never
// fail the run.
func (s *Service) record(ctx context.Context, summary reconcile.Summary) {
	s.mu.Lock()
	s.last[summary.Kind] = summary
	s.mu.Unlock()

	s.metrics.ObserveRun(string(summary.Kind), metrics.RunCounts{
		Created: summary.Created,
		Updated: summary.Updated,
		Skipped: summary.Skipped,
		Failed:  summary.Failed,
	}, summary.Duration(), summary.FinishedAt)

	report, err := json.Marshal(summary)
	if err != nil {
		s.logger.Warn("Failed to encode run report", zap.Error(err))
		return
	}

	// Recorded even when the run context was cancelled.
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if s.ledger != nil {
		run := &database.SyncRun{
			ID:         summary.RunID,
			Kind:       string(summary.Kind),
			StartedAt:  summary.StartedAt,
			FinishedAt: summary.FinishedAt,
			Created:    summary.Created,
			Updated:    summary.Updated,
			Skipped:    summary.Skipped,
			Failed:     summary.Failed,
			DryRun:     summary.DryRun,
			Report:     report,
		}
		if err := s.ledger.Record(hctx, run); err != nil {
			s.logger.Warn("Failed to record run in ledger", zap.String("run_id", summary.RunID), zap.Error(err))
		}
	}
	if s.archive != nil {
		key := ArchiveKey(summary)
		if err := s.archive.Put(hctx, key, report); err != nil {
			s.logger.Warn("Failed to archive run report", zap.String("key", key), zap.Error(err))
		}
	}
}

var (
	// ErrArchiveDisabled means run reports are not archived.
	ErrArchiveDisabled = errors.New("run archive is disabled")
	// ErrInvalidKey means a report key outside the run archive.
	ErrInvalidKey = errors.New("invalid report key")
)

// Report returns an archived run report.
func (s *Service) Report(ctx context.Context, key string) ([]byte, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	if !strings.HasPrefix(key, archivePrefix) {
		return nil, fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	return s.archive.Get(ctx, key)
}
