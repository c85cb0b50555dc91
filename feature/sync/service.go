package sync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"autosync/core/database"
	"autosync/core/events"
	"autosync/core/lock"
	"autosync/core/logger"
	"autosync/core/metrics"
	"autosync/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrRunInProgress is returned when a run is already active here or elsewhere.
	ErrRunInProgress = errors.New("sync run already in progress")
	// ErrJournalDisabled is returned by Runs without a journal.
	ErrJournalDisabled = errors.New("run journal is disabled")
	// ErrArchiveDisabled is returned by report lookups without an archive.
	ErrArchiveDisabled = errors.New("report archive is disabled")
)

// Journal persists run records.
type Journal interface {
	Record(ctx context.Context, rec *database.RunRecord) error
	ListRecent(ctx context.Context, limit int) ([]database.RunRecord, error)
	MissingColumns(ctx context.Context) ([]string, error)
}

// Archive stores run reports.
type Archive interface {
	Put(ctx context.Context, runID string, report any) (string, error)
	Get(ctx context.Context, runID string, out any) error
	List(ctx context.Context) ([]string, error)
}

// Service orchestrates sync runs.
type Service struct {
	spec      *reconcile.Spec
	cfg       reconcile.Config
	logger    *zap.Logger
	locker    lock.Locker
	journal   Journal
	archive   Archive
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time

	running atomic.Bool
}

// Option configures optional collaborators of a Service.
type Option func(*Service)

// WithLocker serializes runs across processes.
func WithLocker(l lock.Locker) Option {
	return func(s *Service) { s.locker = l }
}

// WithJournal persists every run.
func WithJournal(j Journal) Option {
	return func(s *Service) { s.journal = j }
}

// WithArchive uploads every run report.
func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithPublisher emits run and action events.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithMetrics records run counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a sync service over an adapter spec.
func NewService(spec *reconcile.Spec, cfg reconcile.Config, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		spec:      spec,
		cfg:       cfg,
		logger:    log,
		locker:    lock.NopLocker{},
		publisher: events.NopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.spec.Logger == nil {
		s.spec.Logger = log
	}
	return s
}

// Running reports whether a run is active in this process.
func (s *Service) Running() bool {
	return s.running.Load()
}

// Run performs one full sync: plan, apply creates and updates, then sweep
// duplicates and orphans from a fresh listing. Per-record failures are
// counted in the report; the returned error means the run itself failed.
func (s *Service) Run(ctx context.Context) (*RunReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)
	return s.run(ctx)
}

// Start launches a run in the background and returns its id.
func (s *Service) Start(ctx context.Context) (string, error) {
	if !s.running.CompareAndSwap(false, true) {
		return "", ErrRunInProgress
	}
	runID := uuid.NewString()
	go func() {
		defer s.running.Store(false)
		_, _ = s.runWithID(ctx, runID)
	}()
	return runID, nil
}

func (s *Service) run(ctx context.Context) (*RunReport, error) {
	return s.runWithID(ctx, uuid.NewString())
}

func (s *Service) runWithID(ctx context.Context, runID string) (*RunReport, error) {
	log := logger.WithRunID(s.logger, runID)
	spec := *s.spec
	spec.Logger = log

	report := &RunReport{
		RunID:     runID,
		Profile:   s.cfg.Profile,
		StartedAt: s.now(),
	}
	log.Info("Sync started", zap.String("profile", report.Profile))

	if err := s.locker.Acquire(ctx, runID); err != nil {
		if errors.Is(err, lock.ErrLocked) {
			log.Warn("Another sync run holds the lock, skipping")
			report.Status = database.StatusSkipped
			s.finish(ctx, log, report)
			return report, ErrRunInProgress
		}
		return s.fail(ctx, log, report, err)
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), runID); err != nil {
			log.Warn("Failed to release run lock", zap.Error(err))
		}
	}()

	s.publish(ctx, log, events.Event{Type: events.TypeRunStarted, RunID: runID, Time: report.StartedAt})

	opts := s.cfg.Options()
	applyOpts := opts
	applyOpts.DoPurgeDuplicates = false
	applyOpts.DoPurgeOrphans = false

	plan, err := reconcile.ReconcileWithPlan(ctx, &spec, applyOpts)
	if err != nil {
		return s.fail(ctx, log, report, err)
	}
	report.Summary = plan.Summary
	report.Actions = plan.Actions
	report.Failures = plan.Failures
	log.Info("Plan built",
		zap.Int("sources", plan.Summary.Sources),
		zap.Int("targets", plan.Summary.Targets),
		zap.Int("creates", plan.Summary.Creates),
		zap.Int("updates", plan.Summary.Updates),
		zap.Int("unchanged", plan.Summary.Unchanged),
		zap.Int("failures", plan.Summary.Failures),
	)

	applied, err := reconcile.ApplyPlan(ctx, &spec, plan, applyOpts)
	if applied != nil {
		report.Applied.Add(*applied)
	}
	if err != nil {
		return s.fail(ctx, log, report, err)
	}
	if applied != nil {
		s.publish(ctx, log, actionEvents(runID, s.now(), applied.Accepted)...)
	}

	if opts.DoPurgeDuplicates || opts.DoPurgeOrphans {
		sweep, err := reconcile.Sweep(ctx, &spec, plan.SourceKeys, opts)
		if err != nil {
			return s.fail(ctx, log, report, fmt.Errorf("sweep failed: %w", err))
		}
		report.Applied.Add(sweep.ApplyResult)
		report.Duplicates = sweep.Duplicates
		report.Orphans = sweep.Orphans
		s.publish(ctx, log, actionEvents(runID, s.now(), sweep.Removed)...)
	}

	report.Status = database.StatusSucceeded
	s.finish(ctx, log, report)
	return report, nil
}

// Plan builds the full plan, purges included, without mutating anything.
func (s *Service) Plan(ctx context.Context) (*reconcile.ReconcilePlan, error) {
	opts := s.cfg.Options()
	opts.DryRun = true
	return reconcile.ReconcileWithPlan(ctx, s.spec, opts)
}

// Inspect reconciles a single SKU without mutating anything.
func (s *Service) Inspect(ctx context.Context, sku string) (*reconcile.ReconcileResult, error) {
	return reconcile.ReconcileOne(ctx, s.spec, sku)
}

// Runs lists recent journal entries, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]database.RunRecord, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	return s.journal.ListRecent(ctx, limit)
}

// Reports lists the run ids of archived reports.
func (s *Service) Reports(ctx context.Context) ([]string, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.List(ctx)
}

// Report loads an archived run report.
func (s *Service) Report(ctx context.Context, runID string) (*RunReport, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	var report RunReport
	if err := s.archive.Get(ctx, runID, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Health describes the service and its optional collaborators.
type Health struct {
	Status  string `json:"status"`
	Running bool   `json:"running"`
	Journal string `json:"journal"`
}

// Health checks the journal schema when a journal is configured.
func (s *Service) Health(ctx context.Context) Health {
	h := Health{Status: "ok", Running: s.Running(), Journal: "disabled"}
	if s.journal == nil {
		return h
	}

	missing, err := s.journal.MissingColumns(ctx)
	switch {
	case err != nil:
		h.Status = "degraded"
		h.Journal = err.Error()
	case len(missing) > 0:
		h.Status = "degraded"
		h.Journal = fmt.Sprintf("missing columns: %v", missing)
	default:
		h.Journal = "ok"
	}
	return h
}

func (s *Service) fail(ctx context.Context, log *zap.Logger, report *RunReport, err error) (*RunReport, error) {
	report.Status = database.StatusFailed
	report.Error = err.Error()
	log.Error("Sync failed", zap.Error(err))
	s.finish(ctx, log, report)
	return report, err
}

// finish records the run everywhere it is observed. Each sink is optional and
// its failure is only logged.
func (s *Service) finish(ctx context.Context, log *zap.Logger, report *RunReport) {
	report.FinishedAt = s.now()
	// Bookkeeping still happens when the run was canceled.
	ctx = context.WithoutCancel(ctx)

	if s.archive != nil {
		key, err := s.archive.Put(ctx, report.RunID, report)
		if err != nil {
			log.Warn("Failed to archive run report", zap.Error(err))
		} else {
			report.ArchiveKey = key
		}
	}

	if s.journal != nil {
		if err := s.journal.Record(ctx, report.Record()); err != nil {
			log.Warn("Failed to record run in journal", zap.Error(err))
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveRun(report.Status, report.StartedAt, report.FinishedAt)
		s.metrics.AddActions(string(reconcile.ActionCreate), report.Applied.Created, 0)
		s.metrics.AddActions(string(reconcile.ActionUpdate), report.Applied.Updated, 0)
		s.metrics.AddActions("delete", report.Applied.Deleted, 0)
		s.metrics.AddActions("skip_existing", report.Applied.SkippedExisting, 0)
		s.metrics.AddActions("mutation", 0, report.Applied.Failed)
		s.metrics.RecordFailures.Add(float64(report.Summary.Failures))
	}

	s.publish(ctx, log, events.Event{
		Type:    events.TypeRunFinished,
		RunID:   report.RunID,
		Reason:  report.Status,
		Time:    report.FinishedAt,
		Summary: report.Applied,
	})

	log.Info("Sync finished",
		zap.String("status", report.Status),
		zap.Duration("duration", report.Duration()),
		zap.Int("created", report.Applied.Created),
		zap.Int("updated", report.Applied.Updated),
		zap.Int("deleted", report.Applied.Deleted),
		zap.Int("skipped_existing", report.Applied.SkippedExisting),
		zap.Int("failed", report.Applied.Failed),
		zap.Int("record_failures", report.Summary.Failures),
	)
}

func (s *Service) publish(ctx context.Context, log *zap.Logger, evts ...events.Event) {
	if len(evts) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, evts...); err != nil {
		log.Warn("Failed to publish sync events", zap.Int("count", len(evts)), zap.Error(err))
	}
}

// actionEvents converts mutations the store confirmed into events.
func actionEvents(runID string, at time.Time, actions []reconcile.Action) []events.Event {
	out := make([]events.Event, 0, len(actions))
	for _, a := range actions {
		var typ string
		switch a.Type {
		case reconcile.ActionCreate:
			typ = events.TypeProductCreated
		case reconcile.ActionUpdate:
			typ = events.TypeProductUpdated
		case reconcile.ActionDeleteDuplicate:
			typ = events.TypeDuplicateDelete
		case reconcile.ActionDeleteOrphan:
			typ = events.TypeOrphanDelete
		default:
			continue
		}
		out = append(out, events.Event{
			Type:     typ,
			RunID:    runID,
			Key:      a.Key,
			TargetID: a.TargetID,
			Reason:   a.Reason,
			Time:     at,
		})
	}
	return out
}
