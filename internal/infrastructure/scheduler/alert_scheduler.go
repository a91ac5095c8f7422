package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	appalert "github.com/freshchain/scms/internal/application/alert"
	"go.uber.org/zap"
)

// AlertSweeper runs every alert check
type AlertSweeper interface {
	RunAll(ctx context.Context, daysAhead int) ([]appalert.ScanResult, error)
}

// StaleAlertCleaner resolves active alerts older than a given age
type StaleAlertCleaner interface {
	CleanupStale(ctx context.Context, olderThan time.Duration) (int, error)
}

// JobObserver receives job outcomes, typically metrics.JobMetrics
type JobObserver interface {
	ObserveRun(job string, duration time.Duration, err error)
	ObserveCheck(check string, created, skipped, failed int)
}

// SchedulerConfig holds alert scheduler configuration
type SchedulerConfig struct {
	Interval        time.Duration
	ExpiryDaysAhead int
	RunOnStart      bool
	CleanupAge      time.Duration
	JobTimeout      time.Duration
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval:        time.Hour,
		ExpiryDaysAhead: 7,
		RunOnStart:      true,
		CleanupAge:      30 * 24 * time.Hour,
		JobTimeout:      5 * time.Minute,
	}
}

// AlertScheduler runs the alert sweep on a ticker and the stale-alert cleanup
// once per calendar day (UTC), on its own goroutine.
type AlertScheduler struct {
	config   SchedulerConfig
	sweeper  AlertSweeper
	cleaner  StaleAlertCleaner
	observer JobObserver
	logger   *zap.Logger
	now      func() time.Time

	cancel          context.CancelFunc
	wg              sync.WaitGroup
	mu              sync.Mutex
	isRunning       bool
	sweepMu         sync.Mutex
	lastCleanupDate string
}

// NewAlertScheduler creates a scheduler. cleaner and observer may be nil.
func NewAlertScheduler(
	config SchedulerConfig,
	sweeper AlertSweeper,
	cleaner StaleAlertCleaner,
	observer JobObserver,
	logger *zap.Logger,
) (*AlertScheduler, error) {
	if sweeper == nil {
		return nil, fmt.Errorf("%w: sweeper is required", ErrInvalidConfig)
	}
	if config.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidConfig, config.Interval)
	}
	if config.ExpiryDaysAhead < 0 {
		return nil, fmt.Errorf("%w: expiry days ahead cannot be negative", ErrInvalidConfig)
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultSchedulerConfig().JobTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertScheduler{
		config:   config,
		sweeper:  sweeper,
		cleaner:  cleaner,
		observer: observer,
		logger:   logger.Named("alert_scheduler"),
		now:      time.Now,
	}, nil
}

// Start starts the ticker loop
func (s *AlertScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Alert scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("expiry_days_ahead", s.config.ExpiryDaysAhead),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight run, bounded by ctx
func (s *AlertScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Alert scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Alert scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (s *AlertScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *AlertScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.tick(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *AlertScheduler) tick(ctx context.Context) {
	_, _ = s.RunSweep(ctx)
	if s.cleaner != nil && s.cleanupDue() {
		_, _ = s.RunCleanup(ctx)
	}
}

func (s *AlertScheduler) cleanupDue() bool {
	today := s.now().UTC().Format(time.DateOnly)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastCleanupDate == today {
		return false
	}
	s.lastCleanupDate = today
	return true
}

// RunSweep runs every alert check once. Overlapping runs are refused.
func (s *AlertScheduler) RunSweep(ctx context.Context) (*Job, error) {
	if !s.sweepMu.TryLock() {
		return nil, ErrJobAlreadyRunning
	}
	defer s.sweepMu.Unlock()

	job := startJob(JobAlertSweep, s.now())
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	results, err := s.sweeper.RunAll(jobCtx, s.config.ExpiryDaysAhead)
	s.complete(job, err)

	created := 0
	for _, r := range results {
		created += r.Created
		if s.observer != nil {
			s.observer.ObserveCheck(r.Check, r.Created, r.Skipped, r.Failed)
		}
	}
	if err == nil {
		s.logger.Info("Alert sweep completed",
			zap.String("job_id", job.ID.String()),
			zap.Int("created", created),
			zap.Duration("duration", job.Duration()),
		)
	}
	return job, err
}

// RunCleanup resolves stale active alerts once
func (s *AlertScheduler) RunCleanup(ctx context.Context) (*Job, error) {
	if s.cleaner == nil {
		return nil, fmt.Errorf("%w: no cleaner configured", ErrInvalidConfig)
	}

	job := startJob(JobAlertCleanup, s.now())
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	resolved, err := s.cleaner.CleanupStale(jobCtx, s.config.CleanupAge)
	s.complete(job, err)
	if err == nil {
		s.logger.Info("Stale alerts resolved",
			zap.String("job_id", job.ID.String()),
			zap.Int("resolved", resolved),
			zap.Duration("older_than", s.config.CleanupAge),
		)
	}
	return job, err
}

func (s *AlertScheduler) complete(job *Job, err error) {
	job.finish(s.now(), err)
	if s.observer != nil {
		s.observer.ObserveRun(job.Name, job.Duration(), err)
	}
	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", job.Name),
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
}
