// Package scheduler runs the periodic resolver poll and calendar sync.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/logger"
)

// Resolver is the part of the activity service the poll job needs.
type Resolver interface {
	Resolve(ctx context.Context) (*entities.ActivityDescriptor, error)
}

// Syncer is the part of the day plan service the sync job needs.
type Syncer interface {
	SyncToday(ctx context.Context) ([]*entities.TimeBlock, error)
}

// Config holds the cron specs. An empty spec disables its job.
type Config struct {
	PollSchedule string
	SyncSchedule string
	// JobTimeout bounds one run of either job.
	JobTimeout time.Duration
}

// Scheduler owns a cron runner with at most one run per job in flight.
type Scheduler struct {
	cron     *cron.Cron
	resolver Resolver
	syncer   Syncer
	timeout  time.Duration
	logger   *logger.Logger
}

// New registers the jobs. syncer may be nil when the calendar is disabled.
func New(cfg Config, resolver Resolver, syncer Syncer, log *logger.Logger) (*Scheduler, error) {
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Second
	}
	log = log.WithComponent("scheduler")

	s := &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
		),
		resolver: resolver,
		syncer:   syncer,
		timeout:  cfg.JobTimeout,
		logger:   log,
	}

	if cfg.PollSchedule != "" && resolver != nil {
		if _, err := s.cron.AddFunc(cfg.PollSchedule, s.poll); err != nil {
			return nil, fmt.Errorf("invalid poll schedule %q: %w", cfg.PollSchedule, err)
		}
	}
	if cfg.SyncSchedule != "" && syncer != nil {
		if _, err := s.cron.AddFunc(cfg.SyncSchedule, s.sync); err != nil {
			return nil, fmt.Errorf("invalid sync schedule %q: %w", cfg.SyncSchedule, err)
		}
	}
	return s, nil
}

// Start launches the cron runner.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Infow("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs or for ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	s.logger.Infow("Scheduler stopped")
	return nil
}

func (s *Scheduler) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.resolver.Resolve(ctx); err != nil {
		s.logger.Errorw("Activity poll failed", "error", err)
	}
}

func (s *Scheduler) sync() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	blocks, err := s.syncer.SyncToday(ctx)
	if err != nil {
		s.logger.Warnw("Calendar sync failed", "error", err)
		return
	}
	s.logger.Debugw("Calendar synced", "blocks", len(blocks))
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
