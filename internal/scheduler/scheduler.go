// Package scheduler runs cross-cluster sweeps on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	cron "github.com/netresearch/go-cron"

	"github.com/aryankumar/fleetdeck/internal/cluster"
	"github.com/aryankumar/fleetdeck/internal/util"
)

var _parser = cron.MustNewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Sweeper runs one sweep. *cluster.Session implements it.
type Sweeper interface {
	Sweep(ctx context.Context) ([]cluster.Snapshot, error)
}

// Scheduler triggers a sweep at every occurrence of a cron spec. A tick that
// finds the session busy, or the previous sweep still running, is skipped.
type Scheduler struct {
	spec     string
	schedule cron.Schedule
	sweeper  Sweeper
	logger   *slog.Logger
	cron     *cron.Cron

	runs     atomic.Int64
	skipped  atomic.Int64
	failures atomic.Int64
}

// New parses spec (five-field cron or a descriptor such as "@every 5m")
func New(spec string, sweeper Sweeper, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	schedule, err := _parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", spec, err)
	}

	cronLogger := cron.NewSlogLogger(logger.With("component", "scheduler"))
	s := &Scheduler{
		spec:     spec,
		schedule: schedule,
		sweeper:  sweeper,
		logger:   logger,
		cron: cron.New(
			cron.WithParser(_parser),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}

	if _, err := s.cron.ScheduleJob(schedule, cron.FuncJobWithContext(s.tick), cron.WithName("sweep")); err != nil {
		return nil, fmt.Errorf("register sweep job: %w", err)
	}
	return s, nil
}

// Next returns the first occurrence strictly after t
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Run starts the cron runner and blocks until ctx is done. On return the
// in-flight sweep, if any, has seen its context cancelled and finished.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "sweep scheduler started", "schedule", s.spec)
	s.cron.Start()

	<-ctx.Done()
	<-s.cron.Stop().Done()

	s.logger.InfoContext(ctx, "sweep scheduler stopped")
	return nil
}

// tick runs one scheduled sweep
func (s *Scheduler) tick(ctx context.Context) {
	snapshots, err := s.sweeper.Sweep(ctx)
	switch {
	case util.IsBusy(err):
		s.skipped.Add(1)
		s.logger.InfoContext(ctx, "scheduled sweep skipped", "reason", err)
	case err != nil:
		s.failures.Add(1)
		s.logger.ErrorContext(ctx, "scheduled sweep failed", "error", err)
	default:
		s.runs.Add(1)
		s.logger.DebugContext(ctx, "scheduled sweep finished", "contexts", len(snapshots))
	}
}

// Runs is the number of completed scheduled sweeps
func (s *Scheduler) Runs() int64 { return s.runs.Load() }

// Skipped is the number of ticks dropped because the session was busy
func (s *Scheduler) Skipped() int64 { return s.skipped.Load() }

// Failures is the number of scheduled sweeps that returned an error
func (s *Scheduler) Failures() int64 { return s.failures.Load() }
