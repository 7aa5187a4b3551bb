// Package jobs runs nemo's periodic background work.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Nati35/NEMO/internal/sync"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// SyncRunner reconciles every configured source.
type SyncRunner interface {
	RunAll(ctx context.Context) ([]sync.Report, error)
}

// SessionSweeper drops study sessions idle for longer than maxIdle.
type SessionSweeper interface {
	EvictIdleSessions(maxIdle time.Duration) int
}

// Scheduler manages scheduled tasks for the application.
type Scheduler struct {
	cron   *gocron.Scheduler
	logger *zap.Logger
}

// New creates a new scheduler instance.
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   gocron.NewScheduler(time.UTC),
		logger: logger,
	}
}

// ScheduleSync runs r every interval, starting as soon as the scheduler
// starts. A run still in progress when the next one is due is not doubled.
func (s *Scheduler) ScheduleSync(ctx context.Context, every time.Duration, r SyncRunner) error {
	_, err := s.cron.Every(every).SingletonMode().Do(func() {
		start := time.Now()
		reports, err := r.RunAll(ctx)
		if err != nil {
			s.logger.Error("periodic sync failed", zap.Error(err))
		}
		s.logger.Info("periodic sync finished",
			zap.Int("sources", len(reports)),
			zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync: %w", err)
	}
	return nil
}

// ScheduleSessionSweep evicts sessions idle for longer than maxIdle,
// checking every interval.
func (s *Scheduler) ScheduleSessionSweep(every, maxIdle time.Duration, sw SessionSweeper) error {
	_, err := s.cron.Every(every).SingletonMode().Do(func() {
		n := sw.EvictIdleSessions(maxIdle)
		s.logger.Debug("session sweep finished", zap.Int("evicted", n))
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	return nil
}

// Start begins running all scheduled tasks without blocking.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

// Stop terminates all scheduled tasks.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
