package scheduler

import (
	"context"
	"log/slog"
	"time"

	"story_sync/internal/domain"
)

// Syncer runs one sync pass.
type Syncer interface {
	Sync(ctx context.Context) (*domain.SyncStats, error)
}

// Scheduler repeats sync passes on a fixed interval until its context ends.
type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	failures int
}

func NewScheduler(syncer Syncer, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start runs a pass immediately, then one per tick. Passes never overlap.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "timeout", s.timeout)

	s.runSync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stats, err := s.syncer.Sync(syncCtx)
	if err != nil {
		s.failures++
		s.logger.Error("sync failed", "error", err, "consecutive_failures", s.failures)
		return
	}
	s.failures = 0

	if stats.Failed > 0 {
		s.logger.Warn("sync finished with failures", "synced", stats.Synced, "failed", stats.Failed)
	}
}
