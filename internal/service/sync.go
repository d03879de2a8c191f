package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"story_sync/internal/domain"
)

// SyncService pushes every unlinked story in one sequential pass. The run
// ledger, event publisher and metrics recorder are optional.
type SyncService struct {
	stories   StoryStore
	syncer    *Synchronizer
	runs      RunStore
	txManager TransactionManager
	publisher Publisher
	recorder  Recorder
	logger    *slog.Logger
}

func NewSyncService(
	stories StoryStore,
	items ItemWriter,
	runs RunStore,
	txManager TransactionManager,
	publisher Publisher,
	recorder Recorder,
	logger *slog.Logger,
) *SyncService {
	logger = logger.With("component", "sync")
	return &SyncService{
		stories:   stories,
		syncer:    NewSynchronizer(items, stories, logger),
		runs:      runs,
		txManager: txManager,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
	}
}

func (s *SyncService) Sync(ctx context.Context) (*domain.SyncStats, error) {
	startTime := time.Now()
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID)

	logger.Info("starting sync")

	stories, err := s.stories.ListStories(ctx)
	if err != nil {
		if s.recorder != nil {
			s.recorder.ObserveAbort()
		}
		return nil, fmt.Errorf("list stories: %w", err)
	}

	unsynced := filterUnlinked(stories)

	stats := &domain.SyncStats{
		RunID:    runID,
		Fetched:  len(stories),
		Skipped:  len(stories) - len(unsynced),
		Unsynced: len(unsynced),
	}

	logger.Info("stories to sync", "fetched", stats.Fetched, "unsynced", stats.Unsynced)

	for i := range unsynced {
		story := &unsynced[i]

		res, err := s.syncer.SyncStory(ctx, story)
		stats.Results = append(stats.Results, res)
		if err != nil {
			stats.Failed++
			logger.Warn("story sync failed",
				"story_id", story.ID,
				"action", res.Action,
				"error", err,
			)
			continue
		}

		stats.Synced++
		if res.Action == domain.ActionCreate {
			stats.Created++
		} else {
			stats.Updated++
		}

		if s.publisher != nil {
			if err := s.publish(ctx, runID, res); err != nil {
				stats.PublishErrors++
				logger.Warn("publish sync event failed", "story_id", story.ID, "error", err)
			} else {
				stats.Published++
			}
		}
	}

	stats.Duration = time.Since(startTime)

	if s.recorder != nil {
		s.recorder.ObserveRun(stats)
	}

	if err := s.saveRun(ctx, stats, startTime); err != nil {
		return stats, fmt.Errorf("save sync run: %w", err)
	}

	logger.Info("sync completed",
		"fetched", stats.Fetched,
		"skipped", stats.Skipped,
		"synced", stats.Synced,
		"failed", stats.Failed,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

func filterUnlinked(stories []domain.Story) []domain.Story {
	var unlinked []domain.Story
	for _, st := range stories {
		if !st.Linked() {
			unlinked = append(unlinked, st)
		}
	}
	return unlinked
}

func (s *SyncService) publish(ctx context.Context, runID string, res domain.SyncResult) error {
	return s.publisher.Publish(ctx, &domain.SyncEvent{
		Action:    res.Action,
		StoryID:   res.StoryID,
		ItemID:    res.ItemID,
		Slug:      res.Slug,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
	})
}

func (s *SyncService) saveRun(ctx context.Context, stats *domain.SyncStats, startedAt time.Time) error {
	if s.runs == nil || s.txManager == nil {
		return nil
	}

	run := &domain.SyncRun{
		ID:         stats.RunID,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(stats.Duration),
		Fetched:    stats.Fetched,
		Skipped:    stats.Skipped,
		Synced:     stats.Synced,
		Failed:     stats.Failed,
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.runs.InsertRun(txCtx, run); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		if err := s.runs.InsertResults(txCtx, run.ID, stats.Results); err != nil {
			return fmt.Errorf("insert results: %w", err)
		}
		return nil
	})
}
