package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"story_sync/internal/domain"
)

type StoryStore interface {
	ListStories(ctx context.Context) ([]domain.Story, error)
	LinkItem(ctx context.Context, storyID int64, itemID string, syncedAt time.Time) error
}

type ItemWriter interface {
	CreateItem(ctx context.Context, fields domain.FieldData) (string, error)
	UpdateItem(ctx context.Context, itemID string, fields domain.FieldData) (string, error)
}

type RunStore interface {
	InsertRun(ctx context.Context, run *domain.SyncRun) error
	InsertResults(ctx context.Context, runID string, results []domain.SyncResult) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.SyncEvent) error
	Close() error
}

type Recorder interface {
	ObserveRun(stats *domain.SyncStats)
	ObserveAbort()
}
