package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"story_sync/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSyncer struct {
	calls    atomic.Int32
	err      error
	deadline atomic.Bool
}

func (f *fakeSyncer) Sync(ctx context.Context) (*domain.SyncStats, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		f.deadline.Store(true)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.SyncStats{Synced: 1}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	syncer := &fakeSyncer{}
	s := NewScheduler(syncer, 10*time.Millisecond, time.Second, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return syncer.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.True(t, syncer.deadline.Load())
}

func TestScheduler_ContinuesAfterFailure(t *testing.T) {
	syncer := &fakeSyncer{err: errors.New("backend down")}
	s := NewScheduler(syncer, 10*time.Millisecond, time.Second, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := s.Start(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, syncer.calls.Load(), int32(2))
	assert.GreaterOrEqual(t, s.failures, 2)
}

func TestScheduler_CancelledBeforeStart(t *testing.T) {
	syncer := &fakeSyncer{}
	s := NewScheduler(syncer, time.Hour, time.Second, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Start(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), syncer.calls.Load())
}
