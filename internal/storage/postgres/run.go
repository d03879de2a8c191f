package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"story_sync/internal/domain"
)

// RunStore persists the ledger of sync passes and their per-story outcomes.
type RunStore struct {
	db *sqlx.DB
}

func NewRunStore(db *sqlx.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) InsertRun(ctx context.Context, run *domain.SyncRun) error {
	query := `
		INSERT INTO sync_runs (id, started_at, finished_at, fetched, skipped, synced, failed)
		VALUES (:id, :started_at, :finished_at, :fetched, :skipped, :synced, :failed)`

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, run)
	return err
}

// resultsPerInsert keeps each statement well under the 65535 bind
// parameter limit of the Postgres protocol.
const resultsPerInsert = 1000

func (s *RunStore) InsertResults(ctx context.Context, runID string, results []domain.SyncResult) error {
	for start := 0; start < len(results); start += resultsPerInsert {
		end := min(start+resultsPerInsert, len(results))
		if err := s.insertResults(ctx, runID, results[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *RunStore) insertResults(ctx context.Context, runID string, results []domain.SyncResult) error {
	const cols = 6
	var sb strings.Builder
	sb.WriteString("INSERT INTO sync_results (run_id, story_id, action, item_id, slug, error) VALUES ")
	args := make([]any, 0, len(results)*cols)

	for i, res := range results {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 1; j <= cols; j++ {
			if j > 1 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*cols + j))
		}
		sb.WriteString(")")

		args = append(args, runID, res.StoryID, string(res.Action), nullString(res.ItemID), res.Slug, errString(res.Err))
	}
	sb.WriteString(" ON CONFLICT (run_id, story_id) DO NOTHING")

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, sb.String(), args...)
	return err
}

// LatestRun returns the most recent run, or nil when the ledger is empty.
func (s *RunStore) LatestRun(ctx context.Context) (*domain.SyncRun, error) {
	var run domain.SyncRun
	query := `
		SELECT id, started_at, finished_at, fetched, skipped, synced, failed
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT 1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &run, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	query := `
		SELECT id, started_at, finished_at, fetched, skipped, synced, failed
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1`

	var runs []domain.SyncRun
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &runs, query, limit)
	return runs, err
}

func (s *RunStore) Results(ctx context.Context, runID string) ([]domain.RunResult, error) {
	query := `
		SELECT run_id, story_id, action, item_id, slug, error
		FROM sync_results
		WHERE run_id = $1
		ORDER BY story_id`

	var results []domain.RunResult
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &results, query, runID)
	return results, err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func errString(err error) *string {
	if err == nil {
		return nil
	}
	msg := err.Error()
	return &msg
}
