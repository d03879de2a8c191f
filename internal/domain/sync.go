package domain

import "time"

// Action is the CMS write issued for a story.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// SyncResult is the outcome of pushing one story.
type SyncResult struct {
	StoryID int64
	Title   string
	Action  Action
	ItemID  string
	Slug    string
	Err     error
}

// OK reports whether the story was pushed and linked.
func (r SyncResult) OK() bool {
	return r.Err == nil
}

// SyncStats holds statistics about a sync pass.
type SyncStats struct {
	RunID         string
	Fetched       int
	Skipped       int // already linked
	Unsynced      int
	Synced        int
	Failed        int
	Created       int
	Updated       int
	Published     int
	PublishErrors int
	Duration      time.Duration
	Results       []SyncResult
}

// SyncRun is a persisted summary of one sync pass.
type SyncRun struct {
	ID         string    `db:"id"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	Fetched    int       `db:"fetched"`
	Skipped    int       `db:"skipped"`
	Synced     int       `db:"synced"`
	Failed     int       `db:"failed"`
}

// SyncEvent is announced for every story that reached the CMS.
type SyncEvent struct {
	Action    Action    `json:"action"`
	StoryID   int64     `json:"story_id"`
	ItemID    string    `json:"item_id"`
	Slug      string    `json:"slug"`
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
}

// RunResult is a persisted per-story outcome of a sync pass.
type RunResult struct {
	RunID   string  `db:"run_id"`
	StoryID int64   `db:"story_id"`
	Action  Action  `db:"action"`
	ItemID  *string `db:"item_id"`
	Slug    string  `db:"slug"`
	Error   *string `db:"error"`
}
