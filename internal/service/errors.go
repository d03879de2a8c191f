package service

import (
	"errors"
	"fmt"
)

const unknownError = "unknown error"

// SyncError reports why a single story could not be pushed or linked.
type SyncError struct {
	StoryID int64
	Op      string
	Message string
	Err     error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync story %d: %s: %s", e.StoryID, e.Op, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// apiMessager is implemented by the API clients' error types.
type apiMessager interface {
	APIMessage() string
}

func newSyncError(storyID int64, op string, err error) *SyncError {
	msg := err.Error()

	var am apiMessager
	if errors.As(err, &am) {
		msg = am.APIMessage()
	}
	if msg == "" {
		msg = unknownError
	}

	return &SyncError{StoryID: storyID, Op: op, Message: msg, Err: err}
}
