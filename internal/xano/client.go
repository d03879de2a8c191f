package xano

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"story_sync/internal/domain"
)

// Config holds public API client configuration.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client reads and links stories through the backend's public API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New creates a new public API client.
func New(cfg Config, logger *slog.Logger) *Client {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		maxAttempts:    maxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("component", "xano"),
	}
}

// ListStories returns every story in backend order. Reads are retried with
// backoff; writes never are.
func (c *Client) ListStories(ctx context.Context) ([]domain.Story, error) {
	url := c.baseURL + "/stories"

	var records list[json.RawMessage]
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		records = nil
		err = doJSON(ctx, c.httpClient, http.MethodGet, url, "", nil, &records)
		if err == nil {
			return c.decodeStories(records), nil
		}

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("list stories after %d attempts: %w", c.maxAttempts, err)
}

// decodeStories decodes each record on its own so one malformed story does
// not hide the rest.
func (c *Client) decodeStories(records []json.RawMessage) []domain.Story {
	stories := make([]domain.Story, 0, len(records))
	for i, raw := range records {
		var st domain.Story
		if err := json.Unmarshal(raw, &st); err != nil {
			st.DecodeErr = fmt.Errorf("index %d: %w", i, err)
			c.logger.Warn("malformed story", "index", i, "story_id", st.ID, "error", err)
		}
		stories = append(stories, st)
	}
	return stories
}

// LinkItem stores the CMS item id and sync time on the story.
func (c *Client) LinkItem(ctx context.Context, storyID int64, itemID string, syncedAt time.Time) error {
	url := c.baseURL + "/stories/" + strconv.FormatInt(storyID, 10)
	patch := map[string]any{
		domain.ColumnWebflowItemID: itemID,
		domain.ColumnWebflowSynced: syncedAt.UnixMilli(),
	}

	if err := doJSON(ctx, c.httpClient, http.MethodPatch, url, "", patch, nil); err != nil {
		return fmt.Errorf("link story %d: %w", storyID, err)
	}
	return nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if c.maxBackoff > 0 && backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
