package webflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"story_sync/internal/domain"
)

const (
	DefaultBaseURL = "https://api.webflow.com/v2"
	pageLimit      = 100
)

// Config holds Items API client configuration.
type Config struct {
	BaseURL      string
	Token        string
	CollectionID string
	Timeout      time.Duration
}

// Client talks to a single CMS collection.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	collectionID string
	logger       *slog.Logger
}

// New creates a new Items API client.
func New(cfg Config, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:      baseURL,
		token:        cfg.Token,
		collectionID: cfg.CollectionID,
		logger:       logger.With("component", "webflow", "collection", cfg.CollectionID),
	}
}

// CreateItem creates a collection item and returns its id.
func (c *Client) CreateItem(ctx context.Context, fields domain.FieldData) (string, error) {
	item, err := c.write(ctx, http.MethodPost, c.itemsURL(), fields)
	if err != nil {
		return "", fmt.Errorf("create item: %w", err)
	}
	c.logger.Debug("created item", "item_id", item.ID)
	return item.ID, nil
}

// UpdateItem partially updates an existing item addressed by its id.
func (c *Client) UpdateItem(ctx context.Context, itemID string, fields domain.FieldData) (string, error) {
	item, err := c.write(ctx, http.MethodPatch, c.itemsURL()+"/"+url.PathEscape(itemID), fields)
	if err != nil {
		return "", fmt.Errorf("update item %s: %w", itemID, err)
	}
	c.logger.Debug("updated item", "item_id", item.ID)
	return item.ID, nil
}

// ListItems fetches every item of the collection page by page.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	var all []Item

	for offset := 0; ; offset += pageLimit {
		page, err := c.listPage(ctx, offset)
		if err != nil {
			return all, fmt.Errorf("list items at offset %d: %w", offset, err)
		}

		all = append(all, page.Items...)

		c.logger.Debug("fetched page",
			"offset", offset,
			"items", len(page.Items),
			"total", len(all),
		)

		if len(page.Items) < pageLimit {
			break
		}
	}

	return all, nil
}

func (c *Client) itemsURL() string {
	return fmt.Sprintf("%s/collections/%s/items", c.baseURL, url.PathEscape(c.collectionID))
}

func (c *Client) listPage(ctx context.Context, offset int) (*listResponse, error) {
	u := c.itemsURL() + "?limit=" + strconv.Itoa(pageLimit) + "&offset=" + strconv.Itoa(offset)

	body, status, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(status, body)
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

func (c *Client) write(ctx context.Context, method, u string, fields domain.FieldData) (*Item, error) {
	payload, err := json.Marshal(itemRequest{FieldData: fields})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	body, status, err := c.do(ctx, method, u, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, apiError(status, body)
	}

	// A success reply without a decodable item id is still a failed write.
	var item Item
	if err := json.Unmarshal(body, &item); err != nil || item.ID == "" {
		return nil, apiError(status, body)
	}
	return &item, nil
}

func (c *Client) do(ctx context.Context, method, u string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func apiError(status int, body []byte) *APIError {
	var er errorResponse
	_ = json.Unmarshal(body, &er)

	msg := er.Message
	if msg == "" {
		msg = UnknownError
	}
	return &APIError{StatusCode: status, Code: er.Code, Message: msg}
}
