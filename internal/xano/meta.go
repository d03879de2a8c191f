package xano

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Workspace is a backend workspace.
type Workspace struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Table is a database table inside a workspace.
type Table struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Column is one entry of a table schema.
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// ColumnSpec describes a column to add.
type ColumnSpec struct {
	Name        string `json:"name"`
	Type        string `json:"-"`
	Description string `json:"description,omitempty"`
	Nullable    bool   `json:"nullable"`
	Default     any    `json:"default,omitempty"`
}

// Trigger is a table trigger registered in the backend.
type Trigger struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

// TriggerSpec describes a trigger to create.
type TriggerSpec struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
	Code    string `json:"code"`
}

// Trigger types.
const (
	TriggerAfterInsert = "after_insert"
	TriggerAfterUpdate = "after_update"
)

// MetaConfig holds metadata API client configuration.
type MetaConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// MetaClient manages schema and triggers through the metadata API.
type MetaClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *slog.Logger
}

// NewMeta creates a new metadata API client.
func NewMeta(cfg MetaConfig, logger *slog.Logger) *MetaClient {
	return &MetaClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		logger:  logger.With("component", "xano-meta"),
	}
}

func (c *MetaClient) Workspaces(ctx context.Context) ([]Workspace, error) {
	var out list[Workspace]
	if err := c.get(ctx, "/workspace", &out); err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	return out, nil
}

func (c *MetaClient) Tables(ctx context.Context, workspaceID int64) ([]Table, error) {
	var out list[Table]
	if err := c.get(ctx, fmt.Sprintf("/workspace/%d/table", workspaceID), &out); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return out, nil
}

func (c *MetaClient) TableSchema(ctx context.Context, workspaceID, tableID int64) ([]Column, error) {
	var out list[Column]
	if err := c.get(ctx, fmt.Sprintf("/workspace/%d/table/%d/schema", workspaceID, tableID), &out); err != nil {
		return nil, fmt.Errorf("get schema: %w", err)
	}
	return out, nil
}

// AddColumn appends a typed column to the table schema.
func (c *MetaClient) AddColumn(ctx context.Context, workspaceID, tableID int64, col ColumnSpec) error {
	colType := col.Type
	if colType == "" {
		colType = "text"
	}
	path := fmt.Sprintf("/workspace/%d/table/%d/schema/type/%s", workspaceID, tableID, url.PathEscape(colType))

	if err := doJSON(ctx, c.httpClient, http.MethodPost, c.baseURL+path, c.token, col, nil); err != nil {
		return fmt.Errorf("add column %s: %w", col.Name, err)
	}
	c.logger.Debug("added column", "table_id", tableID, "column", col.Name, "type", colType)
	return nil
}

func (c *MetaClient) Triggers(ctx context.Context, workspaceID, tableID int64) ([]Trigger, error) {
	var out list[Trigger]
	if err := c.get(ctx, fmt.Sprintf("/workspace/%d/table/%d/trigger", workspaceID, tableID), &out); err != nil {
		return nil, fmt.Errorf("list triggers: %w", err)
	}
	return out, nil
}

func (c *MetaClient) CreateTrigger(ctx context.Context, workspaceID, tableID int64, t TriggerSpec) error {
	path := fmt.Sprintf("/workspace/%d/table/%d/trigger", workspaceID, tableID)
	if err := doJSON(ctx, c.httpClient, http.MethodPost, c.baseURL+path, c.token, t, nil); err != nil {
		return fmt.Errorf("create trigger %s: %w", t.Name, err)
	}
	c.logger.Debug("created trigger", "table_id", tableID, "trigger", t.Name, "type", t.Type)
	return nil
}

func (c *MetaClient) get(ctx context.Context, path string, out any) error {
	return doJSON(ctx, c.httpClient, http.MethodGet, c.baseURL+path, c.token, nil, out)
}
