package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"story_sync/internal/xano"
)

var (
	ErrNoWorkspace   = errors.New("no workspace available")
	ErrTableNotFound = errors.New("table not found")
)

// MetadataAPI is the subset of the backend metadata API used here.
type MetadataAPI interface {
	Workspaces(ctx context.Context) ([]xano.Workspace, error)
	Tables(ctx context.Context, workspaceID int64) ([]xano.Table, error)
	TableSchema(ctx context.Context, workspaceID, tableID int64) ([]xano.Column, error)
	AddColumn(ctx context.Context, workspaceID, tableID int64, col xano.ColumnSpec) error
	Triggers(ctx context.Context, workspaceID, tableID int64) ([]xano.Trigger, error)
	CreateTrigger(ctx context.Context, workspaceID, tableID int64, t xano.TriggerSpec) error
}

// TableRef identifies the table being provisioned.
type TableRef struct {
	WorkspaceID   int64
	WorkspaceName string
	TableID       int64
	TableName     string
}

// Failure is one column or trigger that could not be created.
type Failure struct {
	Name string
	Err  error
}

// Provisioner applies one-shot schema and trigger changes. Every change is
// skipped when something with the same name already exists.
type Provisioner struct {
	api         MetadataAPI
	workspaceID int64
	table       string
	logger      *slog.Logger
}

// New creates a provisioner. A zero workspaceID selects the first workspace.
func New(api MetadataAPI, workspaceID int64, table string, logger *slog.Logger) *Provisioner {
	return &Provisioner{
		api:         api,
		workspaceID: workspaceID,
		table:       table,
		logger:      logger.With("component", "provision"),
	}
}

// LocateTable resolves the workspace and the table by case-insensitive name.
func (p *Provisioner) LocateTable(ctx context.Context) (*TableRef, error) {
	workspaces, err := p.api.Workspaces(ctx)
	if err != nil {
		return nil, err
	}
	if len(workspaces) == 0 {
		return nil, ErrNoWorkspace
	}

	ws := workspaces[0]
	if p.workspaceID != 0 {
		found := false
		for _, w := range workspaces {
			if w.ID == p.workspaceID {
				ws, found = w, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: id %d", ErrNoWorkspace, p.workspaceID)
		}
	}
	p.logger.Info("using workspace", "workspace_id", ws.ID, "name", ws.Name, "available", len(workspaces))

	tables, err := p.api.Tables(ctx, ws.ID)
	if err != nil {
		return nil, err
	}

	for _, t := range tables {
		if strings.EqualFold(t.Name, p.table) {
			p.logger.Info("found table", "table_id", t.ID, "name", t.Name)
			return &TableRef{
				WorkspaceID:   ws.ID,
				WorkspaceName: ws.Name,
				TableID:       t.ID,
				TableName:     t.Name,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: %q in workspace %d", ErrTableNotFound, p.table, ws.ID)
}
