package provision

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"story_sync/internal/xano"
)

type fakeMetadata struct {
	mu         sync.Mutex
	workspaces []xano.Workspace
	tables     map[int64][]xano.Table
	columns    map[int64][]xano.Column
	triggers   map[int64][]xano.Trigger
	failColumn string
	calls      int
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{
		workspaces: []xano.Workspace{{ID: 1, Name: "main"}, {ID: 2, Name: "staging"}},
		tables: map[int64][]xano.Table{
			1: {{ID: 10, Name: "users"}, {ID: 11, Name: "Stories"}},
			2: {{ID: 20, Name: "stories"}},
		},
		columns: map[int64][]xano.Column{
			11: {{Name: "id", Type: "int"}, {Name: "story_name", Type: "text"}, {Name: "category", Type: "text"}},
			20: {{Name: "id", Type: "int"}},
		},
		triggers: map[int64][]xano.Trigger{},
	}
}

func (f *fakeMetadata) Workspaces(_ context.Context) ([]xano.Workspace, error) {
	return f.workspaces, nil
}

func (f *fakeMetadata) Tables(_ context.Context, workspaceID int64) ([]xano.Table, error) {
	return f.tables[workspaceID], nil
}

func (f *fakeMetadata) TableSchema(_ context.Context, _, tableID int64) ([]xano.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]xano.Column(nil), f.columns[tableID]...), nil
}

func (f *fakeMetadata) AddColumn(_ context.Context, _, tableID int64, col xano.ColumnSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if col.Name == f.failColumn {
		return &xano.APIError{StatusCode: 400, Message: "bad column"}
	}
	f.columns[tableID] = append(f.columns[tableID], xano.Column{Name: col.Name, Type: col.Type})
	return nil
}

func (f *fakeMetadata) Triggers(_ context.Context, _, tableID int64) ([]xano.Trigger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]xano.Trigger(nil), f.triggers[tableID]...), nil
}

func (f *fakeMetadata) CreateTrigger(_ context.Context, _, tableID int64, t xano.TriggerSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.triggers[tableID] = append(f.triggers[tableID], xano.Trigger{
		ID:      int64(len(f.triggers[tableID]) + 1),
		Name:    t.Name,
		Type:    t.Type,
		Enabled: t.Enabled,
	})
	return nil
}

type ProvisionerTestSuite struct {
	suite.Suite
	api    *fakeMetadata
	logger *slog.Logger
}

func TestProvisionerTestSuite(t *testing.T) {
	suite.Run(t, new(ProvisionerTestSuite))
}

func (s *ProvisionerTestSuite) SetupTest() {
	s.api = newFakeMetadata()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *ProvisionerTestSuite) TestLocateTable_FirstWorkspaceCaseInsensitive() {
	p := New(s.api, 0, "stories", s.logger)

	ref, err := p.LocateTable(context.Background())

	s.Require().NoError(err)
	s.Equal(int64(1), ref.WorkspaceID)
	s.Equal(int64(11), ref.TableID)
	s.Equal("Stories", ref.TableName)
}

func (s *ProvisionerTestSuite) TestLocateTable_ConfiguredWorkspace() {
	p := New(s.api, 2, "stories", s.logger)

	ref, err := p.LocateTable(context.Background())

	s.Require().NoError(err)
	s.Equal(int64(2), ref.WorkspaceID)
	s.Equal(int64(20), ref.TableID)
}

func (s *ProvisionerTestSuite) TestLocateTable_Errors() {
	_, err := New(s.api, 0, "articles", s.logger).LocateTable(context.Background())
	s.ErrorIs(err, ErrTableNotFound)

	_, err = New(s.api, 99, "stories", s.logger).LocateTable(context.Background())
	s.ErrorIs(err, ErrNoWorkspace)

	s.api.workspaces = nil
	_, err = New(s.api, 0, "stories", s.logger).LocateTable(context.Background())
	s.ErrorIs(err, ErrNoWorkspace)
}

func (s *ProvisionerTestSuite) TestAddColumns_SkipsExisting() {
	p := New(s.api, 0, "stories", s.logger)
	desired := StoryColumns()

	report, err := p.AddColumns(context.Background(), desired)

	s.Require().NoError(err)
	s.Require().NoError(report.Err())
	s.Equal([]string{"category"}, report.Skipped)
	s.Len(report.Added, len(desired)-1)
	s.Empty(report.Failed)
	s.ElementsMatch([]string{"id", "story_name", "category"}, report.Existing)
}

func (s *ProvisionerTestSuite) TestAddColumns_SecondRunAddsNothing() {
	p := New(s.api, 0, "stories", s.logger)
	desired := StoryColumns()

	_, err := p.AddColumns(context.Background(), desired)
	s.Require().NoError(err)
	callsAfterFirst := s.api.calls

	report, err := p.AddColumns(context.Background(), desired)

	s.Require().NoError(err)
	s.Empty(report.Added)
	s.Len(report.Skipped, len(desired))
	s.Equal(callsAfterFirst, s.api.calls)
}

func (s *ProvisionerTestSuite) TestAddColumns_FailureContinues() {
	s.api.failColumn = "author_bio"
	p := New(s.api, 0, "stories", s.logger)

	report, err := p.AddColumns(context.Background(), StoryColumns())

	s.Require().NoError(err)
	s.Require().Len(report.Failed, 1)
	s.Equal("author_bio", report.Failed[0].Name)
	s.Len(report.Added, len(StoryColumns())-2)

	var apiErr *xano.APIError
	s.True(errors.As(report.Err(), &apiErr))
}

func (s *ProvisionerTestSuite) TestDeployTriggers_Idempotent() {
	p := New(s.api, 0, "stories", s.logger)
	specs := StoryTriggers("function webflow_sync {}")

	report, err := p.DeployTriggers(context.Background(), specs)

	s.Require().NoError(err)
	s.Equal([]string{InsertTriggerName, UpdateTriggerName}, report.Created)
	s.Empty(report.Skipped)

	report, err = p.DeployTriggers(context.Background(), specs)

	s.Require().NoError(err)
	s.Empty(report.Created)
	s.Equal([]string{InsertTriggerName, UpdateTriggerName}, report.Skipped)
	s.Len(s.api.triggers[11], 2)
}

func TestStoryColumns(t *testing.T) {
	cols := StoryColumns()
	require.Len(t, cols, 14)

	byName := make(map[string]xano.ColumnSpec, len(cols))
	for _, c := range cols {
		_, dup := byName[c.Name]
		assert.False(t, dup, "duplicate column %s", c.Name)
		byName[c.Name] = c
	}

	assert.Equal(t, "draft", byName["status"].Default)
	assert.Equal(t, false, byName["featured"].Default)
	assert.Equal(t, "bool", byName["featured"].Type)
	assert.Equal(t, 0, byName["view_count"].Default)
	assert.Equal(t, "timestamp", byName["webflow_synced_at"].Type)
}

func TestStoryTriggers(t *testing.T) {
	specs := StoryTriggers("code")

	require.Len(t, specs, 2)
	assert.Equal(t, xano.TriggerAfterInsert, specs[0].Type)
	assert.Equal(t, xano.TriggerAfterUpdate, specs[1].Type)
	for _, s := range specs {
		assert.True(t, s.Enabled)
		assert.Equal(t, "code", s.Code)
	}
}
