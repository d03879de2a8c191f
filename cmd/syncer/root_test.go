package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"story_sync/internal/config"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XANO_API_BASE_URL", "")
	t.Setenv("XANO_METADATA_URL", "")
	t.Setenv("WEBFLOW_API_TOKEN", "")
	t.Setenv("WEBFLOW_COLLECTION_ID", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestColumns_MissingTokenPrintsUsage(t *testing.T) {
	out, err := runCommand(t, "columns")

	require.ErrorIs(t, err, errMissingToken)
	assert.Contains(t, out, "columns <METADATA_TOKEN>")
}

func TestTriggers_MissingTokenPrintsUsage(t *testing.T) {
	out, err := runCommand(t, "triggers")

	require.ErrorIs(t, err, errMissingToken)
	assert.Contains(t, out, "triggers <METADATA_TOKEN>")
}

func TestTriggers_PrintScript(t *testing.T) {
	out, err := runCommand(t, "triggers", "--print")

	require.NoError(t, err)
	assert.Contains(t, out, "$env.WEBFLOW_API_TOKEN")
}

func TestColumns_RequiresMetadataURL(t *testing.T) {
	_, err := runCommand(t, "columns", "token")

	require.ErrorIs(t, err, config.ErrMissingSetting)
	assert.Contains(t, err.Error(), "XANO_METADATA_URL")
}

func TestSync_RequiresSettings(t *testing.T) {
	_, err := runCommand(t, "sync")

	require.ErrorIs(t, err, config.ErrMissingSetting)
}

func TestRuns_RequiresDatabase(t *testing.T) {
	_, err := runCommand(t, "runs")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestWatch_RejectsNegativeInterval(t *testing.T) {
	t.Setenv("XANO_API_BASE_URL", "https://x")
	t.Setenv("WEBFLOW_API_TOKEN", "tok")
	t.Setenv("WEBFLOW_COLLECTION_ID", "col")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sync:\n  interval: -5m\n"), 0o600))

	cmd := newRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", path, "watch"})

	err := cmd.Execute()

	require.ErrorIs(t, err, config.ErrInvalidSetting)
	assert.Contains(t, err.Error(), "sync.interval")
}
