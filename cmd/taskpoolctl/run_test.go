package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRunCmd(t *testing.T) {
	cmd := buildRunCmd()

	assert.NotNil(t, cmd, "buildRunCmd should return a non-nil command")
	assert.Equal(t, "run", cmd.Use, "Command should be 'run'")
	assert.Contains(t, cmd.Short, "Start", "Short description should mention 'Start'")
	assert.NotNil(t, cmd.RunE, "RunE function should be set")
}

func TestRunPoolRejectsMissingConfig(t *testing.T) {
	err := runPool(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "runPool should return an error for a nonexistent config file")
}

func TestRunPoolRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pool:\n  workers: -1\n"), 0o600))

	err := runPool(path)
	assert.Error(t, err, "runPool should return an error when the config fails validation")
}
