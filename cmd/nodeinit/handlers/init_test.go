package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/nodeinit/internal/config"
)

func TestInit_WritesDefaults(t *testing.T) {
	saveAndRestoreFactories(t)
	out := captureStdout(t)
	path := filepath.Join(t.TempDir(), "etc", "nodeinit.yaml")

	require.NoError(t, Init(context.Background(), path, false))

	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Leader, loaded.Leader)
	assert.Contains(t, out.String(), "Configuration saved!")
	assert.Contains(t, out.String(), "nodeinit doctor -c "+path)
}

func TestInit_ExistingFile(t *testing.T) {
	saveAndRestoreFactories(t)
	captureStdout(t)
	path := filepath.Join(t.TempDir(), "nodeinit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	err := Init(context.Background(), path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "log:\n  level: debug\n", string(data))

	require.NoError(t, Init(context.Background(), path, true))
	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLogLevel, loaded.Log.Level)
}

func TestInit_WriteError(t *testing.T) {
	saveAndRestoreFactories(t)
	fileExists = func(string) bool { return false }
	writeConfig = func(*config.Config, string) error { return errors.New("read-only file system") }

	err := Init(context.Background(), "nodeinit.yaml", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write config")
}
