package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typecadence/internal/config"
)

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store]\nbackend = \"postgres\"\ndsn = \"postgres://file\"\n"), 0o644))

	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--config", path, "--dsn", "postgres://flag", "--log-level", "debug"}))
	require.NoError(t, loadConfig(root, nil))

	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "postgres://flag", cfg.Store.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigRejectsUnknownBackendFlag(t *testing.T) {
	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "--backend", "oracle"}))
	assert.Error(t, loadConfig(root, nil))
}

func TestDefaultConfigTemplateLoadsAsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), loaded)
	assert.Contains(t, defaultConfigTemplate(), "# multiplier = 1")
}

func TestRelativeRange(t *testing.T) {
	start, end, err := relativeRange(2*time.Hour, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), end-start)

	_, _, err = relativeRange(time.Hour, time.Hour)
	assert.Error(t, err)
}

type recordingWriter struct{ rows int }

func (r *recordingWriter) Insert(context.Context, int64, int) error {
	r.rows++
	return nil
}

func TestCountingWriter(t *testing.T) {
	next := &recordingWriter{}
	w := &countingWriter{next: next}
	require.NoError(t, w.Insert(context.Background(), 1, 60))
	require.NoError(t, w.Insert(context.Background(), 2, 61))
	assert.Equal(t, int64(2), w.written.Load())
	assert.Equal(t, 2, next.rows)
}
