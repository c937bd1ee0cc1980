package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typecadence/internal/config"
)

func TestNewLoggerWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(config.LogConfig{
		Level:     "info",
		Format:    "console",
		File:      true,
		Dir:       dir,
		Filename:  "test.log",
		MaxSizeMB: 1,
	})
	require.NoError(t, err)

	logger.Named("sampler").Info("bin closed")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.Contains(line, `"msg":"bin closed"`), line)
	assert.True(t, strings.Contains(line, `"logger":"sampler"`), line)
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(config.LogConfig{Level: "warn", File: true, Dir: dir, Filename: "test.log"})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewLoggerNeedsAnOutput(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "info"})
	assert.ErrorIs(t, err, ErrNoOutputs)
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "chatty", Console: true})
	assert.Error(t, err)
}
