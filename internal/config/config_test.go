package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typecadence/internal/series"
	"github.com/verte-zerg/typecadence/internal/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Sampler.BinSeconds)
	assert.Equal(t, time.Second, cfg.Sampler.BurstThreshold)
	assert.Equal(t, 8, cfg.Sampler.MinRecordings)
	assert.Equal(t, 1, cfg.Monitor.Multiplier)
	assert.Equal(t, 2*time.Second, cfg.Monitor.Refresh)
	assert.Equal(t, string(store.SQLiteBackend), cfg.Store.Backend)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[sampler]
bin-seconds = 10
burst-threshold = "750ms"

[monitor]
multiplier = 15
seconds-per-cell = 0.5

[store]
backend = "postgres"
dsn = "postgres://localhost/typecadence"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Sampler.BinSeconds)
	assert.Equal(t, 10*time.Second, cfg.Sampler.BinWidth())
	assert.Equal(t, 750*time.Millisecond, cfg.Sampler.BurstThreshold)
	assert.Equal(t, 8, cfg.Sampler.MinRecordings)
	assert.Equal(t, 15, cfg.Monitor.Multiplier)
	assert.InDelta(t, 0.5, cfg.Monitor.SecondsPerCell, 1e-9)
	assert.Equal(t, "postgres", cfg.Store.Backend)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "[monitor]\nmultiplier = 15\n")
	t.Setenv("TYPECADENCE_MONITOR_MULTIPLIER", "60")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Monitor.Multiplier)
}

func TestLoadRejectsOffLadderMultiplier(t *testing.T) {
	path := writeConfig(t, "[monitor]\nmultiplier = 7\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, series.ErrConfiguration)
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		body string
		want error
	}{
		{"[sampler]\nbin-seconds = 0\n", ErrInvalidBinSeconds},
		{"[sampler]\nmin-recordings = 0\n", ErrInvalidMinRecordings},
		{"[monitor]\nsummary-bucket-wpm = 0\n", ErrInvalidBucketWidth},
		{"[log]\nlevel = \"loud\"\n", ErrInvalidLogLevel},
		{"[store]\nbackend = \"oracle\"\n", store.ErrUnknownBackend},
	}
	for _, tc := range cases {
		_, err := Load(writeConfig(t, tc.body))
		assert.ErrorIs(t, err, tc.want, tc.body)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "[sampler\n"))
	assert.ErrorIs(t, err, ErrReadingConfigFile)
}

func TestEncodeRoundTripsThroughLoad(t *testing.T) {
	cfg := Default()
	cfg.Monitor.Multiplier = 30
	cfg.Sampler.BurstThreshold = 900 * time.Millisecond

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.True(t, strings.Contains(buf.String(), `burst-threshold = "900ms"`), buf.String())

	loaded, err := Load(writeConfig(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, 30, loaded.Monitor.Multiplier)
	assert.Equal(t, 900*time.Millisecond, loaded.Sampler.BurstThreshold)
}

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.toml")

	st, err := LoadState(path)
	require.NoError(t, err)
	assert.Zero(t, st.Multiplier)

	require.NoError(t, SaveState(path, State{Multiplier: 1440}))
	st, err = LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, 1440, st.Multiplier)

	var raw map[string]any
	_, err = toml.DecodeFile(path, &raw)
	require.NoError(t, err)
	assert.EqualValues(t, 1440, raw["multiplier"])
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, filepath.Join("/cfg", "typecadence", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/data", "typecadence", "typecadence.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join("/state", "typecadence", "state.toml"), DefaultStatePath())
	assert.Equal(t, filepath.Join("/state", "typecadence", "log"), DefaultLogDir())
}
