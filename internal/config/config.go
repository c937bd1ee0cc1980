// Package config loads typecadence settings and resolves XDG paths.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/verte-zerg/typecadence/internal/series"
	"github.com/verte-zerg/typecadence/internal/store"
)

const (
	defaultBinSeconds       = 5
	defaultBurstThreshold   = time.Second
	defaultMinRecordings    = 8
	defaultMultiplier       = 1
	defaultRefresh          = 2 * time.Second
	defaultSummaryRefresh   = 500 * time.Millisecond
	defaultSecondsPerCell   = 5.0
	defaultSummaryBucketWPM = 5
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
	defaultLogFilename      = "typecadence.log"
	defaultLogMaxSizeMB     = 10
	defaultLogMaxBackups    = 3
	defaultLogMaxAgeDays    = 28

	envPrefix = "TYPECADENCE"
)

// Config is the effective configuration after defaults, file and environment.
type Config struct {
	Sampler SamplerConfig `mapstructure:"sampler"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// SamplerConfig controls how keystrokes become samples.
type SamplerConfig struct {
	BinSeconds     int           `mapstructure:"bin-seconds"`
	BurstThreshold time.Duration `mapstructure:"burst-threshold"`
	MinRecordings  int           `mapstructure:"min-recordings"`
	Punctuation    string        `mapstructure:"punctuation"`
}

// MonitorConfig controls the live monitor and summary views.
type MonitorConfig struct {
	Multiplier       int           `mapstructure:"multiplier"`
	Refresh          time.Duration `mapstructure:"refresh"`
	SummaryRefresh   time.Duration `mapstructure:"summary-refresh"`
	SecondsPerCell   float64       `mapstructure:"seconds-per-cell"`
	SummaryBucketWPM int           `mapstructure:"summary-bucket-wpm"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	DSN     string `mapstructure:"dsn"`
}

// LogConfig controls zap outputs.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max-size-mb"`
	MaxBackups int    `mapstructure:"max-backups"`
	MaxAgeDays int    `mapstructure:"max-age-days"`
	Compress   bool   `mapstructure:"compress"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// BinWidth returns the sampler bin width as a duration.
func (c SamplerConfig) BinWidth() time.Duration {
	return time.Duration(c.BinSeconds) * time.Second
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	v := viper.New()
	configureViper(v, path)
	setDefaults(v)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func configureViper(v *viper.Viper, path string) {
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sampler.bin-seconds", defaultBinSeconds)
	v.SetDefault("sampler.burst-threshold", defaultBurstThreshold)
	v.SetDefault("sampler.min-recordings", defaultMinRecordings)
	v.SetDefault("sampler.punctuation", "")
	v.SetDefault("monitor.multiplier", defaultMultiplier)
	v.SetDefault("monitor.refresh", defaultRefresh)
	v.SetDefault("monitor.summary-refresh", defaultSummaryRefresh)
	v.SetDefault("monitor.seconds-per-cell", defaultSecondsPerCell)
	v.SetDefault("monitor.summary-bucket-wpm", defaultSummaryBucketWPM)
	v.SetDefault("store.backend", string(store.SQLiteBackend))
	v.SetDefault("store.dsn", DefaultDBPath())
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.console", true)
	v.SetDefault("log.file", true)
	v.SetDefault("log.dir", DefaultLogDir())
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.max-size-mb", defaultLogMaxSizeMB)
	v.SetDefault("log.max-backups", defaultLogMaxBackups)
	v.SetDefault("log.max-age-days", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", false)
	v.SetDefault("metrics.addr", "")
}

func validate(cfg *Config) error {
	if cfg.Sampler.BinSeconds <= 0 {
		return ErrInvalidBinSeconds
	}
	if cfg.Sampler.BurstThreshold <= 0 {
		return ErrInvalidBurstThreshold
	}
	if cfg.Sampler.MinRecordings < 1 {
		return ErrInvalidMinRecordings
	}
	if _, err := series.ParseResolution(cfg.Monitor.Multiplier); err != nil {
		return err
	}
	if cfg.Monitor.Refresh <= 0 || cfg.Monitor.SummaryRefresh <= 0 {
		return ErrInvalidRefresh
	}
	if cfg.Monitor.SecondsPerCell <= 0 {
		return ErrInvalidSecondsPerCell
	}
	if cfg.Monitor.SummaryBucketWPM <= 0 {
		return ErrInvalidBucketWidth
	}
	if _, err := store.ParseBackend(cfg.Store.Backend); err != nil {
		return err
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "console", "json":
	default:
		return ErrInvalidLogFormat
	}
	return nil
}

// fileView mirrors Config with durations spelled as strings for TOML output.
type fileView struct {
	Sampler struct {
		BinSeconds     int    `toml:"bin-seconds"`
		BurstThreshold string `toml:"burst-threshold"`
		MinRecordings  int    `toml:"min-recordings"`
		Punctuation    string `toml:"punctuation,omitempty"`
	} `toml:"sampler"`
	Monitor struct {
		Multiplier       int     `toml:"multiplier"`
		Refresh          string  `toml:"refresh"`
		SummaryRefresh   string  `toml:"summary-refresh"`
		SecondsPerCell   float64 `toml:"seconds-per-cell"`
		SummaryBucketWPM int     `toml:"summary-bucket-wpm"`
	} `toml:"monitor"`
	Store struct {
		Backend string `toml:"backend"`
		DSN     string `toml:"dsn"`
	} `toml:"store"`
	Log struct {
		Level      string `toml:"level"`
		Format     string `toml:"format"`
		Console    bool   `toml:"console"`
		File       bool   `toml:"file"`
		Dir        string `toml:"dir"`
		Filename   string `toml:"filename"`
		MaxSizeMB  int    `toml:"max-size-mb"`
		MaxBackups int    `toml:"max-backups"`
		MaxAgeDays int    `toml:"max-age-days"`
		Compress   bool   `toml:"compress"`
	} `toml:"log"`
	Metrics struct {
		Addr string `toml:"addr"`
	} `toml:"metrics"`
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	var view fileView
	view.Sampler.BinSeconds = c.Sampler.BinSeconds
	view.Sampler.BurstThreshold = c.Sampler.BurstThreshold.String()
	view.Sampler.MinRecordings = c.Sampler.MinRecordings
	view.Sampler.Punctuation = c.Sampler.Punctuation
	view.Monitor.Multiplier = c.Monitor.Multiplier
	view.Monitor.Refresh = c.Monitor.Refresh.String()
	view.Monitor.SummaryRefresh = c.Monitor.SummaryRefresh.String()
	view.Monitor.SecondsPerCell = c.Monitor.SecondsPerCell
	view.Monitor.SummaryBucketWPM = c.Monitor.SummaryBucketWPM
	view.Store.Backend = c.Store.Backend
	view.Store.DSN = c.Store.DSN
	view.Log.Level = c.Log.Level
	view.Log.Format = c.Log.Format
	view.Log.Console = c.Log.Console
	view.Log.File = c.Log.File
	view.Log.Dir = c.Log.Dir
	view.Log.Filename = c.Log.Filename
	view.Log.MaxSizeMB = c.Log.MaxSizeMB
	view.Log.MaxBackups = c.Log.MaxBackups
	view.Log.MaxAgeDays = c.Log.MaxAgeDays
	view.Log.Compress = c.Log.Compress
	view.Metrics.Addr = c.Metrics.Addr
	return toml.NewEncoder(w).Encode(view)
}
