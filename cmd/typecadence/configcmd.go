package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typecadence/internal/config"
	"github.com/verte-zerg/typecadence/internal/sampler"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open the config file in $EDITOR",
		// Editing must work even when the current file does not parse.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE:              runConfigCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "show",
		Short:   "Print the effective configuration",
		PreRunE: loadConfig,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cfg.Encode(os.Stdout)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config, data and state paths",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Printf("config: %s\n", configPath)
			fmt.Printf("data:   %s\n", config.DefaultDBPath())
			fmt.Printf("state:  %s\n", config.DefaultStatePath())
			fmt.Printf("logs:   %s\n", config.DefaultLogDir())
			return nil
		},
	})
	return cmd
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	// Report problems now rather than on the next run.
	if _, err := config.Load(path); err != nil {
		logErrln("Warning:", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	def := config.Default()
	return fmt.Sprintf(`# typecadence config
# Uncomment and edit values to override defaults.
# Every key can also be set from the environment, e.g. TYPECADENCE_MONITOR_MULTIPLIER=15.

[sampler]
# bin-seconds = %d
# burst-threshold = "%s"
# min-recordings = %d
# punctuation = "%s"

[monitor]
# Resolution ladder: 1, 5, 15, 30, 60 (minutes), 1440 (day), 10080 (week), 43200 (month), 518400 (year).
# multiplier = %d
# refresh = "%s"
# summary-refresh = "%s"
# seconds-per-cell = %.1f
# summary-bucket-wpm = %d

[store]
# backend = "%s"  # sqlite, postgres or mysql
# dsn = "%s"

[log]
# level = "%s"
# format = "%s"  # console or json
# dir = "%s"
# max-size-mb = %d
# max-backups = %d
# max-age-days = %d

[metrics]
# addr = "127.0.0.1:9464"
`,
		def.Sampler.BinSeconds,
		def.Sampler.BurstThreshold,
		def.Sampler.MinRecordings,
		strings.ReplaceAll(sampler.DefaultPunctuation, `"`, `\"`),
		def.Monitor.Multiplier,
		def.Monitor.Refresh,
		def.Monitor.SummaryRefresh,
		def.Monitor.SecondsPerCell,
		def.Monitor.SummaryBucketWPM,
		def.Store.Backend,
		def.Store.DSN,
		def.Log.Level,
		def.Log.Format,
		def.Log.Dir,
		def.Log.MaxSizeMB,
		def.Log.MaxBackups,
		def.Log.MaxAgeDays,
	)
}
