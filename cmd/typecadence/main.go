package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typecadence/internal/config"
	"github.com/verte-zerg/typecadence/internal/logging"
	"github.com/verte-zerg/typecadence/internal/store"
)

var (
	configPath  string
	backendFlag string
	dsnFlag     string
	metricsAddr string
	logLevel    string

	cfg *config.Config
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "typecadence",
		Short:             "Typing cadence sampler and monitor",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: loadConfig,
		RunE:              runMonitorCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultConfigPath(), "path to the config file")
	flags.StringVar(&backendFlag, "backend", "", "store backend: sqlite, postgres or mysql")
	flags.StringVar(&dsnFlag, "dsn", "", "store DSN (file path for sqlite)")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	addMonitorFlags(rootCmd)

	rootCmd.AddCommand(newMonitorCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newSeriesCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDBCmd())

	return rootCmd
}

// loadConfig resolves the effective config. Flags set on the command line win
// over the file and the environment.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringFlag(cmd, "backend", &loaded.Store.Backend, backendFlag)
	applyStringFlag(cmd, "dsn", &loaded.Store.DSN, dsnFlag)
	applyStringFlag(cmd, "metrics-addr", &loaded.Metrics.Addr, metricsAddr)
	applyStringFlag(cmd, "log-level", &loaded.Log.Level, logLevel)
	if _, err := store.ParseBackend(loaded.Store.Backend); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

// newLogger builds the process logger. Interactive commands pass console=false
// so log lines do not tear the terminal UI.
func newLogger(console bool) (*zap.Logger, error) {
	logCfg := cfg.Log
	if !console {
		logCfg.Console = false
		logCfg.File = true
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, nil
}

func openStore(logger *zap.Logger) (*store.Store, error) {
	backend, err := store.ParseBackend(cfg.Store.Backend)
	if err != nil {
		return nil, err
	}
	st, err := store.OpenWith(store.Options{Backend: backend, DSN: cfg.Store.DSN})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	logger.Debug("store opened", zap.String("backend", string(st.Backend())))
	return st, nil
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		// Syncing stderr fails on some terminals.
		_ = err
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
