package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typecadence/internal/chart"
	"github.com/verte-zerg/typecadence/internal/config"
	"github.com/verte-zerg/typecadence/internal/keyhook"
	"github.com/verte-zerg/typecadence/internal/monitorui"
	"github.com/verte-zerg/typecadence/internal/sampler"
	"github.com/verte-zerg/typecadence/internal/series"
	"github.com/verte-zerg/typecadence/internal/store"
	"github.com/verte-zerg/typecadence/internal/viewport"
)

var (
	monitorMultiplier int
	monitorViewOnly   bool
)

func newMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Record keystrokes and show the live cadence chart",
		RunE:  runMonitorCmd,
	}
	addMonitorFlags(cmd)
	return cmd
}

// addMonitorFlags is shared by the root command, which runs the monitor by default.
func addMonitorFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&monitorMultiplier, "multiplier", 0, "initial resolution multiplier (1, 5, 15, 30, 60, 1440, ...)")
	cmd.Flags().BoolVar(&monitorViewOnly, "view-only", false, "show stored data without recording")
}

func runMonitorCmd(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(false)
	if err != nil {
		return err
	}
	defer syncLogger(logger)
	stopMetrics := startMetrics(cfg.Metrics.Addr, logger)
	defer stopMetrics()

	st, err := openStore(logger)
	if err != nil {
		return err
	}

	res, err := initialResolution(cmd, logger)
	if err != nil {
		_ = st.Close()
		return err
	}

	binWidth := cfg.Sampler.BinWidth()
	ctrl, err := viewport.New(binWidth, res, chart.TerminalWidth(),
		viewport.WithSecondsPerCell(cfg.Monitor.SecondsPerCell))
	if err != nil {
		_ = st.Close()
		return err
	}
	agg := series.NewAggregator(st, binWidth, logger)
	ui := monitorui.NewModel(agg, ctrl, monitorui.Options{
		Refresh:        cfg.Monitor.Refresh,
		SummaryRefresh: cfg.Monitor.SummaryRefresh,
		BucketWPM:      cfg.Monitor.SummaryBucketWPM,
		PanStep:        int(binWidth / time.Second),
		StatePath:      config.DefaultStatePath(),
		Logger:         logger,
	})
	p := tea.NewProgram(ui, tea.WithAltScreen())

	rec, err := newHookRecorder(st, logger)
	if err != nil {
		_ = st.Close()
		return err
	}
	if rec == nil {
		defer func() {
			if err := st.Close(); err != nil {
				logger.Error("failed to close store", zap.Error(err))
			}
		}()
		_, err := p.Run()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var recErr error
	recDone := make(chan struct{})
	go func() {
		defer close(recDone)
		if err := rec.Run(ctx); err != nil {
			recErr = err
			p.Quit()
		}
	}()

	_, uiErr := p.Run()
	shutdownErr := rec.Shutdown()
	<-recDone
	if recErr != nil {
		logErrf("Recording stopped: %v\n", recErr)
		return recErr
	}
	if uiErr != nil {
		return uiErr
	}
	return shutdownErr
}

// initialResolution prefers the flag, then the last resolution the monitor
// persisted, then the configured multiplier.
func initialResolution(cmd *cobra.Command, logger *zap.Logger) (series.Resolution, error) {
	multiplier := cfg.Monitor.Multiplier
	if st, err := config.LoadState(config.DefaultStatePath()); err != nil {
		logger.Warn("ignoring unreadable state file", zap.Error(err))
	} else if _, err := series.ParseResolution(st.Multiplier); err == nil {
		multiplier = st.Multiplier
	}
	applyIntFlag(cmd, "multiplier", &multiplier, monitorMultiplier)
	return series.ParseResolution(multiplier)
}

// newHookRecorder returns nil when recording is disabled or the platform has
// no keyboard hook; the monitor then only views stored samples.
func newHookRecorder(st *store.Store, logger *zap.Logger) (*sampler.Recorder, error) {
	if monitorViewOnly {
		return nil, nil
	}
	src, err := keyhook.New(logger)
	if errors.Is(err, keyhook.ErrUnavailable) {
		logger.Warn("keyboard hook unavailable, monitoring in view-only mode")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to start keyboard hook: %w", err)
	}
	return newRecorder(src, st, logger)
}

func newRecorder(src sampler.EventSource, st *store.Store, logger *zap.Logger) (*sampler.Recorder, error) {
	smp, err := sampler.New(st, samplerOptions(), logger)
	if err != nil {
		return nil, err
	}
	return sampler.NewRecorder(src, smp, st, logger), nil
}

func samplerOptions() sampler.Options {
	return sampler.Options{
		BinWidth:       cfg.Sampler.BinWidth(),
		BurstThreshold: cfg.Sampler.BurstThreshold,
		MinRecordings:  cfg.Sampler.MinRecordings,
		Punctuation:    cfg.Sampler.Punctuation,
	}
}

func newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record",
		Short: "Record keystroke cadence without a UI",
		RunE:  runRecordCmd,
	}
}

func runRecordCmd(_ *cobra.Command, _ []string) error {
	logger, err := newLogger(true)
	if err != nil {
		return err
	}
	defer syncLogger(logger)
	stopMetrics := startMetrics(cfg.Metrics.Addr, logger)
	defer stopMetrics()

	src, err := keyhook.New(logger)
	if err != nil {
		return fmt.Errorf("failed to start keyboard hook: %w", err)
	}
	st, err := openStore(logger)
	if err != nil {
		return err
	}
	rec, err := newRecorder(src, st, logger)
	if err != nil {
		_ = st.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runErr := rec.Run(ctx)
	if err := rec.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
