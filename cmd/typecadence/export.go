package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typecadence/internal/export"
	"github.com/verte-zerg/typecadence/internal/series"
)

const (
	exportKindSamples = "samples"
	exportKindSeries  = "series"
)

var (
	exportOut        string
	exportKind       string
	exportResolution string
	exportSince      time.Duration
	exportUntil      time.Duration
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write samples or aggregated buckets to a Parquet file",
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVarP(&exportOut, "out", "o", "cadence.parquet", "output file")
	cmd.Flags().StringVar(&exportKind, "kind", exportKindSamples, "what to export: samples or series")
	cmd.Flags().StringVar(&exportResolution, "resolution", "1 min", "bucket resolution for --kind series")
	cmd.Flags().DurationVar(&exportSince, "since", defaultSummarySpan, "range start, relative to now")
	cmd.Flags().DurationVar(&exportUntil, "until", 0, "range end, relative to now")
	return cmd
}

func runExportCmd(_ *cobra.Command, _ []string) error {
	if exportKind != exportKindSamples && exportKind != exportKindSeries {
		return fmt.Errorf("unknown export kind %q (use %s or %s)", exportKind, exportKindSamples, exportKindSeries)
	}
	start, end, err := relativeRange(exportSince, exportUntil)
	if err != nil {
		return err
	}

	logger, err := newLogger(true)
	if err != nil {
		return err
	}
	defer syncLogger(logger)
	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close store", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if exportKind == exportKindSamples {
		n, err := export.Samples(ctx, st, start, end, exportOut)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d samples to %s\n", n, exportOut)
		return nil
	}

	res, err := series.ParseName(exportResolution)
	if err != nil {
		return err
	}
	s, err := series.NewAggregator(st, cfg.Sampler.BinWidth(), logger).Series(ctx, start, end, res)
	if err != nil {
		return err
	}
	rows := export.BucketRecords(s)
	if err := export.WriteFile(exportOut, rows); err != nil {
		return err
	}
	fmt.Printf("Exported %d %s buckets to %s\n", len(rows), res, exportOut)
	return nil
}
