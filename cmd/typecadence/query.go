package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typecadence/internal/chart"
	"github.com/verte-zerg/typecadence/internal/model"
	"github.com/verte-zerg/typecadence/internal/series"
)

const (
	queryTimeout       = 30 * time.Second
	cliPlotHeight      = 10
	timeLayout         = "2006-01-02 15:04:05"
	defaultSeriesSince = time.Hour
	defaultSummarySpan = 4 * time.Hour
)

var (
	seriesSince      time.Duration
	seriesUntil      time.Duration
	seriesResolution string
	seriesNoTable    bool
	seriesColor      bool

	summarySince  time.Duration
	summaryUntil  time.Duration
	summaryBucket int
	summaryColor  bool
)

func newSeriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print aggregated cadence buckets for a time range",
		RunE:  runSeriesCmd,
	}
	cmd.Flags().DurationVar(&seriesSince, "since", defaultSeriesSince, "range start, relative to now")
	cmd.Flags().DurationVar(&seriesUntil, "until", 0, "range end, relative to now")
	cmd.Flags().StringVar(&seriesResolution, "resolution", "1 min", "bucket resolution: a ladder name (\"15 min\") or multiplier (15)")
	cmd.Flags().BoolVar(&seriesNoTable, "no-table", false, "only draw the chart")
	cmd.Flags().BoolVar(&seriesColor, "color", false, "force colored output")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the WPM distribution for a time range",
		RunE:  runSummaryCmd,
	}
	cmd.Flags().DurationVar(&summarySince, "since", defaultSummarySpan, "range start, relative to now")
	cmd.Flags().DurationVar(&summaryUntil, "until", 0, "range end, relative to now")
	cmd.Flags().IntVar(&summaryBucket, "bucket", 0, "histogram bucket width in WPM (default: monitor.summary-bucket-wpm)")
	cmd.Flags().BoolVar(&summaryColor, "color", false, "force colored output")
	return cmd
}

// relativeRange turns two look-back durations into epoch seconds.
func relativeRange(since, until time.Duration) (int64, int64, error) {
	if since <= until {
		return 0, 0, fmt.Errorf("--since (%s) must reach further back than --until (%s)", since, until)
	}
	now := time.Now()
	return now.Add(-since).Unix(), now.Add(-until).Unix(), nil
}

func runSeriesCmd(_ *cobra.Command, _ []string) error {
	res, err := series.ParseName(seriesResolution)
	if err != nil {
		return err
	}
	start, end, err := relativeRange(seriesSince, seriesUntil)
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
	s, err := series.NewAggregator(st, cfg.Sampler.BinWidth(), logger).Series(ctx, start, end, res)
	if err != nil {
		return err
	}

	if !seriesNoTable {
		if err := printSeriesTable(s); err != nil {
			return err
		}
		fmt.Println()
	}
	width := chart.PlotWidthFor(chart.TerminalWidth(), s.AxisMax)
	return chart.WriteBars(os.Stdout, s, width, cliPlotHeight, seriesColor)
}

func printSeriesTable(s model.Series) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Start", "End", "Mean WPM", "Samples"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	dim := color.New(color.FgHiBlack).SprintFunc()
	var data [][]string
	for _, b := range s.Buckets {
		mean := dim("-")
		if b.HasValue() && !math.IsNaN(b.Mean) {
			mean = strconv.FormatFloat(b.Mean, 'f', 1, 64)
		}
		data = append(data, []string{
			time.Unix(b.Start, 0).Format(timeLayout),
			time.Unix(b.End, 0).Format(timeLayout),
			mean,
			strconv.Itoa(b.Count),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func runSummaryCmd(_ *cobra.Command, _ []string) error {
	bucket := cfg.Monitor.SummaryBucketWPM
	if summaryBucket != 0 {
		bucket = summaryBucket
	}
	start, end, err := relativeRange(summarySince, summaryUntil)
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
	h, err := series.NewAggregator(st, cfg.Sampler.BinWidth(), logger).Histogram(ctx, start, end, bucket)
	if errors.Is(err, series.ErrInsufficientData) {
		fmt.Println(chart.NoData)
		return nil
	}
	if err != nil {
		return err
	}

	if err := printSummaryTable(h); err != nil {
		return err
	}
	fmt.Println()
	return chart.WriteHistogram(os.Stdout, h, chart.TerminalWidth(), cliPlotHeight, summaryColor)
}

func printSummaryTable(h model.Histogram) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"WPM", "Share", "Samples"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	peak := 0
	for _, b := range h.Bins {
		peak = max(peak, b.Count)
	}
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	var data [][]string
	for _, b := range h.Bins {
		share := fmt.Sprintf("%.1f%%", b.Percent)
		if b.Count == peak {
			share = green(share)
		}
		data = append(data, []string{
			strconv.Itoa(int(math.Round(b.Center))),
			share,
			strconv.Itoa(b.Count),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Printf("%d samples between %d and %d wpm\n", h.Total, h.Min, h.Max)
	return nil
}
