package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typecadence/internal/config"
	"github.com/verte-zerg/typecadence/internal/generator"
	"github.com/verte-zerg/typecadence/internal/sampler"
	"github.com/verte-zerg/typecadence/internal/wordlist"
)

const (
	defaultSimWPM      = 60.0
	defaultSimWords    = 200
	defaultSimJitter   = 0.15
	defaultSimPausePct = 0.05
	defaultSimPause    = 3 * time.Second
	defaultSimLang     = "en"
	defaultSimPunctSet = ".,;:!?"
)

var (
	simWPM      float64
	simWords    int
	simJitter   float64
	simPausePct float64
	simPause    time.Duration
	simCaps     float64
	simPunct    float64
	simPunctSet string
	simWordlist string
	simLang     string
	simRealtime bool
	simAgo      time.Duration
	simSeed     int64
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate synthetic typing and feed it through the sampler",
		Long: "Generate synthetic typing and feed it through the sampler.\n\n" +
			"By default the keystrokes are backfilled starting --ago in the past. " +
			"With --realtime they are replayed at their natural pace.",
		RunE: runSimulateCmd,
	}
	cmd.Flags().Float64Var(&simWPM, "wpm", defaultSimWPM, "target words per minute")
	cmd.Flags().IntVar(&simWords, "words", defaultSimWords, "number of words to type")
	cmd.Flags().Float64Var(&simJitter, "jitter", defaultSimJitter, "relative spread of keystroke intervals (0-1)")
	cmd.Flags().Float64Var(&simPausePct, "pause-pct", defaultSimPausePct, "probability of a pause after a word (0-1)")
	cmd.Flags().DurationVar(&simPause, "pause", defaultSimPause, "length of a pause")
	cmd.Flags().Float64Var(&simCaps, "caps", 0, "probability of capitalized first letter (0-1)")
	cmd.Flags().Float64Var(&simPunct, "punct", 0, "punctuation probability per word (0-1)")
	cmd.Flags().StringVar(&simPunctSet, "punct-set", defaultSimPunctSet, "punctuation set")
	cmd.Flags().StringVar(&simWordlist, "wordlist", "", "word list file (default: the built-in list)")
	cmd.Flags().StringVar(&simLang, "lang", defaultSimLang, "language code used to filter the word list")
	cmd.Flags().BoolVar(&simRealtime, "realtime", false, "replay keystrokes in real time")
	cmd.Flags().DurationVar(&simAgo, "ago", time.Hour, "backfill start, relative to now")
	cmd.Flags().Int64Var(&simSeed, "seed", 0, "random seed (0 picks one)")
	return cmd
}

// countingWriter forwards inserts and counts the rows written.
type countingWriter struct {
	next    sampler.Writer
	written atomic.Int64
}

func (c *countingWriter) Insert(ctx context.Context, ts int64, wpm int) error {
	if err := c.next.Insert(ctx, ts, wpm); err != nil {
		return err
	}
	c.written.Add(1)
	return nil
}

func runSimulateCmd(_ *cobra.Command, _ []string) error {
	if simWPM <= 0 {
		return fmt.Errorf("invalid wpm: %v", simWPM)
	}
	if simWords <= 0 {
		return fmt.Errorf("invalid words: %d", simWords)
	}
	if simJitter < 0 || simJitter >= 1 {
		return fmt.Errorf("invalid jitter: %v", simJitter)
	}

	logger, err := newLogger(true)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	path := simWordlist
	if path == "" {
		path = config.DefaultWordListPath(simLang)
	}
	words, err := wordlist.LoadOrDefault(path, simLang)
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}

	gen := generator.New()
	if simSeed != 0 {
		gen = generator.NewSeeded(simSeed)
	}
	text := gen.Words(words, simWords, simCaps, simPunct, generator.SplitPunct(simPunctSet))
	events := gen.Keystrokes(text, time.Now().Add(-simAgo), generator.Pace{
		WPM:      simWPM,
		Jitter:   simJitter,
		PausePct: simPausePct,
		Pause:    simPause,
	})

	st, err := openStore(logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close store", zap.Error(err))
		}
	}()

	w := &countingWriter{next: st}
	smp, err := sampler.New(w, samplerOptions(), logger)
	if err != nil {
		return err
	}
	rec := sampler.NewRecorder(generator.Replay{Events: events, Realtime: simRealtime}, smp, nil, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runErr := rec.Run(ctx)
	if err := rec.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}
	fmt.Printf("Typed %d words as %d keystrokes, wrote %d samples.\n", len(text), len(events), w.written.Load())
	return nil
}
