// Package sampler turns keystroke timing into words-per-minute samples.
package sampler

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/typecadence/internal/model"
)

const (
	DefaultBinWidth       = 5 * time.Second
	DefaultBurstThreshold = time.Second
	DefaultMinRecordings  = 8

	// charsPerWord is the typing-test convention for one word.
	charsPerWord = 5
)

// Writer persists closed bins.
type Writer interface {
	Insert(ctx context.Context, ts int64, wpm int) error
}

// Options tunes the sampler. Zero values fall back to the defaults.
type Options struct {
	BinWidth       time.Duration
	BurstThreshold time.Duration
	MinRecordings  int
	Excluded       KeySet
	Punctuation    string
	Clock          func() time.Time
}

func (o Options) withDefaults() Options {
	if o.BinWidth == 0 {
		o.BinWidth = DefaultBinWidth
	}
	if o.BurstThreshold == 0 {
		o.BurstThreshold = DefaultBurstThreshold
	}
	if o.MinRecordings == 0 {
		o.MinRecordings = DefaultMinRecordings
	}
	if o.Excluded == nil {
		o.Excluded = DefaultExcludedKeys()
	}
	if o.Punctuation == "" {
		o.Punctuation = DefaultPunctuation
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// Validate checks option ranges after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	if o.BinWidth < time.Second {
		return ErrInvalidBinWidth
	}
	if o.BurstThreshold <= 0 {
		return ErrInvalidBurstThreshold
	}
	if o.MinRecordings < 1 {
		return ErrInvalidMinRecordings
	}
	return nil
}

// Sampler owns the measurement bin. It is not safe for concurrent use; feed it
// from a single goroutine.
type Sampler struct {
	writer Writer
	logger *zap.Logger
	opts   Options
	punct  map[rune]struct{}

	held      KeySet
	hasLast   bool
	lastKey   time.Time
	intervals []time.Duration
}

// New constructs a Sampler writing closed bins to w.
func New(w Writer, opts Options, logger *zap.Logger) (*Sampler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{
		writer: w,
		logger: logger.Named("sampler"),
		opts:   opts,
		punct:  runeSet(opts.Punctuation),
		held:   KeySet{},
	}, nil
}

// HandleEvent advances the state machine. It returns the sample written when
// the event closed a qualifying bin.
func (s *Sampler) HandleEvent(ctx context.Context, ev Event) (model.Sample, bool) {
	if ev.Time.IsZero() {
		ev.Time = s.opts.Clock()
	}
	switch ev.Kind {
	case Release:
		if ev.Key != "" {
			delete(s.held, normalizeKey(ev.Key))
		}
		return model.Sample{}, false
	case Press:
		return s.handlePress(ctx, ev)
	default:
		return model.Sample{}, false
	}
}

func (s *Sampler) handlePress(ctx context.Context, ev Event) (model.Sample, bool) {
	if ev.Key != "" && s.opts.Excluded.Has(ev.Key) {
		s.held[normalizeKey(ev.Key)] = struct{}{}
		keystrokes.WithLabelValues("modifier").Inc()
		return model.Sample{}, false
	}
	if ev.Char == 0 {
		keystrokes.WithLabelValues("ignored").Inc()
		return model.Sample{}, false
	}
	if len(s.held) > 0 {
		if _, ok := s.punct[ev.Char]; !ok {
			keystrokes.WithLabelValues("ignored").Inc()
			return model.Sample{}, false
		}
	}
	keystrokes.WithLabelValues("timed").Inc()

	now := ev.Time
	if !s.hasLast {
		s.hasLast = true
		s.lastKey = now
		return model.Sample{}, false
	}

	var (
		sample  model.Sample
		written bool
	)
	if s.binIndex(s.lastKey) != s.binIndex(now) {
		sample, written = s.closeBin(ctx)
	}
	if elapsed := now.Sub(s.lastKey); elapsed >= 0 && elapsed < s.opts.BurstThreshold {
		s.intervals = append(s.intervals, elapsed)
	}
	s.lastKey = now
	return sample, written
}

// closeBin processes and clears the current bin.
func (s *Sampler) closeBin(ctx context.Context) (model.Sample, bool) {
	intervals := s.intervals
	s.intervals = s.intervals[:0]

	if len(intervals) < s.opts.MinRecordings {
		binsClosed.WithLabelValues(outcomeDiscarded).Inc()
		s.logger.Debug("bin discarded",
			zap.Int("intervals", len(intervals)),
			zap.Int("min_recordings", s.opts.MinRecordings),
		)
		return model.Sample{}, false
	}

	sample := model.Sample{
		TS:  s.lastKey.Unix(),
		WPM: WPM(meanSeconds(intervals)),
	}
	if err := s.writer.Insert(ctx, sample.TS, sample.WPM); err != nil {
		binsClosed.WithLabelValues(outcomeFailed).Inc()
		s.logger.Error("failed to store sample; skipping bin",
			zap.Int64("ts", sample.TS),
			zap.Int("wpm", sample.WPM),
			zap.Error(err),
		)
		return model.Sample{}, false
	}
	binsClosed.WithLabelValues(outcomeWritten).Inc()
	lastWPM.Set(float64(sample.WPM))
	s.logger.Debug("sample written",
		zap.Int64("ts", sample.TS),
		zap.Int("wpm", sample.WPM),
		zap.Int("intervals", len(intervals)),
	)
	return sample, true
}

func (s *Sampler) binIndex(t time.Time) int64 {
	width := s.opts.BinWidth.Nanoseconds()
	n := t.UnixNano()
	idx := n / width
	if n%width < 0 {
		idx--
	}
	return idx
}

// WPM converts a mean inter-key interval in seconds to words per minute.
func WPM(meanInterval float64) int {
	if meanInterval <= 0 {
		return 0
	}
	return int(math.Round(60 / (meanInterval * charsPerWord)))
}

func meanSeconds(intervals []time.Duration) float64 {
	if len(intervals) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range intervals {
		sum += d
	}
	return sum.Seconds() / float64(len(intervals))
}
