package series

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/typecadence/internal/model"
)

// AxisHeadroom scales the windowed maximum so the tallest bar stays below the top.
const AxisHeadroom = 1.25

// Reader is the read side of the sample store.
type Reader interface {
	ReadRange(ctx context.Context, start, end int64) ([]model.Sample, error)
	MaxInWindow(ctx context.Context, center, radius int64) (int, error)
}

// Aggregator re-bins stored samples for display.
type Aggregator struct {
	reader  Reader
	baseBin time.Duration
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithLocation sets the zone labels and titles are computed in.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) { a.loc = loc }
}

// WithClock overrides the wall clock used for titles.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator builds an Aggregator over reader with the sampler's base bin width.
func NewAggregator(reader Reader, baseBin time.Duration, logger *zap.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Aggregator{
		reader:  reader,
		baseBin: baseBin,
		loc:     time.Local,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Series aggregates [start, end] at res. On a store failure the returned
// series carries empty buckets and the error is returned alongside it.
func (a *Aggregator) Series(ctx context.Context, start, end int64, res Resolution) (model.Series, error) {
	if res.IsZero() {
		return model.Series{}, &ConfigurationError{Field: "multiplier", Value: 0}
	}
	width := int64(res.BucketWidth(a.baseBin) / time.Second)
	if width <= 0 {
		return model.Series{}, &ConfigurationError{Field: "bin width", Value: res.BucketWidth(a.baseBin)}
	}

	boundaries := Boundaries(start, end, width)
	out := model.Series{
		Start:      start,
		End:        end,
		BinSeconds: width,
		Multiplier: res.Multiplier(),
		Title:      Title(start, end, res, a.now(), a.loc),
	}
	if len(boundaries) < 2 {
		return out, nil
	}

	samples, readErr := a.reader.ReadRange(ctx, boundaries[0], boundaries[len(boundaries)-1])
	if readErr != nil {
		a.logger.Warn("series read failed", zap.Int64("start", start), zap.Int64("end", end), zap.Error(readErr))
		samples = nil
	}
	out.Buckets = Buckets(samples, boundaries)
	out.Labels = Labels(out.Buckets, res, a.loc)

	radius := int64(res.AxisRadius() / time.Second)
	peak, err := a.reader.MaxInWindow(ctx, TitleFocus(start, end), radius)
	if err != nil {
		a.logger.Warn("axis max query failed", zap.Error(err))
		if readErr == nil {
			readErr = err
		}
		peak = 0
	}
	out.AxisMax = float64(peak) * AxisHeadroom
	if readErr != nil {
		return out, fmt.Errorf("aggregate series: %w", readErr)
	}
	return out, nil
}

// Histogram summarizes sample values over [start, end] in width-WPM buckets.
func (a *Aggregator) Histogram(ctx context.Context, start, end int64, width int) (model.Histogram, error) {
	if width <= 0 {
		return model.Histogram{}, &ConfigurationError{Field: "bucket width", Value: width}
	}
	samples, err := a.reader.ReadRange(ctx, start, end)
	if err != nil {
		a.logger.Warn("histogram read failed", zap.Int64("start", start), zap.Int64("end", end), zap.Error(err))
		return model.Histogram{}, fmt.Errorf("histogram: %w", err)
	}
	values := make([]int, len(samples))
	for i, s := range samples {
		values[i] = s.WPM
	}
	return ComputeHistogram(values, width)
}

// Boundaries returns start, start+width, ... up to but excluding end+width.
func Boundaries(start, end, width int64) []int64 {
	if width <= 0 || end < start {
		return nil
	}
	out := make([]int64, 0, (end-start)/width+2)
	for b := start; b < end+width; b += width {
		out = append(out, b)
	}
	return out
}

// Buckets partitions samples into [b_i, b_{i+1}) for consecutive boundaries.
// Samples must be timestamp-ascending.
func Buckets(samples []model.Sample, boundaries []int64) []model.Bucket {
	if len(boundaries) < 2 {
		return nil
	}
	buckets := make([]model.Bucket, len(boundaries)-1)
	j := 0
	for i := range buckets {
		lo, hi := boundaries[i], boundaries[i+1]
		b := model.Bucket{Start: lo, End: hi, Center: float64(lo+hi) / 2}
		for j < len(samples) && samples[j].TS < lo {
			j++
		}
		sum := 0
		for j < len(samples) && samples[j].TS < hi {
			sum += samples[j].WPM
			b.Count++
			j++
		}
		if b.Count > 0 {
			b.Mean = float64(sum) / float64(b.Count)
		} else {
			b.Mean = math.NaN()
		}
		buckets[i] = b
	}
	return buckets
}

// ComputeHistogram bins values into fixed-width buckets starting at the
// minimum value. The maximum value falls into the last bucket.
func ComputeHistogram(values []int, width int) (model.Histogram, error) {
	if width <= 0 {
		return model.Histogram{}, &ConfigurationError{Field: "bucket width", Value: width}
	}
	if len(values) == 0 {
		return model.Histogram{}, ErrInsufficientData
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo == hi {
		return model.Histogram{}, ErrInsufficientData
	}

	nbins := (hi - lo + width - 1) / width
	counts := make([]int, nbins)
	for _, v := range values {
		idx := (v - lo) / width
		if idx >= nbins {
			idx = nbins - 1
		}
		counts[idx]++
	}

	total := len(values)
	bins := make([]model.HistogramBin, nbins)
	for i, c := range counts {
		bins[i] = model.HistogramBin{
			Center:  float64(lo) + (float64(i)+0.5)*float64(width),
			Count:   c,
			Percent: float64(c) / float64(total) * 100,
		}
	}
	return model.Histogram{Bins: bins, Min: lo, Max: hi, Total: total}, nil
}
