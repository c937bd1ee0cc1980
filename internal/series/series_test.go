package series

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typecadence/internal/model"
)

type memReader struct {
	centers []int64
	samples []model.Sample
	err     error
	reads   int
}

func (m *memReader) ReadRange(_ context.Context, start, end int64) ([]model.Sample, error) {
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Sample
	for _, s := range m.samples {
		if s.TS >= start && s.TS <= end {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memReader) MaxInWindow(_ context.Context, center, radius int64) (int, error) {
	m.centers = append(m.centers, center)
	if m.err != nil {
		return 0, m.err
	}
	best := -1
	for _, s := range m.samples {
		if s.TS >= center-radius && s.TS <= center+radius {
			best = max(best, s.WPM)
		}
	}
	if best < 0 {
		return 60, nil
	}
	return best, nil
}

func at(hour, minute, second int) float64 {
	return float64(time.Date(2024, time.January, 10, hour, minute, second, 0, time.UTC).Unix())
}

func TestParseResolution(t *testing.T) {
	for _, m := range Ladder {
		res, err := ParseResolution(m)
		require.NoError(t, err)
		assert.Equal(t, m, res.Multiplier())
	}

	_, err := ParseResolution(7)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "multiplier", cfgErr.Field)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestParseName(t *testing.T) {
	res, err := ParseName("15 min")
	require.NoError(t, err)
	assert.Equal(t, 15, res.Multiplier())

	res, err = ParseName(" 1  WEEK ")
	require.NoError(t, err)
	assert.Equal(t, Week, res.Kind())

	res, err = ParseName("1440")
	require.NoError(t, err)
	assert.Equal(t, Day, res.Kind())

	_, err = ParseName("fortnight")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestResolutionStepsAlongLadder(t *testing.T) {
	res := MustResolution(60)
	assert.Equal(t, MinutesPerDay, res.Next().Multiplier())
	assert.Equal(t, 30, res.Prev().Multiplier())
	assert.Equal(t, 1, MustResolution(1).Prev().Multiplier())
	assert.Equal(t, MinutesPerYear, MustResolution(MinutesPerYear).Next().Multiplier())
}

func TestBucketWidthScalesBase(t *testing.T) {
	assert.Equal(t, 75*time.Second, MustResolution(15).BucketWidth(5*time.Second))
}

func TestBoundariesIncludeTrailingEdge(t *testing.T) {
	assert.Equal(t, []int64{1000, 1005, 1010, 1015, 1020}, Boundaries(1000, 1020, 5))
	assert.Equal(t, []int64{1000, 1005, 1010, 1015, 1020}, Boundaries(1000, 1017, 5))
	assert.Nil(t, Boundaries(1020, 1000, 5))
}

func TestBucketsMeanAndEmpty(t *testing.T) {
	samples := []model.Sample{{TS: 1001, WPM: 60}, {TS: 1003, WPM: 80}, {TS: 1012, WPM: 50}, {TS: 1020, WPM: 99}}
	buckets := Buckets(samples, Boundaries(1000, 1020, 5))
	require.Len(t, buckets, 4)

	assert.Equal(t, 2, buckets[0].Count)
	assert.InDelta(t, 70.0, buckets[0].Mean, 1e-9)
	assert.InDelta(t, 1002.5, buckets[0].Center, 1e-9)

	assert.False(t, buckets[1].HasValue())
	assert.True(t, math.IsNaN(buckets[1].Mean), "empty bucket must not read as zero")

	assert.InDelta(t, 50.0, buckets[2].Mean, 1e-9)
	assert.False(t, buckets[3].HasValue(), "sample on the trailing edge is outside every bucket")
}

func TestLabelsDeduplicateByCalendarKey(t *testing.T) {
	buckets := []model.Bucket{{Center: at(5, 10, 0)}, {Center: at(5, 12, 0)}}
	labels := Labels(buckets, MustResolution(15), time.UTC)
	require.Len(t, labels, 1)
	assert.Equal(t, "05:10", labels[0].Text)
}

func TestLabelsSuppressCrowdedFirstLabel(t *testing.T) {
	buckets := []model.Bucket{{Center: at(5, 0, 50)}, {Center: at(5, 1, 10)}, {Center: at(5, 2, 10)}}
	labels := Labels(buckets, MustResolution(1), time.UTC)
	require.Len(t, labels, 2)
	assert.Equal(t, "05:01", labels[0].Text)
	assert.Equal(t, "05:02", labels[1].Text)
}

func TestLabelsPerResolution(t *testing.T) {
	center := []model.Bucket{{Center: at(12, 0, 0)}}
	cases := []struct {
		multiplier int
		want       string
	}{
		{MinutesPerDay, "Wed 10"},
		{MinutesPerWeek, "01.08"},
		{MinutesPerMonth, "Jan"},
		{MinutesPerYear, "2024"},
	}
	for _, tc := range cases {
		labels := Labels(center, MustResolution(tc.multiplier), time.UTC)
		require.Len(t, labels, 1)
		assert.Equal(t, tc.want, labels[0].Text, "multiplier %d", tc.multiplier)
	}
}

func TestTitle(t *testing.T) {
	now := time.Date(2024, time.January, 10, 18, 0, 0, 0, time.UTC)
	start, end := int64(at(9, 0, 0)), int64(at(10, 0, 0))

	assert.Equal(t, "today", Title(start, end, MustResolution(5), now, time.UTC))
	assert.Equal(t, "10 Jan 2024", Title(start, end, MustResolution(5), now.AddDate(0, 0, 1), time.UTC))
	assert.Equal(t, "Jan 2024", Title(start, end, MustResolution(MinutesPerWeek), now, time.UTC))
	assert.Equal(t, "2024", Title(start, end, MustResolution(MinutesPerMonth), now, time.UTC))
	assert.Empty(t, Title(start, end, MustResolution(MinutesPerYear), now, time.UTC))
}

func TestAggregatorSeries(t *testing.T) {
	reader := &memReader{samples: []model.Sample{{TS: 1001, WPM: 60}, {TS: 1003, WPM: 80}, {TS: 1012, WPM: 50}}}
	agg := NewAggregator(reader, 5*time.Second, nil, WithLocation(time.UTC))

	got, err := agg.Series(context.Background(), 1000, 1020, MustResolution(1))
	require.NoError(t, err)
	assert.Equal(t, 1, reader.reads, "one range read for the whole span")
	assert.Equal(t, int64(5), got.BinSeconds)
	require.Len(t, got.Buckets, 4)
	assert.InDelta(t, 80*AxisHeadroom, got.AxisMax, 1e-9)
}

func TestAggregatorAxisMaxCentersOnTitleFocus(t *testing.T) {
	// The window [0, 1000] looks up its peak around (2*0 + 3*1000)/5.
	reader := &memReader{samples: []model.Sample{{TS: 600, WPM: 90}, {TS: 500, WPM: 70}}}
	agg := NewAggregator(reader, 5*time.Second, nil, WithLocation(time.UTC))

	_, err := agg.Series(context.Background(), 0, 1000, MustResolution(1))
	require.NoError(t, err)
	require.Len(t, reader.centers, 1)
	assert.Equal(t, int64(600), reader.centers[0])
	assert.Equal(t, int64(600), TitleFocus(0, 1000))
}

func TestAggregatorSeriesStoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	agg := NewAggregator(&memReader{err: boom}, 5*time.Second, nil)

	got, err := agg.Series(context.Background(), 1000, 1020, MustResolution(1))
	require.ErrorIs(t, err, boom)
	require.Len(t, got.Buckets, 4)
	for _, b := range got.Buckets {
		assert.False(t, b.HasValue())
	}
}

func TestAggregatorRejectsUnsetResolution(t *testing.T) {
	agg := NewAggregator(&memReader{}, 5*time.Second, nil)
	_, err := agg.Series(context.Background(), 0, 10, Resolution{})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestComputeHistogram(t *testing.T) {
	hist, err := ComputeHistogram([]int{50, 52, 55, 60}, 5)
	require.NoError(t, err)
	assert.Equal(t, 50, hist.Min)
	assert.Equal(t, 60, hist.Max)
	require.Len(t, hist.Bins, 2)

	assert.InDelta(t, 52.5, hist.Bins[0].Center, 1e-9)
	assert.Equal(t, 2, hist.Bins[0].Count)
	assert.InDelta(t, 50.0, hist.Bins[0].Percent, 1e-9)
	assert.InDelta(t, 57.5, hist.Bins[1].Center, 1e-9)
	assert.Equal(t, 2, hist.Bins[1].Count, "maximum lands in the last bucket")

	total := 0.0
	for _, b := range hist.Bins {
		total += b.Percent
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestComputeHistogramInsufficientData(t *testing.T) {
	_, err := ComputeHistogram(nil, 5)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = ComputeHistogram([]int{70, 70, 70}, 5)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = ComputeHistogram([]int{70, 80}, 0)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAggregatorHistogram(t *testing.T) {
	reader := &memReader{samples: []model.Sample{{TS: 10, WPM: 40}, {TS: 20, WPM: 60}, {TS: 30, WPM: 90}}}
	agg := NewAggregator(reader, 5*time.Second, nil)

	hist, err := agg.Histogram(context.Background(), 0, 25, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, hist.Total)
	assert.Equal(t, 40, hist.Min)
	assert.Equal(t, 60, hist.Max)
}
