// Package model defines shared data structures.
package model

import "time"

// Sample is one persisted cadence estimate. TS is seconds since the epoch.
type Sample struct {
	TS  int64
	WPM int
}

// Time returns the sample timestamp as a local time.
func (s Sample) Time() time.Time {
	return time.Unix(s.TS, 0)
}

// Bucket is one display-resolution aggregation unit over [Start, End).
type Bucket struct {
	Start  int64
	End    int64
	Center float64
	// Mean is NaN when Count is zero.
	Mean  float64
	Count int
}

// HasValue reports whether the bucket contains any samples.
func (b Bucket) HasValue() bool {
	return b.Count > 0
}

// Label is an axis label placed at a bucket center.
type Label struct {
	Pos  float64
	Text string
}

// Series is an aggregated window ready for rendering.
type Series struct {
	Start      int64
	End        int64
	BinSeconds int64
	Multiplier int
	Buckets    []Bucket
	Labels     []Label
	Title      string
	AxisMax    float64
}

// HistogramBin is one fixed-width WPM bucket of a distribution.
type HistogramBin struct {
	Center  float64
	Count   int
	Percent float64
}

// Histogram summarizes the WPM distribution over a time range.
type Histogram struct {
	Bins  []HistogramBin
	Min   int
	Max   int
	Total int
}
