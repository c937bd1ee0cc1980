package viewport

import "time"

// Summary range defaults: a 12 hour track with the last 4 hours selected.
const (
	DefaultTrack    = 12 * time.Hour
	DefaultSelected = 4 * time.Hour
)

// RangeSlider selects a sub-range of a fixed track that ends at now.
// Positions are whole minutes from the start of the track.
type RangeSlider struct {
	track int
	start int
	end   int
}

// NewRangeSlider returns a slider over track with the trailing selected span chosen.
func NewRangeSlider(track, selected time.Duration) *RangeSlider {
	total := max(int(track/time.Minute), 1)
	sel := min(max(int(selected/time.Minute), 1), total)
	return &RangeSlider{track: total, start: total - sel, end: total}
}

// Track returns the track length in minutes.
func (r *RangeSlider) Track() int { return r.track }

// Positions returns the selected start and end in minutes.
func (r *RangeSlider) Positions() (int, int) { return r.start, r.end }

// MoveStart shifts the start handle by delta minutes, keeping it before end.
func (r *RangeSlider) MoveStart(delta int) {
	r.start = min(clamp(r.start+delta, 0, r.track), r.end-1)
}

// MoveEnd shifts the end handle by delta minutes, keeping it after start.
func (r *RangeSlider) MoveEnd(delta int) {
	r.end = max(clamp(r.end+delta, 0, r.track), r.start+1)
}

// Shift moves both handles by delta minutes without changing the width.
func (r *RangeSlider) Shift(delta int) {
	width := r.end - r.start
	start := clamp(r.start+delta, 0, r.track-width)
	r.start, r.end = start, start+width
}

// Bounds converts the selection to timestamps relative to now.
func (r *RangeSlider) Bounds(now time.Time) (int64, int64) {
	ts := now.Unix()
	return ts - int64(r.track-r.start)*60, ts - int64(r.track-r.end)*60
}

// SetRange selects [start, end] expressed as timestamps relative to now.
// Values outside the track are clamped.
func (r *RangeSlider) SetRange(now time.Time, start, end int64) error {
	if end <= start {
		return ErrInvalidRange
	}
	ts := now.Unix()
	s := clamp(r.track-int((ts-start)/60), 0, r.track-1)
	e := clamp(r.track-int((ts-end)/60), s+1, r.track)
	r.start, r.end = s, e
	return nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
