package series

import (
	"math"
	"strconv"
	"time"

	"github.com/verte-zerg/typecadence/internal/model"
)

type labelKey struct {
	year   int
	month  time.Month
	day    int
	hour   int
	minute int
}

// keyAndText returns the calendar key of t and the label it produces.
func (r Resolution) keyAndText(t time.Time) (labelKey, string) {
	switch r.kind {
	case Minute:
		bucketMinute := (t.Minute() / r.minutes) * r.minutes
		return labelKey{year: t.Year(), month: t.Month(), day: t.Day(), hour: t.Hour(), minute: bucketMinute},
			t.Format("15:04")
	case Day:
		return labelKey{year: t.Year(), month: t.Month(), day: t.Day()}, t.Format("Mon 02")
	case Week:
		offset := (int(t.Weekday()) + 6) % 7
		monday := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
		return labelKey{year: monday.Year(), month: monday.Month(), day: monday.Day()}, monday.Format("01.02")
	case Month:
		return labelKey{year: t.Year(), month: t.Month(), day: 1}, t.Format("Jan")
	default:
		return labelKey{year: t.Year()}, strconv.Itoa(t.Year())
	}
}

// Labels places one label per calendar key at the first bucket center that
// falls into it. When the first two labels are closer than one multiplier-unit
// the first one is dropped.
func Labels(buckets []model.Bucket, res Resolution, loc *time.Location) []model.Label {
	if loc == nil {
		loc = time.Local
	}
	seen := make(map[labelKey]struct{}, len(buckets))
	labels := make([]model.Label, 0, len(buckets))
	for _, b := range buckets {
		sec, frac := math.Modf(b.Center)
		t := time.Unix(int64(sec), int64(frac*1e9)).In(loc)
		key, text := res.keyAndText(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		labels = append(labels, model.Label{Pos: b.Center, Text: text})
	}
	if len(labels) > 1 && labels[1].Pos-labels[0].Pos < float64(res.Unit()) {
		labels = labels[1:]
	}
	return labels
}

// Title names the displayed window, evaluated at a point 3/5 of the way
// through [start, end].
func Title(start, end int64, res Resolution, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	focus := time.Unix(TitleFocus(start, end), 0).In(loc)
	switch res.kind {
	case Minute:
		today := now.In(loc)
		if focus.Year() == today.Year() && focus.YearDay() == today.YearDay() {
			return "today"
		}
		return focus.Format("02 Jan 2006")
	case Day, Week:
		return focus.Format("Jan 2006")
	case Month:
		return focus.Format("2006")
	default:
		return ""
	}
}

// TitleFocus returns the timestamp Title is evaluated at.
func TitleFocus(start, end int64) int64 {
	return (start*2 + end*3) / 5
}
