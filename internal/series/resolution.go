// Package series aggregates raw samples into display buckets, labels and histograms.
package series

import (
	"strconv"
	"strings"
	"time"
)

// Kind is the calendar granularity of a resolution.
type Kind uint8

const (
	Minute Kind = iota + 1
	Day
	Week
	Month
	Year
)

// Ladder multipliers, in minutes per display unit.
const (
	MinutesPerDay   = 24 * 60
	MinutesPerWeek  = 7 * MinutesPerDay
	MinutesPerMonth = 30 * MinutesPerDay
	MinutesPerYear  = 12 * MinutesPerMonth
)

// Ladder lists every supported multiplier in ascending order.
var Ladder = []int{1, 5, 15, 30, 60, MinutesPerDay, MinutesPerWeek, MinutesPerMonth, MinutesPerYear}

var ladderNames = map[int]string{
	1:               "1 min",
	5:               "5 min",
	15:              "15 min",
	30:              "30 min",
	60:              "60 min",
	MinutesPerDay:   "1 day",
	MinutesPerWeek:  "1 week",
	MinutesPerMonth: "1 month",
	MinutesPerYear:  "1 year",
}

// Resolution is a validated multiplier together with its calendar kind.
type Resolution struct {
	kind    Kind
	minutes int
}

// ParseResolution validates a multiplier against the ladder.
func ParseResolution(multiplier int) (Resolution, error) {
	switch multiplier {
	case 1, 5, 15, 30, 60:
		return Resolution{kind: Minute, minutes: multiplier}, nil
	case MinutesPerDay:
		return Resolution{kind: Day, minutes: multiplier}, nil
	case MinutesPerWeek:
		return Resolution{kind: Week, minutes: multiplier}, nil
	case MinutesPerMonth:
		return Resolution{kind: Month, minutes: multiplier}, nil
	case MinutesPerYear:
		return Resolution{kind: Year, minutes: multiplier}, nil
	default:
		return Resolution{}, &ConfigurationError{Field: "multiplier", Value: multiplier}
	}
}

// MustResolution panics on an invalid multiplier. Intended for constants.
func MustResolution(multiplier int) Resolution {
	res, err := ParseResolution(multiplier)
	if err != nil {
		panic(err)
	}
	return res
}

// ParseName accepts a ladder name ("15 min", "1 week") or a bare multiplier.
func ParseName(name string) (Resolution, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	for minutes, label := range ladderNames {
		if label == normalized {
			return ParseResolution(minutes)
		}
	}
	n, err := strconv.Atoi(normalized)
	if err != nil {
		return Resolution{}, &ConfigurationError{Field: "resolution", Value: name}
	}
	return ParseResolution(n)
}

// Kind returns the calendar granularity.
func (r Resolution) Kind() Kind { return r.kind }

// Multiplier returns minutes per display unit.
func (r Resolution) Multiplier() int { return r.minutes }

// IsZero reports whether r was never set.
func (r Resolution) IsZero() bool { return r.minutes == 0 }

// String returns the ladder name.
func (r Resolution) String() string {
	if name, ok := ladderNames[r.minutes]; ok {
		return name
	}
	return "invalid"
}

// BucketWidth is base scaled by the multiplier.
func (r Resolution) BucketWidth(base time.Duration) time.Duration {
	return base * time.Duration(r.minutes)
}

// Unit is one multiplier-unit in seconds; labels closer than this are crowded.
func (r Resolution) Unit() int64 {
	return 60 * int64(r.minutes)
}

// Next returns the next coarser resolution, or r at the top of the ladder.
func (r Resolution) Next() Resolution {
	return r.step(1)
}

// Prev returns the next finer resolution, or r at the bottom of the ladder.
func (r Resolution) Prev() Resolution {
	return r.step(-1)
}

func (r Resolution) step(delta int) Resolution {
	for i, m := range Ladder {
		if m != r.minutes {
			continue
		}
		j := i + delta
		if j < 0 || j >= len(Ladder) {
			return r
		}
		return MustResolution(Ladder[j])
	}
	return r
}

// AxisRadius is the half-width of the window used to size the value axis.
func (r Resolution) AxisRadius() time.Duration {
	day := 24 * time.Hour
	switch r.kind {
	case Minute:
		return day
	case Day:
		return 14 * day
	case Week:
		return 60 * day
	case Month:
		return 360 * day
	default:
		return 3600 * day
	}
}
