package sampler

import (
	"context"
	"time"
)

// EventKind distinguishes key presses from releases.
type EventKind uint8

const (
	Press EventKind = iota + 1
	Release
)

func (k EventKind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// Event is a single keyboard transition. Key carries the name of a
// non-character key ("shift", "left"); Char carries the printable glyph, or 0.
type Event struct {
	Kind EventKind
	Key  string
	Char rune
	Time time.Time
}

// EventSource emits keyboard events until ctx is done or the source fails.
type EventSource interface {
	Stream(ctx context.Context, emit func(Event) error) error
}

// EventSourceFunc adapts a function literal to the EventSource interface.
type EventSourceFunc func(ctx context.Context, emit func(Event) error) error

// Stream calls the underlying function.
func (f EventSourceFunc) Stream(ctx context.Context, emit func(Event) error) error {
	return f(ctx, emit)
}

// SliceSource replays a fixed timeline of events.
type SliceSource []Event

// Stream emits every event in order.
func (s SliceSource) Stream(ctx context.Context, emit func(Event) error) error {
	for _, ev := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(ev); err != nil {
			return err
		}
	}
	return nil
}
