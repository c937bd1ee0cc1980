//go:build cgo

package keyhook

import (
	"context"
	"fmt"
	"unicode"

	hook "github.com/robotn/gohook"
	"go.uber.org/zap"

	"github.com/verte-zerg/typecadence/internal/sampler"
)

// charUndefined is the hook's placeholder for events without a glyph.
const charUndefined = 0xFFFF

// Source streams OS keyboard events into the sampler event model.
type Source struct {
	logger *zap.Logger
	names  map[uint16]string
}

// New returns a hook-backed source.
func New(logger *zap.Logger) (*Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		logger: logger.Named("keyhook"),
		names:  buildKeyNames(hook.Keycode),
	}, nil
}

// Stream registers the global hook and emits events until ctx is done. A
// closed hook channel is reported as sampler.ErrHookLost.
func (s *Source) Stream(ctx context.Context, emit func(sampler.Event) error) error {
	events := hook.Start()
	defer hook.End()
	s.logger.Info("keyboard hook registered")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return fmt.Errorf("hook event channel closed: %w", sampler.ErrHookLost)
			}
			out, ok := s.translate(ev)
			if !ok {
				continue
			}
			if err := emit(out); err != nil {
				return err
			}
		}
	}
}

func (s *Source) translate(ev hook.Event) (sampler.Event, bool) {
	switch ev.Kind {
	case hook.KeyHold:
		name, ok := s.names[ev.Keycode]
		if !ok {
			return sampler.Event{}, false
		}
		return sampler.Event{Kind: sampler.Press, Key: name, Time: ev.When}, true
	case hook.KeyDown:
		if ev.Keychar == charUndefined || !unicode.IsPrint(ev.Keychar) {
			return sampler.Event{}, false
		}
		return sampler.Event{Kind: sampler.Press, Char: ev.Keychar, Time: ev.When}, true
	case hook.KeyUp:
		name, ok := s.names[ev.Keycode]
		if !ok {
			return sampler.Event{}, false
		}
		return sampler.Event{Kind: sampler.Release, Key: name, Time: ev.When}, true
	default:
		return sampler.Event{}, false
	}
}
