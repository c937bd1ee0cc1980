package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typecadence/internal/sampler"
)

type captureWriter struct {
	samples map[int64]int
}

func (c *captureWriter) Insert(_ context.Context, ts int64, wpm int) error {
	if _, ok := c.samples[ts]; !ok {
		c.samples[ts] = wpm
	}
	return nil
}

func TestWordsDrawFromList(t *testing.T) {
	g := NewSeeded(1)
	words := g.Words([]string{"alpha", "beta"}, 20, 0, 0, nil)
	require.Len(t, words, 20)
	for _, w := range words {
		assert.Contains(t, []string{"alpha", "beta"}, w)
	}
	assert.Nil(t, g.Words(nil, 5, 0, 0, nil))
}

func TestWordsApplyCapsAndPunct(t *testing.T) {
	g := NewSeeded(1)
	words := g.Words([]string{"alpha"}, 3, 1, 1, []rune{'!'})
	for _, w := range words {
		assert.Equal(t, "Alpha!", w)
	}
}

func TestPaceInterval(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, Pace{WPM: 60}.Interval())
	assert.Zero(t, Pace{}.Interval())
}

func TestKeystrokesTiming(t *testing.T) {
	start := time.Unix(1000, 0)
	events := NewSeeded(1).Keystrokes([]string{"ab", "c"}, start, Pace{WPM: 60})
	require.Len(t, events, 4)

	want := []rune{'a', 'b', ' ', 'c'}
	for i, ev := range events {
		assert.Equal(t, sampler.Press, ev.Kind)
		assert.Equal(t, want[i], ev.Char)
		assert.Equal(t, start.Add(time.Duration(i+1)*200*time.Millisecond), ev.Time)
	}
}

func TestKeystrokesWrapShiftedCharacters(t *testing.T) {
	events := NewSeeded(1).Keystrokes([]string{"!"}, time.Unix(1000, 0), Pace{WPM: 60})
	require.Len(t, events, 3)
	assert.Equal(t, sampler.Event{Kind: sampler.Press, Key: sampler.KeyShift, Time: events[0].Time}, events[0])
	assert.Equal(t, '!', events[1].Char)
	assert.Equal(t, sampler.Release, events[2].Kind)
	assert.True(t, events[0].Time.Before(events[1].Time))
	assert.True(t, events[2].Time.After(events[1].Time))
}

func TestKeystrokesThroughSamplerHitTargetWPM(t *testing.T) {
	g := NewSeeded(7)
	text := g.Words([]string{"cadence", "typing", "sample"}, 40, 0, 0, nil)
	events := g.Keystrokes(text, time.Unix(1000, 0), Pace{WPM: 60})

	w := &captureWriter{samples: map[int64]int{}}
	s, err := sampler.New(w, sampler.Options{}, nil)
	require.NoError(t, err)
	require.NoError(t, Replay{Events: events}.Stream(context.Background(), func(ev sampler.Event) error {
		s.HandleEvent(context.Background(), ev)
		return nil
	}))

	require.NotEmpty(t, w.samples)
	for ts, wpm := range w.samples {
		assert.Equal(t, 60, wpm, "sample at %d", ts)
	}
}

func TestReplayRealtimeHonoursCancel(t *testing.T) {
	events := []sampler.Event{
		{Kind: sampler.Press, Char: 'a', Time: time.Unix(0, 0)},
		{Kind: sampler.Press, Char: 'b', Time: time.Unix(3600, 0)},
	}
	ctx, cancel := context.WithCancel(context.Background())
	var got []sampler.Event
	err := Replay{Events: events, Realtime: true}.Stream(ctx, func(ev sampler.Event) error {
		got = append(got, ev)
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, got, 1)
	assert.True(t, got[0].Time.IsZero(), "realtime events are stamped by the sampler clock")
}
