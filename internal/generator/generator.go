// Package generator synthesizes typing text and keystroke timelines.
package generator

import (
	"context"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/typecadence/internal/sampler"
)

// Generator produces randomized typing text and keystroke timing.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Words selects count words uniformly, capitalizing and suffixing punctuation
// with the given probabilities.
func (g *Generator) Words(words []string, count int, capsPct, punctPct float64, punctSet []rune) []string {
	if len(words) == 0 {
		return nil
	}
	result := make([]string, 0, count)
	for range count {
		word := words[g.rnd.Intn(len(words))]
		word = applyCaps(g.rnd, word, capsPct)
		word = applyPunct(g.rnd, word, punctPct, punctSet)
		result = append(result, word)
	}
	return result
}

// Pace controls keystroke timing.
type Pace struct {
	// WPM is the target cadence under the 5 characters per word convention.
	WPM float64
	// Jitter is the relative spread applied to each interval, in [0, 1).
	Jitter float64
	// PausePct is the chance of a long pause after a word.
	PausePct float64
	// Pause is the length of such a pause.
	Pause time.Duration
}

// Interval returns the mean gap between keystrokes for p.WPM.
func (p Pace) Interval() time.Duration {
	if p.WPM <= 0 {
		return 0
	}
	return time.Duration(float64(time.Minute) / (p.WPM * 5))
}

// Keystrokes turns text into a press/release timeline starting at start.
// Words are joined by spaces. Shifted characters are wrapped in a shift
// press and release.
func (g *Generator) Keystrokes(text []string, start time.Time, pace Pace) []sampler.Event {
	base := pace.Interval()
	if base <= 0 || len(text) == 0 {
		return nil
	}
	punct := make(map[rune]struct{}, len(sampler.DefaultPunctuation))
	for _, r := range sampler.DefaultPunctuation {
		punct[r] = struct{}{}
	}

	events := make([]sampler.Event, 0, len(text)*8)
	at := start
	for i, word := range text {
		if i > 0 {
			at = at.Add(g.jitter(base, pace.Jitter))
			events = append(events, sampler.Event{Kind: sampler.Press, Char: ' ', Time: at})
		}
		for _, r := range word {
			at = at.Add(g.jitter(base, pace.Jitter))
			_, shifted := punct[r]
			if shifted || unicode.IsUpper(r) {
				events = append(events,
					sampler.Event{Kind: sampler.Press, Key: sampler.KeyShift, Time: at.Add(-base / 4)},
					sampler.Event{Kind: sampler.Press, Char: r, Time: at},
					sampler.Event{Kind: sampler.Release, Key: sampler.KeyShift, Time: at.Add(base / 4)},
				)
				continue
			}
			events = append(events, sampler.Event{Kind: sampler.Press, Char: r, Time: at})
		}
		if pace.PausePct > 0 && g.rnd.Float64() < pace.PausePct {
			at = at.Add(pace.Pause)
		}
	}
	return events
}

func (g *Generator) jitter(base time.Duration, spread float64) time.Duration {
	if spread <= 0 {
		return base
	}
	factor := 1 + (g.rnd.Float64()*2-1)*spread
	return time.Duration(float64(base) * factor)
}

// Replay streams events, sleeping between them when realtime is set.
type Replay struct {
	Events   []sampler.Event
	Realtime bool
}

// Stream implements sampler.EventSource.
func (r Replay) Stream(ctx context.Context, emit func(sampler.Event) error) error {
	if !r.Realtime {
		return sampler.SliceSource(r.Events).Stream(ctx, emit)
	}
	if len(r.Events) == 0 {
		return nil
	}
	origin := r.Events[0].Time
	began := time.Now()
	for _, ev := range r.Events {
		wait := time.Until(began.Add(ev.Time.Sub(origin)))
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		ev.Time = time.Time{}
		if err := emit(ev); err != nil {
			return err
		}
	}
	return nil
}

// SplitPunct parses a punctuation set from a config string.
func SplitPunct(s string) []rune {
	return []rune(strings.TrimSpace(s))
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() > punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}
