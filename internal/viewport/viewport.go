// Package viewport tracks the time window shown by the monitor.
package viewport

import (
	"errors"
	"sync"
	"time"

	"github.com/verte-zerg/typecadence/internal/series"
)

// DefaultSecondsPerCell is how many seconds one plot cell covers at the
// 1-minute resolution. A cell never covers less than one base bin.
const DefaultSecondsPerCell = 5.0

// ErrInvalidRange reports an empty or inverted window.
var ErrInvalidRange = errors.New("invalid range")

// Window is a resolved time span ready for aggregation.
type Window struct {
	Start      int64
	End        int64
	Resolution series.Resolution
	FollowNow  bool
}

// Controller holds the anchor, span and resolution of the displayed window.
// It is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	now            func() time.Time
	base           int64
	secondsPerCell float64

	res       series.Resolution
	bin       int64
	width     int
	span      int64
	anchorEnd int64
	followNow bool
	// explicit is set by SetRange; the window then keeps its exact bounds.
	explicit bool
}

// Option customizes a Controller.
type Option func(*Controller)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithSecondsPerCell sets the zoom level at the 1-minute resolution.
func WithSecondsPerCell(spc float64) Option {
	return func(c *Controller) {
		if spc > 0 {
			c.secondsPerCell = spc
		}
	}
}

// New returns a controller following now at res, sized for width cells.
func New(base time.Duration, res series.Resolution, width int, opts ...Option) (*Controller, error) {
	if res.IsZero() {
		return nil, &series.ConfigurationError{Field: "multiplier", Value: 0}
	}
	baseSec := int64(base / time.Second)
	if baseSec <= 0 {
		return nil, &series.ConfigurationError{Field: "bin width", Value: base}
	}
	c := &Controller{
		now:            time.Now,
		base:           baseSec,
		secondsPerCell: DefaultSecondsPerCell,
		res:            res,
		bin:            baseSec * int64(res.Multiplier()),
		followNow:      true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.width = max(width, 1)
	c.span = c.spanFor(c.width)
	c.anchorEnd = c.now().Unix() + c.bin
	return c, nil
}

func (c *Controller) spanFor(width int) int64 {
	perCell := max(c.secondsPerCell, float64(c.base))
	span := int64(float64(max(width, 1)) * perCell * float64(c.res.Multiplier()))
	return max(span, c.bin)
}

// Tick advances the anchor to now plus one bin when following now.
// It reports whether the window should be re-queried.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.followNow {
		return false
	}
	c.anchorEnd = c.now().Unix() + c.bin
	return true
}

// Pan freezes the window and moves it by delta multiplier-units.
// Negative deltas move back in time.
func (c *Controller) Pan(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.followNow = false
	c.anchorEnd += int64(delta) * int64(c.res.Multiplier())
}

// Reset resumes following now.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.followNow = true
	if c.explicit {
		c.explicit = false
		c.span = c.spanFor(c.width)
	}
	c.anchorEnd = c.now().Unix() + c.bin
}

// SetMultiplier validates m and rescales the span and bin width by new/old.
func (c *Controller) SetMultiplier(m int) error {
	res, err := series.ParseResolution(m)
	if err != nil {
		return err
	}
	c.SetResolution(res)
	return nil
}

// SetResolution rescales the span and bin width to res.
func (c *Controller) SetResolution(res series.Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, next := int64(c.res.Multiplier()), int64(res.Multiplier())
	c.span = c.span / old * next
	c.bin = c.bin / old * next
	c.res = res
}

// SetRange freezes the window on exactly [start, end]. The bounds are not
// snapped to bucket boundaries until Reset.
func (c *Controller) SetRange(start, end int64) error {
	if end <= start {
		return ErrInvalidRange
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.followNow = false
	c.explicit = true
	c.anchorEnd = end
	c.span = end - start
	return nil
}

// SetWidth resizes the span to width cells at the current resolution. An
// explicit range keeps its span.
func (c *Controller) SetWidth(width int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = max(width, 1)
	if !c.explicit {
		c.span = c.spanFor(c.width)
	}
}

// Resolution returns the current resolution.
func (c *Controller) Resolution() series.Resolution {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.res
}

// BinSeconds returns the current bucket width in seconds.
func (c *Controller) BinSeconds() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bin
}

// Span returns the current window length in seconds.
func (c *Controller) Span() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.span
}

// Following reports whether the window tracks now.
func (c *Controller) Following() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.followNow
}

// Window aligns the anchor down to a bin boundary and returns the span ending
// there. An explicit range is returned as set.
func (c *Controller) Window() Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	end := c.anchorEnd
	if !c.explicit {
		end = floorDiv(end, c.bin) * c.bin
	}
	return Window{
		Start:      end - c.span,
		End:        end,
		Resolution: c.res,
		FollowNow:  c.followNow,
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
