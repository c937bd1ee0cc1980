package sampler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeWritten   = "written"
	outcomeDiscarded = "discarded"
	outcomeFailed    = "failed"
)

var (
	binsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typecadence_sampler_bins_closed_total",
			Help: "Measurement bins closed by the sampler, by outcome.",
		},
		[]string{"outcome"},
	)
	keystrokes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typecadence_sampler_keystrokes_total",
			Help: "Key presses seen by the sampler, by whether they were timed.",
		},
		[]string{"result"},
	)
	lastWPM = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "typecadence_sampler_last_wpm",
			Help: "WPM of the most recently written sample.",
		},
	)
)
