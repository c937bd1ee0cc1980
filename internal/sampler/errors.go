package sampler

import "errors"

var (
	// ErrHookLost is returned when the keyboard source stops unexpectedly. It is fatal.
	ErrHookLost = errors.New("keyboard input hook lost")
	// ErrStopped is returned by Run after Shutdown.
	ErrStopped = errors.New("recorder is stopped")

	ErrInvalidBinWidth       = errors.New("bin width must be at least one second")
	ErrInvalidBurstThreshold = errors.New("burst threshold must be positive")
	ErrInvalidMinRecordings  = errors.New("minimum recordings must be at least 1")
)
