package sampler

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Recorder connects an EventSource to a Sampler and owns shutdown of the
// source and the store.
type Recorder struct {
	source  EventSource
	sampler *Sampler
	closer  io.Closer
	logger  *zap.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	stopped  bool
	stopping atomic.Bool

	stopOnce    sync.Once
	shutdownErr error
}

// NewRecorder wires source into s. closer, typically the store, is closed by Shutdown.
func NewRecorder(source EventSource, s *Sampler, closer io.Closer, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		source:  source,
		sampler: s,
		closer:  closer,
		logger:  logger.Named("recorder"),
	}
}

// Run blocks while events are streamed into the sampler. It returns nil after
// Shutdown or context cancellation, ErrHookLost when the source dies, and the
// source error otherwise.
func (r *Recorder) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ErrStopped
	}
	if r.done != nil {
		r.mu.Unlock()
		return errors.New("recorder is already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	defer close(done)
	defer cancel()

	// Writes already in flight finish even when shutdown cancels ctx.
	writeCtx := context.WithoutCancel(ctx)
	r.logger.Info("recording started")
	err := r.source.Stream(ctx, func(ev Event) error {
		if r.stopping.Load() {
			return context.Canceled
		}
		r.sampler.HandleEvent(writeCtx, ev)
		return nil
	})

	switch {
	case r.stopping.Load(), errors.Is(err, context.Canceled) && ctx.Err() != nil:
		r.logger.Info("recording stopped")
		return nil
	case errors.Is(err, ErrHookLost):
		r.logger.Error("keyboard hook lost", zap.Error(err))
		return err
	case err != nil:
		r.logger.Error("event source failed", zap.Error(err))
		return err
	default:
		r.logger.Info("event source finished")
		return nil
	}
}

// Shutdown stops accepting events, waits for the source to release the input
// hook, and closes the store. Repeated calls return the first result.
func (r *Recorder) Shutdown() error {
	r.stopOnce.Do(func() {
		r.stopping.Store(true)
		r.mu.Lock()
		r.stopped = true
		cancel, done := r.cancel, r.done
		r.mu.Unlock()

		if cancel != nil {
			cancel()
			<-done
		}
		if r.closer != nil {
			if err := r.closer.Close(); err != nil {
				r.logger.Error("failed to close store", zap.Error(err))
				r.shutdownErr = err
			}
		}
		r.logger.Info("recorder shut down")
	})
	return r.shutdownErr
}
