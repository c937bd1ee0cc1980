//go:build !cgo

package keyhook

import (
	"context"

	"go.uber.org/zap"

	"github.com/verte-zerg/typecadence/internal/sampler"
)

// Source is a placeholder in builds without cgo.
type Source struct{}

// New reports that no OS hook is compiled in.
func New(_ *zap.Logger) (*Source, error) {
	return nil, ErrUnavailable
}

// Stream always fails with ErrUnavailable.
func (s *Source) Stream(context.Context, func(sampler.Event) error) error {
	return ErrUnavailable
}
