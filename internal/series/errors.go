package series

import (
	"errors"
	"fmt"
)

// ErrInsufficientData reports that a range holds too few distinct values to summarize.
var ErrInsufficientData = errors.New("insufficient data")

// ErrConfiguration matches every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("invalid configuration")

// ConfigurationError rejects a resolution or width outside the supported set.
type ConfigurationError struct {
	Field string
	Value any
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
}

// Is lets errors.Is(err, ErrConfiguration) match any ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
