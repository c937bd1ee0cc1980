package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// State is UI state remembered between sessions.
type State struct {
	Multiplier int `toml:"multiplier"`
}

// LoadState reads the state file. A missing file yields the zero State.
func LoadState(path string) (State, error) {
	var st State
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("%w: %w", ErrReadingState, err)
	}
	if _, err := toml.DecodeFile(path, &st); err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrReadingState, err)
	}
	return st, nil
}

// SaveState writes st atomically next to path.
func SaveState(path string, st State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWritingState, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".state-*.toml")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingState, err)
	}
	if err := toml.NewEncoder(tmp).Encode(st); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrWritingState, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrWritingState, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrWritingState, err)
	}
	return nil
}
