package store

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage matches every *StorageError via errors.Is.
	ErrStorage = errors.New("storage failure")
	// ErrClosed is wrapped by operations issued after Close.
	ErrClosed = errors.New("store is closed")
	// ErrUnknownBackend is returned for unsupported backend names.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// StorageError reports a failed persistence operation.
type StorageError struct {
	Op      string
	Backend Backend
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStorage) match any StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func wrapErr(backend Backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Backend: backend, Err: err}
}
