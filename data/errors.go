package data

import (
	"errors"
	"sync"
)

// Standard errors that sink implementations should use.
var (
	// Object errors
	ErrNotExist     = errors.New("vinyl: object does not exist")
	ErrIsDirectory  = errors.New("vinyl: is a directory")
	ErrNotDirectory = errors.New("vinyl: not a directory")
	ErrPermission   = errors.New("vinyl: permission denied")
	ErrInvalidKey   = errors.New("vinyl: invalid object key")
	ErrTooLarge     = errors.New("vinyl: object exceeds maximum size")

	// Sink lifecycle errors
	ErrSinkUnavailable = errors.New("vinyl: sink unavailable")
	ErrSinkClosed      = errors.New("vinyl: sink closed")

	// I/O errors
	ErrClosed = errors.New("vinyl: writer already closed")
)

// Errors collects multiple errors and reports them joined.
type Errors struct {
	mu     sync.RWMutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.errors)
}

func (e *Errors) Errors() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.errors) == 0 {
		return nil
	}

	return errors.Join(e.errors...)
}
