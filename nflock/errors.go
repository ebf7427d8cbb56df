package nflock

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when the underlying file system does not
// support byte-range lock queries at all.
var ErrUnsupported = errors.New("the file system does not support byte-range lock queries")

// ProbeError is an error returned when the lock state of a file cannot be
// queried.
type ProbeError struct {
	Path string
	Err  error
}

// Error returns a string describing the error.
func (e ProbeError) Error() string {
	return fmt.Sprintf("failed to probe the lock state of \"%s\": %s", e.Path, e.Err)
}

// Unwrap returns the error wrapped by e.
func (e ProbeError) Unwrap() error {
	return e.Err
}

// ReleaseError is an error returned when an unlock request itself reports an
// error, as opposed to succeeding without changing the observed lock state.
type ReleaseError struct {
	Path    string
	Attempt int
	Err     error
}

// Error returns a string describing the error.
func (e ReleaseError) Error() string {
	return fmt.Sprintf("failed to release the lock on \"%s\" (attempt %d): %s", e.Path, e.Attempt, e.Err)
}

// Unwrap returns the error wrapped by e.
func (e ReleaseError) Unwrap() error {
	return e.Err
}
