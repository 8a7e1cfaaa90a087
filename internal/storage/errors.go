package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document addressed by ID does not exist.
var ErrNotFound = errors.New("document not found")

// RemoteError wraps a failure of the document store (network, driver, query).
// Services return it so callers can tell store failures apart from
// validation and credential errors.
type RemoteError struct {
	Op  string
	Err error
}

// Remote wraps err as a RemoteError for the named operation.
// Returns nil if err is nil.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Op: op, Err: err}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsRemote reports whether err is or wraps a RemoteError.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
