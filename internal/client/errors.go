package client

import (
	"errors"
	"fmt"
)

// ErrTransport matches every failure returned by Client. Callers do not
// distinguish network, validation, or server failures.
var ErrTransport = errors.New("transport failure")

// Error describes a failed call. StatusCode is zero when no response arrived.
type Error struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against ErrTransport.
func (e *Error) Is(target error) bool {
	return target == ErrTransport
}
