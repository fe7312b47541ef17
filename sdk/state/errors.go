package state

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed client
var ErrClosed = errors.New("client closed")

// ValidationError is a local, pre-network rejection. It never reaches the
// server.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// FetchError wraps a gateway failure during a user-visible operation. The
// local state it would have replaced is left untouched.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
