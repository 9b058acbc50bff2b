package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned for export formats other than xlsx and csv.
var ErrInvalidFormat = errors.New("invalid_format")

type Error struct {
	err     error
	context string
}

func (e *Error) Error() string {
	if e.context == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %s", e.err.Error(), e.context)
}

func (e *Error) Unwrap() error {
	return e.err
}

func newError(err error, format string, args ...interface{}) *Error {
	return &Error{
		err:     err,
		context: fmt.Sprintf(format, args...),
	}
}
