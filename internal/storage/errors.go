package storage

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound  = errors.New("session_not_found")
	ErrWorkbookNotFound = errors.New("workbook_not_found")
	ErrCommitNotFound   = errors.New("commit_not_found")
)

// Error wraps a sentinel error with the identifier that was looked up.
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
