package server

import (
	"errors"
	"github.com/tabvc/tabvc/internal/address"
	"github.com/tabvc/tabvc/internal/engine"
	"github.com/tabvc/tabvc/internal/ingest"
	"github.com/tabvc/tabvc/internal/operations"
	"github.com/tabvc/tabvc/internal/storage"
	"github.com/tabvc/tabvc/internal/translator"
	"net/http"
)

var (
	ErrInvalidPayload = errors.New("invalid_payload")
	ErrMissingFile    = errors.New("missing_file")
	errInternal       = errors.New("internal_error")
)

// statuses maps every error a handler can surface to its HTTP status. Order matters: the first
// match wins.
var statuses = []struct {
	err    error
	status int
}{
	{storage.ErrSessionNotFound, http.StatusNotFound},
	{storage.ErrWorkbookNotFound, http.StatusNotFound},
	{storage.ErrCommitNotFound, http.StatusNotFound},
	{address.ErrInvalidCell, http.StatusBadRequest},
	{address.ErrInvalidRange, http.StatusBadRequest},
	{operations.ErrInvalidOperation, http.StatusBadRequest},
	{ingest.ErrUnsupportedFormat, http.StatusBadRequest},
	{engine.ErrInvalidFormat, http.StatusBadRequest},
	{translator.ErrUnavailable, http.StatusBadRequest},
	{translator.ErrFailed, http.StatusBadGateway},
	{ErrInvalidPayload, http.StatusBadRequest},
	{ErrMissingFile, http.StatusBadRequest},
}

// classify returns the status and the stable code reported as the error detail.
func classify(err error) (int, string) {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status, s.err.Error()
		}
	}
	return http.StatusInternalServerError, errInternal.Error()
}
