package grpc

import (
	"context"
	"errors"
	"github.com/rs/zerolog/log"
	"github.com/tabvc/tabvc/internal/address"
	"github.com/tabvc/tabvc/internal/engine"
	"github.com/tabvc/tabvc/internal/operations"
	"github.com/tabvc/tabvc/internal/storage"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"time"
)

type workbookService struct {
	workbooks workbooks
}

func validateTarget(sessionID, filename string) []error {
	var errGrp []error
	if sessionID == "" {
		errGrp = append(errGrp, errors.New("session_id required"))
	}
	if filename == "" {
		errGrp = append(errGrp, errors.New("filename required"))
	}
	return errGrp
}

// invalid reports every validation problem as a single InvalidArgument status.
func invalid(errGrp []error) error {
	if err := errors.Join(errGrp...); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func (w *workbookService) Apply(ctx context.Context, msg *ApplyRequest) (*engine.ApplyResult,
	error) {
	start := time.Now()
	if err := invalid(validateTarget(msg.SessionID, msg.Filename)); err != nil {
		return nil, err
	}

	var ops []operations.Operation
	if len(msg.Operations) > 0 {
		var err error
		if ops, err = operations.DecodeList(msg.Operations); err != nil {
			return nil, toStatus(err)
		}
	}

	res, err := w.workbooks.ApplyOperations(msg.SessionID, msg.Filename, msg.Message, ops)
	if err != nil {
		return nil, toStatus(err)
	}
	log.Debug().Msgf("Apply latency: %v", time.Since(start))
	return res, nil
}

func (w *workbookService) History(ctx context.Context, msg *HistoryRequest) (*HistoryResponse,
	error) {
	if err := invalid(validateTarget(msg.SessionID, msg.Filename)); err != nil {
		return nil, err
	}

	commits, err := w.workbooks.History(msg.SessionID, msg.Filename)
	if err != nil {
		return nil, toStatus(err)
	}
	return &HistoryResponse{Commits: commits}, nil
}

func (w *workbookService) Rollback(ctx context.Context, msg *RollbackRequest) (*RollbackResponse,
	error) {
	errGrp := validateTarget(msg.SessionID, msg.Filename)
	if msg.CommitID == "" {
		errGrp = append(errGrp, errors.New("commit_id required"))
	}
	if err := invalid(errGrp); err != nil {
		return nil, err
	}

	c, err := w.workbooks.Rollback(msg.SessionID, msg.Filename, msg.CommitID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &RollbackResponse{Commit: *c}, nil
}

// toStatus converts a domain error to a gRPC status carrying the error text.
func toStatus(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, storage.ErrSessionNotFound),
		errors.Is(err, storage.ErrWorkbookNotFound),
		errors.Is(err, storage.ErrCommitNotFound):
		code = codes.NotFound
	case errors.Is(err, address.ErrInvalidCell),
		errors.Is(err, address.ErrInvalidRange),
		errors.Is(err, operations.ErrInvalidOperation):
		code = codes.InvalidArgument
	}
	return status.Error(code, err.Error())
}
