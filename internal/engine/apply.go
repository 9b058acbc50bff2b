package engine

import (
	"context"
	"github.com/rs/zerolog/log"
	"github.com/tabvc/tabvc/internal/metrics"
	"github.com/tabvc/tabvc/internal/operations"
	"github.com/tabvc/tabvc/internal/sheet"
	"github.com/tabvc/tabvc/internal/storage"
	"github.com/tabvc/tabvc/internal/translator"
	"time"
)

const defaultBatchMessage = "batch"

// ApplyOperations runs ops against the live workbook and commits the result. When an operation
// fails the error is returned and nothing is committed, but the operations before it stay applied.
func (e *Engine) ApplyOperations(sessionID, filename, message string,
	ops []operations.Operation) (*ApplyResult, error) {
	var out *ApplyResult
	err := e.store.WithWorkbook(sessionID, filename, func(wb *storage.Workbook) error {
		res, err := e.apply(sessionID, wb, ops)
		if err != nil {
			return err
		}

		c := e.store.Commit(wb, message, res.Changed)
		e.committed(sessionID, filename, c, metrics.ReasonApply)
		out = &ApplyResult{
			Commit:   summarize(c),
			Analysis: res.Analysis,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Analysis == nil {
		out.Analysis = []operations.Analysis{}
	}
	return out, nil
}

// apply runs one batch and records its outcome. Callers hold the workbook.
func (e *Engine) apply(sessionID string, wb *storage.Workbook,
	ops []operations.Operation) (*operations.Result, error) {
	start := time.Now()
	res, err := operations.Apply(wb.Tables, ops, &wb.Rules)
	took := time.Since(start)

	if err != nil {
		e.metrics.BatchFinished(metrics.OutcomeFailed, took)
		log.Error().Err(err).Str("session", sessionID).Str("workbook", wb.Filename).
			Int("operations", len(ops)).Strs("changed", res.Changed).Msg("batch failed")
		return nil, err
	}

	for _, op := range ops {
		e.metrics.OperationApplied(string(op.Kind()))
	}
	outcome := metrics.OutcomeCommitted
	if res.Aborted {
		outcome = metrics.OutcomeAborted
	}
	e.metrics.BatchFinished(outcome, took)

	log.Info().Str("session", sessionID).Str("workbook", wb.Filename).Int("operations", len(ops)).
		Strs("changed", res.Changed).Bool("aborted", res.Aborted).Dur("took", took).
		Msg("batch applied")
	return res, nil
}

// History lists the workbook's commits oldest first.
func (e *Engine) History(sessionID, filename string) ([]CommitSummary, error) {
	var out []CommitSummary
	err := e.store.WithWorkbook(sessionID, filename, func(wb *storage.Workbook) error {
		commits := e.store.History(wb)
		out = make([]CommitSummary, 0, len(commits))
		for _, c := range commits {
			out = append(out, summarize(c))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Rollback restores the workbook to commitID and returns the commit recording the restore.
func (e *Engine) Rollback(sessionID, filename, commitID string) (*CommitSummary, error) {
	var out CommitSummary
	err := e.store.WithWorkbook(sessionID, filename, func(wb *storage.Workbook) error {
		c, err := e.store.Rollback(wb, commitID)
		if err != nil {
			return err
		}
		e.committed(sessionID, filename, c, metrics.ReasonRollback)
		out = summarize(c)

		log.Info().Str("session", sessionID).Str("workbook", filename).Str("target", commitID).
			Str("commit", c.ID).Msg("workbook rolled back")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Batch uploads every file, applies the same operations to each and commits. Processing stops at
// the first failing file; files handled before it keep their commits.
func (e *Engine) Batch(sessionID, message string, ops []operations.Operation,
	files []File) ([]BatchResult, error) {
	if _, err := e.store.GetSession(sessionID); err != nil {
		return nil, err
	}
	if message == "" {
		message = defaultBatchMessage
	}

	out := make([]BatchResult, 0, len(files))
	for _, f := range files {
		if _, err := e.UploadWorkbook(sessionID, f.Filename, f.Data); err != nil {
			return nil, newError(err, "file %s", f.Filename)
		}

		var result BatchResult
		err := e.store.WithWorkbook(sessionID, f.Filename, func(wb *storage.Workbook) error {
			res, err := e.apply(sessionID, wb, ops)
			if err != nil {
				return err
			}
			c := e.store.Commit(wb, message, res.Changed)
			e.committed(sessionID, f.Filename, c, metrics.ReasonBatch)
			result = BatchResult{
				Filename:      f.Filename,
				CommitID:      c.ID,
				ChangedSheets: c.ChangedSheets,
			}
			return nil
		})
		if err != nil {
			return nil, newError(err, "file %s", f.Filename)
		}
		out = append(out, result)
	}
	return out, nil
}

// Parse asks the translator to turn text into operations. defaultSheet is used for operations
// that name no sheet.
func (e *Engine) Parse(ctx context.Context, text, defaultSheet string) (*translator.Result,
	error) {
	if e.translator == nil {
		return nil, translator.ErrUnavailable
	}
	if defaultSheet == "" {
		defaultSheet = sheet.DefaultSheetName
	}
	return e.translator.Translate(ctx, text, defaultSheet)
}
