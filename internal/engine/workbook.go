package engine

import (
	"github.com/rs/zerolog/log"
	"github.com/tabvc/tabvc/internal/cdc_emitter"
	"github.com/tabvc/tabvc/internal/export"
	"github.com/tabvc/tabvc/internal/ingest"
	"github.com/tabvc/tabvc/internal/metrics"
	"github.com/tabvc/tabvc/internal/sheet"
	"github.com/tabvc/tabvc/internal/storage"
	"path/filepath"
	"strings"
)

const (
	defaultEmptyFilename = "blank.xlsx"

	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

func (e *Engine) CreateSession(name string) Session {
	s := e.store.CreateSession(name)
	return Session{ID: s.ID, Name: s.Name}
}

// CreateEmptyWorkbook attaches a workbook holding one empty sheet.
func (e *Engine) CreateEmptyWorkbook(sessionID, filename, sheetName string) (*WorkbookInfo, error) {
	if filename == "" {
		filename = defaultEmptyFilename
	}
	if sheetName == "" {
		sheetName = sheet.DefaultSheetName
	}
	return e.attach(sessionID, filename, ingest.CreateEmpty(sheetName))
}

// UploadWorkbook parses data according to filename and attaches the result. A workbook with the
// same filename is replaced and starts a fresh history.
func (e *Engine) UploadWorkbook(sessionID, filename string, data []byte) (*WorkbookInfo, error) {
	if _, err := e.store.GetSession(sessionID); err != nil {
		return nil, err
	}
	tables, err := ingest.Load(data, filename)
	if err != nil {
		return nil, err
	}
	return e.attach(sessionID, filename, tables)
}

func (e *Engine) attach(sessionID, filename string, tables *sheet.TableSet) (*WorkbookInfo, error) {
	_, c, err := e.store.Attach(sessionID, filename, tables)
	if err != nil {
		return nil, err
	}
	e.committed(sessionID, filename, c, metrics.ReasonInit)
	e.metrics.SetWorkbooks(e.store.WorkbookCount())

	log.Info().Str("session", sessionID).Str("workbook", filename).
		Strs("sheets", tables.Names()).Msg("workbook attached")
	return &WorkbookInfo{Filename: filename, Sheets: tables.Names()}, nil
}

// Preview returns up to limit rows of a sheet. An empty sheet name selects the first sheet and a
// sheet that does not exist yields an empty preview.
func (e *Engine) Preview(sessionID, filename, sheetName string, limit int) (*Preview, error) {
	if limit <= 0 {
		limit = e.previewLimit
	}
	if limit > e.maxPreview {
		limit = e.maxPreview
	}

	var out *Preview
	err := e.store.WithWorkbook(sessionID, filename, func(wb *storage.Workbook) error {
		if sheetName == "" {
			sheetName = wb.Tables.Default()
		}
		out = &Preview{
			Sheet:   sheetName,
			Columns: []string{},
			Rows:    []map[string]any{},
			Rules:   []sheet.FormatRule{},
		}
		for _, r := range wb.Rules {
			if r.Kind == sheet.LessThanHighlight && r.Sheet == sheetName {
				out.Rules = append(out.Rules, r)
			}
		}

		t, ok := wb.Tables.Get(sheetName)
		if !ok {
			return nil
		}
		out.Columns = t.Columns()
		out.RowCount = t.Len()
		out.ColCount = t.Width()
		for i := 0; i < t.Len() && i < limit; i++ {
			row := make(map[string]any, len(out.Columns))
			for j, v := range t.Row(i) {
				row[out.Columns[j]] = v
			}
			out.Rows = append(out.Rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Export renders the workbook's current state. csv carries only the first sheet.
func (e *Engine) Export(sessionID, filename, format string) (*Export, error) {
	format = strings.ToLower(format)
	if format != FormatXLSX && format != FormatCSV {
		return nil, newError(ErrInvalidFormat, "%q", format)
	}

	out := &Export{
		Filename: strings.TrimSuffix(filename, filepath.Ext(filename)) + "." + format,
	}
	err := e.store.WithWorkbook(sessionID, filename, func(wb *storage.Workbook) error {
		var err error
		if format == FormatCSV {
			out.MediaType = export.MediaTypeCSV
			out.Data, err = export.CSV(wb.Tables)
			return err
		}
		out.MediaType = export.MediaTypeXLSX
		out.Data, err = export.XLSX(wb.Tables, wb.Rules)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// committed announces a new commit on the change feed.
func (e *Engine) committed(sessionID, filename string, c *storage.Commit, reason string) {
	e.metrics.Committed(reason)
	e.changeFeed.Emit(&cdc_emitter.Event{
		SessionID:     sessionID,
		Filename:      filename,
		CommitID:      c.ID,
		Message:       c.Message,
		Timestamp:     c.Timestamp,
		ChangedSheets: c.ChangedSheets,
	})
}
