package engine

import (
	"github.com/tabvc/tabvc/internal/operations"
	"github.com/tabvc/tabvc/internal/sheet"
	"github.com/tabvc/tabvc/internal/storage"
	"time"
)

type Session struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkbookInfo describes a freshly attached workbook.
type WorkbookInfo struct {
	Filename string   `json:"filename"`
	Sheets   []string `json:"sheets"`
}

type CommitSummary struct {
	ID            string    `json:"id"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
	ChangedSheets []string  `json:"changed_sheets"`
}

func summarize(c *storage.Commit) CommitSummary {
	return CommitSummary{
		ID:            c.ID,
		Message:       c.Message,
		Timestamp:     c.Timestamp,
		ChangedSheets: c.ChangedSheets,
	}
}

// Preview is the first rows of one sheet plus the highlight rules that apply to it.
type Preview struct {
	Sheet    string             `json:"sheet"`
	Columns  []string           `json:"columns"`
	Rows     []map[string]any   `json:"rows"`
	Rules    []sheet.FormatRule `json:"rules"`
	RowCount int                `json:"row_count"`
	ColCount int                `json:"col_count"`
}

type ApplyResult struct {
	Commit   CommitSummary         `json:"commit"`
	Analysis []operations.Analysis `json:"analysis"`
}

// File is one named upload.
type File struct {
	Filename string
	Data     []byte
}

type BatchResult struct {
	Filename      string   `json:"filename"`
	CommitID      string   `json:"commit_id"`
	ChangedSheets []string `json:"changed_sheets"`
}

// Export is a rendered workbook ready for download.
type Export struct {
	Filename  string
	MediaType string
	Data      []byte
}
