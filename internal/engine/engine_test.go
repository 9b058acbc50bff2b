package engine

import (
	"context"
	"errors"
	"github.com/stretchr/testify/require"
	"github.com/tabvc/tabvc/internal/address"
	"github.com/tabvc/tabvc/internal/cdc_emitter"
	"github.com/tabvc/tabvc/internal/export"
	"github.com/tabvc/tabvc/internal/ingest"
	"github.com/tabvc/tabvc/internal/metrics"
	"github.com/tabvc/tabvc/internal/operations"
	"github.com/tabvc/tabvc/internal/sheet"
	"github.com/tabvc/tabvc/internal/storage"
	"github.com/tabvc/tabvc/internal/translator"
	"go.uber.org/mock/gomock"
	"testing"
)

const scoresCSV = "name,score\nana,71\nbo,42\ncy,88\n"

func newEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	e, err := New(&Config{Store: storage.New()})
	require.NoError(t, err)
	s := e.CreateSession("test")
	_, err = e.UploadWorkbook(s.ID, "scores.csv", []byte(scoresCSV))
	require.NoError(t, err)
	return e, s.ID
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg     *Config
		wantErr bool
	}{
		"missing store": {
			cfg:     &Config{},
			wantErr: true,
		},
		"negative preview limit": {
			cfg:     &Config{Store: storage.New(), DefaultPreviewLimit: -1},
			wantErr: true,
		},
		"default above max": {
			cfg:     &Config{Store: storage.New(), DefaultPreviewLimit: 50, MaxPreviewLimit: 10},
			wantErr: true,
		},
		"defaults": {
			cfg: &Config{Store: storage.New()},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			e, err := New(tc.cfg)
			if tc.wantErr {
				require.Error(t, err)
				require.Nil(t, e)
				return
			}
			require.NoError(t, err)
			require.Equal(t, defaultPreviewLimit, e.previewLimit)
			require.Equal(t, maxPreviewLimit, e.maxPreview)
		})
	}
}

func TestEngine_CreateEmptyWorkbook(t *testing.T) {
	e, err := New(&Config{Store: storage.New()})
	require.NoError(t, err)
	s := e.CreateSession("")

	info, err := e.CreateEmptyWorkbook(s.ID, "", "")
	require.NoError(t, err)
	require.Equal(t, "blank.xlsx", info.Filename)
	require.Equal(t, []string{"Sheet1"}, info.Sheets)

	_, err = e.CreateEmptyWorkbook("missing", "", "")
	require.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestEngine_UploadWorkbook(t *testing.T) {
	e, sessionID := newEngine(t)

	_, err := e.UploadWorkbook(sessionID, "notes.txt.gz", []byte("not gzip"))
	require.Error(t, err)

	_, err = e.UploadWorkbook("missing", "scores.csv", []byte(scoresCSV))
	require.ErrorIs(t, err, storage.ErrSessionNotFound)

	// Re-uploading replaces the workbook and its history.
	_, err = e.ApplyOperations(sessionID, "scores.csv", "", []operations.Operation{
		operations.AddColumn{Column: "flag", Value: true},
	})
	require.NoError(t, err)
	_, err = e.UploadWorkbook(sessionID, "scores.csv", []byte(scoresCSV))
	require.NoError(t, err)
	history, err := e.History(sessionID, "scores.csv")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "init", history[0].Message)
}

func TestEngine_ApplyOperations(t *testing.T) {
	ctrl := gomock.NewController(t)
	feed := NewMockchangeFeed(ctrl)
	rec := NewMockrecorder(ctrl)

	e, err := New(&Config{Store: storage.New(), ChangeFeed: feed, Metrics: rec})
	require.NoError(t, err)
	s := e.CreateSession("apply")

	var events []*cdc_emitter.Event
	feed.EXPECT().Emit(gomock.Any()).Do(func(ev *cdc_emitter.Event) {
		events = append(events, ev)
	}).Times(2)
	rec.EXPECT().Committed(metrics.ReasonInit)
	rec.EXPECT().Committed(metrics.ReasonApply)
	rec.EXPECT().SetWorkbooks(1)
	rec.EXPECT().OperationApplied(string(operations.KindAddColumn))
	rec.EXPECT().OperationApplied(string(operations.KindSetCell))
	rec.EXPECT().BatchFinished(metrics.OutcomeCommitted, gomock.Any())

	_, err = e.UploadWorkbook(s.ID, "scores.csv", []byte(scoresCSV))
	require.NoError(t, err)

	res, err := e.ApplyOperations(s.ID, "scores.csv", "", []operations.Operation{
		operations.AddColumn{Column: "bonus", Value: 5.0},
		operations.SetCell{Cell: "B1", Value: 75.0},
	})
	require.NoError(t, err)
	require.Equal(t, "update", res.Commit.Message)
	require.Equal(t, []string{"Sheet1"}, res.Commit.ChangedSheets)
	require.Empty(t, res.Analysis)

	require.Len(t, events, 2)
	require.Equal(t, "init", events[0].Message)
	require.Equal(t, res.Commit.ID, events[1].CommitID)
	require.Equal(t, "scores.csv", events[1].Filename)

	p, err := e.Preview(s.ID, "scores.csv", "", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"name", "score", "bonus"}, p.Columns)
	require.Equal(t, 75.0, p.Rows[0]["score"])
	require.Equal(t, 5.0, p.Rows[2]["bonus"])
}

func TestEngine_ApplyOperations_Errors(t *testing.T) {
	tests := map[string]struct {
		session  string
		filename string
		ops      []operations.Operation
		want     error
	}{
		"unknown session": {
			session:  "missing",
			filename: "scores.csv",
			want:     storage.ErrSessionNotFound,
		},
		"unknown workbook": {
			filename: "other.csv",
			want:     storage.ErrWorkbookNotFound,
		},
		"bad cell": {
			filename: "scores.csv",
			ops: []operations.Operation{
				operations.AddColumn{Column: "seen", Value: true},
				operations.SetCell{Cell: "??"},
			},
			want: address.ErrInvalidCell,
		},
		"bad range": {
			filename: "scores.csv",
			ops:      []operations.Operation{operations.SetRange{Range: "A1"}},
			want:     address.ErrInvalidRange,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e, sessionID := newEngine(t)
			if tc.session != "" {
				sessionID = tc.session
			}
			_, err := e.ApplyOperations(sessionID, tc.filename, "", tc.ops)
			require.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("no commit but earlier operations persist", func(t *testing.T) {
		e, sessionID := newEngine(t)
		_, err := e.ApplyOperations(sessionID, "scores.csv", "", []operations.Operation{
			operations.AddColumn{Column: "seen", Value: true},
			operations.SetCell{Cell: "1A"},
		})
		require.ErrorIs(t, err, address.ErrInvalidCell)

		history, err := e.History(sessionID, "scores.csv")
		require.NoError(t, err)
		require.Len(t, history, 1)

		p, err := e.Preview(sessionID, "scores.csv", "Sheet1", 10)
		require.NoError(t, err)
		require.Contains(t, p.Columns, "seen")
	})
}

func TestEngine_ApplyOperations_SwapAbortCommits(t *testing.T) {
	e, sessionID := newEngine(t)
	res, err := e.ApplyOperations(sessionID, "scores.csv", "swap", []operations.Operation{
		operations.AddColumn{Column: "x", Value: 1.0},
		operations.SwapColumns{ColumnA: "name", ColumnB: "Z"},
		operations.AddColumn{Column: "never", Value: 1.0},
	})
	require.NoError(t, err)
	require.Equal(t, "swap", res.Commit.Message)
	require.Equal(t, []string{"Sheet1"}, res.Commit.ChangedSheets)

	p, err := e.Preview(sessionID, "scores.csv", "", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"name", "score", "x"}, p.Columns)
}

func TestEngine_ApplyOperations_NoChangedSheets(t *testing.T) {
	tests := map[string][]operations.Operation{
		"format rule only": {
			operations.FormatLessThan{Column: "score", Threshold: 50, Color: sheet.ColorRed},
		},
		"unknown kind": {
			operations.Unknown{Type: "explode"},
		},
		"swap aborts first": {
			operations.SwapColumns{ColumnA: "name", ColumnB: "Z"},
		},
	}

	for name, ops := range tests {
		t.Run(name, func(t *testing.T) {
			e, sessionID := newEngine(t)
			res, err := e.ApplyOperations(sessionID, "scores.csv", "", ops)
			require.NoError(t, err)
			require.Equal(t, []string{"Sheet1"}, res.Commit.ChangedSheets)
		})
	}
}

func TestEngine_TTestAnalysis(t *testing.T) {
	e, err := New(&Config{Store: storage.New()})
	require.NoError(t, err)
	s := e.CreateSession("stats")
	_, err = e.UploadWorkbook(s.ID, "ab.csv", []byte("a,b\n1,2\n2,3\n3,5\n4,6\n"))
	require.NoError(t, err)

	res, err := e.ApplyOperations(s.ID, "ab.csv", "", []operations.Operation{
		operations.TTest{ColumnA: "a", ColumnB: "b", Output: operations.OutputSheet},
	})
	require.NoError(t, err)
	require.Len(t, res.Analysis, 1)
	require.Equal(t, 4, res.Analysis[0].NA)
	require.Equal(t, []string{operations.ResultsSheet}, res.Commit.ChangedSheets)
}

func TestEngine_Rollback(t *testing.T) {
	e, sessionID := newEngine(t)
	history, err := e.History(sessionID, "scores.csv")
	require.NoError(t, err)
	initID := history[0].ID

	_, err = e.ApplyOperations(sessionID, "scores.csv", "", []operations.Operation{
		operations.DeleteRows{Rows: []int{1, 2}},
	})
	require.NoError(t, err)

	c, err := e.Rollback(sessionID, "scores.csv", initID)
	require.NoError(t, err)
	require.Equal(t, "rollback:"+initID, c.Message)
	require.Equal(t, []string{"Sheet1"}, c.ChangedSheets)

	p, err := e.Preview(sessionID, "scores.csv", "", 0)
	require.NoError(t, err)
	require.Equal(t, 3, p.RowCount)

	_, err = e.Rollback(sessionID, "scores.csv", "nope")
	require.ErrorIs(t, err, storage.ErrCommitNotFound)

	history, err = e.History(sessionID, "scores.csv")
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		require.True(t, history[i].Timestamp.After(history[i-1].Timestamp))
	}
}

func TestEngine_Preview(t *testing.T) {
	e, sessionID := newEngine(t)
	_, err := e.ApplyOperations(sessionID, "scores.csv", "", []operations.Operation{
		operations.FormatLessThan{Column: "score", Threshold: 60, Color: sheet.ColorRed},
		operations.RoundColumn{Column: "score", Decimals: 1},
		operations.FormatLessThan{Sheet: "Other", Column: "v", Threshold: 1, Color: sheet.ColorYellow},
	})
	require.NoError(t, err)

	tests := map[string]struct {
		sheet    string
		limit    int
		rows     int
		rules    int
		rowCount int
	}{
		"default sheet and limit": {
			rows:     3,
			rules:    1,
			rowCount: 3,
		},
		"limit": {
			sheet:    "Sheet1",
			limit:    2,
			rows:     2,
			rules:    1,
			rowCount: 3,
		},
		"missing sheet": {
			sheet: "Nope",
		},
		"rules without a table": {
			sheet: "Other",
			rules: 1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := e.Preview(sessionID, "scores.csv", tc.sheet, tc.limit)
			require.NoError(t, err)
			require.Len(t, p.Rows, tc.rows)
			require.Len(t, p.Rules, tc.rules)
			require.Equal(t, tc.rowCount, p.RowCount)
			for _, r := range p.Rules {
				require.Equal(t, sheet.LessThanHighlight, r.Kind)
			}
		})
	}
}

func TestEngine_Export(t *testing.T) {
	e, sessionID := newEngine(t)

	tests := map[string]struct {
		format    string
		mediaType string
		filename  string
		wantErr   error
	}{
		"xlsx": {
			format:    "xlsx",
			mediaType: export.MediaTypeXLSX,
			filename:  "scores.xlsx",
		},
		"csv upper case": {
			format:    "CSV",
			mediaType: export.MediaTypeCSV,
			filename:  "scores.csv",
		},
		"unsupported": {
			format:  "pdf",
			wantErr: ErrInvalidFormat,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := e.Export(sessionID, "scores.csv", tc.format)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.mediaType, out.MediaType)
			require.Equal(t, tc.filename, out.Filename)

			tables, err := ingest.Load(out.Data, out.Filename)
			require.NoError(t, err)
			tbl, ok := tables.Get("Sheet1")
			require.True(t, ok)
			require.Equal(t, 3, tbl.Len())
		})
	}
}

func TestEngine_Batch(t *testing.T) {
	e, err := New(&Config{Store: storage.New()})
	require.NoError(t, err)
	s := e.CreateSession("batch")
	ops := []operations.Operation{operations.AddColumn{Column: "checked", Value: true}}

	out, err := e.Batch(s.ID, "", ops, []File{
		{Filename: "a.csv", Data: []byte(scoresCSV)},
		{Filename: "b.csv", Data: []byte("v\n1\n")},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "a.csv", out[0].Filename)
	require.Equal(t, []string{"Sheet1"}, out[1].ChangedSheets)

	history, err := e.History(s.ID, "b.csv")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "batch", history[1].Message)
	require.Equal(t, out[1].CommitID, history[1].ID)

	t.Run("stops at the first failing file", func(t *testing.T) {
		_, err := e.Batch(s.ID, "again", []operations.Operation{operations.SetCell{Cell: "?"}},
			[]File{{Filename: "c.csv", Data: []byte(scoresCSV)}, {Filename: "d.csv", Data: []byte(scoresCSV)}})
		require.ErrorIs(t, err, address.ErrInvalidCell)

		_, err = e.History(s.ID, "d.csv")
		require.ErrorIs(t, err, storage.ErrWorkbookNotFound)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := e.Batch("missing", "", ops, nil)
		require.ErrorIs(t, err, storage.ErrSessionNotFound)
	})
}

func TestEngine_Parse(t *testing.T) {
	t.Run("no translator", func(t *testing.T) {
		e, err := New(&Config{Store: storage.New()})
		require.NoError(t, err)
		_, err = e.Parse(context.Background(), "round score", "")
		require.ErrorIs(t, err, translator.ErrUnavailable)
	})

	tests := map[string]struct {
		sheet     string
		wantSheet string
		result    *translator.Result
		err       error
	}{
		"default sheet": {
			wantSheet: "Sheet1",
			result: &translator.Result{
				Message:    "ok",
				Operations: operations.List{operations.RoundColumn{Column: "score", Decimals: 1}},
			},
		},
		"explicit sheet": {
			sheet:     "Data",
			wantSheet: "Data",
			result:    &translator.Result{Message: "ok"},
		},
		"upstream failure": {
			wantSheet: "Sheet1",
			err:       translator.ErrFailed,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			tr := NewMocktextTranslator(ctrl)
			tr.EXPECT().Translate(gomock.Any(), "round score", tc.wantSheet).Return(tc.result, tc.err)

			e, err := New(&Config{Store: storage.New(), Translator: tr})
			require.NoError(t, err)

			got, err := e.Parse(context.Background(), "round score", tc.sheet)
			if tc.err != nil {
				require.True(t, errors.Is(err, tc.err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.result, got)
		})
	}
}
