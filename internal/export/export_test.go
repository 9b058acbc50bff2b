package export

import (
	"bytes"
	"github.com/stretchr/testify/require"
	"github.com/tabvc/tabvc/internal/ingest"
	"github.com/tabvc/tabvc/internal/sheet"
	"github.com/xuri/excelize/v2"
	"testing"
)

func workbook() *sheet.TableSet {
	data := sheet.NewTable("name", "score", "ok")
	data.AppendRow("ann", 1.25, true)
	data.AppendRow("bob", nil, false)
	data.AppendRow("cid", 3.0, nil)

	set := sheet.NewTableSet()
	set.Set("Data", data)
	set.Set("统计结果", sheet.NewTable("x"))
	return set
}

func TestXLSX(t *testing.T) {
	req := require.New(t)
	rules := []sheet.FormatRule{
		{Kind: sheet.NumberFormat, Sheet: "Data", Column: "score", Format: "0.00"},
		{Kind: sheet.LessThanHighlight, Sheet: "Data", Column: "score", Threshold: 2,
			Color: sheet.ColorRed},
		{Kind: sheet.LessThanHighlight, Sheet: "Data", Column: "score", Threshold: 1.5,
			Color: sheet.ColorYellow},
		{Kind: sheet.NumberFormat, Sheet: "Missing", Column: "score", Format: "0"},
		{Kind: sheet.NumberFormat, Sheet: "Data", Column: "missing", Format: "0"},
		{Kind: sheet.NumberFormat, Sheet: "统计结果", Column: "x", Format: "0"},
	}

	out, err := XLSX(workbook(), rules)
	req.NoError(err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	req.NoError(err)
	defer func() {
		_ = f.Close()
	}()
	req.Equal([]string{"Data", "统计结果"}, f.GetSheetList())

	rows, err := f.GetRows("Data")
	req.NoError(err)
	req.Equal([]string{"name", "score", "ok"}, rows[0])
	req.Len(rows, 4)

	formats, err := f.GetConditionalFormats("Data")
	req.NoError(err)
	req.Len(formats["B2:B4"], 2, "overlapping highlights stack")
	req.Equal("<", formats["B2:B4"][0].Criteria)
	req.Equal("2", formats["B2:B4"][0].Value)

	styleID, err := f.GetCellStyle("Data", "B3")
	req.NoError(err)
	style, err := f.GetStyle(styleID)
	req.NoError(err)
	req.NotNil(style.CustomNumFmt)
	req.Equal("0.00", *style.CustomNumFmt)

	t.Run("round trips through ingest", func(t *testing.T) {
		set, err := ingest.Load(out, "again.xlsx")
		require.NoError(t, err)
		tbl, _ := set.Get("Data")
		require.Equal(t, []string{"name", "score", "ok"}, tbl.Columns())
		require.Equal(t, []any{"ann", 1.25}, tbl.Row(0)[:2])
		require.Equal(t, []any{"bob", nil}, tbl.Row(1)[:2])
	})

	t.Run("empty set still produces a workbook", func(t *testing.T) {
		out, err := XLSX(sheet.NewTableSet(), nil)
		require.NoError(t, err)
		f, err := excelize.OpenReader(bytes.NewReader(out))
		require.NoError(t, err)
		require.Equal(t, []string{sheet.DefaultSheetName}, f.GetSheetList())
	})
}

func TestCSV(t *testing.T) {
	out, err := CSV(workbook())
	require.NoError(t, err)
	require.Equal(t, "name,score,ok\nann,1.25,True\nbob,,False\ncid,3,\n", string(out))

	t.Run("empty", func(t *testing.T) {
		out, err := CSV(sheet.NewTableSet())
		require.NoError(t, err)
		require.Empty(t, out)
	})
}
