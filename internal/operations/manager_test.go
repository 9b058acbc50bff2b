package operations

import (
	"github.com/stretchr/testify/require"
	"github.com/tabvc/tabvc/internal/address"
	"github.com/tabvc/tabvc/internal/sheet"
	"math"
	"testing"
)

// scores builds a single-sheet workbook named Data.
func scores() *sheet.TableSet {
	t := sheet.NewTable("name", "score", "group")
	t.AppendRow("ann", 3.0, "a")
	t.AppendRow("bob", 1.0, "b")
	t.AppendRow("cid", nil, "a")
	t.AppendRow("dan", 2.0, "b")
	set := sheet.NewTableSet()
	set.Set("Data", t)
	return set
}

func column(t *testing.T, set *sheet.TableSet, sheetName, col string) []any {
	t.Helper()
	tbl, ok := set.Get(sheetName)
	require.True(t, ok, "sheet %s", sheetName)
	values, ok := tbl.Column(col)
	require.True(t, ok, "column %s", col)
	return values
}

func TestApply_EmptyWorkbook(t *testing.T) {
	req := require.New(t)
	set := sheet.NewTableSet()

	res, err := Apply(set, []Operation{SetCell{Cell: "B2", Value: "x"}}, nil)
	req.NoError(err)
	req.Equal([]string{sheet.DefaultSheetName}, res.Changed)

	tbl, ok := set.Get(sheet.DefaultSheetName)
	req.True(ok)
	req.Equal([]string{"B"}, tbl.Columns())
	req.Equal(2, tbl.Len())
	req.Equal([]any{nil}, tbl.Row(0))
	req.Equal([]any{"x"}, tbl.Row(1))
}

func TestApply_AddColumnThenSetCell(t *testing.T) {
	req := require.New(t)
	set := sheet.NewTableSet()

	res, err := Apply(set, []Operation{
		AddColumn{Column: "x", Value: 0.0},
		SetCell{Cell: "B1", Value: 5.0},
	}, nil)
	req.NoError(err)
	req.Equal([]string{sheet.DefaultSheetName}, res.Changed)

	tbl, _ := set.Get(sheet.DefaultSheetName)
	req.Equal([]string{"x", "B"}, tbl.Columns())
	req.Equal([]any{nil, 5.0}, tbl.Row(0))
}

func TestApply_Operations(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		ops     []Operation
		changed []string
		check   func(t *testing.T, set *sheet.TableSet)
	}{
		"add_sheet": {
			ops:     []Operation{AddSheet{Name: "New"}},
			changed: []string{"New"},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []string{"Data", "New"}, set.Names())
			},
		},
		"rename_sheet": {
			ops:     []Operation{RenameSheet{From: "Data", To: "Scores"}},
			changed: []string{"Scores"},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []string{"Scores"}, set.Names())
			},
		},
		"rename_sheet missing source": {
			ops:     []Operation{RenameSheet{From: "Nope", To: "Scores"}},
			changed: []string{},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []string{"Data"}, set.Names())
			},
		},
		"add_column broadcasts": {
			ops:     []Operation{AddColumn{Column: "flag", Value: true}},
			changed: []string{"Data"},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []any{true, true, true, true}, column(t, set, "Data", "flag"))
			},
		},
		"rename_column": {
			ops:     []Operation{RenameColumn{Column: "score", NewName: "points"}},
			changed: []string{"Data"},
			check: func(t *testing.T, set *sheet.TableSet) {
				tbl, _ := set.Get("Data")
				require.Equal(t, []string{"name", "points", "group"}, tbl.Columns())
			},
		},
		"rename_column onto an existing column": {
			ops:     []Operation{RenameColumn{Column: "score", NewName: "name"}},
			changed: []string{},
			check: func(t *testing.T, set *sheet.TableSet) {
				tbl, _ := set.Get("Data")
				require.Equal(t, []string{"name", "score", "group"}, tbl.Columns())
			},
		},
		"swap_columns by letters": {
			ops:     []Operation{SwapColumns{ColumnA: "A", ColumnB: "C"}},
			changed: []string{"Data"},
			check: func(t *testing.T, set *sheet.TableSet) {
				tbl, _ := set.Get("Data")
				require.Equal(t, []string{"group", "score", "name"}, tbl.Columns())
				require.Equal(t, []any{"a", 3.0, "ann"}, tbl.Row(0))
			},
		},
		"swap_columns by index": {
			ops:     []Operation{SwapColumns{IndexA: intPtr(1), IndexB: intPtr(0)}},
			changed: []string{"Data"},
			check: func(t *testing.T, set *sheet.TableSet) {
				tbl, _ := set.Get("Data")
				require.Equal(t, []string{"score", "name", "group"}, tbl.Columns())
			},
		},
		"swap_columns unknown names": {
			ops:     []Operation{SwapColumns{ColumnA: "name", ColumnB: "no such"}},
			changed: []string{},
		},
		"round_column": {
			ops:     []Operation{SetCell{Cell: "B1", Value: "2.5"}, RoundColumn{Column: "score"}},
			changed: []string{"Data"},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []any{2.0, 1.0, nil, 2.0}, column(t, set, "Data", "score"))
			},
		},
		"round_column coerces text to null": {
			ops:     []Operation{RoundColumn{Column: "name", Decimals: 2}},
			changed: []string{"Data"},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []any{nil, nil, nil, nil}, column(t, set, "Data", "name"))
			},
		},
		"set_range": {
			ops:     []Operation{SetRange{Range: "A1:B2", Value: 0.0}},
			changed: []string{"Data"},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []any{0.0, 0.0, "cid", "dan"}, column(t, set, "Data", "name"))
				require.Equal(t, []any{0.0, 0.0, nil, 2.0}, column(t, set, "Data", "score"))
			},
		},
		"delete_rows ignores out of range positions": {
			ops:     []Operation{DeleteRows{Rows: []int{0, 2, 4, 9}}},
			changed: []string{"Data"},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []any{"ann", "cid"}, column(t, set, "Data", "name"))
			},
		},
		"delete_rows with no rows": {
			ops:     []Operation{DeleteRows{Rows: []int{}}},
			changed: []string{},
		},
		"update_cells matches exactly": {
			ops: []Operation{UpdateCells{
				Where: Condition{Column: "group", Value: "a"},
				Set: []Assignment{
					{Column: "group", Value: "z"},
					{Column: "hit", Value: true},
				},
			}},
			changed: []string{"Data"},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []any{"z", "b", "z", "b"}, column(t, set, "Data", "group"))
				require.Equal(t, []any{true, nil, true, nil}, column(t, set, "Data", "hit"))
			},
		},
		"update_cells null never matches": {
			ops: []Operation{UpdateCells{
				Where: Condition{Column: "score", Value: nil},
				Set:   []Assignment{{Column: "score", Value: 0.0}},
			}},
			changed: []string{"Data"},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []any{3.0, 1.0, nil, 2.0}, column(t, set, "Data", "score"))
			},
		},
		"update_cells number does not match text": {
			ops: []Operation{UpdateCells{
				Where: Condition{Column: "score", Value: "3"},
				Set:   []Assignment{{Column: "score", Value: 0.0}},
			}},
			changed: []string{"Data"},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []any{3.0, 1.0, nil, 2.0}, column(t, set, "Data", "score"))
			},
		},
		"sort descending keeps nulls last": {
			ops:     []Operation{Sort{By: "score"}},
			changed: []string{"Data"},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []any{"ann", "dan", "bob", "cid"}, column(t, set, "Data", "name"))
			},
		},
		"sort unknown column": {
			ops:     []Operation{Sort{By: "nope", Ascending: true}},
			changed: []string{},
		},
		"format_lt records a rule only": {
			ops:     []Operation{FormatLessThan{Sheet: "Other", Column: "score", Threshold: 2}},
			changed: []string{},
			check: func(t *testing.T, set *sheet.TableSet) {
				require.Equal(t, []string{"Data"}, set.Names())
			},
		},
		"unknown operations are ignored": {
			ops:     []Operation{Unknown{Type: "pivot"}},
			changed: []string{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			set := scores()
			res, err := Apply(set, tc.ops, nil)
			require.NoError(t, err)
			require.False(t, res.Aborted)
			require.Equal(t, tc.changed, res.Changed)
			if tc.check != nil {
				tc.check(t, set)
			}
		})
	}
}

func TestApply_Rules(t *testing.T) {
	req := require.New(t)
	set := scores()
	var rules []sheet.FormatRule

	_, err := Apply(set, []Operation{
		RoundColumn{Column: "score", Decimals: 2},
		FormatLessThan{Column: "score", Threshold: 2, Color: sheet.ColorYellow},
		RoundColumn{Sheet: "Data", Column: "missing"},
	}, &rules)
	req.NoError(err)
	req.Equal([]sheet.FormatRule{
		{Kind: sheet.NumberFormat, Sheet: "Data", Column: "score", Format: "0.00"},
		{Kind: sheet.LessThanHighlight, Sheet: "Data", Column: "score", Threshold: 2,
			Color: sheet.ColorYellow},
	}, rules)
}

func TestApply_SwapAbort(t *testing.T) {
	req := require.New(t)
	set := scores()

	res, err := Apply(set, []Operation{
		AddSheet{Name: "First"},
		SwapColumns{Sheet: "Data", ColumnA: "A", ColumnB: "Z"},
		AddSheet{Name: "Never"},
	}, nil)
	req.NoError(err)
	req.True(res.Aborted)
	req.Equal([]string{"First"}, res.Changed)
	req.Equal([]string{"Data", "First"}, set.Names())

	t.Run("index out of range", func(t *testing.T) {
		res, err := Apply(scores(), []Operation{
			SwapColumns{IndexA: intPtr(0), IndexB: intPtr(-1)},
		}, nil)
		require.NoError(t, err)
		require.True(t, res.Aborted)
		require.Empty(t, res.Changed)
	})
}

func TestApply_AddressErrors(t *testing.T) {
	tests := map[string]struct {
		op       Operation
		expected error
	}{
		"bad cell":  {op: SetCell{Cell: "nope", Value: 1.0}, expected: address.ErrInvalidCell},
		"bad range": {op: SetRange{Range: "A1", Value: 1.0}, expected: address.ErrInvalidRange},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := Apply(scores(), []Operation{AddSheet{Name: "X"}, tc.op}, nil)
			require.ErrorIs(t, err, tc.expected)
			require.Equal(t, []string{"X"}, res.Changed)
		})
	}
}

func TestApply_TTest(t *testing.T) {
	build := func() *sheet.TableSet {
		tbl := sheet.NewTable("a", "b")
		for i, v := range []float64{1, 2, 3, 4, 5} {
			tbl.AppendRow(v, float64(2*(i+1)))
		}
		tbl.AppendRow("n/a", nil)
		set := sheet.NewTableSet()
		set.Set("Data", tbl)
		return set
	}

	t.Run("results sheet", func(t *testing.T) {
		req := require.New(t)
		set := build()
		res, err := Apply(set, []Operation{
			TTest{ColumnA: "a", ColumnB: "b", EqualVar: true, Output: OutputSheet,
				OutputPrefix: "t_test"},
		}, nil)
		req.NoError(err)
		req.Equal([]string{ResultsSheet}, res.Changed)
		req.Len(res.Analysis, 1)

		got := res.Analysis[0]
		req.Equal("t_test", got.Type)
		req.Equal("Data", got.Sheet)
		req.Equal(5, got.NA)
		req.Equal(5, got.NB)
		req.Equal(8.0, got.DF)
		req.InDelta(-1.8973665961, got.TStat, 1e-9)

		tbl, ok := set.Get(ResultsSheet)
		req.True(ok)
		req.Equal([]string{"column_a", "column_b", "n_a", "n_b", "mean_a", "mean_b", "t_stat",
			"p_value", "df"}, tbl.Columns())
		req.Equal(1, tbl.Len())
		row := tbl.Row(0)
		req.Equal("a", row[0])
		req.Equal(5.0, row[2])
	})

	t.Run("column output", func(t *testing.T) {
		req := require.New(t)
		set := build()
		res, err := Apply(set, []Operation{
			TTest{ColumnA: "a", ColumnB: "b", Output: OutputColumn, OutputPrefix: "cmp"},
		}, nil)
		req.NoError(err)
		req.Equal([]string{"Data"}, res.Changed)

		tbl, _ := set.Get("Data")
		req.Equal([]string{"a", "b", "cmp_t", "cmp_p", "cmp_df", "cmp_mean_a", "cmp_mean_b"},
			tbl.Columns())
		means, _ := tbl.Column("cmp_mean_b")
		for _, v := range means {
			req.Equal(6.0, v)
		}
	})

	t.Run("not enough data", func(t *testing.T) {
		req := require.New(t)
		set := build()
		res, err := Apply(set, []Operation{
			SetCell{Sheet: "Tiny", Cell: "A1", Value: 1.0},
			SetCell{Sheet: "Tiny", Cell: "B1", Value: 2.0},
			TTest{Sheet: "Tiny", ColumnA: "A", ColumnB: "B", Output: OutputSheet},
		}, nil)
		req.NoError(err)
		req.Empty(res.Analysis)
		req.Equal([]string{"Tiny"}, res.Changed)
	})

	t.Run("constant samples report null statistics", func(t *testing.T) {
		req := require.New(t)
		tbl := sheet.NewTable("a", "b")
		tbl.AppendRow(1.0, 1.0)
		tbl.AppendRow(1.0, 1.0)
		set := sheet.NewTableSet()
		set.Set("Data", tbl)

		res, err := Apply(set, []Operation{
			TTest{ColumnA: "a", ColumnB: "b", Output: OutputSheet},
		}, nil)
		req.NoError(err)
		req.Len(res.Analysis, 1)
		req.True(math.IsNaN(res.Analysis[0].PValue))

		out, _ := set.Get(ResultsSheet)
		req.Nil(out.Row(0)[7])

		encoded, err := res.Analysis[0].MarshalJSON()
		req.NoError(err)
		req.Contains(string(encoded), `"p_value":null`)
	})
}
