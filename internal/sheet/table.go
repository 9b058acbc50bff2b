package sheet

import (
	"sort"
)

// DefaultSheetName is used when an operation names no sheet and the set is empty.
const DefaultSheetName = "Sheet1"

// Row maps a column identifier to a scalar cell value: float64, string, bool or nil.
type Row map[string]any

// Table is a 2-D sheet with an ordered, duplicate-free column list. Every row holds a cell for
// every column; missing cells are stored as nil.
//
// Example:
//
//	Table{
//	  columns: ["name", "score"],
//	  rows: [
//	    {"name": "ana", "score": 71.0},
//	    {"name": "bo",  "score": nil},
//	  ],
//	}
type Table struct {
	columns []string
	rows    []Row
}

// NewTable returns an empty table with the given columns. Duplicate names are dropped.
func NewTable(columns ...string) *Table {
	t := &Table{}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// Columns returns a copy of the column order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Width is the number of columns.
func (t *Table) Width() int {
	return len(t.columns)
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// ColumnAt returns the identifier at a zero-based position.
func (t *Table) ColumnAt(i int) (string, bool) {
	if i < 0 || i >= len(t.columns) {
		return "", false
	}
	return t.columns[i], true
}

// ColumnIndex returns the position of a column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has a column with this exact identifier.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// AddColumn appends a null-filled column. It is a no-op when the column exists.
func (t *Table) AddColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.columns = append(t.columns, name)
	for _, r := range t.rows {
		r[name] = nil
	}
}

// Broadcast sets every row's cell in the column to v, creating the column if needed.
func (t *Table) Broadcast(name string, v any) {
	t.AddColumn(name)
	for _, r := range t.rows {
		r[name] = v
	}
}

// RenameColumn renames old to new in place. Renaming onto another existing column would break
// uniqueness, so it reports false and changes nothing.
func (t *Table) RenameColumn(old, new string) bool {
	i := t.ColumnIndex(old)
	if i < 0 {
		return false
	}
	if old == new {
		return true
	}
	if t.HasColumn(new) {
		return false
	}
	t.columns[i] = new
	for _, r := range t.rows {
		r[new] = r[old]
		delete(r, old)
	}
	return true
}

// SwapColumns exchanges two column positions. Cell values follow their column.
func (t *Table) SwapColumns(a, b string) bool {
	i, j := t.ColumnIndex(a), t.ColumnIndex(b)
	if i < 0 || j < 0 {
		return false
	}
	t.columns[i], t.columns[j] = t.columns[j], t.columns[i]
	return true
}

// EnsureRow grows the table with null-filled rows until row index i exists.
func (t *Table) EnsureRow(i int) {
	for len(t.rows) <= i {
		t.rows = append(t.rows, t.nullRow())
	}
}

// AppendRow adds a row built from values in column order. Extra values are ignored and missing
// ones are nil.
func (t *Table) AppendRow(values ...any) {
	r := t.nullRow()
	for i, c := range t.columns {
		if i < len(values) {
			r[c] = values[i]
		}
	}
	t.rows = append(t.rows, r)
}

func (t *Table) nullRow() Row {
	r := make(Row, len(t.columns))
	for _, c := range t.columns {
		r[c] = nil
	}
	return r
}

// Get returns the cell at (row, column).
func (t *Table) Get(row int, column string) (any, bool) {
	if row < 0 || row >= len(t.rows) || !t.HasColumn(column) {
		return nil, false
	}
	return t.rows[row][column], true
}

// Set writes a single cell, growing rows and creating the column as needed.
func (t *Table) Set(row int, column string, v any) {
	t.EnsureRow(row)
	t.AddColumn(column)
	t.rows[row][column] = v
}

// Column returns a copy of one column's values in row order.
func (t *Table) Column(name string) ([]any, bool) {
	if !t.HasColumn(name) {
		return nil, false
	}
	out := make([]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[name]
	}
	return out, true
}

// SetColumnValues replaces a column's values row by row. len(values) must equal Len().
func (t *Table) SetColumnValues(name string, values []any) {
	t.AddColumn(name)
	for i, r := range t.rows {
		if i < len(values) {
			r[name] = values[i]
		}
	}
}

// Row returns a copy of row i in column order.
func (t *Table) Row(i int) []any {
	out := make([]any, len(t.columns))
	if i < 0 || i >= len(t.rows) {
		return out
	}
	for j, c := range t.columns {
		out[j] = t.rows[i][c]
	}
	return out
}

// DeleteRows drops the given zero-based row indexes and re-indexes the rest contiguously.
// Out-of-range indexes are ignored.
func (t *Table) DeleteRows(indexes []int) {
	drop := make(map[int]struct{}, len(indexes))
	for _, i := range indexes {
		drop[i] = struct{}{}
	}
	kept := make([]Row, 0, len(t.rows))
	for i, r := range t.rows {
		if _, ok := drop[i]; ok {
			continue
		}
		kept = append(kept, r)
	}
	t.rows = kept
}

// SortBy stably reorders the rows by a column. Nulls sort last in either direction.
func (t *Table) SortBy(column string, ascending bool) bool {
	if !t.HasColumn(column) {
		return false
	}
	sort.SliceStable(t.rows, func(i, j int) bool {
		a, b := t.rows[i][column], t.rows[j][column]
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		c := Compare(a, b)
		if ascending {
			return c < 0
		}
		return c > 0
	})
	return true
}

// Clone returns a deep copy that shares no mutable state with t.
func (t *Table) Clone() *Table {
	out := &Table{
		columns: t.Columns(),
		rows:    make([]Row, len(t.rows)),
	}
	for i, r := range t.rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.rows[i] = nr
	}
	return out
}
