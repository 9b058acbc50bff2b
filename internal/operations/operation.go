package operations

import (
	"github.com/tabvc/tabvc/internal/sheet"
)

// Kind is the wire tag of an operation.
type Kind string

const (
	KindAddSheet     Kind = "add_sheet"
	KindRenameSheet  Kind = "rename_sheet"
	KindAddColumn    Kind = "add_column"
	KindRenameColumn Kind = "rename_column"
	KindSwapColumns  Kind = "swap_columns"
	KindRoundColumn  Kind = "round_column"
	KindFormatLT     Kind = "format_lt"
	KindTTest        Kind = "t_test"
	KindSetCell      Kind = "set_cell"
	KindSetRange     Kind = "set_range"
	KindDeleteRows   Kind = "delete_rows"
	KindUpdateCells  Kind = "update_cells"
	KindSort         Kind = "sort"
)

// Kinds lists every operation kind the engine understands.
var Kinds = []Kind{
	KindAddSheet, KindRenameSheet, KindAddColumn, KindRenameColumn, KindSwapColumns,
	KindRoundColumn, KindFormatLT, KindTTest, KindSetCell, KindSetRange, KindDeleteRows,
	KindUpdateCells, KindSort,
}

// Operation is one declarative mutation. The set of implementations is closed; see the types in
// this file.
type Operation interface {
	Kind() Kind
	operation()
}

// AddSheet creates an empty sheet when absent.
type AddSheet struct {
	Name string
}

// RenameSheet moves a sheet to a new name. Nothing happens when From does not exist.
type RenameSheet struct {
	From string
	To   string
}

// AddColumn broadcasts Value to every row of Column.
type AddColumn struct {
	Sheet  string
	Column string
	Value  any
}

type RenameColumn struct {
	Sheet   string
	Column  string
	NewName string
}

// SwapColumns exchanges two column positions. Explicit indexes win over names when both are set;
// a name that is not a column but is all letters is read as a position (A = first column).
type SwapColumns struct {
	Sheet   string
	ColumnA string
	ColumnB string
	IndexA  *int
	IndexB  *int
}

// RoundColumn coerces a column to numbers and rounds it to Decimals places.
type RoundColumn struct {
	Sheet    string
	Column   string
	Decimals int
}

// FormatLessThan records a highlight rule. It never touches table data.
type FormatLessThan struct {
	Sheet     string
	Column    string
	Threshold float64
	Color     sheet.Color
}

type TTestOutput string

const (
	OutputSheet  TTestOutput = "sheet"
	OutputColumn TTestOutput = "column"
)

// TTest compares two numeric columns.
type TTest struct {
	Sheet        string
	ColumnA      string
	ColumnB      string
	EqualVar     bool
	Output       TTestOutput
	OutputPrefix string
}

type SetCell struct {
	Sheet string
	Cell  string
	Value any
}

type SetRange struct {
	Sheet string
	Range string
	Value any
}

// DeleteRows drops 1-based row positions.
type DeleteRows struct {
	Sheet string
	Rows  []int
}

// Condition matches rows whose Column holds exactly Value.
type Condition struct {
	Column string
	Value  any
}

// Assignment is one column = value pair of an UpdateCells operation.
type Assignment struct {
	Column string
	Value  any
}

// UpdateCells sets every Set column on the rows matching Where.
type UpdateCells struct {
	Sheet string
	Where Condition
	Set   []Assignment
}

type Sort struct {
	Sheet     string
	By        string
	Ascending bool
}

// Unknown carries an operation tag the engine does not understand. Applying it does nothing.
type Unknown struct {
	Type string
}

func (AddSheet) Kind() Kind       { return KindAddSheet }
func (RenameSheet) Kind() Kind    { return KindRenameSheet }
func (AddColumn) Kind() Kind      { return KindAddColumn }
func (RenameColumn) Kind() Kind   { return KindRenameColumn }
func (SwapColumns) Kind() Kind    { return KindSwapColumns }
func (RoundColumn) Kind() Kind    { return KindRoundColumn }
func (FormatLessThan) Kind() Kind { return KindFormatLT }
func (TTest) Kind() Kind          { return KindTTest }
func (SetCell) Kind() Kind        { return KindSetCell }
func (SetRange) Kind() Kind       { return KindSetRange }
func (DeleteRows) Kind() Kind     { return KindDeleteRows }
func (UpdateCells) Kind() Kind    { return KindUpdateCells }
func (Sort) Kind() Kind           { return KindSort }
func (u Unknown) Kind() Kind      { return Kind(u.Type) }

func (AddSheet) operation()       {}
func (RenameSheet) operation()    {}
func (AddColumn) operation()      {}
func (RenameColumn) operation()   {}
func (SwapColumns) operation()    {}
func (RoundColumn) operation()    {}
func (FormatLessThan) operation() {}
func (TTest) operation()          {}
func (SetCell) operation()        {}
func (SetRange) operation()       {}
func (DeleteRows) operation()     {}
func (UpdateCells) operation()    {}
func (Sort) operation()           {}
func (Unknown) operation()        {}
