package operations

import (
	"github.com/tabvc/tabvc/internal/address"
	"github.com/tabvc/tabvc/internal/sheet"
	"regexp"
)

var lettersOnly = regexp.MustCompile(`^[A-Za-z]+$`)

func (b *batch) addSheet(op AddSheet) {
	b.tables.Ensure(op.Name)
	b.markChanged(op.Name)
}

func (b *batch) renameSheet(op RenameSheet) {
	t, ok := b.tables.Remove(op.From)
	if !ok {
		return
	}
	b.tables.Set(op.To, t)
	b.markChanged(op.To)
}

func (b *batch) addColumn(op AddColumn) {
	name, t := b.target(op.Sheet)
	t.Broadcast(op.Column, op.Value)
	b.markChanged(name)
}

func (b *batch) renameColumn(op RenameColumn) {
	name, t := b.target(op.Sheet)
	if t.RenameColumn(op.Column, op.NewName) {
		b.markChanged(name)
	}
}

func (b *batch) swapColumns(op SwapColumns) error {
	name, t := b.target(op.Sheet)

	colA, colB := op.ColumnA, op.ColumnB
	if op.IndexA != nil && op.IndexB != nil {
		var okA, okB bool
		colA, okA = t.ColumnAt(*op.IndexA)
		colB, okB = t.ColumnAt(*op.IndexB)
		if !okA || !okB {
			return errAbortBatch
		}
	}

	colA, okA := columnByPosition(t, colA)
	colB, okB := columnByPosition(t, colB)
	if !okA || !okB {
		return errAbortBatch
	}

	if t.SwapColumns(colA, colB) {
		b.markChanged(name)
	}
	return nil
}

// columnByPosition reads an all-letter reference that is not a column name as a column position.
// The second result is false when that position is past the last column.
func columnByPosition(t *sheet.Table, ref string) (string, bool) {
	if t.HasColumn(ref) || !lettersOnly.MatchString(ref) {
		return ref, true
	}
	idx, ok := address.LettersToIndex(ref)
	if !ok {
		return "", false
	}
	return t.ColumnAt(idx)
}
