package operations

// run dispatches a single operation. Unknown kinds are ignored.
func (b *batch) run(op Operation) error {
	switch o := op.(type) {
	case AddSheet:
		b.addSheet(o)
	case RenameSheet:
		b.renameSheet(o)
	case AddColumn:
		b.addColumn(o)
	case RenameColumn:
		b.renameColumn(o)
	case SwapColumns:
		return b.swapColumns(o)
	case RoundColumn:
		b.roundColumn(o)
	case FormatLessThan:
		b.formatLessThan(o)
	case TTest:
		b.tTest(o)
	case SetCell:
		return b.setCell(o)
	case SetRange:
		return b.setRange(o)
	case DeleteRows:
		b.deleteRows(o)
	case UpdateCells:
		b.updateCells(o)
	case Sort:
		b.sortRows(o)
	}
	return nil
}
