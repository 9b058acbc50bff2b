package operations

// deleteRows drops 1-based row positions. Positions below 1 or past the last row are ignored.
func (b *batch) deleteRows(op DeleteRows) {
	if len(op.Rows) == 0 {
		return
	}
	name, t := b.target(op.Sheet)

	indexes := make([]int, 0, len(op.Rows))
	for _, r := range op.Rows {
		if r > 0 {
			indexes = append(indexes, r-1)
		}
	}
	t.DeleteRows(indexes)
	b.markChanged(name)
}
