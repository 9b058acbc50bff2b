package operations

import (
	"github.com/tabvc/tabvc/internal/address"
	"github.com/tabvc/tabvc/internal/sheet"
	"math"
	"strings"
)

func (b *batch) setCell(op SetCell) error {
	name, t := b.target(op.Sheet)
	cell, err := address.ResolveCell(t, op.Cell)
	if err != nil {
		return err
	}
	t.Set(cell.Row, cell.Column, op.Value)
	b.markChanged(name)
	return nil
}

func (b *batch) setRange(op SetRange) error {
	name, t := b.target(op.Sheet)
	cells, err := address.ResolveRange(t, op.Range)
	if err != nil {
		return err
	}
	for _, c := range cells {
		t.Set(c.Row, c.Column, op.Value)
	}
	b.markChanged(name)
	return nil
}

// updateCells assigns every Set column on the rows whose Where column equals the match value.
// The matching rows are chosen before any assignment runs.
func (b *batch) updateCells(op UpdateCells) {
	name, t := b.target(op.Sheet)
	values, ok := t.Column(op.Where.Column)
	if !ok {
		return
	}

	var matched []int
	for i, v := range values {
		if sheet.Equal(v, op.Where.Value) {
			matched = append(matched, i)
		}
	}

	for _, a := range op.Set {
		t.AddColumn(a.Column)
		for _, i := range matched {
			t.Set(i, a.Column, a.Value)
		}
	}
	b.markChanged(name)
}

func (b *batch) roundColumn(op RoundColumn) {
	name, t := b.target(op.Sheet)
	values, ok := t.Column(op.Column)
	if !ok {
		return
	}

	for i, v := range values {
		n, isNum := sheet.ToNumber(v)
		if !isNum {
			values[i] = nil
			continue
		}
		values[i] = roundHalfEven(n, op.Decimals)
	}
	t.SetColumnValues(op.Column, values)

	*b.rules = append(*b.rules, sheet.FormatRule{
		Kind:   sheet.NumberFormat,
		Sheet:  name,
		Column: op.Column,
		Format: decimalFormat(op.Decimals),
	})
	b.markChanged(name)
}

func (b *batch) sortRows(op Sort) {
	name, t := b.target(op.Sheet)
	if t.SortBy(op.By, op.Ascending) {
		b.markChanged(name)
	}
}

// roundHalfEven rounds to the given number of decimal places, breaking ties towards even digits.
func roundHalfEven(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	scaled := v * scale
	if math.IsInf(scaled, 0) {
		return v
	}
	out := math.RoundToEven(scaled) / scale
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return v
	}
	return out
}

// decimalFormat is the spreadsheet display format for a fixed number of decimals.
func decimalFormat(decimals int) string {
	if decimals <= 0 {
		return "0"
	}
	return "0." + strings.Repeat("0", decimals)
}
