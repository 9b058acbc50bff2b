// Package address resolves cell and range references against the current shape of a table.
//
// Three single-cell dialects are accepted, tried in this order:
//
//	B3        column letters (bijective base 26) and a 1-based row
//	R3C2      1-based row and column, case-insensitive
//	3,2       1-based row and column separated by a comma
//
// A column position inside the table's width resolves to the identifier already at that
// position; a position past the last column resolves to synthesized letters, which is how writes
// grow a table with new columns.
package address

import (
	"github.com/tabvc/tabvc/internal/sheet"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MaxRows and MaxColumns bound references to the worksheet limits of the xlsx format.
	MaxRows    = 1048576
	MaxColumns = 16384
	// MaxRangeCells caps how many cells one range may expand to.
	MaxRangeCells = 1 << 20
)

var (
	letterRef = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)
	rcRef     = regexp.MustCompile(`(?i)^R(\d+)C(\d+)$`)
	commaRef  = regexp.MustCompile(`^(\d+)\s*,\s*(\d+)$`)
)

// Cell is a resolved reference: a zero-based row and a column identifier.
type Cell struct {
	Row    int
	Column string
}

// ResolveCell converts a reference in any dialect into a row index and column identifier.
func ResolveCell(t *sheet.Table, ref string) (Cell, error) {
	row, col, err := parseCell(ref)
	if err != nil {
		return Cell{}, err
	}
	return Cell{Row: row, Column: columnName(t, col)}, nil
}

// parseCell returns zero-based row and column positions.
func parseCell(ref string) (int, int, error) {
	raw := strings.TrimSpace(ref)

	if m := letterRef.FindStringSubmatch(raw); m != nil {
		col, ok := LettersToIndex(m[1])
		if !ok {
			return 0, 0, newError(ErrInvalidCell, "%q", ref)
		}
		row, err := position(m[2], MaxRows)
		if err != nil || col >= MaxColumns {
			return 0, 0, newError(ErrInvalidCell, "%q", ref)
		}
		return row, col, nil
	}

	m := rcRef.FindStringSubmatch(raw)
	if m == nil {
		m = commaRef.FindStringSubmatch(raw)
	}
	if m == nil {
		return 0, 0, newError(ErrInvalidCell, "%q", ref)
	}
	row, err := position(m[1], MaxRows)
	if err != nil {
		return 0, 0, newError(ErrInvalidCell, "%q", ref)
	}
	col, err := position(m[2], MaxColumns)
	if err != nil {
		return 0, 0, newError(ErrInvalidCell, "%q", ref)
	}
	return row, col, nil
}

// position parses a 1-based decimal and returns it zero-based.
func position(s string, limit int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > limit {
		return 0, strconv.ErrRange
	}
	return n - 1, nil
}

// ResolveRange expands "start:end" into every cell of the rectangle, row by row. Both endpoints
// must use the letter dialect. Rows run from the smaller to the larger endpoint; columns run from
// the start letters to the end letters, so a reversed column span yields no cells.
func ResolveRange(t *sheet.Table, ref string) ([]Cell, error) {
	parts := strings.Split(ref, ":")
	if len(parts) != 2 {
		return nil, newError(ErrInvalidRange, "%q", ref)
	}

	start, err := ResolveCell(t, parts[0])
	if err != nil {
		return nil, err
	}
	end, err := ResolveCell(t, parts[1])
	if err != nil {
		return nil, err
	}

	startCol, ok := letterPrefix(parts[0])
	if !ok {
		return nil, newError(ErrInvalidRange, "%q: endpoints must use letter references", ref)
	}
	endCol, ok := letterPrefix(parts[1])
	if !ok {
		return nil, newError(ErrInvalidRange, "%q: endpoints must use letter references", ref)
	}

	lo, hi := start.Row, end.Row
	if lo > hi {
		lo, hi = hi, lo
	}

	if endCol >= startCol && (hi-lo+1)*(endCol-startCol+1) > MaxRangeCells {
		return nil, newError(ErrInvalidRange, "%q: more than %d cells", ref, MaxRangeCells)
	}

	var cells []Cell
	for r := lo; r <= hi; r++ {
		for c := startCol; c <= endCol; c++ {
			cells = append(cells, Cell{Row: r, Column: columnName(t, c)})
		}
	}
	return cells, nil
}

func letterPrefix(ref string) (int, bool) {
	m := letterRef.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return 0, false
	}
	return LettersToIndex(m[1])
}

// columnName maps a zero-based position to the existing identifier or to synthesized letters.
func columnName(t *sheet.Table, idx int) string {
	if name, ok := t.ColumnAt(idx); ok {
		return name
	}
	return IndexToLetters(idx)
}

// LettersToIndex converts column letters (A=0, Z=25, AA=26) to a zero-based index. It rejects
// empty input, non-letters and more than seven letters.
func LettersToIndex(letters string) (int, bool) {
	if letters == "" || len(letters) > 7 {
		return 0, false
	}
	n := 0
	for _, ch := range strings.ToUpper(letters) {
		if ch < 'A' || ch > 'Z' {
			return 0, false
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n - 1, true
}

// IndexToLetters converts a zero-based column index to its letters.
func IndexToLetters(idx int) string {
	if idx < 0 {
		return ""
	}
	n := idx + 1
	var b []byte
	for n > 0 {
		rem := (n - 1) % 26
		b = append([]byte{byte('A' + rem)}, b...)
		n = (n - 1) / 26
	}
	return string(b)
}
