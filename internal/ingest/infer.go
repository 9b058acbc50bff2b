package ingest

import (
	"fmt"
	"github.com/tabvc/tabvc/internal/sheet"
	"strconv"
	"strings"
)

type columnType int

const (
	columnTypeText columnType = iota
	columnTypeNumber
	columnTypeBool
)

// buildTable treats the first row as the header and infers one type per column from the rest.
func buildTable(rows [][]string) *sheet.Table {
	if len(rows) == 0 {
		return sheet.NewTable()
	}

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	headers := normalizeHeaders(rows[0], width)
	records := rows[1:]
	types := make([]columnType, width)
	for i := range types {
		types[i] = inferColumnType(records, i)
	}

	t := sheet.NewTable(headers...)
	for _, rec := range records {
		values := make([]any, width)
		for i := range values {
			values[i] = convert(field(rec, i), types[i])
		}
		t.AppendRow(values...)
	}
	return t
}

// normalizeHeaders names blank headers "Unnamed: <i>" and suffixes repeats with ".1", ".2", ...
func normalizeHeaders(raw []string, width int) []string {
	out := make([]string, width)
	seen := make(map[string]int, width)
	used := make(map[string]struct{}, width)
	for i := range out {
		name := strings.TrimSpace(field(raw, i))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		base := name
		for {
			if _, taken := used[name]; !taken {
				break
			}
			seen[base]++
			name = fmt.Sprintf("%s.%d", base, seen[base])
		}
		used[name] = struct{}{}
		out[i] = name
	}
	return out
}

// inferColumnType picks number when every non-empty value parses as one, bool when every value
// is true or false, and text otherwise.
func inferColumnType(records [][]string, col int) columnType {
	isNumber, isBool, nonEmpty := true, true, false
	for _, rec := range records {
		v := strings.TrimSpace(field(rec, col))
		if v == "" {
			continue
		}
		nonEmpty = true
		if _, ok := parseNumber(v); !ok {
			isNumber = false
		}
		if _, ok := parseBool(v); !ok {
			isBool = false
		}
		if !isNumber && !isBool {
			return columnTypeText
		}
	}

	switch {
	case !nonEmpty:
		return columnTypeText
	case isNumber:
		return columnTypeNumber
	case isBool:
		return columnTypeBool
	}
	return columnTypeText
}

func convert(v string, typ columnType) any {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	switch typ {
	case columnTypeNumber:
		n, _ := parseNumber(trimmed)
		return n
	case columnTypeBool:
		b, _ := parseBool(trimmed)
		return b
	}
	return v
}

func parseNumber(v string) (float64, bool) {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	out, ok := sheet.Normalize(n)
	if out == nil || !ok {
		return 0, false
	}
	return n, true
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
