// Package export renders table sets as downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"github.com/rs/zerolog/log"
	"github.com/tabvc/tabvc/internal/sheet"
	"github.com/xuri/excelize/v2"
	"strconv"
)

const (
	MediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MediaTypeCSV  = "text/csv"

	defaultNumberFormat = "0.0"
)

var fills = map[sheet.Color]string{
	sheet.ColorRed:    "FFC7CE",
	sheet.ColorYellow: "FDE68A",
}

// XLSX writes every sheet with a header row, then replays the display rules. A rule whose sheet or
// column is missing is skipped.
func XLSX(tables *sheet.TableSet, rules []sheet.FormatRule) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	names := tables.Names()
	if len(names) == 0 {
		names = []string{sheet.DefaultSheetName}
	}

	for i, name := range names {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}

		t, ok := tables.Get(name)
		if !ok {
			continue
		}
		if err := writeSheet(f, name, t); err != nil {
			return nil, err
		}
	}

	for _, rule := range rules {
		t, ok := tables.Get(rule.Sheet)
		if !ok {
			continue
		}
		idx := t.ColumnIndex(rule.Column)
		if idx < 0 || t.Len() == 0 {
			continue
		}
		if err := applyRule(f, rule, idx, t.Len()); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, t *sheet.Table) error {
	if t.Width() == 0 {
		return nil
	}

	header := make([]any, t.Width())
	for i, c := range t.Columns() {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", name, err)
	}

	for r := 0; r < t.Len(); r++ {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		row := t.Row(r)
		if err = f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+1, name, err)
		}
	}
	return nil
}

// applyRule styles the data cells of the column at idx, rows 2 through rows+1.
func applyRule(f *excelize.File, rule sheet.FormatRule, idx, rows int) error {
	letters, err := excelize.ColumnNumberToName(idx + 1)
	if err != nil {
		return err
	}
	first := letters + "2"
	last := letters + strconv.Itoa(rows+1)

	switch rule.Kind {
	case sheet.NumberFormat:
		format := rule.Format
		if format == "" {
			format = defaultNumberFormat
		}
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
		if err != nil {
			return fmt.Errorf("failed to create number format %q: %w", format, err)
		}
		return f.SetCellStyle(rule.Sheet, first, last, style)

	case sheet.LessThanHighlight:
		fill, ok := fills[rule.Color]
		if !ok {
			fill = fills[sheet.ColorRed]
		}
		style, err := f.NewConditionalStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("failed to create highlight style: %w", err)
		}
		return f.SetConditionalFormat(rule.Sheet, first+":"+last,
			[]excelize.ConditionalFormatOptions{{
				Type:     "cell",
				Criteria: "<",
				Format:   &style,
				Value:    strconv.FormatFloat(rule.Threshold, 'f', -1, 64),
			}})
	}

	log.Debug().Str("kind", string(rule.Kind)).Msg("skipping unknown format rule")
	return nil
}

// CSV writes the first sheet. Nulls become empty fields.
func CSV(tables *sheet.TableSet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	t, ok := tables.Get(tables.Default())
	if ok && t.Width() > 0 {
		if err := w.Write(t.Columns()); err != nil {
			return nil, err
		}
		record := make([]string, t.Width())
		for r := 0; r < t.Len(); r++ {
			for i, v := range t.Row(r) {
				record[i] = formatCell(v)
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case string:
		return x
	}
	return fmt.Sprint(v)
}
