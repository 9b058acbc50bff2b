// Package ingest turns uploaded bytes into tables. CSV and TSV files become a single sheet;
// anything else is read as an xlsx workbook with one table per worksheet. Uploads may be
// compressed with gzip, bzip2, xz or zstd, detected from the filename suffix.
package ingest

import (
	"bytes"
	"encoding/csv"
	"github.com/tabvc/tabvc/internal/sheet"
	"github.com/xuri/excelize/v2"
	"path/filepath"
	"strings"
)

const (
	extCSV = ".csv"
	extTSV = ".tsv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load decodes an uploaded file into a table set.
func Load(data []byte, filename string) (*sheet.TableSet, error) {
	kind, name := detectCompression(filename)
	raw, err := decompress(kind, data)
	if err != nil {
		return nil, newError(ErrUnsupportedFormat, "%s: %v", filename, err)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case extCSV:
		return loadDelimited(raw, ',')
	case extTSV:
		return loadDelimited(raw, '\t')
	}
	return loadXLSX(raw)
}

// CreateEmpty returns a workbook holding one empty sheet.
func CreateEmpty(sheetName string) *sheet.TableSet {
	if sheetName == "" {
		sheetName = sheet.DefaultSheetName
	}
	set := sheet.NewTableSet()
	set.Set(sheetName, sheet.NewTable())
	return set
}

func loadDelimited(data []byte, comma rune) (*sheet.TableSet, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, newError(ErrUnsupportedFormat, "failed to parse delimited file: %v", err)
	}

	set := sheet.NewTableSet()
	set.Set(sheet.DefaultSheetName, buildTable(rows))
	return set, nil
}

func loadXLSX(data []byte) (*sheet.TableSet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, newError(ErrUnsupportedFormat, "failed to open workbook: %v", err)
	}
	defer func() {
		_ = f.Close()
	}()

	set := sheet.NewTableSet()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, newError(ErrUnsupportedFormat, "failed to read sheet %s: %v", name, err)
		}
		set.Set(name, buildTable(rows))
	}
	if set.Len() == 0 {
		return nil, newError(ErrUnsupportedFormat, "workbook has no sheets")
	}
	return set, nil
}
