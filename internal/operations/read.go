package operations

import (
	"encoding/json"
	"github.com/tabvc/tabvc/internal/sheet"
	"github.com/tabvc/tabvc/internal/stats"
	"math"
)

// Analysis is the record of one t_test run.
type Analysis struct {
	Type    string
	Sheet   string
	ColumnA string
	ColumnB string
	NA      int
	NB      int
	MeanA   float64
	MeanB   float64
	TStat   float64
	PValue  float64
	DF      float64
}

// MarshalJSON writes NaN statistics as null.
func (a Analysis) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":     a.Type,
		"sheet":    a.Sheet,
		"column_a": a.ColumnA,
		"column_b": a.ColumnB,
		"n_a":      a.NA,
		"n_b":      a.NB,
		"mean_a":   jsonNumber(a.MeanA),
		"mean_b":   jsonNumber(a.MeanB),
		"t_stat":   jsonNumber(a.TStat),
		"p_value":  jsonNumber(a.PValue),
		"df":       jsonNumber(a.DF),
	})
}

func jsonNumber(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// formatLessThan only records a rule. The sheet is neither created nor marked changed.
func (b *batch) formatLessThan(op FormatLessThan) {
	name := op.Sheet
	if name == "" {
		name = b.tables.Default()
	}
	*b.rules = append(*b.rules, sheet.FormatRule{
		Kind:      sheet.LessThanHighlight,
		Sheet:     name,
		Column:    op.Column,
		Threshold: op.Threshold,
		Color:     op.Color,
	})
}

func (b *batch) tTest(op TTest) {
	name, t := b.target(op.Sheet)
	colA, okA := t.Column(op.ColumnA)
	colB, okB := t.Column(op.ColumnB)
	if !okA || !okB {
		return
	}

	res, ok := stats.TwoSample(numbers(colA), numbers(colB), op.EqualVar)
	if !ok {
		return
	}

	b.analysis = append(b.analysis, Analysis{
		Type:    string(KindTTest),
		Sheet:   name,
		ColumnA: op.ColumnA,
		ColumnB: op.ColumnB,
		NA:      res.NA,
		NB:      res.NB,
		MeanA:   res.MeanA,
		MeanB:   res.MeanB,
		TStat:   res.TStat,
		PValue:  res.PValue,
		DF:      res.DF,
	})

	if op.Output == OutputColumn {
		prefix := op.OutputPrefix
		t.Broadcast(prefix+"_t", cell(res.TStat))
		t.Broadcast(prefix+"_p", cell(res.PValue))
		t.Broadcast(prefix+"_df", cell(res.DF))
		t.Broadcast(prefix+"_mean_a", cell(res.MeanA))
		t.Broadcast(prefix+"_mean_b", cell(res.MeanB))
		b.markChanged(name)
		return
	}

	results := sheet.NewTable("column_a", "column_b", "n_a", "n_b", "mean_a", "mean_b",
		"t_stat", "p_value", "df")
	results.AppendRow(op.ColumnA, op.ColumnB, float64(res.NA), float64(res.NB),
		cell(res.MeanA), cell(res.MeanB), cell(res.TStat), cell(res.PValue), cell(res.DF))
	b.tables.Set(ResultsSheet, results)
	b.markChanged(ResultsSheet)
}

// numbers coerces cells to numbers and drops the ones that are not.
func numbers(values []any) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if n, ok := sheet.ToNumber(v); ok {
			out = append(out, n)
		}
	}
	return out
}

func cell(f float64) any {
	return jsonNumber(f)
}
