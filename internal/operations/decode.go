package operations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/tabvc/tabvc/internal/sheet"
	"strings"
)

// round_column decimals; a float64 holds about 15 significant digits.
const (
	minDecimals = -15
	maxDecimals = 15
)

// wireOperation is the JSON shape of every operation kind. Several kinds accept alias keys, so the
// struct carries all of them and Decode picks the first one present.
type wireOperation struct {
	Type         string          `json:"type"`
	Sheet        string          `json:"sheet"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	Column       string          `json:"column"`
	ColumnName   string          `json:"column_name"`
	NewName      string          `json:"new_name"`
	Value        any             `json:"value"`
	ColumnA      string          `json:"column_a"`
	ColumnB      string          `json:"column_b"`
	ColumnIndexA *int            `json:"column_index_a"`
	ColumnIndexB *int            `json:"column_index_b"`
	Decimals     *int            `json:"decimals"`
	Threshold    *float64        `json:"threshold"`
	Color        string          `json:"color"`
	EqualVar     bool            `json:"equal_var"`
	Output       string          `json:"output"`
	OutputPrefix string          `json:"output_prefix"`
	Cell         string          `json:"cell"`
	Range        string          `json:"range"`
	Rows         []int           `json:"rows"`
	Where        *wireCondition  `json:"where"`
	Set          json.RawMessage `json:"set"`
	By           string          `json:"by"`
	Ascending    *bool           `json:"ascending"`
}

type wireCondition struct {
	Column string `json:"column"`
	Value  any    `json:"value"`
}

// List is an ordered batch of operations that encodes to and decodes from a JSON array.
type List []Operation

func (l *List) UnmarshalJSON(data []byte) error {
	ops, err := DecodeList(data)
	if err != nil {
		return err
	}
	*l = ops
	return nil
}

func (l List) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(l))
	for _, op := range l {
		b, err := Encode(op)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return json.Marshal(out)
}

// DecodeList decodes a JSON array of operations.
func DecodeList(data []byte) ([]Operation, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newError(ErrInvalidOperation, "operations must be a JSON array: %v", err)
	}
	ops := make([]Operation, 0, len(raw))
	for i, r := range raw {
		op, err := Decode(r)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Decode turns one JSON object into an Operation. A missing type or a missing required field is
// ErrInvalidOperation; an unrecognized type decodes to Unknown.
func Decode(data []byte) (Operation, error) {
	var w wireOperation
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, newError(ErrInvalidOperation, "malformed operation: %v", err)
	}
	if w.Type == "" {
		return nil, newError(ErrInvalidOperation, "missing type")
	}

	switch Kind(w.Type) {
	case KindAddSheet:
		return AddSheet{Name: first(w.To, w.Sheet, "Sheet")}, nil

	case KindRenameSheet:
		if w.From == "" || w.To == "" {
			return nil, newError(ErrInvalidOperation, "rename_sheet requires from and to")
		}
		return RenameSheet{From: w.From, To: w.To}, nil

	case KindAddColumn:
		name := first(w.ColumnName, w.Column)
		if name == "" {
			return nil, newError(ErrInvalidOperation, "add_column requires column_name")
		}
		v, err := scalar(w.Value)
		if err != nil {
			return nil, err
		}
		return AddColumn{Sheet: w.Sheet, Column: name, Value: v}, nil

	case KindRenameColumn:
		newName := first(w.NewName, w.ColumnName)
		if w.Column == "" || newName == "" {
			return nil, newError(ErrInvalidOperation, "rename_column requires column and new_name")
		}
		return RenameColumn{Sheet: w.Sheet, Column: w.Column, NewName: newName}, nil

	case KindSwapColumns:
		op := SwapColumns{
			Sheet:   w.Sheet,
			ColumnA: first(w.ColumnA, w.From),
			ColumnB: first(w.ColumnB, w.To),
		}
		if w.ColumnIndexA != nil && w.ColumnIndexB != nil {
			op.IndexA, op.IndexB = w.ColumnIndexA, w.ColumnIndexB
		} else if op.ColumnA == "" || op.ColumnB == "" {
			return nil, newError(ErrInvalidOperation,
				"swap_columns requires column_a and column_b or both column indexes")
		}
		return op, nil

	case KindRoundColumn:
		if w.Column == "" {
			return nil, newError(ErrInvalidOperation, "round_column requires column")
		}
		op := RoundColumn{Sheet: w.Sheet, Column: w.Column}
		if w.Decimals != nil {
			if *w.Decimals < minDecimals || *w.Decimals > maxDecimals {
				return nil, newError(ErrInvalidOperation, "round_column decimals must be between %d and %d",
					minDecimals, maxDecimals)
			}
			op.Decimals = *w.Decimals
		}
		return op, nil

	case KindFormatLT:
		if w.Column == "" || w.Threshold == nil {
			return nil, newError(ErrInvalidOperation, "format_lt requires column and threshold")
		}
		color, err := parseColor(w.Color)
		if err != nil {
			return nil, err
		}
		return FormatLessThan{Sheet: w.Sheet, Column: w.Column, Threshold: *w.Threshold,
			Color: color}, nil

	case KindTTest:
		if w.ColumnA == "" || w.ColumnB == "" {
			return nil, newError(ErrInvalidOperation, "t_test requires column_a and column_b")
		}
		output := TTestOutput(first(strings.ToLower(w.Output), string(OutputSheet)))
		if output != OutputSheet && output != OutputColumn {
			return nil, newError(ErrInvalidOperation, "unknown t_test output %q", w.Output)
		}
		return TTest{
			Sheet:        w.Sheet,
			ColumnA:      w.ColumnA,
			ColumnB:      w.ColumnB,
			EqualVar:     w.EqualVar,
			Output:       output,
			OutputPrefix: first(w.OutputPrefix, "t_test"),
		}, nil

	case KindSetCell:
		if w.Cell == "" {
			return nil, newError(ErrInvalidOperation, "set_cell requires cell")
		}
		v, err := scalar(w.Value)
		if err != nil {
			return nil, err
		}
		return SetCell{Sheet: w.Sheet, Cell: w.Cell, Value: v}, nil

	case KindSetRange:
		if w.Range == "" {
			return nil, newError(ErrInvalidOperation, "set_range requires range")
		}
		v, err := scalar(w.Value)
		if err != nil {
			return nil, err
		}
		return SetRange{Sheet: w.Sheet, Range: w.Range, Value: v}, nil

	case KindDeleteRows:
		if w.Rows == nil {
			return nil, newError(ErrInvalidOperation, "delete_rows requires rows")
		}
		return DeleteRows{Sheet: w.Sheet, Rows: w.Rows}, nil

	case KindUpdateCells:
		if w.Where == nil || w.Where.Column == "" {
			return nil, newError(ErrInvalidOperation, "update_cells requires where.column")
		}
		match, err := scalar(w.Where.Value)
		if err != nil {
			return nil, err
		}
		set, err := decodeAssignments(w.Set)
		if err != nil {
			return nil, err
		}
		return UpdateCells{
			Sheet: w.Sheet,
			Where: Condition{Column: w.Where.Column, Value: match},
			Set:   set,
		}, nil

	case KindSort:
		if w.By == "" {
			return nil, newError(ErrInvalidOperation, "sort requires by")
		}
		op := Sort{Sheet: w.Sheet, By: w.By, Ascending: true}
		if w.Ascending != nil {
			op.Ascending = *w.Ascending
		}
		return op, nil
	}

	return Unknown{Type: w.Type}, nil
}

// decodeAssignments reads the set object of update_cells keeping key order. A repeated key keeps
// its first position and its last value.
func decodeAssignments(raw json.RawMessage) ([]Assignment, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, newError(ErrInvalidOperation, "malformed set: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, newError(ErrInvalidOperation, "set must be an object")
	}

	var out []Assignment
	seen := make(map[string]int)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, newError(ErrInvalidOperation, "malformed set: %v", err)
		}
		key, _ := tok.(string)

		var v any
		if err = dec.Decode(&v); err != nil {
			return nil, newError(ErrInvalidOperation, "malformed set value for %q: %v", key, err)
		}
		value, err := scalar(v)
		if err != nil {
			return nil, err
		}

		if i, ok := seen[key]; ok {
			out[i].Value = value
			continue
		}
		seen[key] = len(out)
		out = append(out, Assignment{Column: key, Value: value})
	}
	return out, nil
}

func scalar(v any) (any, error) {
	out, ok := sheet.Normalize(v)
	if !ok {
		return nil, newError(ErrInvalidOperation, "value must be a string, number, boolean or null")
	}
	return out, nil
}

func parseColor(c string) (sheet.Color, error) {
	switch strings.ToLower(c) {
	case "", string(sheet.ColorRed):
		return sheet.ColorRed, nil
	case string(sheet.ColorYellow):
		return sheet.ColorYellow, nil
	}
	return "", newError(ErrInvalidOperation, "unsupported color %q", c)
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Encode renders an operation in its canonical JSON form.
func Encode(op Operation) ([]byte, error) {
	out := map[string]any{"type": op.Kind()}
	put := func(key, v string) {
		if v != "" {
			out[key] = v
		}
	}

	switch o := op.(type) {
	case AddSheet:
		put("to", o.Name)
	case RenameSheet:
		put("from", o.From)
		put("to", o.To)
	case AddColumn:
		put("sheet", o.Sheet)
		put("column_name", o.Column)
		out["value"] = o.Value
	case RenameColumn:
		put("sheet", o.Sheet)
		put("column", o.Column)
		put("new_name", o.NewName)
	case SwapColumns:
		put("sheet", o.Sheet)
		put("column_a", o.ColumnA)
		put("column_b", o.ColumnB)
		if o.IndexA != nil && o.IndexB != nil {
			out["column_index_a"] = *o.IndexA
			out["column_index_b"] = *o.IndexB
		}
	case RoundColumn:
		put("sheet", o.Sheet)
		put("column", o.Column)
		out["decimals"] = o.Decimals
	case FormatLessThan:
		put("sheet", o.Sheet)
		put("column", o.Column)
		out["threshold"] = o.Threshold
		put("color", string(o.Color))
	case TTest:
		put("sheet", o.Sheet)
		put("column_a", o.ColumnA)
		put("column_b", o.ColumnB)
		out["equal_var"] = o.EqualVar
		put("output", string(o.Output))
		put("output_prefix", o.OutputPrefix)
	case SetCell:
		put("sheet", o.Sheet)
		put("cell", o.Cell)
		out["value"] = o.Value
	case SetRange:
		put("sheet", o.Sheet)
		put("range", o.Range)
		out["value"] = o.Value
	case DeleteRows:
		put("sheet", o.Sheet)
		rows := o.Rows
		if rows == nil {
			rows = []int{}
		}
		out["rows"] = rows
	case UpdateCells:
		put("sheet", o.Sheet)
		out["where"] = map[string]any{"column": o.Where.Column, "value": o.Where.Value}
		set, err := encodeAssignments(o.Set)
		if err != nil {
			return nil, err
		}
		out["set"] = set
	case Sort:
		put("sheet", o.Sheet)
		put("by", o.By)
		out["ascending"] = o.Ascending
	case Unknown:
	default:
		return nil, newError(ErrInvalidOperation, "cannot encode %T", op)
	}
	return json.Marshal(out)
}

func encodeAssignments(set []Assignment) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range set {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Column)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
