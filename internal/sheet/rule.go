package sheet

import (
	"encoding/json"
)

type RuleKind string

const (
	NumberFormat      RuleKind = "number_format"
	LessThanHighlight RuleKind = "less_than_highlight"
)

type Color string

const (
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
)

// FormatRule is display metadata replayed at export time. Rules are never validated against the
// table shape until then.
type FormatRule struct {
	Kind   RuleKind
	Sheet  string
	Column string
	// Format is the decimal display format of a NumberFormat rule.
	Format string
	// Threshold and Color belong to a LessThanHighlight rule.
	Threshold float64
	Color     Color
}

func (r FormatRule) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"type":   r.Kind,
		"sheet":  r.Sheet,
		"column": r.Column,
	}
	switch r.Kind {
	case NumberFormat:
		out["format"] = r.Format
	case LessThanHighlight:
		out["threshold"] = r.Threshold
		out["color"] = r.Color
	}
	return json.Marshal(out)
}

// CloneRules copies a rule list. FormatRule holds no references, so a slice copy is deep.
func CloneRules(rules []FormatRule) []FormatRule {
	out := make([]FormatRule, len(rules))
	copy(out, rules)
	return out
}
