package operations

import (
	"errors"
	"github.com/rs/zerolog/log"
	"github.com/tabvc/tabvc/internal/sheet"
	"sort"
)

// ResultsSheet receives t_test results written with the sheet output.
const ResultsSheet = "统计结果"

// Result is the outcome of one batch.
type Result struct {
	// Changed lists the sheets that received data or structural changes, sorted by name.
	Changed []string
	// Analysis holds one entry per t_test that had enough data, in execution order.
	Analysis []Analysis
	// Aborted is set when a swap_columns reference was out of range and the rest of the batch
	// was skipped.
	Aborted bool
}

// batch is the state threaded through one Apply call.
type batch struct {
	tables   *sheet.TableSet
	rules    *[]sheet.FormatRule
	changed  map[string]struct{}
	analysis []Analysis
}

// Apply runs ops in order against tables, appending any display rules to rules. Mutations are made
// in place. An address error stops the batch and is returned as is together with the partial
// result; work done by earlier operations is not undone.
func Apply(tables *sheet.TableSet, ops []Operation, rules *[]sheet.FormatRule) (*Result, error) {
	if rules == nil {
		rules = &[]sheet.FormatRule{}
	}
	b := &batch{
		tables:  tables,
		rules:   rules,
		changed: make(map[string]struct{}),
	}

	res := &Result{}
	for i, op := range ops {
		if err := b.run(op); err != nil {
			if errors.Is(err, errAbortBatch) {
				log.Warn().Int("index", i).Str("kind", string(op.Kind())).
					Msg("column reference out of range, skipping the rest of the batch")
				res.Aborted = true
				break
			}
			res.Changed, res.Analysis = b.changedSheets(), b.analysis
			return res, err
		}
	}

	res.Changed, res.Analysis = b.changedSheets(), b.analysis
	return res, nil
}

func (b *batch) markChanged(name string) {
	b.changed[name] = struct{}{}
}

func (b *batch) changedSheets() []string {
	out := make([]string, 0, len(b.changed))
	for name := range b.changed {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// target resolves an optional sheet name to the sheet it addresses, creating it when absent.
func (b *batch) target(name string) (string, *sheet.Table) {
	if name == "" {
		name = b.tables.Default()
	}
	return name, b.tables.Ensure(name)
}
