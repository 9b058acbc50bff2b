package storage

import (
	"github.com/google/uuid"
	"github.com/tabvc/tabvc/internal/sheet"
	"time"
)

const defaultCommitMessage = "update"

// Commit is an immutable point in a workbook's history.
type Commit struct {
	ID            string    `json:"id"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
	ChangedSheets []string  `json:"changed_sheets"`

	tables *sheet.TableSet
	rules  []sheet.FormatRule
}

// Snapshot returns a copy of the tables and rules captured by the commit.
func (c *Commit) Snapshot() (*sheet.TableSet, []sheet.FormatRule) {
	return c.tables.Clone(), sheet.CloneRules(c.rules)
}

// Commit snapshots the workbook's current state. An empty message becomes "update" and an empty
// changed list means every sheet. Callers must hold the workbook through WithWorkbook.
func (s *Store) Commit(wb *Workbook, message string, changed []string) *Commit {
	return s.commit(wb, message, changed)
}

func (s *Store) commit(wb *Workbook, message string, changed []string) *Commit {
	if message == "" {
		message = defaultCommitMessage
	}
	if len(changed) == 0 {
		changed = wb.Tables.Names()
	}

	c := &Commit{
		ID:            uuid.NewString(),
		Message:       message,
		Timestamp:     s.timestamp(wb),
		ChangedSheets: append([]string{}, changed...),
		tables:        wb.Tables.Clone(),
		rules:         sheet.CloneRules(wb.Rules),
	}
	wb.commits = append(wb.commits, c)
	return c
}

// timestamp is the current UTC time, nudged forward when the clock has not advanced past the
// workbook's latest commit.
func (s *Store) timestamp(wb *Workbook) time.Time {
	ts := s.now().UTC()
	if n := len(wb.commits); n > 0 {
		last := wb.commits[n-1].Timestamp
		if !ts.After(last) {
			ts = last.Add(time.Microsecond)
		}
	}
	return ts
}

// History returns the workbook's commits oldest first.
func (s *Store) History(wb *Workbook) []*Commit {
	out := make([]*Commit, len(wb.commits))
	copy(out, wb.commits)
	return out
}

// Rollback restores the state captured by commitID and records a "rollback:<id>" commit that
// lists every restored sheet. History is never rewritten.
func (s *Store) Rollback(wb *Workbook, commitID string) (*Commit, error) {
	var target *Commit
	for _, c := range wb.commits {
		if c.ID == commitID {
			target = c
			break
		}
	}
	if target == nil {
		return nil, newError(ErrCommitNotFound, "%s", commitID)
	}

	wb.Tables, wb.Rules = target.Snapshot()
	return s.commit(wb, "rollback:"+commitID, wb.Tables.Names()), nil
}
