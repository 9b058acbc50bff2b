package sheet

// TableSet maps sheet names to tables. Insertion order matters: the first sheet is the default
// target of operations that omit a sheet name.
type TableSet struct {
	names  []string
	tables map[string]*Table
}

// NewTableSet returns an empty set.
func NewTableSet() *TableSet {
	return &TableSet{tables: make(map[string]*Table)}
}

// Names returns the sheet names in order.
func (s *TableSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len is the number of sheets.
func (s *TableSet) Len() int {
	return len(s.names)
}

// Get looks up a sheet by exact name.
func (s *TableSet) Get(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// Set stores a table under name. An existing sheet keeps its position; a new one is appended.
func (s *TableSet) Set(name string, t *Table) {
	if _, ok := s.tables[name]; !ok {
		s.names = append(s.names, name)
	}
	s.tables[name] = t
}

// Remove deletes a sheet and returns it.
func (s *TableSet) Remove(name string) (*Table, bool) {
	t, ok := s.tables[name]
	if !ok {
		return nil, false
	}
	delete(s.tables, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return t, true
}

// Default returns the first sheet name, or DefaultSheetName for an empty set.
func (s *TableSet) Default() string {
	if len(s.names) == 0 {
		return DefaultSheetName
	}
	return s.names[0]
}

// Ensure returns the named sheet, creating an empty one when absent.
func (s *TableSet) Ensure(name string) *Table {
	if t, ok := s.tables[name]; ok {
		return t
	}
	t := NewTable()
	s.Set(name, t)
	return t
}

// Clone deep-copies every table.
func (s *TableSet) Clone() *TableSet {
	out := &TableSet{
		names:  s.Names(),
		tables: make(map[string]*Table, len(s.tables)),
	}
	for name, t := range s.tables {
		out.tables[name] = t.Clone()
	}
	return out
}
