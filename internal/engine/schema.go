package engine

import "fmt"

// Schema is the ordered, immutable column list of a table plus a derived
// name lookup. Schemas are fixed at table creation; rows hold a non-owning
// reference to their table's schema.
type Schema struct {
	columns []Column
	names   map[string]int
}

// NewSchema builds a schema from the given columns. Column names must be
// unique within the schema.
func NewSchema(columns []Column) (*Schema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("schema must have at least one column")
	}
	s := &Schema{
		columns: make([]Column, len(columns)),
		names:   make(map[string]int, len(columns)),
	}
	copy(s.columns, columns)
	for i := range s.columns {
		name := s.columns[i].Name()
		if _, dup := s.names[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		s.names[name] = i
	}
	return s, nil
}

func (s *Schema) Len() int { return len(s.columns) }

// Column returns the column at position i.
func (s *Schema) Column(i int) *Column {
	return &s.columns[i]
}

// Columns returns a copy of the column list.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// ColumnIndex resolves a column name to its position.
func (s *Schema) ColumnIndex(name string) (int, bool) {
	i, ok := s.names[name]
	return i, ok
}

// ColumnByName returns the named column, or nil when absent.
func (s *Schema) ColumnByName(name string) *Column {
	if i, ok := s.names[name]; ok {
		return &s.columns[i]
	}
	return nil
}
