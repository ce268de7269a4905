package engine

import (
	"fmt"
	"log/slog"
	"sync"
)

// Table is a schema-validated row store with a primary-key index and a
// per-table read/write lock. The schema is fixed at construction; rows
// are created, replaced and removed only through the methods below, and
// every mutating operation runs under the exclusive lock.
type Table struct {
	mu      sync.RWMutex
	name    string
	schema  *Schema
	rows    []Row
	pkIndex map[string]int // canonical PK string -> row position
	pkCol   int
}

// NewTable creates a table over the given schema. The primary-key column
// must exist, be marked unique and be non-nullable.
func NewTable(name string, schema *Schema, pkColumn string) (*Table, error) {
	if schema == nil || schema.Len() == 0 {
		return nil, fmt.Errorf("table %q: schema must not be empty", name)
	}
	pkCol, ok := schema.ColumnIndex(pkColumn)
	if !ok {
		return nil, &NotFoundError{Kind: "column", Name: pkColumn}
	}
	if !schema.Column(pkCol).Unique() {
		return nil, fmt.Errorf("table %q: primary key column %q must be unique", name, pkColumn)
	}
	if schema.Column(pkCol).Nullable() {
		return nil, fmt.Errorf("table %q: primary key column %q cannot be nullable", name, pkColumn)
	}
	return &Table{
		name:    name,
		schema:  schema,
		pkIndex: make(map[string]int),
		pkCol:   pkCol,
	}, nil
}

func (t *Table) Name() string { return t.name }

func (t *Table) Schema() *Schema { return t.schema }

// PrimaryKeyColumnName returns the name of the designated PK column.
func (t *Table) PrimaryKeyColumnName() string {
	return t.schema.Column(t.pkCol).Name()
}

// RowCount returns the number of stored rows.
func (t *Table) RowCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// IsEmpty reports whether the table holds no rows.
func (t *Table) IsEmpty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows) == 0
}

// InsertRow adds a new row under the exclusive lock. The caller's row is
// copied, bound to the table schema and fully validated before anything
// is mutated; on any failure the table is unchanged.
func (t *Table) InsertRow(mutRow Row) error {
	row := mutRow.Copy() // prevent mutation of caller's data
	row.SetSchema(t.schema)

	t.mu.Lock()
	defer t.mu.Unlock()

	// 1. Validate types, NOT NULL and per-column constraints
	if err := t.validateRow(&row); err != nil {
		return err
	}

	// 2. Scan every unique column against existing rows
	if err := t.checkUnique(&row, -1); err != nil {
		return err
	}

	// 3. Reject a duplicate primary key
	pk := row.values[t.pkCol]
	key := pk.String()
	if _, exists := t.pkIndex[key]; exists {
		return NewPrimaryKeyViolation(t.name, t.PrimaryKeyColumnName(), pk)
	}

	// 4. Everything passed, safe to append and index
	t.pkIndex[key] = len(t.rows)
	t.rows = append(t.rows, row)

	slog.Debug("row inserted", "table", t.name, "pk", key, "rows", len(t.rows))
	return nil
}

// InsertValues inserts a row built from positional values.
func (t *Table) InsertValues(values ...Value) error {
	row, err := NewRowWithValues(t.schema, values)
	if err != nil {
		return &ValidationError{Table: t.name, Reason: err.Error()}
	}
	return t.InsertRow(row)
}

// FindRowByPK looks a row up through the primary-key index under the
// shared lock. The returned row is a copy.
func (t *Table) FindRowByPK(pk Value) (Row, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pos, ok := t.pkIndex[pk.String()]
	if !ok {
		return Row{}, false
	}
	return t.rows[pos].Copy(), true
}

// UpdateRow replaces the row identified by pk with a candidate built from
// newValues. When the primary-key value itself changes, the index entry
// moves atomically: a conflicting new key fails the operation and leaves
// the original entry intact.
func (t *Table) UpdateRow(pk Value, newValues []Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := pk.String()
	pos, ok := t.pkIndex[key]
	if !ok {
		return &NotFoundError{Kind: "row", Name: key}
	}

	candidate, err := NewRowWithValues(t.schema, newValues)
	if err != nil {
		return &ValidationError{Table: t.name, Reason: err.Error()}
	}
	if err := t.validateRow(&candidate); err != nil {
		return err
	}
	if err := t.checkUnique(&candidate, pos); err != nil {
		return err
	}

	newKey := candidate.values[t.pkCol].String()
	if newKey != key {
		if _, exists := t.pkIndex[newKey]; exists {
			return NewPrimaryKeyViolation(t.name, t.PrimaryKeyColumnName(), candidate.values[t.pkCol])
		}
		delete(t.pkIndex, key)
		t.pkIndex[newKey] = pos
	}
	t.rows[pos] = candidate

	slog.Debug("row updated", "table", t.name, "pk", key, "new_pk", newKey)
	return nil
}

// DeleteRow removes the row identified by pk. Returns false when the key
// is absent. Row storage is a dense, order-preserving slice, so every
// index entry past the removed position is renumbered.
func (t *Table) DeleteRow(pk Value) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := pk.String()
	pos, ok := t.pkIndex[key]
	if !ok {
		return false
	}

	delete(t.pkIndex, key)
	t.rows = append(t.rows[:pos], t.rows[pos+1:]...)
	for k, p := range t.pkIndex {
		if p > pos {
			t.pkIndex[k] = p - 1
		}
	}

	slog.Debug("row deleted", "table", t.name, "pk", key, "rows", len(t.rows))
	return true
}

// Rows returns a copy of all rows under the shared lock.
func (t *Table) Rows() []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rows := make([]Row, len(t.rows))
	for i := range t.rows {
		rows[i] = t.rows[i].Copy()
	}
	return rows
}

// Row returns a copy of the row at position i.
func (t *Table) Row(i int) (Row, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if i < 0 || i >= len(t.rows) {
		return Row{}, &OutOfRangeError{Index: i, Size: len(t.rows)}
	}
	return t.rows[i].Copy(), nil
}

// FindRows returns copies of the rows matching the predicate. A predicate
// that cannot evaluate a row (for instance a name lookup that fails inside
// it) simply reports a non-match; the scan never aborts.
func (t *Table) FindRows(predicate func(*Row) bool) []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var result []Row
	for i := range t.rows {
		if predicate(&t.rows[i]) {
			result = append(result, t.rows[i].Copy())
		}
	}
	return result
}

// FindRowsByColumn returns copies of the rows whose named column equals
// value. An unknown column name is an error, not an empty result.
func (t *Table) FindRowsByColumn(name string, value Value) ([]Row, error) {
	col, ok := t.schema.ColumnIndex(name)
	if !ok {
		return nil, &NotFoundError{Kind: "column", Name: name}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	var result []Row
	for i := range t.rows {
		if t.rows[i].values[col].Equal(value) {
			result = append(result, t.rows[i].Copy())
		}
	}
	return result, nil
}

// Clear removes all rows and index entries, keeping the schema.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = nil
	t.pkIndex = make(map[string]int)

	slog.Debug("table cleared", "table", t.name)
}

// validateRow checks arity, NOT NULL, types and constraints, returning a
// taxonomy error naming the offending column. Must be called while
// holding the lock.
func (t *Table) validateRow(row *Row) error {
	if len(row.values) != t.schema.Len() {
		return &ValidationError{
			Table:  t.name,
			Reason: fmt.Sprintf("%d values for %d columns", len(row.values), t.schema.Len()),
		}
	}
	for i, v := range row.values {
		col := t.schema.Column(i)
		if v.IsNull() {
			if !col.Nullable() {
				return NewNotNullViolation(t.name, col.Name())
			}
			continue
		}
		if v.Type() != col.Type() {
			return NewTypeMismatch(t.name, col.Name(), v, col.Type())
		}
		for _, con := range col.Constraints() {
			if !con.Check(v) {
				return &ConstraintError{
					Table:      t.name,
					Column:     col.Name(),
					Value:      v.String(),
					Constraint: string(con.Kind),
					Reason:     "constraint check failed",
				}
			}
		}
	}
	return nil
}

// checkUnique scans every unique column for a duplicate of row's value,
// skipping the row at excludePos (used by updates) and null values.
// Must be called while holding the lock.
func (t *Table) checkUnique(row *Row, excludePos int) error {
	for ci := 0; ci < t.schema.Len(); ci++ {
		col := t.schema.Column(ci)
		if !col.Unique() {
			continue
		}
		v := row.values[ci]
		if v.IsNull() {
			continue
		}
		for ri := range t.rows {
			if ri == excludePos {
				continue
			}
			if t.rows[ri].values[ci].Equal(v) {
				return NewUniqueViolation(t.name, col.Name(), v)
			}
		}
	}
	return nil
}
