package engine

import (
	"fmt"
	"log/slog"
	"sync"
)

// Database is a named map of exclusively-owned tables. The database lock
// guards the table namespace only; row-level concurrency is each table's
// own business.
type Database struct {
	mu     sync.RWMutex
	name   string
	tables map[string]*Table
}

// NewDatabase creates an empty database.
func NewDatabase(name string) *Database {
	return &Database{
		name:   name,
		tables: make(map[string]*Table),
	}
}

func (db *Database) Name() string { return db.name }

// CreateTable creates a new table in the database. Fails when the name is
// already taken.
func (db *Database) CreateTable(name string, schema *Schema, pkColumn string) (*Table, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.tables[name]; exists {
		return nil, fmt.Errorf("table %q already exists", name)
	}
	table, err := NewTable(name, schema, pkColumn)
	if err != nil {
		return nil, err
	}
	db.tables[name] = table

	slog.Debug("table created", "database", db.name, "table", name, "columns", schema.Len())
	return table, nil
}

// ColumnSpec is the shorthand column description used by CreateSimpleTable.
type ColumnSpec struct {
	Name     string
	Type     ValueType
	Nullable bool
}

// CreateSimpleTable builds a schema from shorthand specs and creates the
// table. The primary-key column is forced unique and non-nullable no
// matter what the caller asked for.
func (db *Database) CreateSimpleTable(name string, specs []ColumnSpec, pkColumn string) (*Table, error) {
	columns := make([]Column, 0, len(specs))
	for _, spec := range specs {
		nullable := spec.Nullable
		unique := false
		if spec.Name == pkColumn {
			nullable = false
			unique = true
		}
		columns = append(columns, NewColumn(spec.Name, spec.Type, nullable, unique))
	}
	schema, err := NewSchema(columns)
	if err != nil {
		return nil, err
	}
	return db.CreateTable(name, schema, pkColumn)
}

// Table returns the named table, or nil when absent.
func (db *Database) Table(name string) *Table {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.tables[name]
}

// HasTable reports whether the named table exists.
func (db *Database) HasTable(name string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.tables[name]
	return ok
}

// DropTable removes the named table, reporting whether it existed.
func (db *Database) DropTable(name string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.tables[name]; !ok {
		return false
	}
	delete(db.tables, name)

	slog.Debug("table dropped", "database", db.name, "table", name)
	return true
}

// TableNames returns the names of all tables, in map order.
func (db *Database) TableNames() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	return names
}

// TableCount returns the number of tables.
func (db *Database) TableCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.tables)
}

// IsEmpty reports whether the database has no tables.
func (db *Database) IsEmpty() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.tables) == 0
}

// Clear drops every table.
func (db *Database) Clear() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tables = make(map[string]*Table)
}

// Stats aggregates each table's row count and memory estimate.
func (db *Database) Stats() DatabaseStats {
	db.mu.RLock()
	tables := make([]*Table, 0, len(db.tables))
	for _, t := range db.tables {
		tables = append(tables, t)
	}
	db.mu.RUnlock()

	stats := DatabaseStats{
		Name:           db.name,
		TableCount:     len(tables),
		TableRowCounts: make(map[string]int, len(tables)),
	}
	for _, t := range tables {
		ts := t.Stats()
		stats.TotalRowCount += ts.RowCount
		stats.TotalMemory += ts.MemoryEstimate
		stats.TableRowCounts[t.Name()] = ts.RowCount
	}
	return stats
}
