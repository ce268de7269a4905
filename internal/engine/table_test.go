package engine

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

// newUsersTable builds the canonical test table:
// {id: Int32 PK, name: String, age: Int32 nullable in [0,120], email: String unique nullable}
func newUsersTable(t *testing.T) *Table {
	t.Helper()

	ageCol := NewColumn("age", TypeInt32, true, false)
	ageCol.AddConstraint(IntRange(0, 120))

	schema, err := NewSchema([]Column{
		NewColumn("id", TypeInt32, false, true),
		NewColumn("name", TypeString, false, false),
		ageCol,
		NewColumn("email", TypeString, true, true),
	})
	if err != nil {
		t.Fatalf("schema setup: %v", err)
	}
	table, err := NewTable("users", schema, "id")
	if err != nil {
		t.Fatalf("table setup: %v", err)
	}
	return table
}

func mustInsert(t *testing.T, table *Table, values ...Value) {
	t.Helper()
	if err := table.InsertValues(values...); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
}

func TestNewTableValidation(t *testing.T) {
	schema, err := NewSchema([]Column{
		NewColumn("id", TypeInt32, false, true),
		NewColumn("nick", TypeString, true, false),
		NewColumn("maybe", TypeInt32, true, true),
	})
	if err != nil {
		t.Fatalf("schema setup: %v", err)
	}

	t.Run("missing pk column", func(t *testing.T) {
		if _, err := NewTable("t", schema, "bogus"); err == nil {
			t.Error("expected unknown PK column to fail")
		}
	})
	t.Run("non-unique pk column", func(t *testing.T) {
		if _, err := NewTable("t", schema, "nick"); err == nil {
			t.Error("expected non-unique PK column to fail")
		}
	})
	t.Run("nullable pk column", func(t *testing.T) {
		if _, err := NewTable("t", schema, "maybe"); err == nil {
			t.Error("expected nullable PK column to fail")
		}
	})
	t.Run("empty schema", func(t *testing.T) {
		if _, err := NewTable("t", nil, "id"); err == nil {
			t.Error("expected nil schema to fail")
		}
	})
}

// TestCRUDScenario follows one row through its whole life.
func TestCRUDScenario(t *testing.T) {
	table := newUsersTable(t)

	mustInsert(t, table, NewInt32(1), NewString("Alice"), NewInt32(28), Null())

	row, found := table.FindRowByPK(NewInt32(1))
	if !found {
		t.Fatal("inserted row not found by PK")
	}
	name, err := row.ValueByName("name")
	if err != nil || !name.Equal(NewString("Alice")) {
		t.Fatalf("expected name Alice, got %s (%v)", name, err)
	}

	err = table.UpdateRow(NewInt32(1), []Value{NewInt32(1), NewString("Alice"), NewInt32(29), Null()})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	row, found = table.FindRowByPK(NewInt32(1))
	if !found {
		t.Fatal("row vanished after update")
	}
	age, _ := row.ValueByName("age")
	if !age.Equal(NewInt32(29)) {
		t.Errorf("expected age 29 after update, got %s", age)
	}

	if !table.DeleteRow(NewInt32(1)) {
		t.Fatal("delete reported not-found for existing row")
	}
	if _, found := table.FindRowByPK(NewInt32(1)); found {
		t.Error("deleted row still resolvable by PK")
	}
	if table.DeleteRow(NewInt32(1)) {
		t.Error("second delete of the same key must report not-found")
	}
}

func TestInsertRejections(t *testing.T) {
	table := newUsersTable(t)
	mustInsert(t, table, NewInt32(1), NewString("Alice"), NewInt32(28), NewString("alice@x.io"))

	t.Run("constraint violation leaves state unchanged", func(t *testing.T) {
		err := table.InsertValues(NewInt32(2), NewString("Old"), NewInt32(200), Null())
		var ce *ConstraintError
		if !errors.As(err, &ce) {
			t.Fatalf("expected ConstraintError for out-of-range age, got %v", err)
		}
		if table.RowCount() != 1 {
			t.Errorf("failed insert must not change row count, have %d", table.RowCount())
		}
	})

	t.Run("duplicate primary key", func(t *testing.T) {
		err := table.InsertValues(NewInt32(1), NewString("Clone"), Null(), Null())
		var ce *ConstraintError
		if !errors.As(err, &ce) {
			t.Fatalf("expected ConstraintError, got %v", err)
		}
		if table.RowCount() != 1 {
			t.Error("duplicate PK insert must not mutate the table")
		}
	})

	t.Run("unique column duplicate", func(t *testing.T) {
		err := table.InsertValues(NewInt32(2), NewString("Bob"), Null(), NewString("alice@x.io"))
		var ce *ConstraintError
		if !errors.As(err, &ce) || ce.Constraint != "unique" {
			t.Fatalf("expected unique violation, got %v", err)
		}
	})

	t.Run("null in unique column is not a duplicate", func(t *testing.T) {
		if err := table.InsertValues(NewInt32(2), NewString("Bob"), Null(), Null()); err != nil {
			t.Fatalf("first null email rejected: %v", err)
		}
		if err := table.InsertValues(NewInt32(3), NewString("Carol"), Null(), Null()); err != nil {
			t.Fatalf("second null email rejected: %v", err)
		}
	})

	t.Run("not null violation", func(t *testing.T) {
		err := table.InsertValues(NewInt32(4), Null(), Null(), Null())
		var ce *ConstraintError
		if !errors.As(err, &ce) || ce.Constraint != "not_null" {
			t.Fatalf("expected not_null violation, got %v", err)
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		err := table.InsertValues(NewInt32(4), NewString("Dan"), NewString("old"), Null())
		var ce *ConstraintError
		if !errors.As(err, &ce) || ce.Constraint != "type_mismatch" {
			t.Fatalf("expected type_mismatch violation, got %v", err)
		}
	})

	t.Run("arity mismatch", func(t *testing.T) {
		err := table.InsertValues(NewInt32(4), NewString("Dan"))
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestUpdateRow(t *testing.T) {
	table := newUsersTable(t)
	mustInsert(t, table, NewInt32(1), NewString("Alice"), NewInt32(28), Null())
	mustInsert(t, table, NewInt32(2), NewString("Bob"), NewInt32(34), Null())

	t.Run("not found", func(t *testing.T) {
		err := table.UpdateRow(NewInt32(99), []Value{NewInt32(99), NewString("X"), Null(), Null()})
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("primary key reassignment", func(t *testing.T) {
		err := table.UpdateRow(NewInt32(2), []Value{NewInt32(5), NewString("Bob"), NewInt32(34), Null()})
		if err != nil {
			t.Fatalf("PK reassignment failed: %v", err)
		}
		if _, found := table.FindRowByPK(NewInt32(2)); found {
			t.Error("old PK still indexed after reassignment")
		}
		if _, found := table.FindRowByPK(NewInt32(5)); !found {
			t.Error("new PK not indexed after reassignment")
		}
	})

	t.Run("conflicting new pk keeps old entry", func(t *testing.T) {
		err := table.UpdateRow(NewInt32(5), []Value{NewInt32(1), NewString("Bob"), NewInt32(34), Null()})
		var ce *ConstraintError
		if !errors.As(err, &ce) {
			t.Fatalf("expected constraint violation for duplicate PK, got %v", err)
		}
		row, found := table.FindRowByPK(NewInt32(5))
		if !found {
			t.Fatal("failed update must leave the original index entry intact")
		}
		name, _ := row.ValueByName("name")
		if !name.Equal(NewString("Bob")) {
			t.Error("failed update must leave the stored row untouched")
		}
	})

	t.Run("unique check excludes the updated row", func(t *testing.T) {
		// Re-writing a row with its own values must not trip uniqueness on itself.
		err := table.UpdateRow(NewInt32(1), []Value{NewInt32(1), NewString("Alice"), NewInt32(29), Null()})
		if err != nil {
			t.Fatalf("self-update failed: %v", err)
		}
	})
}

func TestDeleteRenumbersIndex(t *testing.T) {
	table := newUsersTable(t)
	for i := 1; i <= 5; i++ {
		mustInsert(t, table, NewInt32(int32(i)), NewString(fmt.Sprintf("user%d", i)), Null(), Null())
	}

	if !table.DeleteRow(NewInt32(2)) {
		t.Fatal("delete failed")
	}

	// Every surviving key must still resolve to its own row.
	for _, id := range []int32{1, 3, 4, 5} {
		row, found := table.FindRowByPK(NewInt32(id))
		if !found {
			t.Fatalf("row %d lost after unrelated delete", id)
		}
		name, _ := row.ValueByName("name")
		if !name.Equal(NewString(fmt.Sprintf("user%d", id))) {
			t.Errorf("row %d resolves to the wrong row (%s), index renumbering broken", id, name)
		}
	}
	if table.RowCount() != 4 {
		t.Errorf("expected 4 rows, got %d", table.RowCount())
	}
}

func TestScans(t *testing.T) {
	table := newUsersTable(t)
	mustInsert(t, table, NewInt32(1), NewString("Alice"), NewInt32(28), Null())
	mustInsert(t, table, NewInt32(2), NewString("Bob"), NewInt32(34), Null())
	mustInsert(t, table, NewInt32(3), NewString("Alice"), NewInt32(41), Null())

	t.Run("all rows", func(t *testing.T) {
		rows := table.Rows()
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		// Mutating the returned copies must not touch the table.
		_ = rows[0].SetValue(1, NewString("hacked"))
		row, _ := table.FindRowByPK(NewInt32(1))
		name, _ := row.ValueByName("name")
		if !name.Equal(NewString("Alice")) {
			t.Error("Rows() must return copies")
		}
	})

	t.Run("row by position", func(t *testing.T) {
		if _, err := table.Row(0); err != nil {
			t.Errorf("valid position failed: %v", err)
		}
		_, err := table.Row(17)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("expected OutOfRangeError, got %v", err)
		}
	})

	t.Run("predicate scan", func(t *testing.T) {
		rows := table.FindRows(func(r *Row) bool {
			age, err := r.ValueByName("age")
			if err != nil {
				return false
			}
			n, err := age.AsInt32()
			return err == nil && n > 30
		})
		if len(rows) != 2 {
			t.Errorf("expected 2 matches, got %d", len(rows))
		}
	})

	t.Run("predicate evaluation failure is a non-match", func(t *testing.T) {
		rows := table.FindRows(func(r *Row) bool {
			_, err := r.ValueByName("missing_column")
			return err == nil
		})
		if len(rows) != 0 {
			t.Errorf("expected 0 matches, got %d", len(rows))
		}
	})

	t.Run("by column value", func(t *testing.T) {
		rows, err := table.FindRowsByColumn("name", NewString("Alice"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 2 {
			t.Errorf("expected 2 Alices, got %d", len(rows))
		}
	})

	t.Run("unknown column is an error", func(t *testing.T) {
		_, err := table.FindRowsByColumn("bogus", NewInt32(1))
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})
}

func TestClearAndStats(t *testing.T) {
	table := newUsersTable(t)
	mustInsert(t, table, NewInt32(1), NewString("Alice"), NewInt32(28), Null())

	stats := table.Stats()
	if stats.RowCount != 1 || stats.ColumnCount != 4 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.PrimaryKeyColumn != "id" {
		t.Errorf("expected pk column id, got %s", stats.PrimaryKeyColumn)
	}
	if stats.MemoryEstimate <= 0 {
		t.Error("memory estimate should be positive for a non-empty table")
	}

	table.Clear()
	if !table.IsEmpty() {
		t.Error("table should be empty after Clear")
	}
	if _, found := table.FindRowByPK(NewInt32(1)); found {
		t.Error("index should be empty after Clear")
	}
	// Schema survives; the table stays usable.
	mustInsert(t, table, NewInt32(1), NewString("Alice"), Null(), Null())
}

// TestConcurrentDistinctInserts drives N goroutines inserting N distinct
// keys; all must succeed and the table must end with exactly N rows.
func TestConcurrentDistinctInserts(t *testing.T) {
	table := newUsersTable(t)
	const n = 64

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = table.InsertValues(
				NewInt32(int32(i)),
				NewString(fmt.Sprintf("user%d", i)),
				Null(),
				Null(),
			)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("insert %d failed: %v", i, err)
		}
	}
	if table.RowCount() != n {
		t.Fatalf("expected %d rows, got %d", n, table.RowCount())
	}
	for i := 0; i < n; i++ {
		if _, found := table.FindRowByPK(NewInt32(int32(i))); !found {
			t.Errorf("key %d missing from index", i)
		}
	}
}

// TestConcurrentMixedMutation exercises insert/update/delete/read in
// parallel and then checks the PK uniqueness invariant.
func TestConcurrentMixedMutation(t *testing.T) {
	table := newUsersTable(t)
	const n = 32

	for i := 0; i < n; i++ {
		mustInsert(t, table, NewInt32(int32(i)), NewString("seed"), Null(), Null())
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 3 {
			case 0:
				table.DeleteRow(NewInt32(int32(i)))
			case 1:
				_ = table.UpdateRow(NewInt32(int32(i)),
					[]Value{NewInt32(int32(i)), NewString("updated"), NewInt32(50), Null()})
			default:
				table.FindRowByPK(NewInt32(int32(i)))
				table.Rows()
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, row := range table.Rows() {
		pk, err := row.ValueByName("id")
		if err != nil {
			t.Fatalf("row missing pk: %v", err)
		}
		if seen[pk.String()] {
			t.Fatalf("duplicate primary key %s after mixed mutation", pk)
		}
		seen[pk.String()] = true
	}
}
