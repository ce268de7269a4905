package engine

// TableStats is a diagnostic snapshot of a table. The memory estimate is
// approximate and carries no correctness weight.
type TableStats struct {
	RowCount         int
	ColumnCount      int
	PrimaryKeyColumn string
	MemoryEstimate   int64 // rough estimate in bytes
}

// Stats returns row/column counts, the PK column name and a rough memory
// estimate, under the shared lock.
func (t *Table) Stats() TableStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var mem int64
	for i := range t.rows {
		for _, v := range t.rows[i].values {
			mem += valueFootprint(v)
		}
	}
	for k := range t.pkIndex {
		mem += int64(len(k)) + 8
	}

	return TableStats{
		RowCount:         len(t.rows),
		ColumnCount:      t.schema.Len(),
		PrimaryKeyColumn: t.schema.Column(t.pkCol).Name(),
		MemoryEstimate:   mem,
	}
}

// valueFootprint approximates the in-memory size of one value: the fixed
// struct plus any string payload.
func valueFootprint(v Value) int64 {
	const valueHeader = 48
	if v.Type() == TypeString {
		s, _ := v.AsString()
		return valueHeader + int64(len(s))
	}
	return valueHeader
}

// DatabaseStats aggregates per-table diagnostics.
type DatabaseStats struct {
	Name           string
	TableCount     int
	TotalRowCount  int
	TotalMemory    int64
	TableRowCounts map[string]int
}
