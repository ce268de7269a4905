// Package storage maps the live object graph to a portable, self
// describing JSON document and back. Column constraint predicates are not
// part of the document: they are dropped on every round trip, which is a
// documented property of the format, not an accident.
package storage

// ValueDoc is one serialized value. Exactly one payload field is
// meaningful, selected by TypeIndex. Int32 and Double travel in
// NumericData; Int64 travels as decimal text in StringData so magnitudes
// past 2^53 survive the round trip.
type ValueDoc struct {
	TypeIndex   int     `json:"type_index"`
	StringData  string  `json:"string_data"`
	NumericData float64 `json:"numeric_data"`
	BoolData    bool    `json:"bool_data"`
}

// ColumnDoc carries column metadata. Constraints are absent on purpose.
type ColumnDoc struct {
	Name         string   `json:"name"`
	TypeIndex    int      `json:"type_index"`
	Nullable     bool     `json:"nullable"`
	Unique       bool     `json:"unique"`
	DefaultValue ValueDoc `json:"default_value"`
	HasDefault   bool     `json:"has_default"`
}

// RowDoc is an ordered list of serialized values.
type RowDoc struct {
	Values []ValueDoc `json:"values"`
}

// TableDoc carries one table's schema and data.
type TableDoc struct {
	Name             string      `json:"name"`
	PrimaryKeyColumn string      `json:"primary_key_column"`
	Columns          []ColumnDoc `json:"columns"`
	Rows             []RowDoc    `json:"rows"`
}

// DatabaseDoc is the top-level persisted document.
type DatabaseDoc struct {
	Tables []TableDoc `json:"tables"`
}

// ManifestDoc indexes the per-table files written by SaveTables.
type ManifestDoc struct {
	Name    string   `json:"name"`
	Version int      `json:"version"`
	Tables  []string `json:"tables"`
}
