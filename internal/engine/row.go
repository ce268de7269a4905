package engine

import "fmt"

// Row is an ordered sequence of values positioned against a schema. The
// schema reference is non-owning: it belongs to the table and the row must
// not outlive it. Name lookups go through the schema's derived name map,
// so they can never observe a stale mapping.
type Row struct {
	values []Value
	schema *Schema
}

// NewRow builds an empty, schema-less row.
func NewRow() Row {
	return Row{}
}

// NewRowForSchema builds a row with every slot filled from the column
// defaults (Null when a column has none).
func NewRowForSchema(schema *Schema) Row {
	r := Row{schema: schema}
	if schema != nil {
		r.values = make([]Value, schema.Len())
		for i := 0; i < schema.Len(); i++ {
			r.values[i] = schema.Column(i).DefaultOrNull()
		}
	}
	return r
}

// NewRowWithValues builds a row holding the given values. When a schema is
// supplied the value count must match its width.
func NewRowWithValues(schema *Schema, values []Value) (Row, error) {
	if schema != nil && len(values) != schema.Len() {
		return Row{}, &ValidationError{
			Reason: fmt.Sprintf("%d values for %d columns", len(values), schema.Len()),
		}
	}
	vals := make([]Value, len(values))
	copy(vals, values)
	return Row{values: vals, schema: schema}, nil
}

func (r *Row) Len() int      { return len(r.values) }
func (r *Row) IsEmpty() bool { return len(r.values) == 0 }

// Value returns the value at column position i.
func (r *Row) Value(i int) (Value, error) {
	if i < 0 || i >= len(r.values) {
		return Null(), &OutOfRangeError{Index: i, Size: len(r.values)}
	}
	return r.values[i], nil
}

// ValueByName returns the value in the named column.
func (r *Row) ValueByName(name string) (Value, error) {
	i, err := r.ColumnIndex(name)
	if err != nil {
		return Null(), err
	}
	return r.values[i], nil
}

// SetValue replaces the value at position i, validating it against the
// bound schema when one is attached.
func (r *Row) SetValue(i int, v Value) error {
	if i < 0 || i >= len(r.values) {
		return &OutOfRangeError{Index: i, Size: len(r.values)}
	}
	if r.schema != nil && i < r.schema.Len() {
		col := r.schema.Column(i)
		if !col.ValidateValue(v) {
			return &ValidationError{
				Reason: fmt.Sprintf("value %s does not satisfy column %q", v, col.Name()),
			}
		}
	}
	r.values[i] = v
	return nil
}

// SetValueByName replaces the value in the named column.
func (r *Row) SetValueByName(name string, v Value) error {
	i, err := r.ColumnIndex(name)
	if err != nil {
		return err
	}
	return r.SetValue(i, v)
}

// ColumnIndex resolves a column name through the bound schema.
func (r *Row) ColumnIndex(name string) (int, error) {
	if r.schema == nil {
		return 0, &NotFoundError{Kind: "column", Name: name}
	}
	i, ok := r.schema.ColumnIndex(name)
	if !ok {
		return 0, &NotFoundError{Kind: "column", Name: name}
	}
	return i, nil
}

// Schema returns the bound schema, which may be nil.
func (r *Row) Schema() *Schema { return r.schema }

// SetSchema rebinds the row to a schema, resizing the value sequence to
// the schema width and filling newly exposed slots from column defaults.
func (r *Row) SetSchema(schema *Schema) {
	r.schema = schema
	if schema == nil {
		return
	}
	if len(r.values) > schema.Len() {
		r.values = r.values[:schema.Len()]
	}
	for len(r.values) < schema.Len() {
		r.values = append(r.values, schema.Column(len(r.values)).DefaultOrNull())
	}
}

// Validate reports whether every value passes its column's rules. A row
// without a schema is trivially valid; a row whose width differs from the
// schema is not.
func (r *Row) Validate() bool {
	if r.schema == nil {
		return true
	}
	if len(r.values) != r.schema.Len() {
		return false
	}
	for i, v := range r.values {
		if !r.schema.Column(i).ValidateValue(v) {
			return false
		}
	}
	return true
}

// Values returns a copy of the value sequence.
func (r *Row) Values() []Value {
	out := make([]Value, len(r.values))
	copy(out, r.values)
	return out
}

// Copy duplicates the values and the schema reference. Derived lookup
// state lives on the schema, so nothing else needs copying.
func (r Row) Copy() Row {
	vals := make([]Value, len(r.values))
	copy(vals, r.values)
	return Row{values: vals, schema: r.schema}
}

// Equal compares two rows value by value.
func (r *Row) Equal(other *Row) bool {
	if len(r.values) != len(other.values) {
		return false
	}
	for i := range r.values {
		if !r.values[i].Equal(other.values[i]) {
			return false
		}
	}
	return true
}
