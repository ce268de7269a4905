package storage

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/scalerdb/scalerdb/internal/engine"
)

// EncodeValue converts a live value to its document form.
func EncodeValue(v engine.Value) ValueDoc {
	doc := ValueDoc{TypeIndex: int(v.Type())}
	switch v.Type() {
	case engine.TypeNull:
	case engine.TypeBool:
		b, _ := v.AsBool()
		doc.BoolData = b
	case engine.TypeInt32:
		n, _ := v.AsInt32()
		doc.NumericData = float64(n)
	case engine.TypeInt64:
		n, _ := v.AsInt64()
		doc.StringData = strconv.FormatInt(n, 10)
	case engine.TypeDouble:
		f, _ := v.AsDouble()
		doc.NumericData = f
	case engine.TypeString:
		s, _ := v.AsString()
		doc.StringData = s
	}
	return doc
}

// DecodeValue rebuilds a value from its document form. Int64 documents
// written by older tooling carried the number in numeric_data; those are
// still accepted when string_data is empty.
func DecodeValue(doc ValueDoc) (engine.Value, error) {
	switch engine.ValueType(doc.TypeIndex) {
	case engine.TypeNull:
		return engine.Null(), nil
	case engine.TypeBool:
		return engine.NewBool(doc.BoolData), nil
	case engine.TypeInt32:
		return engine.NewInt32(int32(doc.NumericData)), nil
	case engine.TypeInt64:
		if doc.StringData == "" {
			return engine.NewInt64(int64(doc.NumericData)), nil
		}
		n, err := strconv.ParseInt(doc.StringData, 10, 64)
		if err != nil {
			return engine.Null(), fmt.Errorf("invalid int64 payload %q: %w", doc.StringData, err)
		}
		return engine.NewInt64(n), nil
	case engine.TypeDouble:
		return engine.NewDouble(doc.NumericData), nil
	case engine.TypeString:
		return engine.NewString(doc.StringData), nil
	default:
		return engine.Null(), fmt.Errorf("invalid value type index %d", doc.TypeIndex)
	}
}

// EncodeColumn converts column metadata; constraints are dropped.
func EncodeColumn(col *engine.Column) ColumnDoc {
	doc := ColumnDoc{
		Name:      col.Name(),
		TypeIndex: int(col.Type()),
		Nullable:  col.Nullable(),
		Unique:    col.Unique(),
	}
	if def, ok := col.Default(); ok {
		doc.HasDefault = true
		doc.DefaultValue = EncodeValue(def)
	}
	return doc
}

// DecodeColumn rebuilds a column from its document form.
func DecodeColumn(doc ColumnDoc) (engine.Column, error) {
	typ := engine.ValueType(doc.TypeIndex)
	if !doc.HasDefault {
		return engine.NewColumn(doc.Name, typ, doc.Nullable, doc.Unique), nil
	}
	def, err := DecodeValue(doc.DefaultValue)
	if err != nil {
		return engine.Column{}, fmt.Errorf("column %q: %w", doc.Name, err)
	}
	return engine.NewColumnWithDefault(doc.Name, typ, doc.Nullable, doc.Unique, def)
}

// EncodeTable snapshots one table's schema and rows.
func EncodeTable(t *engine.Table) TableDoc {
	schema := t.Schema()
	doc := TableDoc{
		Name:             t.Name(),
		PrimaryKeyColumn: t.PrimaryKeyColumnName(),
		Columns:          make([]ColumnDoc, 0, schema.Len()),
	}
	for i := 0; i < schema.Len(); i++ {
		doc.Columns = append(doc.Columns, EncodeColumn(schema.Column(i)))
	}
	rows := t.Rows()
	doc.Rows = make([]RowDoc, 0, len(rows))
	for i := range rows {
		values := rows[i].Values()
		rd := RowDoc{Values: make([]ValueDoc, 0, len(values))}
		for _, v := range values {
			rd.Values = append(rd.Values, EncodeValue(v))
		}
		doc.Rows = append(doc.Rows, rd)
	}
	return doc
}

// DecodeTable rebuilds a table inside db and replays every row through
// the normal insert path, so a document that breaks a table invariant
// fails here rather than producing a silently malformed table.
func DecodeTable(db *engine.Database, doc TableDoc) (*engine.Table, error) {
	columns := make([]engine.Column, 0, len(doc.Columns))
	for _, cd := range doc.Columns {
		col, err := DecodeColumn(cd)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", doc.Name, err)
		}
		columns = append(columns, col)
	}
	schema, err := engine.NewSchema(columns)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", doc.Name, err)
	}
	table, err := db.CreateTable(doc.Name, schema, doc.PrimaryKeyColumn)
	if err != nil {
		return nil, err
	}
	if err := insertRows(table, doc.Rows); err != nil {
		return nil, err
	}
	return table, nil
}

func insertRows(table *engine.Table, rows []RowDoc) error {
	for i, rd := range rows {
		values := make([]engine.Value, 0, len(rd.Values))
		for _, vd := range rd.Values {
			v, err := DecodeValue(vd)
			if err != nil {
				return fmt.Errorf("table %q row %d: %w", table.Name(), i, err)
			}
			values = append(values, v)
		}
		if err := table.InsertValues(values...); err != nil {
			return fmt.Errorf("table %q row %d: %w", table.Name(), i, err)
		}
	}
	return nil
}

// EncodeDatabase snapshots every table, ordered by name for stable output.
func EncodeDatabase(db *engine.Database) DatabaseDoc {
	names := db.TableNames()
	sort.Strings(names)
	doc := DatabaseDoc{Tables: make([]TableDoc, 0, len(names))}
	for _, name := range names {
		if t := db.Table(name); t != nil {
			doc.Tables = append(doc.Tables, EncodeTable(t))
		}
	}
	return doc
}

// DecodeDatabase rebuilds a database from its document form.
func DecodeDatabase(name string, doc DatabaseDoc) (*engine.Database, error) {
	db := engine.NewDatabase(name)
	for _, td := range doc.Tables {
		if _, err := DecodeTable(db, td); err != nil {
			return nil, err
		}
	}
	return db, nil
}
