package engine

import (
	"fmt"
	"strings"
)

// TypeMismatchError is returned by typed Value extraction when the held
// tag differs from the requested one.
type TypeMismatchError struct {
	Want ValueType
	Got  ValueType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, got %s", e.Want, e.Got)
}

// ConstraintError represents a violation of a database constraint
// (unique, primary key, not null, type mismatch, range, etc.)
type ConstraintError struct {
	Table      string // table name
	Column     string // column name (empty if table-level constraint)
	Value      string // offending value rendering (empty if none)
	Constraint string // "unique", "primary_key", "not_null", "type_mismatch", ...
	Reason     string // human-readable explanation (optional)
}

func (e *ConstraintError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("constraint violation in %s.%s", e.Table, e.Column))

	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("(%s)", e.Constraint))
	}

	if e.Value != "" {
		parts = append(parts, fmt.Sprintf("value=%s", e.Value))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	return strings.Join(parts, " - ")
}

func NewUniqueViolation(table, column string, value Value) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value.String(),
		Constraint: "unique",
		Reason:     "duplicate value",
	}
}

func NewNotNullViolation(table, column string) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Constraint: "not_null",
		Reason:     "missing required value",
	}
}

func NewPrimaryKeyViolation(table, column string, value Value) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value.String(),
		Constraint: "primary_key",
		Reason:     "duplicate primary key",
	}
}

func NewTypeMismatch(table, column string, value Value, expected ValueType) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value.String(),
		Constraint: "type_mismatch",
		Reason:     fmt.Sprintf("expected type %s, got %s", expected, value.Type()),
	}
}

// ValidationError reports a row that does not fit its schema (arity or
// per-column validation failure).
type ValidationError struct {
	Table  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Table == "" {
		return "row validation failed: " + e.Reason
	}
	return fmt.Sprintf("row validation failed in %s: %s", e.Table, e.Reason)
}

// NotFoundError reports a missing table, row or column name.
type NotFoundError struct {
	Kind string // "table", "row", "column"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// OutOfRangeError reports an index access past the end of a row or table.
type OutOfRangeError struct {
	Index int
	Size  int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range (size %d)", e.Index, e.Size)
}
