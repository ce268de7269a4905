package engine

import "fmt"

// Column describes one schema slot: its name, value type, null and
// uniqueness rules, optional default and an ordered list of constraints.
type Column struct {
	name        string
	typ         ValueType
	nullable    bool
	unique      bool
	hasDefault  bool
	defaultVal  Value
	constraints []Constraint
}

// NewColumn builds a column without a default value.
func NewColumn(name string, typ ValueType, nullable, unique bool) Column {
	return Column{name: name, typ: typ, nullable: nullable, unique: unique}
}

// NewColumnWithDefault builds a column carrying a default value. A
// non-null default whose type differs from the column type is rejected.
func NewColumnWithDefault(name string, typ ValueType, nullable, unique bool, def Value) (Column, error) {
	if !def.IsNull() && def.Type() != typ {
		return Column{}, fmt.Errorf("column %q: default value type %s does not match column type %s",
			name, def.Type(), typ)
	}
	return Column{
		name:       name,
		typ:        typ,
		nullable:   nullable,
		unique:     unique,
		hasDefault: true,
		defaultVal: def,
	}, nil
}

func (c *Column) Name() string { return c.name }

func (c *Column) Type() ValueType { return c.typ }

func (c *Column) Nullable() bool { return c.nullable }

func (c *Column) Unique() bool { return c.unique }

func (c *Column) HasDefault() bool { return c.hasDefault }

// Default returns the default value and whether one is set.
func (c *Column) Default() (Value, bool) {
	return c.defaultVal, c.hasDefault
}

// DefaultOrNull returns the default value, or Null when none is set.
// Used to fill missing row slots when a schema is bound.
func (c *Column) DefaultOrNull() Value {
	if c.hasDefault {
		return c.defaultVal
	}
	return Null()
}

// AddConstraint appends a validator. Constraints run in insertion order.
func (c *Column) AddConstraint(con Constraint) {
	c.constraints = append(c.constraints, con)
}

func (c *Column) Constraints() []Constraint { return c.constraints }

// ValidateValue checks a value against the column rules: Null is governed
// only by the nullable flag, a type mismatch always rejects, and every
// constraint must accept.
func (c *Column) ValidateValue(v Value) bool {
	if v.IsNull() {
		return c.nullable
	}
	if v.Type() != c.typ {
		return false
	}
	for _, con := range c.constraints {
		if !con.Check(v) {
			return false
		}
	}
	return true
}
