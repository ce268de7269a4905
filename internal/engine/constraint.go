package engine

// ConstraintKind names the closed set of constraint shapes. Only the
// predicate is consulted during validation; the kind exists so the
// data-driven constraints stay identifiable (Custom ones are opaque and
// are the reason constraints do not survive serialization).
type ConstraintKind string

const (
	ConstraintIntRange    ConstraintKind = "int_range"
	ConstraintFloatRange  ConstraintKind = "float_range"
	ConstraintLengthRange ConstraintKind = "length_range"
	ConstraintOneOf       ConstraintKind = "one_of"
	ConstraintCustom      ConstraintKind = "custom"
)

// Constraint is a named predicate over a Value. Check returns true when
// the value is acceptable. Every factory below lets Null pass so that
// null handling stays solely the column's nullable flag's business.
type Constraint struct {
	Kind  ConstraintKind
	Check func(Value) bool
}

// IntRange accepts Int32 and Int64 values within [min, max] inclusive.
// Values of any other non-null type are rejected.
func IntRange(min, max int64) Constraint {
	return Constraint{
		Kind: ConstraintIntRange,
		Check: func(v Value) bool {
			if v.IsNull() {
				return true
			}
			var n int64
			switch v.Type() {
			case TypeInt32:
				i32, _ := v.AsInt32()
				n = int64(i32)
			case TypeInt64:
				n, _ = v.AsInt64()
			default:
				return false
			}
			return n >= min && n <= max
		},
	}
}

// FloatRange accepts Double values within [min, max] inclusive.
func FloatRange(min, max float64) Constraint {
	return Constraint{
		Kind: ConstraintFloatRange,
		Check: func(v Value) bool {
			if v.IsNull() {
				return true
			}
			f, err := v.AsDouble()
			if err != nil {
				return false
			}
			return f >= min && f <= max
		},
	}
}

// LengthRange accepts String values whose length in bytes lies within
// [min, max] inclusive.
func LengthRange(min, max int) Constraint {
	return Constraint{
		Kind: ConstraintLengthRange,
		Check: func(v Value) bool {
			if v.IsNull() {
				return true
			}
			s, err := v.AsString()
			if err != nil {
				return false
			}
			return len(s) >= min && len(s) <= max
		},
	}
}

// OneOf accepts values equal to one of the allowed values.
func OneOf(allowed ...Value) Constraint {
	set := make([]Value, len(allowed))
	copy(set, allowed)
	return Constraint{
		Kind: ConstraintOneOf,
		Check: func(v Value) bool {
			if v.IsNull() {
				return true
			}
			for _, a := range set {
				if v.Equal(a) {
					return true
				}
			}
			return false
		},
	}
}

// Custom wraps an arbitrary predicate. Null still passes before the
// predicate is consulted.
func Custom(check func(Value) bool) Constraint {
	return Constraint{
		Kind: ConstraintCustom,
		Check: func(v Value) bool {
			if v.IsNull() {
				return true
			}
			return check(v)
		},
	}
}
