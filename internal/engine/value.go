package engine

import (
	"strconv"
)

// ValueType identifies which member of the Value union is populated.
// The numeric order of the tags defines the cross-type ordering used by
// Compare, so the constants must not be reordered.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeBool
	TypeInt32
	TypeInt64
	TypeDouble
	TypeString
)

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "NULL"
	case TypeBool:
		return "BOOL"
	case TypeInt32:
		return "INT32"
	case TypeInt64:
		return "INT64"
	case TypeDouble:
		return "DOUBLE"
	case TypeString:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// Value is a closed tagged union over the supported scalar types.
// The zero Value is Null.
type Value struct {
	typ ValueType
	b   bool
	i   int64 // payload for both Int32 and Int64
	f   float64
	s   string
}

func Null() Value { return Value{} }

func NewBool(v bool) Value { return Value{typ: TypeBool, b: v} }

func NewInt32(v int32) Value { return Value{typ: TypeInt32, i: int64(v)} }

func NewInt64(v int64) Value { return Value{typ: TypeInt64, i: v} }

func NewDouble(v float64) Value { return Value{typ: TypeDouble, f: v} }

func NewString(v string) Value { return Value{typ: TypeString, s: v} }

func (v Value) Type() ValueType { return v.typ }

func (v Value) IsNull() bool { return v.typ == TypeNull }

// AsBool extracts the boolean payload, failing when the value holds a
// different type.
func (v Value) AsBool() (bool, error) {
	if v.typ != TypeBool {
		return false, &TypeMismatchError{Want: TypeBool, Got: v.typ}
	}
	return v.b, nil
}

func (v Value) AsInt32() (int32, error) {
	if v.typ != TypeInt32 {
		return 0, &TypeMismatchError{Want: TypeInt32, Got: v.typ}
	}
	return int32(v.i), nil
}

func (v Value) AsInt64() (int64, error) {
	if v.typ != TypeInt64 {
		return 0, &TypeMismatchError{Want: TypeInt64, Got: v.typ}
	}
	return v.i, nil
}

func (v Value) AsDouble() (float64, error) {
	if v.typ != TypeDouble {
		return 0, &TypeMismatchError{Want: TypeDouble, Got: v.typ}
	}
	return v.f, nil
}

func (v Value) AsString() (string, error) {
	if v.typ != TypeString {
		return "", &TypeMismatchError{Want: TypeString, Got: v.typ}
	}
	return v.s, nil
}

// Equal reports whether two values hold the same type and payload.
// Values of different types are never equal, even when numerically alike.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeNull:
		return true
	case TypeBool:
		return v.b == other.b
	case TypeInt32, TypeInt64:
		return v.i == other.i
	case TypeDouble:
		return v.f == other.f
	case TypeString:
		return v.s == other.s
	default:
		return false
	}
}

// Compare imposes a total order: first by type tag
// (Null < Bool < Int32 < Int64 < Double < String), then by the natural
// order within the tag. Returns -1, 0 or +1.
func (v Value) Compare(other Value) int {
	if v.typ != other.typ {
		if v.typ < other.typ {
			return -1
		}
		return 1
	}
	switch v.typ {
	case TypeNull:
		return 0
	case TypeBool:
		switch {
		case v.b == other.b:
			return 0
		case !v.b:
			return -1
		default:
			return 1
		}
	case TypeInt32, TypeInt64:
		switch {
		case v.i < other.i:
			return -1
		case v.i > other.i:
			return 1
		default:
			return 0
		}
	case TypeDouble:
		switch {
		case v.f < other.f:
			return -1
		case v.f > other.f:
			return 1
		default:
			return 0
		}
	case TypeString:
		switch {
		case v.s < other.s:
			return -1
		case v.s > other.s:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

// Less reports v < other under the total order of Compare.
func (v Value) Less(other Value) bool {
	return v.Compare(other) < 0
}

// String renders the canonical text form: "NULL", "true"/"false", decimal
// numerics, or the raw string. This form is also the primary-key index key.
func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "NULL"
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeInt32, TypeInt64:
		return strconv.FormatInt(v.i, 10)
	case TypeDouble:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case TypeString:
		return v.s
	default:
		return "UNKNOWN"
	}
}

// Truthy converts the value to a boolean: Null is false, booleans are
// themselves, numerics are true when non-zero, strings when non-empty.
func (v Value) Truthy() bool {
	switch v.typ {
	case TypeBool:
		return v.b
	case TypeInt32, TypeInt64:
		return v.i != 0
	case TypeDouble:
		return v.f != 0
	case TypeString:
		return v.s != ""
	default:
		return false
	}
}
