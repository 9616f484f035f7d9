// Package value provides the tagged cell value type shared by all table operations.
// A Value carries exactly one of a closed set of kinds, so coercion and comparison
// rules are total functions over the enum instead of inspections of runtime types.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the type of a cell value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// String returns the tag used in type reports and coercion requests.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	default:
		return "null"
	}
}

// Value is a single cell. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool wraps a boolean cell value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int wraps an integer cell value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float wraps a floating-point cell value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// String wraps a string cell value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Kind returns the kind tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsMissing reports whether the value should be treated as absent: null,
// a NaN float (not equal to itself), or the empty string.
func (v Value) IsMissing() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindFloat:
		return math.IsNaN(v.f)
	case KindString:
		return v.s == ""
	default:
		return false
	}
}

// IsNaN reports whether the value is a float that is not equal to itself.
func (v Value) IsNaN() bool {
	return v.kind == KindFloat && math.IsNaN(v.f)
}

// Bool returns the boolean payload. Only meaningful when Kind is KindBool.
func (v Value) Bool() bool {
	return v.b
}

// Int returns the integer payload. Only meaningful when Kind is KindInt.
func (v Value) Int() int64 {
	return v.i
}

// Float returns the float payload. Only meaningful when Kind is KindFloat.
func (v Value) Float() float64 {
	return v.f
}

// Str returns the string payload. Only meaningful when Kind is KindString.
func (v Value) Str() string {
	return v.s
}

// Render returns the generic textual rendering of the value.
func (v Value) Render() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return "null"
	}
}

// Key returns a kind-prefixed representation suitable for grouping and
// hashing. Distinct kinds never collide even when they render identically.
func (v Value) Key() string {
	return v.kind.String() + ":" + v.Render()
}

// Equal reports value equality. Nulls never equal anything, including
// other nulls, and NaN floats never equal themselves.
func (v Value) Equal(o Value) bool {
	if v.IsNull() || o.IsNull() {
		return false
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	default:
		return false
	}
}

// FromAny converts a plain Go value into a Value. Nil becomes null, all
// integer widths collapse to int64 and float32 widens to float64.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Int(int64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	default:
		return Null(), fmt.Errorf("unsupported value type: %T", x)
	}
}

// IsIntegerString reports whether s is a purely numeric string, with an
// optional leading sign.
func IsIntegerString(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		start = 1
	}
	for i := start; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsDecimalString reports whether s parses as a decimal number.
func IsDecimalString(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
