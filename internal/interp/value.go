package interp

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a Lox runtime value: nil, bool, float64, string, a Callable,
// or an *Instance.
type Value = any

// uninitialized is stored for variables declared without an initializer.
// Reading it is a runtime error; it never escapes into a user-visible value.
type uninitialized struct{}

var uninit Value = uninitialized{}

func isUninitialized(v Value) bool {
	_, ok := v.(uninitialized)
	return ok
}

// Truthy reports whether v counts as true in a condition.
// Only nil and false are falsy.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	}
	return true
}

// Stringify returns the printed form of v.
func Stringify(v Value) string {
	switch v := v.(type) {
	case nil, uninitialized:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case string:
		return v
	case *Instance:
		return v.class.Name + " instance"
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", v)
}

// formatNumber prints the shortest decimal that round-trips, so integral
// values print without a fractional part. Magnitudes outside
// [1e-7, 1e21) use exponent notation.
func formatNumber(f float64) string {
	if a := math.Abs(f); a != 0 && (a < 1e-7 || a >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// typeName names the dynamic type of v for diagnostics.
func typeName(v Value) string {
	switch v.(type) {
	case nil, uninitialized:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *Class:
		return "class"
	case Callable:
		return "function"
	case *Instance:
		return "instance"
	}
	return fmt.Sprintf("%T", v)
}

// valuesEqual is structural equality: nil equals only nil, values of
// different types are never equal, and objects compare by identity.
func valuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}
