// Package interp implements the tree-walking evaluator: environments,
// the uniform callable protocol, and the runtime behavior of every
// expression and statement node.
//
// Values are plain Go nil/bool/float64/string boxed in `any` rather than
// a wrapper-struct hierarchy. Only Callable gets its own interface, since
// it is the one value shape with behavior attached.
package interp

import (
	"fmt"
	"strconv"
)

// Value is anything a Lox expression can evaluate to: nil, bool, float64,
// string, or Callable.
type Value = any

// Callable is the uniform call protocol: user-defined functions
// (Function) and native functions (nativeFn) both implement it.
type Callable interface {
	Call(it *Interpreter, args []Value) Value
	Arity() int
	String() string
}

// uninitialized is the value of a declared-but-not-yet-initialized
// variable. Reading it is a runtime error. It is never itself a Value
// returned to user code.
type uninitialized struct{}

// Uninitialized is the single sentinel instance stored by "var x;".
var Uninitialized = uninitialized{}

// IsTruthy reports whether v is truthy: only nil and false are falsy.
func IsTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// IsEqual implements structural equality across types: distinct types are
// unequal, nil equals only nil.
func IsEqual(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

// Stringify renders v the way print does: nil and booleans by name,
// numbers in their shortest form, strings as their contents.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	case Callable:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
