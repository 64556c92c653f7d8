package interp

import (
	"loxi/internal/ast"
	"loxi/internal/token"
)

func (it *Interpreter) eval(expr ast.Expr) Value {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value
	case *ast.Grouping:
		return it.eval(e.Inner)
	case *ast.Unary:
		return it.evalUnary(e)
	case *ast.Binary:
		return it.evalBinary(e)
	case *ast.Logical:
		return it.evalLogical(e)
	case *ast.Conditional:
		if IsTruthy(it.eval(e.Cond)) {
			return it.eval(e.Then)
		}
		return it.eval(e.Else)
	case *ast.Variable:
		return it.lookupVariable(e.Name, e)
	case *ast.Assign:
		value := it.eval(e.Value)
		it.assignVariable(e.Name, e, value)
		return value
	case *ast.Call:
		return it.evalCall(e)
	default:
		panic("interp: unhandled expression")
	}
}

func (it *Interpreter) evalUnary(e *ast.Unary) Value {
	right := it.eval(e.Right)
	switch e.Op.Kind {
	case token.MINUS:
		return -it.number(e.Op, right, "Operand must be a number.")
	case token.BANG:
		return !IsTruthy(right)
	default:
		panic("interp: unhandled unary operator")
	}
}

func (it *Interpreter) evalBinary(e *ast.Binary) Value {
	// The comma operator evaluates both operands and yields the right; it
	// shares the Binary node but skips the numeric checks below.
	if e.Op.Kind == token.COMMA {
		it.eval(e.Left)
		return it.eval(e.Right)
	}

	left := it.eval(e.Left)
	right := it.eval(e.Right)

	switch e.Op.Kind {
	case token.MINUS:
		l, r := it.numbers(e.Op, left, right)
		return l - r
	case token.STAR:
		l, r := it.numbers(e.Op, left, right)
		return l * r
	case token.SLASH:
		l, r := it.numbers(e.Op, left, right)
		if r == 0 {
			throwRuntime(e.Op.Line, "Divisor must not be zero.")
		}
		return l / r
	case token.PLUS:
		// String-coercing +: one string operand turns the whole thing
		// into concatenation of the stringified values.
		if ls, ok := left.(string); ok {
			return ls + Stringify(right)
		}
		if rs, ok := right.(string); ok {
			return Stringify(left) + rs
		}
		l, lok := left.(float64)
		r, rok := right.(float64)
		if !lok || !rok {
			throwRuntime(e.Op.Line, "Operands must be two numbers or two strings.")
		}
		return l + r
	case token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL:
		return it.compare(e.Op, left, right)
	case token.EQUAL_EQUAL:
		return IsEqual(left, right)
	case token.BANG_EQUAL:
		return !IsEqual(left, right)
	default:
		panic("interp: unhandled binary operator")
	}
}

// compare handles < <= > >= over two numbers or two strings.
func (it *Interpreter) compare(op token.Token, left, right Value) Value {
	if l, ok := left.(float64); ok {
		if r, ok := right.(float64); ok {
			switch op.Kind {
			case token.GREATER:
				return l > r
			case token.GREATER_EQUAL:
				return l >= r
			case token.LESS:
				return l < r
			case token.LESS_EQUAL:
				return l <= r
			}
		}
	}
	if l, ok := left.(string); ok {
		if r, ok := right.(string); ok {
			switch op.Kind {
			case token.GREATER:
				return l > r
			case token.GREATER_EQUAL:
				return l >= r
			case token.LESS:
				return l < r
			case token.LESS_EQUAL:
				return l <= r
			}
		}
	}
	throwRuntime(op.Line, "Operands must be two numbers or two strings.")
	return nil
}

func (it *Interpreter) evalLogical(e *ast.Logical) Value {
	left := it.eval(e.Left)
	if e.Op.Kind == token.OR {
		if IsTruthy(left) {
			return left
		}
	} else {
		if !IsTruthy(left) {
			return left
		}
	}
	return it.eval(e.Right)
}

func (it *Interpreter) evalCall(e *ast.Call) Value {
	callee := it.eval(e.Callee)
	fn, ok := callee.(Callable)
	if !ok {
		throwRuntime(e.Paren.Line, "Can only call functions and classes.")
	}

	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		args = append(args, it.eval(arg))
	}
	if len(args) != fn.Arity() {
		throwRuntime(e.Paren.Line, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return fn.Call(it, args)
}

func (it *Interpreter) number(op token.Token, v Value, msg string) float64 {
	f, ok := v.(float64)
	if !ok {
		throwRuntime(op.Line, msg)
	}
	return f
}

func (it *Interpreter) numbers(op token.Token, left, right Value) (float64, float64) {
	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		throwRuntime(op.Line, "Operands must be numbers.")
	}
	return l, r
}
