package interp

import (
	"fmt"
	"time"

	"loxi/internal/ast"
)

// returnSignal is the non-local control signal raised by a ReturnStmt
// and caught by the enclosing Function.Call, modeled as a panic value
// rather than a sentinel error threaded through every exec return.
type returnSignal struct {
	value Value
}

// runtimeError carries enough context for the reporter to print the
// "[line L]" trailer under the message.
type runtimeError struct {
	line int
	msg  string
}

func (e runtimeError) Error() string { return e.msg }

func throwRuntime(line int, format string, args ...any) {
	panic(runtimeError{line: line, msg: fmt.Sprintf(format, args...)})
}

// Function is a user-defined Callable: a declaration paired with the
// environment active when the FunctionDecl was evaluated — the closure.
type Function struct {
	decl    *ast.FunctionDecl
	closure *Environment
}

func (f *Function) Arity() int { return len(f.decl.Params) }

func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme) }

// Call runs the body in a fresh environment parented on the closure,
// with parameters bound in order; any returnSignal raised inside unwinds
// exactly to this frame.
func (f *Function) Call(it *Interpreter, args []Value) (result Value) {
	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			if ret, ok := r.(returnSignal); ok {
				result = ret.value
				return
			}
			panic(r)
		}
	}()

	it.executeBlockIn(f.decl.Body, env)
	return nil
}

// nativeFn adapts a Go function to the Callable protocol, so natives
// beyond clock() can be added without new boilerplate.
type nativeFn struct {
	name  string
	arity int
	fn    func(it *Interpreter, args []Value) Value
}

func (n *nativeFn) Arity() int        { return n.arity }
func (n *nativeFn) String() string    { return fmt.Sprintf("<native fn %s>", n.name) }
func (n *nativeFn) Call(it *Interpreter, args []Value) Value {
	return n.fn(it, args)
}

func clockNative() *nativeFn {
	return &nativeFn{
		name:  "clock",
		arity: 0,
		fn: func(it *Interpreter, args []Value) Value {
			return float64(time.Now().UnixNano()) / float64(time.Second)
		},
	}
}
