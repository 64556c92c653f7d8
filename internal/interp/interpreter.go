package interp

import (
	"io"
	"os"

	"loxi/internal/ast"
	"loxi/internal/report"
	"loxi/internal/resolver"
	"loxi/internal/token"
)

// Interpreter executes statements sequentially within a current
// environment, driving variable lookups through the resolver's side
// table. Output is routed through an io.Writer rather than fmt.Println
// directly, so tests can capture prints without touching os.Stdout.
type Interpreter struct {
	globals  *Environment
	env      *Environment
	locals   resolver.Locals
	reporter *report.Reporter
	stdout   io.Writer
}

// New returns an Interpreter with clock() bound in a fresh globals frame.
func New(locals resolver.Locals, rep *report.Reporter) *Interpreter {
	globals := NewEnvironment(nil)
	globals.Define("clock", clockNative())
	return &Interpreter{
		globals:  globals,
		env:      globals,
		locals:   locals,
		reporter: rep,
		stdout:   os.Stdout,
	}
}

// SetOutput redirects PrintStmt output; tests use this to capture stdout.
func (it *Interpreter) SetOutput(w io.Writer) {
	it.stdout = w
}

// Run executes the program's top-level statements in order. A runtime
// error aborts the statement it occurred in and every statement after it;
// it does not panic back out of Run, so a REPL can keep accepting input
// afterward.
func (it *Interpreter) Run(stmts []ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(runtimeError); ok {
				it.reporter.Runtime(report.TokenContext{Line: rerr.line}, rerr.msg)
				return
			}
			panic(r)
		}
	}()

	for _, s := range stmts {
		it.exec(s)
	}
}

// Evaluate evaluates a single expression, for the CLI's "evaluate" mode.
// Reports a runtime error through the reporter and returns
// ok == false instead of propagating it.
func (it *Interpreter) Evaluate(expr ast.Expr) (result Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, isRuntime := r.(runtimeError); isRuntime {
				it.reporter.Runtime(report.TokenContext{Line: rerr.line}, rerr.msg)
				ok = false
				return
			}
			panic(r)
		}
	}()
	return it.eval(expr), true
}

func (it *Interpreter) exec(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		it.eval(s.Expr)
	case *ast.PrintStmt:
		io.WriteString(it.stdout, Stringify(it.eval(s.Expr))+"\n")
	case *ast.VarDecl:
		var value Value = Uninitialized
		if s.Init != nil {
			value = it.eval(s.Init)
		}
		it.env.Define(s.Name.Lexeme, value)
	case *ast.Block:
		it.executeBlockIn(s.Stmts, NewEnvironment(it.env))
	case *ast.If:
		if IsTruthy(it.eval(s.Cond)) {
			it.exec(s.Then)
		} else if s.Else != nil {
			it.exec(s.Else)
		}
	case *ast.While:
		for IsTruthy(it.eval(s.Cond)) {
			it.exec(s.Body)
		}
	case *ast.FunctionDecl:
		it.env.Define(s.Name.Lexeme, &Function{decl: s, closure: it.env})
	case *ast.ReturnStmt:
		var value Value
		if s.Value != nil {
			value = it.eval(s.Value)
		}
		panic(returnSignal{value: value})
	default:
		panic("interp: unhandled statement")
	}
}

// executeBlockIn runs stmts inside env, restoring the previous current
// environment on every exit path: normal completion, a runtime-error
// panic, or a returnSignal panic.
func (it *Interpreter) executeBlockIn(stmts []ast.Stmt, env *Environment) {
	previous := it.env
	it.env = env
	defer func() { it.env = previous }()

	for _, s := range stmts {
		it.exec(s)
	}
}

func (it *Interpreter) lookupVariable(name token.Token, expr ast.Expr) Value {
	if distance, ok := it.locals[expr]; ok {
		if v, ok := it.env.GetAt(distance, name.Lexeme); ok {
			if _, isUninit := v.(uninitialized); isUninit {
				throwRuntime(name.Line, "Can't read uninitialized variable '%s'.", name.Lexeme)
			}
			return v
		}
	}
	v, ok := it.globals.Get(name.Lexeme)
	if !ok {
		throwRuntime(name.Line, "Undefined variable '%s'.", name.Lexeme)
	}
	if _, isUninit := v.(uninitialized); isUninit {
		throwRuntime(name.Line, "Can't read uninitialized variable '%s'.", name.Lexeme)
	}
	return v
}

func (it *Interpreter) assignVariable(name token.Token, expr ast.Expr, value Value) {
	if distance, ok := it.locals[expr]; ok {
		it.env.AssignAt(distance, name.Lexeme, value)
		return
	}
	if !it.globals.Assign(name.Lexeme, value) {
		throwRuntime(name.Line, "Undefined variable '%s'.", name.Lexeme)
	}
}
