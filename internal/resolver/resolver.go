// Package resolver implements the static scope-resolution pass: a single
// pre-order walk over the program that computes, for every
// variable-referring expression, the number of enclosing scopes between
// the reference and its defining scope (or leaves it unresolved, meaning
// "look in globals"). It also rejects the static misuses the parser can't
// see: re-declaration in the same scope, reading a local in its own
// initializer, and return outside a function.
package resolver

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"loxi/internal/ast"
	"loxi/internal/report"
	"loxi/internal/token"
)

type functionType int

const (
	functionNone functionType = iota
	functionFunction
)

// Locals is the resolution side table: expression node identity (the
// node's own pointer) to the number of environment links between the
// reference and its defining scope.
type Locals map[ast.Expr]int

// Resolver performs the single pre-order walk described above.
type Resolver struct {
	reporter    *report.Reporter
	scopes      []map[string]bool // false = declared, true = defined
	currentFunc functionType
	locals      Locals
}

// New returns a Resolver that reports static-semantic errors through rep.
func New(rep *report.Reporter) *Resolver {
	return &Resolver{reporter: rep, locals: make(Locals)}
}

// Resolve walks the program and returns the completed side table. Entries
// are added to the Resolver's one table, so a second call on the same
// Resolver returns that table with the new entries merged in. Two fresh
// Resolvers run over the same tree produce equal tables, since the keys
// are the tree's own node pointers.
func (r *Resolver) Resolve(stmts []ast.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

// DebugScopes renders the current scope stack as a deterministic
// (sorted) snapshot, used only to compare two resolver runs for equality
// in tests without depending on Go's randomized map iteration order.
func (r *Resolver) DebugScopes() []string {
	out := make([]string, len(r.scopes))
	for i, scope := range r.scopes {
		names := maps.Keys(scope)
		sort.Strings(names)
		out[i] = fmt.Sprintf("%v", names)
	}
	return out
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expr)
	case *ast.PrintStmt:
		r.resolveExpr(s.Expr)
	case *ast.VarDecl:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()
	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
	case *ast.FunctionDecl:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionFunction)
	case *ast.ReturnStmt:
		if r.currentFunc == functionNone {
			r.reportAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	default:
		panic(fmt.Sprintf("resolver: unhandled statement %T", stmt))
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunctionDecl, kind functionType) {
	enclosing := r.currentFunc
	r.currentFunc = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunc = enclosing
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Literal:
		// nothing to resolve
	case *ast.Grouping:
		r.resolveExpr(e.Inner)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Conditional:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.reportAt(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	default:
		panic(fmt.Sprintf("resolver: unhandled expression %T", expr))
	}
}

// resolveLocal searches the scope stack from innermost outward. The first
// scope containing name records (expr, distance) in the side table;
// finding nothing leaves expr absent, meaning "resolve against globals at
// runtime". The table never holds an entry for a name that resolves to
// globals.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.reportAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) reportAt(tok token.Token, msg string) {
	r.reporter.Token(report.TokenContext{Line: tok.Line, Lexeme: tok.Lexeme, AtEOF: tok.Kind == token.EOF}, msg)
}
