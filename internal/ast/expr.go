// Package ast defines the expression and statement node types produced by
// the parser. Node identity (the node's own pointer) is the key the
// resolver uses for its side table — see internal/resolver — so nodes are
// always handled by pointer and never copied after construction.
//
// Rather than a double-dispatch visitor, nodes carry only their data and
// a String rendering; evaluation and resolution live in internal/interp
// and internal/resolver as type switches over the node types.
package ast

import (
	"fmt"
	"strings"

	"loxi/internal/token"
)

// Expr is any expression node.
type Expr interface {
	String() string
	exprNode()
}

// Literal holds a constant value already decoded by the parser: Nil has
// Value == nil, Bool a bool, Number a float64, String a string.
type Literal struct {
	Value any
}

// Grouping is a parenthesized sub-expression, kept as its own node (rather
// than being collapsed away) so precedence is visible in debug output.
type Grouping struct {
	Inner Expr
}

// Unary is a prefix operator application: "!" or "-".
type Unary struct {
	Op    token.Token
	Right Expr
}

// Binary covers every left-associative binary operator, including the
// comma operator with Op.Kind == token.COMMA.
type Binary struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

// Logical is "and"/"or", kept distinct from Binary because it must
// short-circuit rather than evaluate both operands eagerly.
type Logical struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

// Conditional is the ternary "cond ? then : else".
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Variable references a name; the resolver annotates it with a resolution
// distance keyed by the node's own pointer.
type Variable struct {
	Name token.Token
}

// Assign is "name = value"; like Variable, it carries no distance field of
// its own — the resolver's side table is keyed by the node pointer.
type Assign struct {
	Name  token.Token
	Value Expr
}

// Call is a function application. Paren is the closing ")" token, kept so
// runtime errors ("Expected N arguments but got M.") can report a line.
type Call struct {
	Callee Expr
	Paren  token.Token
	Args   []Expr
}

func (*Literal) exprNode()     {}
func (*Grouping) exprNode()    {}
func (*Unary) exprNode()       {}
func (*Binary) exprNode()      {}
func (*Logical) exprNode()     {}
func (*Conditional) exprNode() {}
func (*Variable) exprNode()    {}
func (*Assign) exprNode()      {}
func (*Call) exprNode()        {}

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "nil"
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (g *Grouping) String() string { return fmt.Sprintf("(group %s)", g.Inner) }
func (u *Unary) String() string    { return fmt.Sprintf("(%s %s)", u.Op.Lexeme, u.Right) }
func (b *Binary) String() string   { return fmt.Sprintf("(%s %s %s)", b.Op.Lexeme, b.Left, b.Right) }
func (l *Logical) String() string  { return fmt.Sprintf("(%s %s %s)", l.Op.Lexeme, l.Left, l.Right) }
func (c *Conditional) String() string {
	return fmt.Sprintf("(? %s %s %s)", c.Cond, c.Then, c.Else)
}
func (v *Variable) String() string { return v.Name.Lexeme }
func (a *Assign) String() string   { return fmt.Sprintf("(= %s %s)", a.Name.Lexeme, a.Value) }
func (c *Call) String() string {
	sb := strings.Builder{}
	sb.WriteString(c.Callee.String())
	sb.WriteByte('(')
	for i, arg := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
