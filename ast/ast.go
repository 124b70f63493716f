// Package ast defines the abstract syntax tree representation of Orchid
// source code.
package ast

import "github.com/orchidlang/orchid/token"

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a top-level statement node: a definition, an import, or
// a comment.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents a value node. Values appear on the right-hand side of
// bindings and inside collection literals.
type Expr interface {
	Node
	exprNode()
}

// SpanOf returns the source span covered by a node.
func SpanOf(n Node) token.Span {
	return token.Span{Start: n.Pos(), End: n.End()}
}

// Module is the root node of a parsed Orchid file. It owns its statement
// tree and is immutable after the parse that built it returns.
type Module struct {
	Stmts []Stmt
}

func (m *Module) Pos() token.Position {
	if len(m.Stmts) > 0 {
		return m.Stmts[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

func (m *Module) End() token.Position {
	if len(m.Stmts) > 0 {
		return m.Stmts[len(m.Stmts)-1].End()
	}
	return token.Position{Line: 1, Column: 1}
}

func (m *Module) String() string {
	var out []byte
	for i, s := range m.Stmts {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, s.String()...)
	}
	return string(out)
}

// BadExpr represents a value containing syntax errors. It is used by the
// parser to continue parsing after an error, allowing subsequent errors to
// be detected without giving up.
type BadExpr struct {
	From token.Position // start of bad expression
	To   token.Position // end of bad expression
}

func (x *BadExpr) exprNode() {}

func (x *BadExpr) Pos() token.Position { return x.From }
func (x *BadExpr) End() token.Position { return x.To }
func (x *BadExpr) String() string      { return "<bad expression>" }

// BadStmt represents a statement containing syntax errors. Downstream
// passes skip over it.
type BadStmt struct {
	From token.Position // start of bad statement
	To   token.Position // end of bad statement
}

func (x *BadStmt) stmtNode() {}

func (x *BadStmt) Pos() token.Position { return x.From }
func (x *BadStmt) End() token.Position { return x.To }
func (x *BadStmt) String() string      { return "<bad statement>" }
