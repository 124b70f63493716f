package ast

import (
	"bytes"
	"strings"

	"github.com/orchidlang/orchid/token"
)

// Symbol is an identifier with its position. It serves both as a bound
// name (a variable, graph, node, op, or alias name) and, when it appears
// in value position, as a reference to a prior binding. The name may be a
// dotted path like "config.retries".
type Symbol struct {
	NamePos token.Position // position of the identifier
	Name    string         // the identifier text, possibly dotted
}

func (x *Symbol) exprNode() {}

func (x *Symbol) Pos() token.Position { return x.NamePos }
func (x *Symbol) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Symbol) String() string { return x.Name }

// Root returns the first segment of a dotted name. For "config.retries"
// it returns "config"; for an undotted name it returns the name itself.
func (x *Symbol) Root() string {
	if i := strings.IndexByte(x.Name, '.'); i >= 0 {
		return x.Name[:i]
	}
	return x.Name
}

// String is a value node that holds a string literal. Value carries the
// decoded text: escape sequences resolved and, for the triple-quoted form,
// common indentation stripped.
type String struct {
	ValuePos token.Position // position of the opening quote
	EndPos   token.Position // position just past the closing quote
	Literal  string         // the raw literal including quotes
	Value    string         // the decoded string value
	Triple   bool           // true for the multi-line triple-quoted form
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.EndPos }

func (x *String) String() string { return x.Literal }

// Int is a value node that holds an integer literal.
type Int struct {
	ValuePos token.Position // position of the literal
	Literal  string         // the literal text
	Value    int64          // the parsed value
}

func (x *Int) exprNode() {}

func (x *Int) Pos() token.Position { return x.ValuePos }
func (x *Int) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Int) String() string { return x.Literal }

// Float is a value node that holds a floating point literal.
type Float struct {
	ValuePos token.Position // position of the literal
	Literal  string         // the literal text
	Value    float64        // the parsed value
}

func (x *Float) exprNode() {}

func (x *Float) Pos() token.Position { return x.ValuePos }
func (x *Float) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Float) String() string { return x.Literal }

// Bool is a value node that holds a boolean literal.
type Bool struct {
	ValuePos token.Position // position of "true" or "false"
	Value    bool
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }

func (x *Bool) End() token.Position {
	return x.ValuePos.Advance(len(x.String()))
}

func (x *Bool) String() string {
	if x.Value {
		return "true"
	}
	return "false"
}

// Null is a value node that holds the null literal.
type Null struct {
	NullPos token.Position // position of "null"
}

func (x *Null) exprNode() {}

func (x *Null) Pos() token.Position { return x.NullPos }
func (x *Null) End() token.Position { return x.NullPos.Advance(4) } // len("null")

func (x *Null) String() string { return "null" }

// Date is a value node that holds a date literal. The bare form is a
// literal like 2024-01-01, optionally with a time component (the datetime
// form is deprecated). The function form date("2024-01-01") sets Call.
type Date struct {
	ValuePos token.Position // position of the literal or the "date" keyword
	EndPos   token.Position // position just past the literal
	Value    string         // normalized date text, e.g. "2024-01-01"
	HasTime  bool           // the literal carries a time component
	Call     bool           // written as date("...")
}

func (x *Date) exprNode() {}

func (x *Date) Pos() token.Position { return x.ValuePos }
func (x *Date) End() token.Position { return x.EndPos }

func (x *Date) String() string {
	if x.Call {
		return `date("` + x.Value + `")`
	}
	return x.Value
}

// DictItem is a single key-value pair in a dict literal. Keys are string
// literals or identifiers.
type DictItem struct {
	Key   Expr
	Value Expr
}

// Dict is a value node that builds a mapping. Items preserve source order;
// keys are unique within one literal.
type Dict struct {
	Lbrace token.Position // position of "{"
	Items  []*DictItem    // ordered key-value pairs
	Rbrace token.Position // position of "}"
}

func (x *Dict) exprNode() {}

func (x *Dict) Pos() token.Position { return x.Lbrace }
func (x *Dict) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Dict) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	for i, item := range x.Items {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(item.Key.String())
		out.WriteString(": ")
		out.WriteString(item.Value.String())
	}
	out.WriteString("}")
	return out.String()
}

// List is a value node that builds an ordered sequence.
type List struct {
	Lbrack token.Position // position of "["
	Items  []Expr         // ordered elements
	Rbrack token.Position // position of "]"
}

func (x *List) exprNode() {}

func (x *List) Pos() token.Position { return x.Lbrack }
func (x *List) End() token.Position { return x.Rbrack.Advance(1) }

func (x *List) String() string {
	return "[" + joinExprs(x.Items) + "]"
}

// Tuple is a value node that builds a fixed-arity ordered sequence. Arity
// is not checked at parse time; use sites that require a particular arity
// enforce it themselves.
type Tuple struct {
	Lparen token.Position // position of "("
	Items  []Expr         // ordered elements
	Rparen token.Position // position of ")"
}

func (x *Tuple) exprNode() {}

func (x *Tuple) Pos() token.Position { return x.Lparen }
func (x *Tuple) End() token.Position { return x.Rparen.Advance(1) }

func (x *Tuple) String() string {
	return "(" + joinExprs(x.Items) + ")"
}

// Set is a value node that builds a collection of unique elements. The
// parser keeps elements in source order and reports repeats as warnings
// rather than removing them.
type Set struct {
	Lbrace token.Position // position of "{"
	Items  []Expr         // elements in source order
	Rbrace token.Position // position of "}"
}

func (x *Set) exprNode() {}

func (x *Set) Pos() token.Position { return x.Lbrace }
func (x *Set) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Set) String() string {
	return "{" + joinExprs(x.Items) + "}"
}

func joinExprs(items []Expr) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.String())
	}
	return strings.Join(parts, ", ")
}
