package ast

import (
	"bytes"

	"github.com/orchidlang/orchid/token"
)

// VarDef is a statement node binding one name to a value. A source block
//
//	var { a = 1; b = 2; } as cfg;
//
// yields one VarDef per binding; all bindings from the same block share
// the block's VarPos and the same *Symbol alias pointer, which lets the
// formatter regroup them. Cond and Else carry the optional conditional
// guard: "a = 1 if flag else 2;". A block with no bindings yields a
// single VarDef with a nil Name and Value, so the alias still binds and
// the block survives formatting; EndPos marks where such a block ends.
type VarDef struct {
	VarPos token.Position // position of the "var" (or "meta") keyword
	Name   *Symbol        // the bound name; nil for an empty block
	Value  Expr           // the bound value; nil for an empty block
	Cond   Expr           // condition value; nil if unconditional
	Else   Expr           // fallback value; nil if none
	Alias  *Symbol        // block alias; nil if none, shared across the block
	Meta   bool           // written with the deprecated "meta" keyword
	EndPos token.Position // end of an empty block's statement
}

func (s *VarDef) stmtNode() {}

// Pos returns the binding name's position, not the block keyword's, so
// that sibling bindings from one block have non-overlapping spans. An
// empty block reports the keyword itself.
func (s *VarDef) Pos() token.Position {
	if s.Name == nil {
		return s.VarPos
	}
	return s.Name.Pos()
}

func (s *VarDef) End() token.Position {
	switch {
	case s.Else != nil:
		return s.Else.End()
	case s.Cond != nil:
		return s.Cond.End()
	case s.Value != nil:
		return s.Value.End()
	default:
		return s.EndPos
	}
}

func (s *VarDef) String() string {
	var out bytes.Buffer
	if s.Meta {
		out.WriteString("meta {")
	} else {
		out.WriteString("var {")
	}
	if s.Name != nil {
		out.WriteString(" ")
		out.WriteString(s.Name.Name)
		out.WriteString(" = ")
		out.WriteString(s.Value.String())
		if s.Cond != nil {
			out.WriteString(" if ")
			out.WriteString(s.Cond.String())
		}
		if s.Else != nil {
			out.WriteString(" else ")
			out.WriteString(s.Else.String())
		}
		out.WriteString("; ")
	}
	out.WriteString("}")
	if s.Alias != nil {
		out.WriteString(" as ")
		out.WriteString(s.Alias.Name)
	}
	out.WriteString(";")
	return out.String()
}

// Import is a statement node naming one imported module. A multi-item
// statement like "import a, b as c;" yields one Import per item.
type Import struct {
	ImportPos token.Position // position of the "import" keyword
	Path      string         // the import path, quoted-string or dotted form
	PathPos   token.Position // position of the path
	PathEnd   token.Position // position just past the path
	Alias     *Symbol        // optional alias; nil if none
}

func (s *Import) stmtNode() {}

func (s *Import) Pos() token.Position { return s.PathPos }

func (s *Import) End() token.Position {
	if s.Alias != nil {
		return s.Alias.End()
	}
	return s.PathEnd
}

// Binding returns the name the import makes visible: the alias when
// present, otherwise the last segment of the path.
func (s *Import) Binding() string {
	if s.Alias != nil {
		return s.Alias.Name
	}
	path := s.Path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' || path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

func (s *Import) String() string {
	var out bytes.Buffer
	out.WriteString("import ")
	out.WriteString(s.Path)
	if s.Alias != nil {
		out.WriteString(" as ")
		out.WriteString(s.Alias.Name)
	}
	out.WriteString(";")
	return out.String()
}

// Field is one binding inside a node body, with the optional conditional
// guard. Field order is preserved.
type Field struct {
	Name  *Symbol
	Value Expr
	Cond  Expr // condition value; nil if unconditional
	Else  Expr // fallback value; nil if none
}

func (f *Field) Pos() token.Position { return f.Name.Pos() }

func (f *Field) End() token.Position {
	switch {
	case f.Else != nil:
		return f.Else.End()
	case f.Cond != nil:
		return f.Cond.End()
	default:
		return f.Value.End()
	}
}

func (f *Field) String() string {
	var out bytes.Buffer
	out.WriteString(f.Name.Name)
	out.WriteString(" = ")
	out.WriteString(f.Value.String())
	if f.Cond != nil {
		out.WriteString(" if ")
		out.WriteString(f.Cond.String())
	}
	if f.Else != nil {
		out.WriteString(" else ")
		out.WriteString(f.Else.String())
	}
	out.WriteString(";")
	return out.String()
}

// NodeDef is one named node inside a graph body.
type NodeDef struct {
	Name   *Symbol        // the node name
	Lbrace token.Position // position of "{"
	Fields []*Field       // ordered field bindings
	Rbrace token.Position // position of "}"
}

func (s *NodeDef) Pos() token.Position { return s.Name.Pos() }
func (s *NodeDef) End() token.Position { return s.Rbrace.Advance(1) }

func (s *NodeDef) String() string {
	var out bytes.Buffer
	out.WriteString(s.Name.Name)
	out.WriteString(" { ")
	for _, f := range s.Fields {
		out.WriteString(f.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// GraphDef is a statement node defining a computation graph. Name may be
// nil for an anonymous graph bound through its alias. Metadata holds the
// graph-level bindings as an ordered dict spanning the graph braces; it is
// never nil.
type GraphDef struct {
	GraphPos token.Position // position of the "graph" keyword
	Name     *Symbol        // graph name; nil for anonymous aliased graphs
	Alias    *Symbol        // optional alias; nil if none
	Lbrace   token.Position // position of "{"
	Nodes    []*NodeDef     // ordered node definitions
	Metadata *Dict          // graph-level bindings in source order
	Rbrace   token.Position // position of "}"
}

func (s *GraphDef) stmtNode() {}

func (s *GraphDef) Pos() token.Position { return s.GraphPos }
func (s *GraphDef) End() token.Position { return s.Rbrace.Advance(1) }

// Binding returns the name the graph is known by: the name when present,
// otherwise the alias.
func (s *GraphDef) Binding() *Symbol {
	if s.Name != nil {
		return s.Name
	}
	return s.Alias
}

func (s *GraphDef) String() string {
	var out bytes.Buffer
	out.WriteString("graph")
	if s.Name != nil {
		out.WriteString(" ")
		out.WriteString(s.Name.Name)
	}
	if s.Alias != nil {
		out.WriteString(" as ")
		out.WriteString(s.Alias.Name)
	}
	out.WriteString(" { ")
	var items []*DictItem
	if s.Metadata != nil {
		items = s.Metadata.Items
	}
	for _, item := range items {
		out.WriteString(item.Key.String())
		out.WriteString(" = ")
		out.WriteString(item.Value.String())
		out.WriteString("; ")
	}
	for _, n := range s.Nodes {
		out.WriteString(n.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// OpDef is a statement node defining a named operation with parameters
// and a single value body.
type OpDef struct {
	OpPos  token.Position // position of the "op" keyword
	Name   *Symbol        // the operation name
	Lparen token.Position // position of "("
	Params []*Symbol      // ordered parameter names
	Rparen token.Position // position of ")"
	Lbrace token.Position // position of "{"
	Body   Expr           // the operation body value
	Rbrace token.Position // position of "}"
}

func (s *OpDef) stmtNode() {}

func (s *OpDef) Pos() token.Position { return s.OpPos }
func (s *OpDef) End() token.Position { return s.Rbrace.Advance(1) }

func (s *OpDef) String() string {
	var out bytes.Buffer
	out.WriteString("op ")
	out.WriteString(s.Name.Name)
	out.WriteString("(")
	for i, p := range s.Params {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(p.Name)
	}
	out.WriteString(") { ")
	out.WriteString(s.Body.String())
	out.WriteString(" };")
	return out.String()
}

// Comment is a module-level comment preserved for formatting. It never
// affects semantics.
type Comment struct {
	Start   token.Position // position of the comment opener
	EndPos  token.Position // position just past the comment
	Literal string         // the raw comment text including the opener
	Text    string         // the comment body with the opener stripped
}

func (s *Comment) stmtNode() {}

func (s *Comment) Pos() token.Position { return s.Start }
func (s *Comment) End() token.Position { return s.EndPos }

func (s *Comment) String() string { return s.Literal }
