// Package format renders a parsed module back to canonical Orchid source.
// Bindings are regrouped into their var blocks, collections print with
// normalized spacing, and string literals are re-quoted with the escape
// rules, so formatting a formatted file is a fixed point.
package format

import (
	"fmt"
	"strings"

	"github.com/orchidlang/orchid/ast"
)

const indent = "    "

// Module renders the whole module as canonical source text.
func Module(mod *ast.Module) string {
	var b strings.Builder
	stmts := mod.Stmts
	first := true
	for i := 0; i < len(stmts); {
		switch s := stmts[i].(type) {
		case *ast.VarDef:
			group := varGroup(stmts, i)
			writeGap(&b, &first)
			writeVarBlock(&b, group)
			i += len(group)
		case *ast.Import:
			group := importGroup(stmts, i)
			writeGap(&b, &first)
			writeImports(&b, group)
			i += len(group)
		case *ast.GraphDef:
			writeGap(&b, &first)
			writeGraph(&b, s)
			i++
		case *ast.OpDef:
			writeGap(&b, &first)
			writeOp(&b, s)
			i++
		case *ast.Comment:
			writeGap(&b, &first)
			b.WriteString(s.Literal)
			b.WriteString("\n")
			i++
		default:
			// BadStmt has no canonical form.
			i++
		}
	}
	return b.String()
}

func writeGap(b *strings.Builder, first *bool) {
	if !*first {
		b.WriteString("\n")
	}
	*first = false
}

// varGroup collects the run of VarDef statements that came from one
// source block, identified by their shared keyword position.
func varGroup(stmts []ast.Stmt, start int) []*ast.VarDef {
	head := stmts[start].(*ast.VarDef)
	group := []*ast.VarDef{head}
	for i := start + 1; i < len(stmts); i++ {
		next, ok := stmts[i].(*ast.VarDef)
		if !ok || next.VarPos != head.VarPos {
			break
		}
		group = append(group, next)
	}
	return group
}

func writeVarBlock(b *strings.Builder, group []*ast.VarDef) {
	keyword := "var"
	if group[0].Meta {
		keyword = "meta"
	}
	b.WriteString(keyword)
	if group[0].Name == nil {
		b.WriteString(" {}")
	} else {
		b.WriteString(" {\n")
		for _, def := range group {
			b.WriteString(indent)
			writeBinding(b, def.Name, def.Value, def.Cond, def.Else)
		}
		b.WriteString("}")
	}
	if group[0].Alias != nil {
		b.WriteString(" as ")
		b.WriteString(group[0].Alias.Name)
	}
	b.WriteString(";\n")
}

func writeBinding(b *strings.Builder, name *ast.Symbol, value, cond, els ast.Expr) {
	b.WriteString(name.Name)
	b.WriteString(" = ")
	b.WriteString(Value(value))
	if cond != nil {
		b.WriteString(" if ")
		b.WriteString(Value(cond))
	}
	if els != nil {
		b.WriteString(" else ")
		b.WriteString(Value(els))
	}
	b.WriteString(";\n")
}

// importGroup collects the run of Import statements that came from one
// source statement, identified by their shared keyword position.
func importGroup(stmts []ast.Stmt, start int) []*ast.Import {
	head := stmts[start].(*ast.Import)
	group := []*ast.Import{head}
	for i := start + 1; i < len(stmts); i++ {
		next, ok := stmts[i].(*ast.Import)
		if !ok || next.ImportPos != head.ImportPos {
			break
		}
		group = append(group, next)
	}
	return group
}

func writeImports(b *strings.Builder, group []*ast.Import) {
	b.WriteString("import ")
	for i, imp := range group {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(importPath(imp.Path))
		if imp.Alias != nil {
			b.WriteString(" as ")
			b.WriteString(imp.Alias.Name)
		}
	}
	b.WriteString(";\n")
}

// importPath renders a path in its dotted form when it is a plain module
// reference, quoting it otherwise.
func importPath(path string) string {
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '.' || c == '_' ||
			'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
			continue
		}
		return Quote(path)
	}
	if path == "" {
		return Quote(path)
	}
	return path
}

func writeGraph(b *strings.Builder, g *ast.GraphDef) {
	b.WriteString("graph")
	if g.Name != nil {
		b.WriteString(" ")
		b.WriteString(g.Name.Name)
	}
	if g.Alias != nil {
		b.WriteString(" as ")
		b.WriteString(g.Alias.Name)
	}
	b.WriteString(" {\n")
	for _, item := range g.Metadata.Items {
		b.WriteString(indent)
		b.WriteString(keyString(item.Key))
		b.WriteString(" = ")
		b.WriteString(Value(item.Value))
		b.WriteString(";\n")
	}
	for _, node := range g.Nodes {
		b.WriteString(indent)
		b.WriteString(node.Name.Name)
		b.WriteString(" {\n")
		for _, f := range node.Fields {
			b.WriteString(indent)
			b.WriteString(indent)
			writeBinding(b, f.Name, f.Value, f.Cond, f.Else)
		}
		b.WriteString(indent)
		b.WriteString("}\n")
	}
	b.WriteString("}\n")
}

func writeOp(b *strings.Builder, op *ast.OpDef) {
	b.WriteString("op ")
	b.WriteString(op.Name.Name)
	b.WriteString("(")
	for i, p := range op.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
	}
	b.WriteString(") { ")
	b.WriteString(Value(op.Body))
	b.WriteString(" };\n")
}

// Value renders one value in canonical form. String literals are
// re-quoted from their decoded text, except that multi-line strings keep
// their original triple-quoted spelling. Deprecated bare datetime
// literals are rewritten to the date(...) call form.
func Value(value ast.Expr) string {
	switch x := value.(type) {
	case *ast.String:
		if x.Triple {
			return x.Literal
		}
		return Quote(x.Value)
	case *ast.Date:
		if x.Call || x.HasTime {
			return fmt.Sprintf("date(%s)", Quote(x.Value))
		}
		return x.Value
	case *ast.Dict:
		parts := make([]string, 0, len(x.Items))
		for _, item := range x.Items {
			parts = append(parts, keyString(item.Key)+": "+Value(item.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ast.List:
		return "[" + joinValues(x.Items) + "]"
	case *ast.Tuple:
		return "(" + joinValues(x.Items) + ")"
	case *ast.Set:
		return "{" + joinValues(x.Items) + "}"
	case nil:
		return ""
	default:
		return value.String()
	}
}

func joinValues(items []ast.Expr) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, Value(item))
	}
	return strings.Join(parts, ", ")
}

func keyString(key ast.Expr) string {
	if s, ok := key.(*ast.String); ok {
		return Quote(s.Value)
	}
	return key.String()
}

// Quote renders a decoded string as a double-quoted Orchid literal,
// applying the escape rules in reverse. Quoting the decoded value of a
// simple literal reproduces the original text exactly.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
