package main

import (
	"encoding/json"
	"os"
	"reflect"

	prettyjson "github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"

	"github.com/orchidlang/orchid/ast"
)

// ASTNode is the JSON view of one syntax tree node.
type ASTNode struct {
	Type     string     `json:"type"`
	Value    any        `json:"value,omitempty"`
	Span     *SpanJSON  `json:"span,omitempty"`
	Children []*ASTNode `json:"children,omitempty"`
}

// SpanJSON is the JSON view of a source span.
type SpanJSON struct {
	Start PosJSON `json:"start"`
	End   PosJSON `json:"end"`
}

// PosJSON is the JSON view of a source position.
type PosJSON struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func spanJSON(n ast.Node) *SpanJSON {
	s := ast.SpanOf(n)
	return &SpanJSON{
		Start: PosJSON{Line: s.Start.Line, Column: s.Start.Column, Offset: s.Start.Offset},
		End:   PosJSON{Line: s.End.Line, Column: s.End.Column, Offset: s.End.Offset},
	}
}

// nodeToJSON converts one AST node to its JSON view, recursively.
func nodeToJSON(node ast.Node) *ASTNode {
	if node == nil || reflect.ValueOf(node).IsNil() {
		return nil
	}
	result := &ASTNode{
		Type: reflect.TypeOf(node).Elem().Name(),
		Span: spanJSON(node),
	}
	addChild := func(n ast.Node) {
		if child := nodeToJSON(n); child != nil {
			result.Children = append(result.Children, child)
		}
	}

	switch n := node.(type) {
	case *ast.Module:
		result.Span = nil
		for _, stmt := range n.Stmts {
			addChild(stmt)
		}
	case *ast.VarDef:
		if n.Name != nil {
			result.Value = n.Name.Name
		}
		if n.Meta {
			result.Type = "MetaDef"
		}
		addChild(n.Value)
		if n.Cond != nil {
			addChild(n.Cond)
		}
		if n.Else != nil {
			addChild(n.Else)
		}
		if n.Alias != nil {
			addChild(n.Alias)
		}
	case *ast.Import:
		result.Value = n.Path
		if n.Alias != nil {
			addChild(n.Alias)
		}
	case *ast.GraphDef:
		if n.Name != nil {
			result.Value = n.Name.Name
		}
		if n.Alias != nil {
			addChild(n.Alias)
		}
		var items []*ast.DictItem
		if n.Metadata != nil {
			items = n.Metadata.Items
		}
		for _, item := range items {
			entry := &ASTNode{Type: "Attr", Value: item.Key.String(), Span: spanJSON(item.Key)}
			if child := nodeToJSON(item.Value); child != nil {
				entry.Children = append(entry.Children, child)
			}
			result.Children = append(result.Children, entry)
		}
		for _, nd := range n.Nodes {
			addChild(nd)
		}
	case *ast.NodeDef:
		result.Value = n.Name.Name
		for _, f := range n.Fields {
			addChild(f)
		}
	case *ast.Field:
		result.Value = n.Name.Name
		addChild(n.Value)
		if n.Cond != nil {
			addChild(n.Cond)
		}
		if n.Else != nil {
			addChild(n.Else)
		}
	case *ast.OpDef:
		result.Value = n.Name.Name
		for _, p := range n.Params {
			addChild(p)
		}
		addChild(n.Body)
	case *ast.Comment:
		result.Value = n.Text
	case *ast.Symbol:
		result.Value = n.Name
	case *ast.String:
		result.Value = n.Value
	case *ast.Int:
		result.Value = n.Value
	case *ast.Float:
		result.Value = n.Value
	case *ast.Bool:
		result.Value = n.Value
	case *ast.Date:
		result.Value = n.Value
	case *ast.Null:
		result.Value = nil
	case *ast.Dict:
		for _, item := range n.Items {
			entry := &ASTNode{Type: "DictItem", Value: item.Key.String(), Span: spanJSON(item.Key)}
			if child := nodeToJSON(item.Value); child != nil {
				entry.Children = append(entry.Children, child)
			}
			result.Children = append(result.Children, entry)
		}
	case *ast.List:
		for _, item := range n.Items {
			addChild(item)
		}
	case *ast.Tuple:
		for _, item := range n.Items {
			addChild(item)
		}
	case *ast.Set:
		for _, item := range n.Items {
			addChild(item)
		}
	}
	return result
}

// writeAST serializes the module per the requested format. Pretty output
// is colorized only when the destination is a terminal; "-o" and piped
// output fall back to plain JSON.
func writeAST(mod *ast.Module, format, outPath string) error {
	root := nodeToJSON(mod)
	var data []byte
	var err error
	if format == "pretty" && outPath == "" && isatty.IsTerminal(os.Stdout.Fd()) {
		data, err = prettyjson.Marshal(root)
	} else {
		data, err = json.MarshalIndent(root, "", "  ")
	}
	if err != nil {
		return err
	}
	return writeOutput(append(data, '\n'), outPath)
}

// writeOutput writes bytes to the -o path, or stdout when it is empty.
func writeOutput(data []byte, outPath string) error {
	if outPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}

// useColor reports whether diagnostics written to f should be colorized.
func useColor(f *os.File) bool {
	if !viper.GetBool("color") || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
