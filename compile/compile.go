// Package compile flattens a validated module into a plain artifact:
// variables keyed by their qualified names, graphs with metadata and node
// attribute maps, and ops with their parameters and body. Literals lower
// to Go natives and references to their dotted text, so the artifact
// marshals to deterministic JSON.
package compile

import (
	"fmt"

	"github.com/orchidlang/orchid/ast"
)

// Version identifies the artifact layout.
const Version = "0.1.0"

// Artifact is the flattened form of one module.
type Artifact struct {
	Version string            `json:"version"`
	Imports map[string]string `json:"imports,omitempty"` // binding -> path
	Vars    map[string]any    `json:"vars,omitempty"`    // qualified name -> value
	Graphs  map[string]*Graph `json:"graphs,omitempty"`
	Ops     map[string]*Op    `json:"ops,omitempty"`
}

// Graph is the flattened form of a graph definition.
type Graph struct {
	Alias    string                    `json:"alias,omitempty"`
	Metadata map[string]any            `json:"metadata,omitempty"`
	Nodes    map[string]map[string]any `json:"nodes,omitempty"`
}

// Op is the flattened form of an op definition.
type Op struct {
	Params []string `json:"params"`
	Body   any      `json:"body"`
}

// Var is the lowered form of a conditional binding. Unconditional
// bindings lower to their bare value instead.
type Var struct {
	Value any `json:"value"`
	If    any `json:"if,omitempty"`
	Else  any `json:"else,omitempty"`
}

// Compile flattens a module. The module is expected to have passed
// validation; an AST shape that validation would have rejected is an
// error here.
func Compile(mod *ast.Module) (*Artifact, error) {
	art := &Artifact{
		Version: Version,
		Imports: map[string]string{},
		Vars:    map[string]any{},
		Graphs:  map[string]*Graph{},
		Ops:     map[string]*Op{},
	}
	for _, stmt := range mod.Stmts {
		switch s := stmt.(type) {
		case *ast.VarDef:
			if s.Name == nil {
				// An empty block binds nothing.
				continue
			}
			key := s.Name.Name
			if s.Alias != nil {
				key = s.Alias.Name + "." + key
			}
			value, err := lower(s.Value)
			if err != nil {
				return nil, err
			}
			if s.Cond != nil {
				cond, err := lower(s.Cond)
				if err != nil {
					return nil, err
				}
				var els any
				if s.Else != nil {
					if els, err = lower(s.Else); err != nil {
						return nil, err
					}
				}
				art.Vars[key] = &Var{Value: value, If: cond, Else: els}
			} else {
				art.Vars[key] = value
			}
		case *ast.Import:
			art.Imports[s.Binding()] = s.Path
		case *ast.GraphDef:
			name := s.Binding()
			if name == nil {
				return nil, fmt.Errorf("graph at %s has neither a name nor an alias", s.GraphPos)
			}
			g, err := lowerGraph(s)
			if err != nil {
				return nil, err
			}
			art.Graphs[name.Name] = g
		case *ast.OpDef:
			body, err := lower(s.Body)
			if err != nil {
				return nil, err
			}
			params := make([]string, 0, len(s.Params))
			for _, p := range s.Params {
				params = append(params, p.Name)
			}
			art.Ops[s.Name.Name] = &Op{Params: params, Body: body}
		}
	}
	return art, nil
}

func lowerGraph(s *ast.GraphDef) (*Graph, error) {
	g := &Graph{
		Metadata: map[string]any{},
		Nodes:    map[string]map[string]any{},
	}
	if s.Alias != nil && s.Name != nil {
		g.Alias = s.Alias.Name
	}
	for _, item := range s.Metadata.Items {
		value, err := lower(item.Value)
		if err != nil {
			return nil, err
		}
		g.Metadata[keyText(item.Key)] = value
	}
	for _, node := range s.Nodes {
		fields := map[string]any{}
		for _, f := range node.Fields {
			value, err := lower(f.Value)
			if err != nil {
				return nil, err
			}
			if f.Cond != nil {
				cond, err := lower(f.Cond)
				if err != nil {
					return nil, err
				}
				var els any
				if f.Else != nil {
					if els, err = lower(f.Else); err != nil {
						return nil, err
					}
				}
				fields[f.Name.Name] = &Var{Value: value, If: cond, Else: els}
			} else {
				fields[f.Name.Name] = value
			}
		}
		g.Nodes[node.Name.Name] = fields
	}
	return g, nil
}

// lower converts one value node to its Go-native form.
func lower(value ast.Expr) (any, error) {
	switch x := value.(type) {
	case *ast.String:
		return x.Value, nil
	case *ast.Int:
		return x.Value, nil
	case *ast.Float:
		return x.Value, nil
	case *ast.Bool:
		return x.Value, nil
	case *ast.Null:
		return nil, nil
	case *ast.Date:
		return x.Value, nil
	case *ast.Symbol:
		return x.Name, nil
	case *ast.Dict:
		m := map[string]any{}
		for _, item := range x.Items {
			v, err := lower(item.Value)
			if err != nil {
				return nil, err
			}
			m[keyText(item.Key)] = v
		}
		return m, nil
	case *ast.List:
		return lowerSlice(x.Items)
	case *ast.Tuple:
		return lowerSlice(x.Items)
	case *ast.Set:
		return lowerSlice(x.Items)
	default:
		return nil, fmt.Errorf("cannot compile value of type %T", value)
	}
}

func lowerSlice(items []ast.Expr) (any, error) {
	out := make([]any, 0, len(items))
	for _, item := range items {
		v, err := lower(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func keyText(key ast.Expr) string {
	if s, ok := key.(*ast.String); ok {
		return s.Value
	}
	return key.String()
}
