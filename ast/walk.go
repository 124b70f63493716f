package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Module:
		for _, stmt := range n.Stmts {
			Walk(v, stmt)
		}

	// Statements
	case *VarDef:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		if n.Value != nil {
			Walk(v, n.Value)
		}
		if n.Cond != nil {
			Walk(v, n.Cond)
		}
		if n.Else != nil {
			Walk(v, n.Else)
		}
	case *Import:
		if n.Alias != nil {
			Walk(v, n.Alias)
		}
	case *GraphDef:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		if n.Metadata != nil {
			Walk(v, n.Metadata)
		}
		for _, nd := range n.Nodes {
			Walk(v, nd)
		}
	case *NodeDef:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		for _, f := range n.Fields {
			Walk(v, f)
		}
	case *Field:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		if n.Value != nil {
			Walk(v, n.Value)
		}
		if n.Cond != nil {
			Walk(v, n.Cond)
		}
		if n.Else != nil {
			Walk(v, n.Else)
		}
	case *OpDef:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		for _, p := range n.Params {
			Walk(v, p)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}

	// Values
	case *Dict:
		for _, item := range n.Items {
			if item.Key != nil {
				Walk(v, item.Key)
			}
			if item.Value != nil {
				Walk(v, item.Value)
			}
		}
	case *List:
		for _, item := range n.Items {
			Walk(v, item)
		}
	case *Tuple:
		for _, item := range n.Items {
			Walk(v, item)
		}
	case *Set:
		for _, item := range n.Items {
			Walk(v, item)
		}
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order, calling f for each node.
// If f returns false, the children of the node are skipped.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Preorder returns an iterator over all nodes of the tree rooted at root,
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		ok := true
		Inspect(root, func(n Node) bool {
			if n == nil {
				return false
			}
			ok = ok && yield(n)
			return ok
		})
	}
}
