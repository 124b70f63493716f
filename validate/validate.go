// Package validate implements the semantic pass over a parsed Orchid
// module: duplicate-definition detection, reference resolution, and
// surfacing of deprecated constructs. The whole module is one lexical
// scope; there is no nesting beyond container literals.
package validate

import (
	"github.com/orchidlang/orchid/ast"
	"github.com/orchidlang/orchid/diag"
	"github.com/orchidlang/orchid/token"
)

// Option is a configuration function for a Validator.
type Option func(*Validator)

// WithBuiltins declares names that are always resolvable. The default set
// is empty.
func WithBuiltins(names ...string) Option {
	return func(v *Validator) {
		for _, name := range names {
			v.builtins[name] = true
		}
	}
}

// WithStrictDeprecated makes deprecated constructs hard errors instead of
// warnings.
func WithStrictDeprecated() Option {
	return func(v *Validator) {
		v.strict = true
	}
}

// WithFailFast stops validation at the first error.
func WithFailFast() Option {
	return func(v *Validator) {
		v.failFast = true
	}
}

// Validator inspects a module and reports semantic diagnostics. It does
// not modify the AST.
type Validator struct {
	builtins map[string]bool
	strict   bool
	failFast bool
}

// New creates a Validator with the given options.
func New(options ...Option) *Validator {
	v := &Validator{builtins: map[string]bool{}}
	for _, opt := range options {
		opt(v)
	}
	return v
}

// binding records where and how early a name was first bound.
type binding struct {
	span  token.Span
	index int // statement index of the definition
}

// Validate runs both passes over the module, appending everything found to
// the collection. Pass two always runs even when pass one reported
// duplicates, so one run reports every issue; only the fail-fast option
// cuts it short.
func (v *Validator) Validate(mod *ast.Module, c *diag.Collection) {
	bindings := v.checkDefinitions(mod, c)
	if v.failFast && c.HasErrors() {
		return
	}
	v.checkReferences(mod, bindings, c)
	v.checkDeprecated(mod, c)
	c.Sort()
}

// checkDefinitions is pass one: bind every top-level name in statement
// order, reporting a second binding of the same name. The first binding
// stays authoritative for reference resolution. Node names are bound per
// graph and node attributes per node, with the same rule.
func (v *Validator) checkDefinitions(mod *ast.Module, c *diag.Collection) map[string]binding {
	bindings := map[string]binding{}
	seenAlias := map[*ast.Symbol]bool{}

	bind := func(sym *ast.Symbol, index int, what string) {
		if sym == nil {
			return
		}
		if first, ok := bindings[sym.Name]; ok {
			d := diag.Errorf(diag.DuplicateDefinition, ast.SpanOf(sym),
				"duplicate definition of %s %q (first defined at %s)",
				what, sym.Name, first.span.Start)
			c.Add(d)
			if v.failFast {
				return
			}
			return
		}
		bindings[sym.Name] = binding{span: ast.SpanOf(sym), index: index}
	}

	for i, stmt := range mod.Stmts {
		if v.failFast && c.HasErrors() {
			return bindings
		}
		switch s := stmt.(type) {
		case *ast.VarDef:
			bind(s.Name, i, "var")
			// The alias is shared by every binding from one block; bind
			// it once.
			if s.Alias != nil && !seenAlias[s.Alias] {
				seenAlias[s.Alias] = true
				bind(s.Alias, i, "var alias")
			}
		case *ast.Import:
			if s.Alias != nil {
				bind(s.Alias, i, "import alias")
			} else {
				name := s.Binding()
				if first, ok := bindings[name]; ok {
					c.Add(diag.Errorf(diag.DuplicateDefinition,
						token.Span{Start: s.PathPos, End: s.PathEnd},
						"duplicate definition of import %q (first defined at %s)",
						name, first.span.Start))
				} else {
					bindings[name] = binding{
						span:  token.Span{Start: s.PathPos, End: s.PathEnd},
						index: i,
					}
				}
			}
		case *ast.GraphDef:
			bind(s.Name, i, "graph")
			if s.Alias != nil {
				bind(s.Alias, i, "graph alias")
			}
			v.checkGraphNames(s, c)
		case *ast.OpDef:
			bind(s.Name, i, "op")
		}
	}
	return bindings
}

// checkGraphNames reports duplicate node names within one graph and
// duplicate attribute names within one node.
func (v *Validator) checkGraphNames(g *ast.GraphDef, c *diag.Collection) {
	nodes := map[string]token.Span{}
	for _, node := range g.Nodes {
		if first, ok := nodes[node.Name.Name]; ok {
			c.Add(diag.Errorf(diag.DuplicateDefinition, ast.SpanOf(node.Name),
				"duplicate definition of node %q (first defined at %s)",
				node.Name.Name, first.Start))
		} else {
			nodes[node.Name.Name] = ast.SpanOf(node.Name)
		}
		fields := map[string]token.Span{}
		for _, f := range node.Fields {
			if first, ok := fields[f.Name.Name]; ok {
				c.Add(diag.Errorf(diag.DuplicateDefinition, ast.SpanOf(f.Name),
					"duplicate definition of attribute %q (first defined at %s)",
					f.Name.Name, first.Start))
			} else {
				fields[f.Name.Name] = ast.SpanOf(f.Name)
			}
		}
	}
}

// checkReferences is pass two: resolve every symbol used in value position
// against the bindings visible at that statement, in order. A reference
// resolves when its root segment names a builtin, an import, or a binding
// from an earlier statement.
func (v *Validator) checkReferences(mod *ast.Module, bindings map[string]binding, c *diag.Collection) {
	for i, stmt := range mod.Stmts {
		if v.failFast && c.HasErrors() {
			return
		}
		resolve := func(name string) bool {
			if v.builtins[name] {
				return true
			}
			b, ok := bindings[name]
			return ok && b.index < i
		}
		switch s := stmt.(type) {
		case *ast.VarDef:
			v.checkValue(s.Value, resolve, c)
			v.checkValue(s.Cond, resolve, c)
			v.checkValue(s.Else, resolve, c)
		case *ast.GraphDef:
			for _, item := range s.Metadata.Items {
				v.checkValue(item.Value, resolve, c)
			}
			for _, node := range s.Nodes {
				for _, f := range node.Fields {
					v.checkValue(f.Value, resolve, c)
					v.checkValue(f.Cond, resolve, c)
					v.checkValue(f.Else, resolve, c)
				}
			}
		case *ast.OpDef:
			// Parameters are visible inside the op body only.
			params := map[string]bool{}
			for _, p := range s.Params {
				params[p.Name] = true
			}
			v.checkValue(s.Body, func(name string) bool {
				return params[name] || resolve(name)
			}, c)
		}
	}
}

// checkValue walks one value, resolving every symbol reference in it.
// Dict keys written as identifiers are names, not references, and are
// skipped.
func (v *Validator) checkValue(value ast.Expr, resolve func(string) bool, c *diag.Collection) {
	if value == nil {
		return
	}
	switch x := value.(type) {
	case *ast.Symbol:
		if !resolve(x.Root()) {
			c.Add(diag.Errorf(diag.UndefinedReference, ast.SpanOf(x),
				"undefined reference %q", x.Name))
		}
	case *ast.Dict:
		for _, item := range x.Items {
			v.checkValue(item.Value, resolve, c)
		}
	case *ast.List:
		for _, item := range x.Items {
			v.checkValue(item, resolve, c)
		}
	case *ast.Tuple:
		for _, item := range x.Items {
			v.checkValue(item, resolve, c)
		}
	case *ast.Set:
		for _, item := range x.Items {
			v.checkValue(item, resolve, c)
		}
	}
}

// checkDeprecated surfaces the constructs the parser tagged as deprecated:
// meta blocks and bare datetime literals. They are warnings unless strict
// mode promotes them to errors.
func (v *Validator) checkDeprecated(mod *ast.Module, c *diag.Collection) {
	report := func(span token.Span, construct, hint string) {
		if v.failFast && c.HasErrors() {
			return
		}
		d := diag.Warnf(diag.Deprecated, span, "deprecated feature: %s", construct).
			WithHint("%s", hint)
		if v.strict {
			d.Severity = diag.Error
		}
		c.Add(d)
	}

	seenBlock := map[token.Position]bool{}
	for _, stmt := range mod.Stmts {
		if s, ok := stmt.(*ast.VarDef); ok && s.Meta {
			// One report per meta block, not per binding.
			if !seenBlock[s.VarPos] {
				seenBlock[s.VarPos] = true
				report(token.Span{Start: s.VarPos, End: s.VarPos.Advance(4)},
					"meta definition syntax", "use an op definition instead")
			}
		}
	}
	for node := range ast.Preorder(mod) {
		if d, ok := node.(*ast.Date); ok && d.HasTime && !d.Call {
			report(ast.SpanOf(d), "datetime literal",
				`use date("`+d.Value+`") to specify dates with a time component`)
		}
	}
}
