package parser

import (
	"github.com/orchidlang/orchid/ast"
	"github.com/orchidlang/orchid/diag"
	"github.com/orchidlang/orchid/token"
)

// parseStatement dispatches on the current token, which is the first token
// of a top-level statement. It returns the statements produced: var blocks
// and multi-item imports expand to one statement per binding. On error it
// returns nil with diagnostics recorded.
func (p *Parser) parseStatement() []ast.Stmt {
	switch p.curToken.Type {
	case token.VAR:
		p.enterRule("var_def")
		return p.parseVarBlock(false)
	case token.META:
		p.enterRule("meta_def")
		return p.parseVarBlock(true)
	case token.IMPORT:
		p.enterRule("import")
		return p.parseImport()
	case token.GRAPH:
		p.enterRule("graph_def")
		if g := p.parseGraph(); g != nil {
			return []ast.Stmt{g}
		}
		return nil
	case token.OP:
		p.enterRule("op_def")
		if o := p.parseOp(); o != nil {
			return []ast.Stmt{o}
		}
		return nil
	case token.FROM:
		// There is no AST representation for from-imports; this is a hard
		// error rather than a deprecation.
		p.addError(diag.Errorf(diag.Unsupported, p.curToken.Span(),
			"unsupported feature: from import syntax").
			WithHint(`use "import %s" and reference members through the module name`, p.peekToken.Literal))
		return nil
	default:
		p.addError(diag.Errorf(diag.SyntaxError, p.curToken.Span(),
			"unexpected %s (expected one of: var, meta, import, graph, op)",
			tokenDescription(p.curToken)))
		return nil
	}
}

// parseVarBlock parses "var { (binding ";")* } (as IDENT)? ;" with the
// current token on the var keyword. The deprecated meta form parses
// identically; the resulting statements are tagged so the validator can
// surface the deprecation.
func (p *Parser) parseVarBlock(meta bool) []ast.Stmt {
	varPos := p.curToken.Start
	context := "a var block"
	if meta {
		context = "a meta block"
	}
	if !p.expectPeek(context, token.LBRACE) {
		return nil
	}

	type binding struct {
		name             *ast.Symbol
		value, cond, els ast.Expr
	}
	var bindings []binding
	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.peekError(context, token.RBRACE, p.peekToken)
			return nil
		}
		if !p.expectPeek(context, token.IDENT) {
			return nil
		}
		name := p.newSymbol(p.curToken)
		if !p.expectPeek(context, token.ASSIGN) {
			return nil
		}
		p.nextToken()
		value := p.parseValue()
		if p.hadNewError() {
			return nil
		}
		cond, els := p.parseConditional(name)
		if p.hadNewError() {
			return nil
		}
		if !p.expectPeek(context, token.SEMICOLON) {
			return nil
		}
		bindings = append(bindings, binding{name: name, value: value, cond: cond, els: els})
	}
	p.nextToken() // consume "}"

	var alias *ast.Symbol
	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(context, token.IDENT) {
			return nil
		}
		alias = p.newSymbol(p.curToken)
	}
	if !p.expectPeek(context, token.SEMICOLON) {
		return nil
	}

	if len(bindings) == 0 {
		// An empty block still binds its alias, and an empty meta block
		// still carries the deprecation.
		return []ast.Stmt{&ast.VarDef{
			VarPos: varPos,
			Alias:  alias,
			Meta:   meta,
			EndPos: p.curToken.End,
		}}
	}
	stmts := make([]ast.Stmt, 0, len(bindings))
	for _, b := range bindings {
		stmts = append(stmts, &ast.VarDef{
			VarPos: varPos,
			Name:   b.name,
			Value:  b.value,
			Cond:   b.cond,
			Else:   b.els,
			Alias:  alias,
			Meta:   meta,
		})
	}
	return stmts
}

// parseConditional parses the optional "if value (else value)?" guard
// after a binding value. Repeated guards and a dangling else are
// structural errors; parsing continues past them to stay in sync.
func (p *Parser) parseConditional(name *ast.Symbol) (cond, els ast.Expr) {
	for {
		switch {
		case p.peekTokenIs(token.IF):
			ifTok := p.peekToken
			p.nextToken()
			p.nextToken()
			value := p.parseValue()
			if value == nil {
				return cond, els
			}
			if cond != nil {
				p.addValueError(diag.Errorf(diag.InvalidConditional, ifTok.Span(),
					"attribute %q cannot have multiple if conditions", name.Name))
				continue
			}
			cond = value
		case p.peekTokenIs(token.ELSE):
			elseTok := p.peekToken
			p.nextToken()
			p.nextToken()
			value := p.parseValue()
			if value == nil {
				return cond, els
			}
			if cond == nil {
				p.addValueError(diag.Errorf(diag.InvalidConditional, elseTok.Span(),
					"attribute %q has an else value but no if condition", name.Name))
				continue
			}
			if els != nil {
				p.addValueError(diag.Errorf(diag.InvalidConditional, elseTok.Span(),
					"attribute %q cannot have multiple else values", name.Name))
				continue
			}
			els = value
		default:
			return cond, els
		}
	}
}

// parseImport parses "import item (, item)* ;" with the current token on
// the import keyword. Each item is a quoted path or dotted identifier with
// an optional alias, and yields its own Import statement.
func (p *Parser) parseImport() []ast.Stmt {
	importPos := p.curToken.Start
	var stmts []ast.Stmt
	for {
		p.nextToken()
		var path string
		pathPos, pathEnd := p.curToken.Start, p.curToken.End
		switch p.curToken.Type {
		case token.STRING:
			decoded, ok := p.decodeString(p.curToken)
			if !ok {
				return nil
			}
			path = decoded
		case token.IDENT:
			path = p.curToken.Literal
		default:
			p.addError(diag.Errorf(diag.SyntaxError, p.curToken.Span(),
				"unexpected %s while parsing an import (expected a module path)",
				tokenDescription(p.curToken)))
			return nil
		}
		var alias *ast.Symbol
		if p.peekTokenIs(token.AS) {
			p.nextToken()
			if !p.expectPeek("an import", token.IDENT) {
				return nil
			}
			alias = p.newSymbol(p.curToken)
		}
		stmts = append(stmts, &ast.Import{
			ImportPos: importPos,
			Path:      path,
			PathPos:   pathPos,
			PathEnd:   pathEnd,
			Alias:     alias,
		})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("an import", token.SEMICOLON) {
		return nil
	}
	return stmts
}

// parseGraph parses "graph IDENT? (as IDENT)? { (node_def | binding ;)* }"
// with the current token on the graph keyword. Unlike the other statement
// forms, a graph is not followed by a semicolon.
func (p *Parser) parseGraph() *ast.GraphDef {
	g := &ast.GraphDef{GraphPos: p.curToken.Start}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		g.Name = p.newSymbol(p.curToken)
	}
	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek("a graph definition", token.IDENT) {
			return nil
		}
		g.Alias = p.newSymbol(p.curToken)
	}
	if !p.expectPeek("a graph definition", token.LBRACE) {
		return nil
	}
	g.Lbrace = p.curToken.Start
	g.Metadata = &ast.Dict{Lbrace: g.Lbrace}

	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.peekError("a graph definition", token.RBRACE, p.peekToken)
			return nil
		}
		if !p.expectPeek("a graph definition", token.IDENT) {
			return nil
		}
		name := p.newSymbol(p.curToken)
		switch p.peekToken.Type {
		case token.LBRACE:
			p.enterRule("node_def")
			node := p.parseNode(name)
			if node == nil {
				return nil
			}
			g.Nodes = append(g.Nodes, node)
		case token.ASSIGN:
			p.nextToken()
			p.nextToken()
			value := p.parseValue()
			if p.hadNewError() {
				return nil
			}
			// Conditional guards are not allowed on graph metadata.
			if p.peekTokenIs(token.IF) || p.peekTokenIs(token.ELSE) {
				p.addValueError(diag.Errorf(diag.InvalidConditional, p.peekToken.Span(),
					"graph attribute %q cannot be conditional", name.Name))
				p.parseConditional(name) // consume the guard to stay in sync
				if p.hadNewError() {
					return nil
				}
			}
			if !p.expectPeek("a graph attribute", token.SEMICOLON) {
				return nil
			}
			g.Metadata.Items = append(g.Metadata.Items, &ast.DictItem{Key: name, Value: value})
		case token.ARROW:
			// Edge declarations have no AST representation.
			p.addError(diag.Errorf(diag.Unsupported, p.peekToken.Span(),
				"unsupported feature: edge syntax").
				WithHint("declare dependencies as node attributes instead"))
			return nil
		default:
			p.addError(diag.Errorf(diag.SyntaxError, p.peekToken.Span(),
				"unexpected %s while parsing a graph body (expected one of: {, =)",
				tokenDescription(p.peekToken)))
			return nil
		}
	}
	p.nextToken() // consume "}"
	g.Rbrace = p.curToken.Start
	g.Metadata.Rbrace = g.Rbrace
	return g
}

// parseNode parses a node body "{ (binding ;)* }" with the current token
// on the node name and the peek token on the opening brace.
func (p *Parser) parseNode(name *ast.Symbol) *ast.NodeDef {
	node := &ast.NodeDef{Name: name}
	p.nextToken() // move to "{"
	node.Lbrace = p.curToken.Start
	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.peekError("a node definition", token.RBRACE, p.peekToken)
			return nil
		}
		if !p.expectPeek("a node definition", token.IDENT) {
			return nil
		}
		fieldName := p.newSymbol(p.curToken)
		if !p.expectPeek("a node attribute", token.ASSIGN) {
			return nil
		}
		p.nextToken()
		value := p.parseValue()
		if p.hadNewError() {
			return nil
		}
		cond, els := p.parseConditional(fieldName)
		if p.hadNewError() {
			return nil
		}
		if !p.expectPeek("a node attribute", token.SEMICOLON) {
			return nil
		}
		node.Fields = append(node.Fields, &ast.Field{Name: fieldName, Value: value, Cond: cond, Else: els})
	}
	p.nextToken() // consume "}"
	node.Rbrace = p.curToken.Start
	return node
}

// parseOp parses "op IDENT ( params ) { value } ;" with the current token
// on the op keyword.
func (p *Parser) parseOp() *ast.OpDef {
	op := &ast.OpDef{OpPos: p.curToken.Start}
	if !p.expectPeek("an op definition", token.IDENT) {
		return nil
	}
	op.Name = p.newSymbol(p.curToken)
	if !p.expectPeek("an op definition", token.LPAREN) {
		return nil
	}
	op.Lparen = p.curToken.Start
	if !p.peekTokenIs(token.RPAREN) {
		for {
			if !p.expectPeek("op parameters", token.IDENT) {
				return nil
			}
			op.Params = append(op.Params, p.newSymbol(p.curToken))
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}
	if !p.expectPeek("op parameters", token.RPAREN) {
		return nil
	}
	op.Rparen = p.curToken.Start
	if !p.expectPeek("an op definition", token.LBRACE) {
		return nil
	}
	op.Lbrace = p.curToken.Start
	p.nextToken()
	op.Body = p.parseValue()
	if p.hadNewError() {
		return nil
	}
	if !p.expectPeek("an op definition", token.RBRACE) {
		return nil
	}
	op.Rbrace = p.curToken.Start
	if !p.expectPeek("an op definition", token.SEMICOLON) {
		return nil
	}
	return op
}

// newSymbol creates a Symbol node from an identifier token.
func (p *Parser) newSymbol(tok token.Token) *ast.Symbol {
	return &ast.Symbol{NamePos: tok.Start, Name: tok.Literal}
}
