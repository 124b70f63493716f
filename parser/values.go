package parser

import (
	"github.com/orchidlang/orchid/ast"
	"github.com/orchidlang/orchid/diag"
	"github.com/orchidlang/orchid/token"
)

// parseValue parses one value with the current token on its first token,
// leaving the current token on the value's last token. Nesting depth is
// checked on every entry so adversarially deep input produces a diagnostic
// instead of exhausting the stack.
func (p *Parser) parseValue() ast.Expr {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		if !p.hadNewError() {
			p.addError(diag.Errorf(diag.NestingTooDeep, p.curToken.Span(),
				"maximum nesting depth exceeded (%d)", p.maxDepth))
		}
		return nil
	}
	if p.hadNewError() {
		return nil
	}

	switch p.curToken.Type {
	case token.STRING:
		p.enterRule("string")
		return p.parseString()
	case token.INT:
		p.enterRule("int")
		return p.parseInt()
	case token.FLOAT:
		p.enterRule("float")
		return p.parseFloat()
	case token.DATE:
		p.enterRule("date")
		return p.parseDate()
	case token.TRUE, token.FALSE:
		p.enterRule("bool")
		return &ast.Bool{ValuePos: p.curToken.Start, Value: p.curToken.Type == token.TRUE}
	case token.NULL:
		p.enterRule("null")
		return &ast.Null{NullPos: p.curToken.Start}
	case token.IDENT:
		if p.curToken.Literal == "date" && p.peekTokenIs(token.LPAREN) {
			p.enterRule("date_call")
			return p.parseDateCall()
		}
		p.enterRule("reference")
		return p.newSymbol(p.curToken)
	case token.LBRACE:
		return p.parseDictOrSet()
	case token.LBRACKET:
		p.enterRule("list")
		return p.parseList()
	case token.LPAREN:
		p.enterRule("tuple")
		return p.parseTuple()
	default:
		p.addError(diag.Errorf(diag.SyntaxError, p.curToken.Span(),
			"unexpected %s (expected a value: string, number, date, bool, null, dict, list, tuple, set, or reference)",
			tokenDescription(p.curToken)))
		return nil
	}
}

// parseDictOrSet disambiguates "{...}" literals with the current token on
// the opening brace. An empty literal is a dict; otherwise the literal is
// a dict exactly when the first element is followed by a colon.
func (p *Parser) parseDictOrSet() ast.Expr {
	lbrace := p.curToken.Start
	if p.peekTokenIs(token.RBRACE) {
		p.enterRule("dict")
		p.nextToken()
		return &ast.Dict{Lbrace: lbrace, Rbrace: p.curToken.Start}
	}
	p.nextToken()
	if (p.curTokenIs(token.STRING) || p.curTokenIs(token.IDENT)) && p.peekTokenIs(token.COLON) {
		p.enterRule("dict")
		return p.parseDict(lbrace)
	}
	p.enterRule("set")
	return p.parseSet(lbrace)
}

// parseDict parses the remaining items of a dict literal with the current
// token on the first key. Duplicate keys are structural errors; the first
// occurrence stays authoritative.
func (p *Parser) parseDict(lbrace token.Position) ast.Expr {
	dict := &ast.Dict{Lbrace: lbrace}
	seen := map[string]bool{}
	for {
		var key ast.Expr
		var keyText string
		switch p.curToken.Type {
		case token.STRING:
			s := p.parseString()
			if s == nil {
				return nil
			}
			key = s
			keyText = s.(*ast.String).Value
		case token.IDENT:
			sym := p.newSymbol(p.curToken)
			key = sym
			keyText = sym.Name
		default:
			p.addError(diag.Errorf(diag.SyntaxError, p.curToken.Span(),
				"unexpected %s while parsing a dict (expected a key)",
				tokenDescription(p.curToken)))
			return nil
		}
		if !p.expectPeek("a dict", token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseValue()
		if p.hadNewError() {
			return nil
		}
		if seen[keyText] {
			// The first occurrence stays authoritative; the parse keeps
			// going so the rest of the literal is still checked.
			p.addValueError(diag.Errorf(diag.DuplicateKey, ast.SpanOf(key),
				"duplicate dict key %q", keyText))
		} else {
			seen[keyText] = true
			dict.Items = append(dict.Items, &ast.DictItem{Key: key, Value: value})
		}

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RBRACE) {
				break // trailing comma
			}
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek("a dict", token.RBRACE) {
		return nil
	}
	dict.Rbrace = p.curToken.Start
	return dict
}

// parseSet parses the remaining elements of a set literal with the current
// token on the first element. A repeated element is kept, in source order,
// and reported as a warning rather than an error.
func (p *Parser) parseSet(lbrace token.Position) ast.Expr {
	set := &ast.Set{Lbrace: lbrace}
	seen := map[string]bool{}
	for {
		value := p.parseValue()
		if p.hadNewError() {
			return nil
		}
		text := value.String()
		if seen[text] {
			p.addWarning(diag.Warnf(diag.DuplicateSetElement, ast.SpanOf(value),
				"duplicate set element %s", text))
		}
		seen[text] = true
		set.Items = append(set.Items, value)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RBRACE) {
				break // trailing comma
			}
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek("a set", token.RBRACE) {
		return nil
	}
	set.Rbrace = p.curToken.Start
	return set
}

// parseList parses "[ value (, value)* ,? ]" with the current token on the
// opening bracket. An empty element slot, as in [1, , 2], is a syntax
// error.
func (p *Parser) parseList() ast.Expr {
	list := &ast.List{Lbrack: p.curToken.Start}
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		list.Rbrack = p.curToken.Start
		return list
	}
	for {
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			p.addError(diag.Errorf(diag.SyntaxError, p.curToken.Span(),
				"unexpected \",\" (expected a value)"))
			return nil
		}
		value := p.parseValue()
		if p.hadNewError() {
			return nil
		}
		list.Items = append(list.Items, value)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RBRACKET) {
				break // trailing comma
			}
			continue
		}
		break
	}
	if !p.expectPeek("a list", token.RBRACKET) {
		return nil
	}
	list.Rbrack = p.curToken.Start
	return list
}

// parseTuple parses "( value (, value)* ,? )" with the current token on
// the opening parenthesis. A tuple has at least one element; arity is not
// otherwise checked at parse time.
func (p *Parser) parseTuple() ast.Expr {
	tuple := &ast.Tuple{Lparen: p.curToken.Start}
	for {
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			p.addError(diag.Errorf(diag.SyntaxError, p.curToken.Span(),
				"unexpected \",\" (expected a value)"))
			return nil
		}
		if p.curTokenIs(token.RPAREN) && len(tuple.Items) == 0 {
			p.addError(diag.Errorf(diag.SyntaxError, p.curToken.Span(),
				"a tuple requires at least one value"))
			return nil
		}
		value := p.parseValue()
		if p.hadNewError() {
			return nil
		}
		tuple.Items = append(tuple.Items, value)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RPAREN) {
				break // trailing comma
			}
			continue
		}
		break
	}
	if !p.expectPeek("a tuple", token.RPAREN) {
		return nil
	}
	tuple.Rparen = p.curToken.Start
	return tuple
}
