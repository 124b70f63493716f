package parser

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/orchidlang/orchid/ast"
	"github.com/orchidlang/orchid/diag"
	"github.com/orchidlang/orchid/token"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// parseInt builds an Int node from the current token. An overflowing
// literal is reported with the literal's span; the node keeps value zero
// so the statement can still be built.
func (p *Parser) parseInt() ast.Expr {
	tok := p.curToken
	value, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.addValueError(diag.Errorf(diag.NumberOutOfRange, tok.Span(),
			"integer literal %s does not fit in 64 bits", tok.Literal))
		value = 0
	}
	return &ast.Int{ValuePos: tok.Start, Literal: tok.Literal, Value: value}
}

// parseFloat builds a Float node from the current token.
func (p *Parser) parseFloat() ast.Expr {
	tok := p.curToken
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil || math.IsInf(value, 0) {
		p.addValueError(diag.Errorf(diag.NumberOutOfRange, tok.Span(),
			"float literal %s overflows a 64-bit float", tok.Literal))
		value = 0
	}
	return &ast.Float{ValuePos: tok.Start, Literal: tok.Literal, Value: value}
}

// parseDate builds a Date node from a bare date literal. The datetime form
// is recognized here and tagged; the validator surfaces the deprecation.
func (p *Parser) parseDate() ast.Expr {
	tok := p.curToken
	hasTime := strings.ContainsRune(tok.Literal, ' ')
	layout := dateLayout
	if hasTime {
		layout = dateTimeLayout
	}
	if _, err := time.Parse(layout, tok.Literal); err != nil {
		p.addValueError(diag.Errorf(diag.InvalidDate, tok.Span(),
			"invalid date literal %s", tok.Literal))
	}
	return &ast.Date{
		ValuePos: tok.Start,
		EndPos:   tok.End,
		Value:    tok.Literal,
		HasTime:  hasTime,
	}
}

// parseDateCall parses the function form date("2024-01-01") with the
// current token on the date identifier. Unlike the bare datetime literal,
// a time component here is not deprecated.
func (p *Parser) parseDateCall() ast.Expr {
	start := p.curToken.Start
	p.nextToken() // move to "("
	if !p.expectPeek("a date call", token.STRING) {
		return nil
	}
	strTok := p.curToken
	value, _, ok := p.decodeStringToken(strTok)
	if !ok {
		return nil
	}
	hasTime := strings.ContainsRune(value, ' ')
	layout := dateLayout
	if hasTime {
		layout = dateTimeLayout
	}
	if _, err := time.Parse(layout, value); err != nil {
		p.addValueError(diag.Errorf(diag.InvalidDate, strTok.Span(),
			"invalid date %q", value))
	}
	if !p.expectPeek("a date call", token.RPAREN) {
		return nil
	}
	return &ast.Date{
		ValuePos: start,
		EndPos:   p.curToken.End,
		Value:    value,
		HasTime:  hasTime,
		Call:     true,
	}
}

// parseString builds a String node from the current token, decoding the
// literal.
func (p *Parser) parseString() ast.Expr {
	tok := p.curToken
	value, triple, ok := p.decodeStringToken(tok)
	if !ok {
		return nil
	}
	return &ast.String{
		ValuePos: tok.Start,
		EndPos:   tok.End,
		Literal:  tok.Literal,
		Value:    value,
		Triple:   triple,
	}
}

// decodeString returns the decoded text of a string token, for callers
// that need the value without building a node (import paths).
func (p *Parser) decodeString(tok token.Token) (string, bool) {
	value, _, ok := p.decodeStringToken(tok)
	return value, ok
}

// decodeStringToken strips the quotes from a string literal, dedents the
// triple-quoted form, and decodes escape sequences. Decoding problems are
// reported against the literal's span; the partially decoded text is kept
// so dependent checks can continue.
func (p *Parser) decodeStringToken(tok token.Token) (value string, triple bool, ok bool) {
	raw := tok.Literal
	if len(raw) < 2 {
		p.addError(diag.Errorf(diag.SyntaxError, tok.Span(), "malformed string literal"))
		return "", false, false
	}
	quote := raw[0]
	if len(raw) >= 6 && raw[1] == quote && raw[2] == quote {
		triple = true
		content := raw[3 : len(raw)-3]
		dedented, derr := dedent(content)
		if derr != "" {
			p.addValueError(diag.Errorf(diag.BadIndentation, tok.Span(), "%s", derr))
		}
		content = dedented
		value = p.decodeEscapes(content, tok)
		return value, true, true
	}
	value = p.decodeEscapes(raw[1:len(raw)-1], tok)
	return value, false, true
}

// dedent strips the common indentation from the content of a triple-quoted
// string. The whitespace prefix of the line holding the closing delimiter
// is removed from every content line, and the newlines adjacent to the
// delimiters are dropped. A non-blank content line indented less than that
// prefix is an error, returned as a message; the text is still returned
// with whatever indentation could be stripped.
func dedent(content string) (string, string) {
	if !strings.ContainsRune(content, '\n') {
		return content, ""
	}
	lines := strings.Split(content, "\n")

	// The last line holds the closing delimiter's indentation when it is
	// all whitespace; it is dropped along with its preceding newline.
	prefix := ""
	last := lines[len(lines)-1]
	if strings.TrimLeft(last, " \t") == "" {
		prefix = last
		lines = lines[:len(lines)-1]
	}
	// Drop the newline right after the opening delimiter.
	if len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	var errMsg string
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, prefix):
			lines[i] = line[len(prefix):]
		case strings.TrimLeft(line, " \t") == "":
			lines[i] = "" // blank lines need no indentation
		default:
			if errMsg == "" {
				errMsg = "multi-line string content is indented less than its closing delimiter"
			}
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n"), errMsg
}

// decodeEscapes resolves backslash escapes in string content. Invalid
// escapes are reported with the literal's span and left out of the decoded
// text.
func (p *Parser) decodeEscapes(content string, tok token.Token) string {
	if !strings.ContainsRune(content, '\\') {
		return content
	}
	var b strings.Builder
	b.Grow(len(content))
	for i := 0; i < len(content); {
		c := content[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(content) {
			p.addValueError(diag.Errorf(diag.InvalidEscape, tok.Span(),
				"incomplete escape sequence at end of string literal"))
			break
		}
		esc := content[i+1]
		switch esc {
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'r':
			b.WriteByte('\r')
			i += 2
		case '\\':
			b.WriteByte('\\')
			i += 2
		case '"':
			b.WriteByte('"')
			i += 2
		case '\'':
			b.WriteByte('\'')
			i += 2
		case 'u':
			r, size, errMsg := decodeUnicodeEscape(content[i:])
			if errMsg != "" {
				p.addValueError(diag.Errorf(diag.InvalidEscape, tok.Span(), "%s", errMsg))
				i += size
				continue
			}
			b.WriteRune(r)
			i += size
		default:
			p.addValueError(diag.Errorf(diag.InvalidEscape, tok.Span(),
				"invalid escape sequence \\%c", esc))
			i += 2
		}
	}
	return b.String()
}

// decodeUnicodeEscape decodes a \uXXXX escape at the start of s, returning
// the rune, the number of bytes consumed, and an error message if the
// escape is truncated, malformed, or names an invalid scalar value.
func decodeUnicodeEscape(s string) (rune, int, string) {
	if len(s) < 6 {
		return 0, len(s), "truncated \\u escape (four hex digits required)"
	}
	v, err := strconv.ParseUint(s[2:6], 16, 32)
	if err != nil {
		return 0, 6, "invalid \\u escape " + strconv.Quote(s[:6]) + " (four hex digits required)"
	}
	r := rune(v)
	if utf16.IsSurrogate(r) {
		return 0, 6, "\\u escape " + s[:6] + " is a surrogate, not a Unicode scalar value"
	}
	if !utf8.ValidRune(r) {
		return 0, 6, "\\u escape " + s[:6] + " is not a valid Unicode scalar value"
	}
	return r, 6, ""
}
