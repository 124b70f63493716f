// Package lexer turns Orchid source text into a stream of tokens.
//
// Comments are not emitted as tokens. Each one is collected on the lexer
// with its span so the parser can reattach module-level comments to the
// syntax tree.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/orchidlang/orchid/token"
)

// Error describes a lexical error and the position where it occurred.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Lexer tokenizes Orchid input.
type Lexer struct {
	input     string
	pos       int  // offset of the current char
	readPos   int  // offset after the current char
	ch        byte // current char under examination
	line      int  // 1-based line of the current char
	lineStart int  // offset of the first byte of the current line
	filename  string

	comments []token.Comment
}

// New creates a Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// SetFilename records the name of the file being lexed, for error messages.
func (l *Lexer) SetFilename(name string) { l.filename = name }

// Filename returns the name set with SetFilename.
func (l *Lexer) Filename() string { return l.filename }

// Comments returns the comments collected so far, in source order.
func (l *Lexer) Comments() []token.Comment { return l.comments }

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.readPos
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL marks EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the position of the current character.
func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.pos - l.lineStart + 1, Offset: l.pos}
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Next returns the next token, or an error for input the lexer cannot
// tokenize at all (unterminated strings and block comments).
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return l.token(token.EOF, "", l.currentPos()), err
	}

	pos := l.currentPos()

	switch l.ch {
	case 0:
		return l.token(token.EOF, "", pos), nil
	case '=':
		return l.single(token.ASSIGN, pos), nil
	case ';':
		return l.single(token.SEMICOLON, pos), nil
	case ':':
		return l.single(token.COLON, pos), nil
	case ',':
		return l.single(token.COMMA, pos), nil
	case '.':
		return l.single(token.PERIOD, pos), nil
	case '{':
		return l.single(token.LBRACE, pos), nil
	case '}':
		return l.single(token.RBRACE, pos), nil
	case '[':
		return l.single(token.LBRACKET, pos), nil
	case ']':
		return l.single(token.RBRACKET, pos), nil
	case '(':
		return l.single(token.LPAREN, pos), nil
	case ')':
		return l.single(token.RPAREN, pos), nil
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return l.token(token.ARROW, "->", pos), nil
		}
		if isDigit(l.peekChar()) {
			return l.readNumber(pos), nil
		}
		return l.single(token.ILLEGAL, pos), nil
	case '"', '\'':
		return l.readString(pos)
	}

	switch {
	case isDigit(l.ch):
		if n, ok := l.dateLookahead(); ok {
			lit := l.input[l.pos : l.pos+n]
			for range n {
				l.readChar()
			}
			return l.token(token.DATE, lit, pos), nil
		}
		return l.readNumber(pos), nil
	case l.identStart():
		lit := l.readIdentifier()
		return l.token(token.LookupIdent(lit), lit, pos), nil
	}

	return l.single(token.ILLEGAL, pos), nil
}

// token builds a token whose end is the current position.
func (l *Lexer) token(typ token.Type, literal string, start token.Position) token.Token {
	return token.Token{Type: typ, Literal: literal, Start: start, End: l.currentPos()}
}

// single consumes the current character and returns it as a token.
func (l *Lexer) single(typ token.Type, pos token.Position) token.Token {
	lit := string(l.ch)
	l.readChar()
	return l.token(typ, lit, pos)
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '#' {
			l.collectLineComment()
			continue
		}
		if l.ch == '/' && l.peekChar() == '/' {
			l.collectLineComment()
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			if err := l.collectBlockComment(); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

// collectLineComment consumes a # or // comment through the end of the line.
func (l *Lexer) collectLineComment() {
	start := l.currentPos()
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	l.comments = append(l.comments, token.Comment{
		Kind: token.LineComment,
		Text: l.input[start.Offset:l.pos],
		Span: token.Span{Start: start, End: l.currentPos()},
	})
}

// collectBlockComment consumes a /* ... */ comment, which may span lines.
func (l *Lexer) collectBlockComment() error {
	start := l.currentPos()
	l.readChar() // skip '/'
	l.readChar() // skip '*'
	for {
		if l.ch == 0 {
			return l.errorf(start, "unterminated block comment")
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			break
		}
		l.readChar()
	}
	l.comments = append(l.comments, token.Comment{
		Kind: token.BlockComment,
		Text: l.input[start.Offset:l.pos],
		Span: token.Span{Start: start, End: l.currentPos()},
	})
	return nil
}

// readString reads a string literal, returning the raw text including the
// quotes. Escape decoding happens later, when the AST node is built; here
// backslashes only keep an escaped quote from closing the string.
//
// A tripled quote character opens a multi-line string that runs to the
// matching triple. The single- and double-quoted forms must close before
// the end of the line.
func (l *Lexer) readString(pos token.Position) (token.Token, error) {
	quote := l.ch
	triple := l.peekChar() == quote && l.peekAt(2) == quote
	if triple {
		l.readChar()
		l.readChar()
	}
	l.readChar() // move past the opening quote

	for {
		if l.ch == 0 {
			return l.token(token.STRING, l.input[pos.Offset:l.pos], pos),
				l.errorf(pos, "unterminated string literal")
		}
		if l.ch == '\\' && l.peekChar() != 0 {
			l.readChar()
			l.readChar()
			continue
		}
		if triple {
			if l.ch == quote && l.peekChar() == quote && l.peekAt(2) == quote {
				l.readChar()
				l.readChar()
				l.readChar()
				break
			}
		} else {
			if l.ch == '\n' {
				return l.token(token.STRING, l.input[pos.Offset:l.pos], pos),
					l.errorf(pos, "unterminated string literal")
			}
			if l.ch == quote {
				l.readChar()
				break
			}
		}
		l.readChar()
	}
	return l.token(token.STRING, l.input[pos.Offset:l.pos], pos), nil
}

// peekAt returns the character n bytes ahead of the current one.
func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// dateLookahead reports whether a date literal starts at the current
// position, and its byte length. Dates are checked before numbers so that
// 2024-01-01 is one literal rather than an integer followed by two
// negative integers. The form with a time component is recognized here and
// flagged as deprecated by the parser.
func (l *Lexer) dateLookahead() (int, bool) {
	s := l.input[l.pos:]
	digit := func(i int) bool { return i < len(s) && s[i] >= '0' && s[i] <= '9' }
	if !(digit(0) && digit(1) && digit(2) && digit(3) &&
		4 < len(s) && s[4] == '-' && digit(5) && digit(6) &&
		7 < len(s) && s[7] == '-' && digit(8) && digit(9)) {
		return 0, false
	}
	if digit(10) {
		return 0, false
	}
	n := 10
	if 10 < len(s) && s[10] == ' ' &&
		digit(11) && digit(12) && 13 < len(s) && s[13] == ':' &&
		digit(14) && digit(15) && 16 < len(s) && s[16] == ':' &&
		digit(17) && digit(18) && !digit(19) {
		n = 19
	}
	return n, true
}

// readNumber reads an integer or float literal, with an optional leading
// minus sign and an optional exponent.
func (l *Lexer) readNumber(pos token.Position) token.Token {
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	lit := l.input[pos.Offset:l.pos]
	if isFloat {
		return l.token(token.FLOAT, lit, pos)
	}
	return l.token(token.INT, lit, pos)
}

// identStart reports whether the current character can begin an identifier.
func (l *Lexer) identStart() bool {
	if isLetter(l.ch) {
		return true
	}
	if l.ch >= utf8.RuneSelf {
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		return unicode.IsLetter(r)
	}
	return false
}

// identPart reports whether the current character can continue an identifier.
func (l *Lexer) identPart() bool {
	return l.identStart() || isDigit(l.ch)
}

// readIdentifier reads an identifier, following '.' into further segments
// so that a dotted reference like config.retries is a single token.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for {
		for l.identPart() {
			if l.ch >= utf8.RuneSelf {
				_, size := utf8.DecodeRuneInString(l.input[l.pos:])
				for range size {
					l.readChar()
				}
			} else {
				l.readChar()
			}
		}
		if l.ch != '.' {
			break
		}
		// Peek past the dot for another identifier character.
		save := l.pos
		l.readChar()
		if !l.identStart() {
			// Trailing dot belongs to the next token. Rewind one byte;
			// a dot never follows a newline inside an identifier.
			l.pos = save
			l.readPos = save + 1
			l.ch = '.'
			break
		}
	}
	return l.input[start:l.pos]
}

// isLetter returns true for the ASCII identifier characters.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize scans the whole input, returning every token through EOF. It is
// a convenience for tests and debug tooling; errors end the scan early.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}
