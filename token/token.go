// Package token defines the lexical tokens of the Orchid language and the
// source positions attached to them.
package token

import "fmt"

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number, counted in bytes
	Offset int // 0-based byte offset from the start of the input
}

// IsValid reports whether the position has been set.
func (p Position) IsValid() bool { return p.Line > 0 }

// Advance returns the position n bytes further along the same line.
func (p Position) Advance(n int) Position {
	return Position{Line: p.Line, Column: p.Column + n, Offset: p.Offset + n}
}

// Before reports whether p appears before q in the input.
func (p Position) Before(q Position) bool { return p.Offset < q.Offset }

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span identifies a contiguous region of source text. End is exclusive: it
// is the position of the first byte after the region.
type Span struct {
	Start Position
	End   Position
}

// Contains reports whether the given byte offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// CommentKind distinguishes the comment forms the lexer recognizes.
type CommentKind int

const (
	LineComment  CommentKind = iota // "# ..." or "// ..." through end of line
	BlockComment                    // "/* ... */", possibly spanning lines
)

// Comment is a comment collected by the lexer, with its raw text and span.
// Comments are not tokens; the parser reattaches module-level comments to
// the syntax tree after the fact.
type Comment struct {
	Kind CommentKind
	Text string
	Span Span
}

// Token represents one token lexed from the input source code.
type Token struct {
	Type    Type
	Literal string
	Start   Position
	End     Position // exclusive
}

// Span returns the region of source text covered by the token.
func (t Token) Span() Span { return Span{Start: t.Start, End: t.End} }

// Token types
const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	IDENT  Type = "IDENT"
	INT    Type = "INT"
	FLOAT  Type = "FLOAT"
	STRING Type = "STRING"
	DATE   Type = "DATE"

	ASSIGN    Type = "="
	SEMICOLON Type = ";"
	COLON     Type = ":"
	COMMA     Type = ","
	PERIOD    Type = "."
	ARROW     Type = "->"

	LBRACE   Type = "{"
	RBRACE   Type = "}"
	LBRACKET Type = "["
	RBRACKET Type = "]"
	LPAREN   Type = "("
	RPAREN   Type = ")"

	VAR    Type = "VAR"
	META   Type = "META"
	IMPORT Type = "IMPORT"
	GRAPH  Type = "GRAPH"
	OP     Type = "OP"
	AS     Type = "AS"
	FROM   Type = "FROM"
	IF     Type = "IF"
	ELSE   Type = "ELSE"
	TRUE   Type = "TRUE"
	FALSE  Type = "FALSE"
	NULL   Type = "NULL"
)

// Reserved keywords
var keywords = map[string]Type{
	"var":    VAR,
	"meta":   META,
	"import": IMPORT,
	"graph":  GRAPH,
	"op":     OP,
	"as":     AS,
	"from":   FROM,
	"if":     IF,
	"else":   ELSE,
	"true":   TRUE,
	"false":  FALSE,
	"null":   NULL,
}

// LookupIdent maps an identifier to its keyword type, or IDENT if the text
// is not a reserved word. Dotted paths are never keywords.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
