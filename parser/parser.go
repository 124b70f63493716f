// Package parser turns Orchid source text into an abstract syntax tree.
//
// A parser is created by calling New() with a lexer as input and should be
// used only once, by calling Parse() to produce the AST. Errors do not stop
// the parse: the parser resynchronizes at the next statement boundary and
// keeps going, so one run reports every independent problem it can find.
// The returned module may be partial when errors were collected.
package parser

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/orchidlang/orchid/ast"
	"github.com/orchidlang/orchid/diag"
	"github.com/orchidlang/orchid/lexer"
	"github.com/orchidlang/orchid/token"
)

// DefaultMaxDepth is the default maximum nesting depth for values.
const DefaultMaxDepth = 500

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// maxSyncTokens bounds the number of tokens skipped while recovering from
// an error, so deeply malformed input cannot cause unbounded scanning.
const maxSyncTokens = 256

// Parse the provided input as Orchid source code and return the AST. This
// is a shorthand way to create a Lexer and Parser and then call Parse on
// that. The returned error, if not nil, is a *diag.Collection.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Module, error) {
	l := lexer.New(input)
	p := New(l, options...)
	mod, err := p.Parse(ctx)
	if err != nil {
		return mod, err
	}
	if p.diags.HasErrors() {
		return mod, p.diags
	}
	return mod, nil
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name attached to diagnostics.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for values. This turns stack
// exhaustion on adversarially deep input into a reported error. The
// default is DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithFailFast makes the parser stop at the first error instead of
// resynchronizing and collecting more.
func WithFailFast() Option {
	return func(p *Parser) {
		p.failFast = true
	}
}

// WithDebug makes the parser retain a trace of the tokens consumed and the
// grammar rules entered, retrievable with Trace() after the parse.
func WithDebug() Option {
	return func(p *Parser) {
		p.debug = true
	}
}

// WithLogger sets the logger used for rule-level tracing in debug mode.
// The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// Parser builds an AST from the token stream of a Lexer.
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// l is our lexer
	l *lexer.Lexer

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// diagnostics collected during parsing
	diags *diag.Collection

	// errCount counts error-severity diagnostics, for the fail-fast and
	// max-error cutoffs.
	errCount int

	// hardErrors counts the errors that abort the current statement:
	// syntax failures, as opposed to structural problems inside an
	// otherwise well-formed value (a bad escape, an overflowing number),
	// which are recorded without giving up on the statement.
	hardErrors int

	// stmtErrorCount tracks the hard error count at the start of the
	// current statement. Inner methods use it to detect that the statement
	// has failed.
	stmtErrorCount int

	// index of the next lexer comment to attach to the module
	commentIndex int

	// byte offset just past the last emitted statement; comments starting
	// before it were inside a construct and are dropped
	lastStmtEnd int

	// the filename of the input
	filename string

	// current value nesting depth
	depth int

	// braceDepth tracks the open-brace balance of the tokens consumed so
	// far, so error recovery knows how far inside a construct it is.
	braceDepth int

	// maximum allowed nesting depth
	maxDepth int

	// stop at the first error
	failFast bool

	// retain a parse trace
	debug bool
	trace *Trace

	logger zerolog.Logger
}

// New returns a Parser for the module provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:        l,
		diags:    diag.NewCollection(),
		maxDepth: DefaultMaxDepth,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename != "" {
		l.SetFilename(p.filename)
	}
	if p.debug {
		p.trace = &Trace{}
	}

	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]
	return p
}

// Diagnostics returns everything collected so far, errors and warnings.
func (p *Parser) Diagnostics() *diag.Collection { return p.diags }

// Trace returns the parse trace, or nil unless WithDebug was set.
func (p *Parser) Trace() *Trace { return p.trace }

// nextToken moves to the next token from the lexer, updating all of
// prevToken, curToken, and peekToken. Lexer errors become syntax
// diagnostics.
func (p *Parser) nextToken() {
	var err error
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	switch p.curToken.Type {
	case token.LBRACE:
		p.braceDepth++
	case token.RBRACE:
		p.braceDepth--
	}
	p.peekToken, err = p.l.Next()
	if p.debug && p.trace != nil && p.peekToken.Type != token.EOF {
		p.trace.Tokens = append(p.trace.Tokens, p.peekToken)
	}
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			p.addError(diag.Errorf(diag.SyntaxError,
				token.Span{Start: lexErr.Pos, End: p.peekToken.End}, "%s", lexErr.Msg))
		} else {
			p.addError(diag.Errorf(diag.SyntaxError, p.peekToken.Span(), "%s", err.Error()))
		}
	}
}

// Parse the module that is provided via the lexer. The AST is returned
// even when errors were collected, so later passes can still inspect the
// statements that did parse. The error, if not nil, is the *diag.Collection
// holding everything found, except that a cancelled context returns
// ctx.Err() directly.
func (p *Parser) Parse(ctx context.Context) (*ast.Module, error) {
	p.ctx = ctx
	mod := &ast.Module{}
	for p.curToken.Type != token.EOF {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if p.tooManyErrors() {
			break
		}
		p.stmtErrorCount = p.hardErrors
		p.attachComments(mod, p.curToken.Start.Offset)
		from := p.curToken.Start
		stmtDepth := p.braceDepth
		stmts := p.parseStatement()
		if p.hadNewError() {
			p.synchronize(stmtDepth)
			mod.Stmts = append(mod.Stmts, &ast.BadStmt{From: from, To: p.curToken.End})
		} else {
			for _, s := range stmts {
				mod.Stmts = append(mod.Stmts, s)
			}
			if len(stmts) > 0 {
				p.lastStmtEnd = stmts[len(stmts)-1].End().Offset
			}
		}
		p.nextToken()
	}
	p.attachComments(mod, p.curToken.Start.Offset+1)
	p.diags.Sort()
	if p.diags.HasErrors() {
		return mod, p.diags
	}
	return mod, nil
}

// attachComments appends, as module-level Comment statements, every lexer
// comment that ended before the given byte offset and started after the
// previous statement. Comments inside constructs are dropped.
func (p *Parser) attachComments(mod *ast.Module, before int) {
	comments := p.l.Comments()
	for p.commentIndex < len(comments) {
		c := comments[p.commentIndex]
		if c.Span.End.Offset > before {
			return
		}
		p.commentIndex++
		if c.Span.Start.Offset < p.lastStmtEnd {
			continue
		}
		mod.Stmts = append(mod.Stmts, &ast.Comment{
			Start:   c.Span.Start,
			EndPos:  c.Span.End,
			Literal: c.Text,
			Text:    commentText(c),
		})
		p.lastStmtEnd = c.Span.End.Offset
	}
}

func commentText(c token.Comment) string {
	text := c.Text
	switch {
	case c.Kind == token.BlockComment:
		text = trimPrefixes(text, "/*")
		if n := len(text); n >= 2 && text[n-2:] == "*/" {
			text = text[:n-2]
		}
	default:
		text = trimPrefixes(text, "#", "//")
	}
	return trimSpace(text)
}

func trimPrefixes(s string, prefixes ...string) string {
	for _, prefix := range prefixes {
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			return s[len(prefix):]
		}
	}
	return s
}

func trimSpace(s string) string {
	start := 0
	for start < len(s) && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	end := len(s)
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\r' || s[end-1] == '\n') {
		end--
	}
	return s[start:end]
}

// addError appends an error diagnostic that aborts the current statement.
func (p *Parser) addError(d *diag.Diagnostic) {
	d.File = p.filename
	p.diags.Add(d)
	p.errCount++
	p.hardErrors++
}

// addValueError appends an error diagnostic for a structural problem
// inside a well-formed value. The statement is not aborted: the node is
// still built so later passes see as much of the tree as possible.
func (p *Parser) addValueError(d *diag.Diagnostic) {
	d.File = p.filename
	p.diags.Add(d)
	p.errCount++
}

// addWarning appends a warning diagnostic.
func (p *Parser) addWarning(d *diag.Diagnostic) {
	d.File = p.filename
	p.diags.Add(d)
}

// tooManyErrors returns true once the error limit is reached: one error in
// fail-fast mode, MaxErrors otherwise.
func (p *Parser) tooManyErrors() bool {
	if p.failFast {
		return p.errCount >= 1
	}
	return p.errCount >= MaxErrors
}

// hadNewError returns true if a statement-aborting error was added during
// the current statement.
func (p *Parser) hadNewError() bool {
	return p.hardErrors > p.stmtErrorCount
}

// synchronize skips tokens until the boundary of the failed statement: a
// semicolon once the brace balance is back at the statement's starting
// depth, the brace closing the statement's own block (graphs have no
// trailing semicolon), a closing brace that escapes it, or end of input.
// The scan is bounded so malformed input cannot cause unbounded work.
func (p *Parser) synchronize(depth int) {
	for skipped := 0; skipped < maxSyncTokens; skipped++ {
		switch {
		case p.curToken.Type == token.EOF:
			return
		case p.curToken.Type == token.SEMICOLON && p.braceDepth <= depth:
			return
		case p.curToken.Type == token.RBRACE && p.braceDepth == depth:
			// The brace that closes the failed statement's own block. Step
			// onto a trailing semicolon so the caller consumes the whole
			// statement.
			if p.peekTokenIs(token.SEMICOLON) {
				p.nextToken()
			}
			return
		case p.curToken.Type == token.RBRACE && p.braceDepth < depth:
			return
		}
		prevPos := p.curToken.Start
		p.nextToken()
		// Safety: if we did not advance, bail out.
		if p.curToken.Start == prevPos {
			return
		}
	}
	// The bound was hit; give up on the rest of the input.
	for p.curToken.Type != token.EOF {
		prevPos := p.curToken.Start
		p.nextToken()
		if p.curToken.Start == prevPos {
			return
		}
	}
}

// curTokenIs returns true if the current token has the given type.
func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// peekTokenIs returns true if the next token has the given type.
func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek validates that the next token is of the given type, and
// advances if it is. If it is a different type, an error is recorded.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(context, t, p.peekToken)
	return false
}

// peekError records an error noting that the next token is not the
// expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	p.addError(diag.Errorf(diag.SyntaxError, got.Span(),
		"unexpected %s while parsing %s (expected %s)",
		tokenDescription(got), context, tokenTypeDescription(expected)))
}

// enterRule records a trace event and logs it when debugging.
func (p *Parser) enterRule(rule string) {
	if !p.debug {
		return
	}
	if p.trace != nil {
		p.trace.Events = append(p.trace.Events, TraceEvent{Rule: rule, Pos: p.curToken.Start})
	}
	p.logger.Trace().
		Str("rule", rule).
		Int("line", p.curToken.Start.Line).
		Int("column", p.curToken.Start.Column).
		Str("token", p.curToken.Literal).
		Msg("enter rule")
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return "identifier"
	case token.STRING:
		return "string"
	default:
		return string(t)
	}
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	default:
		if t.Literal == "" {
			return string(t.Type)
		}
		return "\"" + t.Literal + "\""
	}
}

// Trace records the tokens consumed and the grammar rules entered during a
// debug-mode parse. It is the inspection surface behind the facade's debug
// option.
type Trace struct {
	Tokens []token.Token
	Events []TraceEvent
}

// TraceEvent is one grammar rule entry during a traced parse.
type TraceEvent struct {
	Rule string
	Pos  token.Position
}
