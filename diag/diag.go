// Package diag defines the diagnostics produced while parsing and
// validating Orchid source code: positioned errors and warnings, the
// collection that accumulates them across passes, and a renderer for
// human-readable reports.
package diag

import (
	"fmt"

	"github.com/orchidlang/orchid/token"
)

// Severity indicates how serious a diagnostic is.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Category classifies a diagnostic by the pass that produced it. The order
// of the constants is the tie-break order used when two diagnostics share a
// source position: syntax before structural before semantic before
// deprecation.
type Category int

const (
	Syntax Category = iota
	Structural
	Semantic
	Deprecation
)

func (c Category) String() string {
	switch c {
	case Syntax:
		return "syntax"
	case Structural:
		return "structural"
	case Semantic:
		return "semantic"
	case Deprecation:
		return "deprecation"
	default:
		return "unknown"
	}
}

// Code is a stable identifier for a diagnostic kind, e.g. "E1001".
type Code string

const (
	// Syntax (E1xxx)
	SyntaxError    Code = "E1001" // input does not match the grammar
	NestingTooDeep Code = "E1002" // maximum nesting depth exceeded

	// Structural (E2xxx)
	InvalidEscape       Code = "E2001" // bad backslash escape in a string literal
	NumberOutOfRange    Code = "E2002" // numeric literal overflows its type
	InvalidDate         Code = "E2003" // impossible date or time component
	BadIndentation      Code = "E2004" // multi-line string under-indented
	DuplicateKey        Code = "E2005" // duplicate dict key
	InvalidConditional  Code = "E2006" // malformed conditional binding

	// Semantic (E3xxx)
	DuplicateDefinition Code = "E3001" // name bound twice in one scope
	UndefinedReference  Code = "E3002" // reference to an unbound name
	Unsupported         Code = "E3003" // recognized but unsupported syntax

	// Warnings (W4xxx)
	Deprecated          Code = "W4001" // deprecated construct
	DuplicateSetElement Code = "W4002" // repeated element in a set literal
)

var codeCategories = map[Code]Category{
	SyntaxError:         Syntax,
	NestingTooDeep:      Syntax,
	InvalidEscape:       Structural,
	NumberOutOfRange:    Structural,
	InvalidDate:         Structural,
	BadIndentation:      Structural,
	DuplicateKey:        Structural,
	InvalidConditional:  Structural,
	DuplicateDefinition: Semantic,
	UndefinedReference:  Semantic,
	Unsupported:         Semantic,
	Deprecated:          Deprecation,
	DuplicateSetElement: Structural,
}

// Category returns the category the code belongs to.
func (c Code) Category() Category {
	if cat, ok := codeCategories[c]; ok {
		return cat
	}
	return Syntax
}

func (c Code) String() string { return string(c) }

// Diagnostic is one positioned error or warning.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Span     token.Span
	File     string
	Hint     string // optional suggestion shown under the report
}

// Category returns the category derived from the diagnostic's code.
func (d *Diagnostic) Category() Category { return d.Code.Category() }

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	pos := d.Span.Start
	if d.File != "" {
		return fmt.Sprintf("%s: %s:%d:%d: %s", d.Severity, d.File, pos.Line, pos.Column, d.Message)
	}
	return fmt.Sprintf("%s: %d:%d: %s", d.Severity, pos.Line, pos.Column, d.Message)
}

// Errorf builds an error diagnostic with a formatted message.
func Errorf(code Code, span token.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// Warnf builds a warning diagnostic with a formatted message.
func Warnf(code Code, span token.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// WithHint attaches a suggestion to the diagnostic and returns it.
func (d *Diagnostic) WithHint(format string, args ...any) *Diagnostic {
	d.Hint = fmt.Sprintf(format, args...)
	return d
}
