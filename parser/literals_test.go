package parser

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orchidlang/orchid/ast"
	"github.com/orchidlang/orchid/diag"
)

func parseStringValue(t *testing.T, literal string) *ast.String {
	t.Helper()
	mod := parse(t, fmt.Sprintf("var { x = %s; };", literal))
	require.Len(t, mod.Stmts, 1)
	s, ok := mod.Stmts[0].(*ast.VarDef).Value.(*ast.String)
	require.True(t, ok)
	return s
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		want    string
	}{
		{"newline", `"a\nb"`, "a\nb"},
		{"tab", `"a\tb"`, "a\tb"},
		{"carriage return", `"a\rb"`, "a\rb"},
		{"backslash", `"a\\b"`, `a\b`},
		{"double quote", `"a\"b"`, `a"b`},
		{"single quote", `'a\'b'`, "a'b"},
		{"unicode", `"é"`, "é"},
		{"unicode cjk", `"時"`, "時"},
		{"mixed", `"line\n\tend →"`, "line\n\tend →"},
		{"no escapes", `"plain"`, "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parseStringValue(t, tt.literal)
			require.Equal(t, tt.want, s.Value)
			require.False(t, s.Triple)
		})
	}
}

func TestInvalidEscapes(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		wantMsg string
	}{
		{"unknown", `"a\qb"`, `invalid escape sequence \q`},
		{"truncated unicode", `"\u00"`, "truncated"},
		{"bad hex", `"\uzzzz"`, "four hex digits"},
		{"surrogate", `"\ud800"`, "surrogate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := fmt.Sprintf("var { x = %s; };", tt.literal)
			mod, err := Parse(context.Background(), input)
			require.NotNil(t, err)
			collection := err.(*diag.Collection)
			require.Len(t, collection.Errors(), 1)
			d := collection.Errors()[0]
			require.Equal(t, diag.InvalidEscape, d.Code)
			require.Contains(t, d.Message, tt.wantMsg)

			// The statement is still built with the decodable portion.
			require.Len(t, mod.Stmts, 1)
		})
	}
}

func TestTripleQuotedString(t *testing.T) {
	s := parseStringValue(t, `"""
        first line
        second line
        """`)
	require.True(t, s.Triple)
	require.Equal(t, "first line\nsecond line", s.Value)
}

func TestTripleQuotedKeepsRelativeIndent(t *testing.T) {
	s := parseStringValue(t, `"""
        outer
            inner
        """`)
	require.Equal(t, "outer\n    inner", s.Value)
}

func TestTripleQuotedBlankLines(t *testing.T) {
	s := parseStringValue(t, `"""
        a

        b
        """`)
	require.Equal(t, "a\n\nb", s.Value)
}

func TestTripleQuotedSingleLine(t *testing.T) {
	s := parseStringValue(t, `"""inline"""`)
	require.True(t, s.Triple)
	require.Equal(t, "inline", s.Value)
}

func TestTripleQuotedUnderIndented(t *testing.T) {
	input := "var { x = \"\"\"\n        good\n    bad\n        \"\"\"; };"
	mod, err := Parse(context.Background(), input)
	require.NotNil(t, err)
	collection := err.(*diag.Collection)
	require.Len(t, collection.Errors(), 1)
	require.Equal(t, diag.BadIndentation, collection.Errors()[0].Code)

	// The under-indented line is kept with what could be stripped.
	s := mod.Stmts[0].(*ast.VarDef).Value.(*ast.String)
	require.Equal(t, "good\nbad", s.Value)
}

func TestIntOverflow(t *testing.T) {
	mod, err := Parse(context.Background(), `var { x = 99999999999999999999; };`)
	require.NotNil(t, err)
	collection := err.(*diag.Collection)
	require.Len(t, collection.Errors(), 1)
	require.Equal(t, diag.NumberOutOfRange, collection.Errors()[0].Code)

	// The node keeps value zero so later passes still see the binding.
	require.Len(t, mod.Stmts, 1)
	require.Equal(t, int64(0), mod.Stmts[0].(*ast.VarDef).Value.(*ast.Int).Value)
}

func TestFloatOverflow(t *testing.T) {
	collection := parseErrors(t, `var { x = 1e999; };`)
	require.Len(t, collection.Errors(), 1)
	require.Equal(t, diag.NumberOutOfRange, collection.Errors()[0].Code)
}

func TestInvalidDate(t *testing.T) {
	tests := []string{
		`var { x = 2024-13-01; };`,
		`var { x = 2024-02-30; };`,
		`var { x = 2024-01-01 25:00:00; };`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			collection := parseErrors(t, input)
			require.Len(t, collection.Errors(), 1)
			require.Equal(t, diag.InvalidDate, collection.Errors()[0].Code)
		})
	}
}

func TestDatetimeLiteralTagged(t *testing.T) {
	mod := parse(t, `var { x = 2024-06-15 10:30:00; };`)
	date := mod.Stmts[0].(*ast.VarDef).Value.(*ast.Date)
	require.True(t, date.HasTime)
	require.False(t, date.Call)
}

func TestDateCall(t *testing.T) {
	mod := parse(t, `var { x = date("2024-06-15 10:30:00"); };`)
	date := mod.Stmts[0].(*ast.VarDef).Value.(*ast.Date)
	require.Equal(t, "2024-06-15 10:30:00", date.Value)
	require.True(t, date.HasTime)
	require.True(t, date.Call)
}

func TestDateCallWithoutTime(t *testing.T) {
	mod := parse(t, `var { x = date("2024-06-15"); };`)
	date := mod.Stmts[0].(*ast.VarDef).Value.(*ast.Date)
	require.False(t, date.HasTime)
	require.True(t, date.Call)
}

func TestDateCallInvalid(t *testing.T) {
	collection := parseErrors(t, `var { x = date("not a date"); };`)
	require.Len(t, collection.Errors(), 1)
	require.Equal(t, diag.InvalidDate, collection.Errors()[0].Code)
}

// A plain identifier named date is still a reference.
func TestDateIdentifierReference(t *testing.T) {
	mod := parse(t, `var { x = date; };`)
	sym, ok := mod.Stmts[0].(*ast.VarDef).Value.(*ast.Symbol)
	require.True(t, ok)
	require.Equal(t, "date", sym.Name)
}
