package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orchidlang/orchid/token"
)

func span(line, col, offset, length int) token.Span {
	start := token.Position{Line: line, Column: col, Offset: offset}
	return token.Span{Start: start, End: start.Advance(length)}
}

func TestDiagnosticError(t *testing.T) {
	d := Errorf(UndefinedReference, span(3, 9, 30, 1), "undefined reference %q", "y")
	require.Equal(t, `error: 3:9: undefined reference "y"`, d.Error())

	d.File = "pipeline.orc"
	require.Equal(t, `error: pipeline.orc:3:9: undefined reference "y"`, d.Error())
}

func TestSeverityAndCategory(t *testing.T) {
	require.Equal(t, "error", Error.String())
	require.Equal(t, "warning", Warning.String())

	require.Equal(t, Syntax, SyntaxError.Category())
	require.Equal(t, Syntax, NestingTooDeep.Category())
	require.Equal(t, Structural, InvalidEscape.Category())
	require.Equal(t, Structural, DuplicateKey.Category())
	require.Equal(t, Semantic, DuplicateDefinition.Category())
	require.Equal(t, Semantic, UndefinedReference.Category())
	require.Equal(t, Deprecation, Deprecated.Category())
}

func TestWithHint(t *testing.T) {
	d := Warnf(Deprecated, span(1, 1, 0, 4), "deprecated feature: %s", "meta").
		WithHint("use %s instead", "an op definition")
	require.Equal(t, Warning, d.Severity)
	require.Equal(t, "use an op definition instead", d.Hint)
}

func TestCollectionRouting(t *testing.T) {
	c := NewCollection()
	c.Add(Errorf(SyntaxError, span(1, 1, 0, 1), "bad"))
	c.Add(Warnf(Deprecated, span(2, 1, 10, 4), "old"))

	require.True(t, c.HasErrors())
	require.True(t, c.HasWarnings())
	require.False(t, c.IsEmpty())
	require.Equal(t, 2, c.Len())
	require.Len(t, c.Errors(), 1)
	require.Len(t, c.Warnings(), 1)
}

func TestCollectionDedupe(t *testing.T) {
	c := NewCollection()
	c.Add(Errorf(SyntaxError, span(1, 1, 0, 1), "bad thing"))
	c.Add(Errorf(SyntaxError, span(1, 1, 0, 1), "bad thing"))
	require.Equal(t, 1, c.Len())

	// Same message at a different offset is a distinct diagnostic.
	c.Add(Errorf(SyntaxError, span(1, 5, 4, 1), "bad thing"))
	require.Equal(t, 2, c.Len())
}

func TestCollectionSort(t *testing.T) {
	c := NewCollection()
	c.Add(Errorf(UndefinedReference, span(5, 1, 50, 1), "late"))
	c.Add(Errorf(SyntaxError, span(1, 1, 0, 1), "early"))
	c.Sort()
	require.Equal(t, "early", c.Errors()[0].Message)
	require.Equal(t, "late", c.Errors()[1].Message)
}

func TestSortTiebreakByCategory(t *testing.T) {
	// Same position: syntax outranks structural outranks semantic
	// outranks deprecation.
	c := NewCollection()
	c.Add(Errorf(UndefinedReference, span(1, 1, 0, 1), "semantic"))
	c.Add(Errorf(SyntaxError, span(1, 1, 0, 1), "syntax"))
	c.Add(Errorf(InvalidEscape, span(1, 1, 0, 1), "structural"))
	c.Sort()
	require.Equal(t, "syntax", c.Errors()[0].Message)
	require.Equal(t, "structural", c.Errors()[1].Message)
	require.Equal(t, "semantic", c.Errors()[2].Message)
}

func TestAllInterleaves(t *testing.T) {
	c := NewCollection()
	c.Add(Errorf(SyntaxError, span(3, 1, 20, 1), "second"))
	c.Add(Warnf(Deprecated, span(1, 1, 0, 4), "first"))
	all := c.All()
	require.Len(t, all, 2)
	require.Equal(t, "first", all[0].Message)
	require.Equal(t, "second", all[1].Message)
}

func TestCollectionError(t *testing.T) {
	c := NewCollection()
	require.Equal(t, "no diagnostics", c.Error())

	c.Add(Errorf(SyntaxError, span(1, 1, 0, 1), "first problem"))
	require.Equal(t, "error: 1:1: first problem", c.Error())

	c.Add(Errorf(SyntaxError, span(2, 1, 10, 1), "second problem"))
	require.Equal(t, "error: 1:1: first problem (and 1 more errors)", c.Error())
}

func TestCollectionUnwrap(t *testing.T) {
	c := NewCollection()
	d := Errorf(SyntaxError, span(1, 1, 0, 1), "bad")
	c.Add(d)
	c.Add(Warnf(Deprecated, span(2, 1, 10, 4), "old"))

	var target *Diagnostic
	require.True(t, errors.As(error(c), &target))
	require.Same(t, d, target)
}

func TestFormat(t *testing.T) {
	source := "var { a = 1; };\nvar { x = y; };\n"
	d := Errorf(UndefinedReference, span(2, 11, 26, 1), "undefined reference %q", "y")
	d.File = "pipeline.orc"
	d.Hint = `define "y" before using it`

	out := NewFormatter(false).Format(d, source)
	require.Contains(t, out, `error[E3002]: undefined reference "y"`)
	require.Contains(t, out, "--> pipeline.orc:2:11")
	require.Contains(t, out, " 2 | var { x = y; };")
	require.Contains(t, out, "^")
	require.Contains(t, out, `= hint: define "y" before using it`)
}

func TestFormatCaretWidth(t *testing.T) {
	source := "var { total = missing; };\n"
	d := Errorf(UndefinedReference, span(1, 15, 14, 7), "undefined reference %q", "missing")
	out := NewFormatter(false).Format(d, source)
	require.Contains(t, out, "^^^^^^^")
}

func TestFormatWarning(t *testing.T) {
	source := "meta { owner = 1; };\n"
	d := Warnf(Deprecated, span(1, 1, 0, 4), "deprecated feature: meta definition syntax")
	out := NewFormatter(false).Format(d, source)
	require.Contains(t, out, "warning[W4001]:")
}

func TestFormatColorDisabledHasNoEscapes(t *testing.T) {
	source := "var { x = y; };\n"
	d := Errorf(UndefinedReference, span(1, 11, 10, 1), "undefined reference %q", "y")
	out := NewFormatter(false).Format(d, source)
	require.NotContains(t, out, "\x1b[")
}

func TestFormatAllSummary(t *testing.T) {
	source := "var { x = a; };\nvar { y = b; };\n"
	c := NewCollection()
	c.Add(Errorf(UndefinedReference, span(1, 11, 10, 1), "undefined reference %q", "a"))
	c.Add(Errorf(UndefinedReference, span(2, 11, 26, 1), "undefined reference %q", "b"))
	c.Add(Warnf(Deprecated, span(1, 1, 0, 3), "old"))

	out := NewFormatter(false).FormatAll(c, source)
	require.Contains(t, out, "found 2 errors and 1 warning")

	require.Equal(t, "", NewFormatter(false).FormatAll(NewCollection(), source))
}

func TestFormatAtEOF(t *testing.T) {
	// A diagnostic just past the end of the input still renders a line.
	source := "var { x = 1;"
	pos := token.Position{Line: 1, Column: 13, Offset: 12}
	d := Errorf(SyntaxError, token.Span{Start: pos, End: pos.Advance(1)}, "unexpected end of file")
	out := NewFormatter(false).Format(d, source)
	require.Contains(t, out, "var { x = 1;")
}
