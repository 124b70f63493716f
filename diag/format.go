package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders diagnostics in a Rust-like style:
//
//	error[E3002]: undefined reference "y"
//	  --> pipeline.orc:3:9
//	   |
//	 3 |     x = y;
//	   |         ^
//	   |
//	   = hint: define "y" before using it
type Formatter struct {
	// UseColor enables ANSI color codes in the output.
	UseColor bool
}

// NewFormatter creates a diagnostic formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorErrorBold = color.New(color.FgRed, color.Bold)
	colorWarnBold  = color.New(color.FgYellow, color.Bold)
	colorCode      = color.New(color.FgHiBlack)
	colorLocation  = color.New(color.FgCyan)
	colorGutter    = color.New(color.FgHiBlack)
	colorCaret     = color.New(color.FgHiRed)
	colorSquiggle  = color.New(color.FgHiYellow)
	colorHint      = color.New(color.FgHiYellow)
)

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

// Format renders one diagnostic against the source text it refers to.
func (f *Formatter) Format(d *Diagnostic, source string) string {
	var b strings.Builder

	label := colorErrorBold
	caret := colorCaret
	if d.Severity != Error {
		label = colorWarnBold
		caret = colorSquiggle
	}

	// Header: "error[E3002]: message"
	b.WriteString(f.paint(label, d.Severity.String()))
	if d.Code != "" {
		b.WriteString(f.paint(colorCode, fmt.Sprintf("[%s]", d.Code)))
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	b.WriteString("\n")

	start := d.Span.Start
	if !start.IsValid() {
		return b.String()
	}

	width := len(fmt.Sprintf("%d", start.Line))
	if width < 2 {
		width = 2
	}
	pad := strings.Repeat(" ", width)

	// Location arrow: "  --> file.orc:3:9"
	loc := fmt.Sprintf("%d:%d", start.Line, start.Column)
	if d.File != "" {
		loc = fmt.Sprintf("%s:%s", d.File, loc)
	}
	b.WriteString(pad)
	b.WriteString(f.paint(colorLocation, "--> "+loc))
	b.WriteString("\n")

	line := sourceLine(source, start.Line)
	if line == "" && start.Offset >= len(source) {
		line = sourceLine(source, start.Line-1)
	}
	b.WriteString(pad)
	b.WriteString(f.paint(colorGutter, " |"))
	b.WriteString("\n")
	b.WriteString(f.paint(colorGutter, fmt.Sprintf("%*d | ", width, start.Line)))
	b.WriteString(line)
	b.WriteString("\n")

	// Caret line under the offending range.
	col := start.Column
	if col < 1 {
		col = 1
	}
	n := 1
	if d.Span.End.Line == start.Line && d.Span.End.Column > start.Column {
		n = d.Span.End.Column - start.Column
	}
	b.WriteString(pad)
	b.WriteString(f.paint(colorGutter, " | "))
	b.WriteString(strings.Repeat(" ", col-1))
	b.WriteString(f.paint(caret, strings.Repeat("^", n)))
	b.WriteString("\n")

	if d.Hint != "" {
		b.WriteString(pad)
		b.WriteString(f.paint(colorGutter, " |"))
		b.WriteString("\n")
		b.WriteString(pad)
		b.WriteString(f.paint(colorGutter, " = "))
		b.WriteString(f.paint(colorHint, "hint: "))
		b.WriteString(d.Hint)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatAll renders every diagnostic in the collection, errors first and
// warnings after, each against the given source, with a closing summary
// when there is more than one.
func (f *Formatter) FormatAll(c *Collection, source string) string {
	all := c.All()
	if len(all) == 0 {
		return ""
	}
	var b strings.Builder
	for i, d := range all {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.Format(d, source))
	}
	if len(all) > 1 {
		b.WriteString("\n")
		summary := summarize(c)
		b.WriteString(f.paint(colorErrorBold, summary))
		b.WriteString("\n")
	}
	return b.String()
}

func summarize(c *Collection) string {
	ne, nw := len(c.errors), len(c.warnings)
	switch {
	case ne > 0 && nw > 0:
		return fmt.Sprintf("found %d %s and %d %s", ne, plural(ne, "error"), nw, plural(nw, "warning"))
	case ne > 0:
		return fmt.Sprintf("found %d %s", ne, plural(ne, "error"))
	default:
		return fmt.Sprintf("found %d %s", nw, plural(nw, "warning"))
	}
}

func plural(n int, s string) string {
	if n == 1 {
		return s
	}
	return s + "s"
}

// sourceLine returns the text of the given 1-based line, without its
// trailing newline.
func sourceLine(source string, line int) string {
	if line < 1 {
		return ""
	}
	start := 0
	for n := 1; n < line; n++ {
		i := strings.IndexByte(source[start:], '\n')
		if i < 0 {
			return ""
		}
		start += i + 1
	}
	if i := strings.IndexByte(source[start:], '\n'); i >= 0 {
		return strings.TrimSuffix(source[start:start+i], "\r")
	}
	return source[start:]
}
