package diag

import (
	"fmt"
	"sort"
)

// Collection accumulates the diagnostics found during one parse. It is
// append-only: passes add errors and warnings as they find them, and the
// final report is sorted by source position. Identical diagnostics are
// recorded once.
type Collection struct {
	errors   []*Diagnostic
	warnings []*Diagnostic
	seen     map[string]bool
}

// NewCollection returns an empty Collection.
func NewCollection() *Collection {
	return &Collection{seen: map[string]bool{}}
}

// Add appends a diagnostic, routing it to the error or warning list by
// severity. Duplicates (same code, span, and message) are dropped.
func (c *Collection) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	key := fmt.Sprintf("%s|%d|%d|%s", d.Code, d.Span.Start.Offset, d.Span.End.Offset, d.Message)
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	if d.Severity == Error {
		c.errors = append(c.errors, d)
	} else {
		c.warnings = append(c.warnings, d)
	}
}

// HasErrors reports whether any error-severity diagnostics were collected.
func (c *Collection) HasErrors() bool { return len(c.errors) > 0 }

// HasWarnings reports whether any warnings were collected.
func (c *Collection) HasWarnings() bool { return len(c.warnings) > 0 }

// IsEmpty reports whether the collection holds nothing at all.
func (c *Collection) IsEmpty() bool { return len(c.errors) == 0 && len(c.warnings) == 0 }

// Len returns the total number of collected diagnostics.
func (c *Collection) Len() int { return len(c.errors) + len(c.warnings) }

// Errors returns the error diagnostics in report order.
func (c *Collection) Errors() []*Diagnostic { return c.errors }

// Warnings returns the warning diagnostics in report order.
func (c *Collection) Warnings() []*Diagnostic { return c.warnings }

// All returns every diagnostic, errors and warnings interleaved in report
// order.
func (c *Collection) All() []*Diagnostic {
	all := make([]*Diagnostic, 0, c.Len())
	all = append(all, c.errors...)
	all = append(all, c.warnings...)
	sortDiagnostics(all)
	return all
}

// Sort orders both lists by span start position, breaking ties by category
// (syntax before structural before semantic before deprecation).
func (c *Collection) Sort() {
	sortDiagnostics(c.errors)
	sortDiagnostics(c.warnings)
}

func sortDiagnostics(ds []*Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.Span.Start.Offset != b.Span.Start.Offset {
			return a.Span.Start.Offset < b.Span.Start.Offset
		}
		return a.Category() < b.Category()
	})
}

// Error implements the error interface, showing the first error and a
// count of the rest.
func (c *Collection) Error() string {
	if len(c.errors) == 0 {
		if len(c.warnings) == 0 {
			return "no diagnostics"
		}
		return c.warnings[0].Error()
	}
	if len(c.errors) == 1 {
		return c.errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", c.errors[0].Error(), len(c.errors)-1)
}

// Unwrap returns the error diagnostics for use with errors.Is and As.
func (c *Collection) Unwrap() []error {
	result := make([]error, len(c.errors))
	for i, d := range c.errors {
		result[i] = d
	}
	return result
}
