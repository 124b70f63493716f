// Package orchid is the entry point for parsing Orchid source code: a
// small configuration language for describing computation graphs and
// their metadata.
//
// The package wires the pipeline together: the lexer and parser build a
// position-annotated AST, the validator resolves names and surfaces
// deprecated constructs, and every diagnostic found along the way lands
// in one diag.Collection. The default mode collects every discoverable
// problem in a single run rather than stopping at the first.
//
//	result, err := orchid.Parse(ctx, source)
//	if err != nil {
//	    diags := err.(*diag.Collection)
//	    ...
//	}
//	for _, w := range result.Warnings { ... }
//
// Parse is referentially transparent: identical source and options always
// produce an identical module and diagnostics. Calls share no state, so
// any number may run concurrently.
package orchid

import (
	"context"

	"github.com/orchidlang/orchid/ast"
	"github.com/orchidlang/orchid/diag"
	"github.com/orchidlang/orchid/lexer"
	"github.com/orchidlang/orchid/parser"
	"github.com/orchidlang/orchid/validate"
)

// Result is a successful parse: the module plus any warnings. A caller
// can distinguish "succeeded cleanly" (empty Warnings) from "succeeded
// with warnings".
type Result struct {
	Module   *ast.Module
	Warnings []*diag.Diagnostic

	// Trace holds the token and rule trace; nil unless WithDebug was set.
	Trace *parser.Trace
}

// Parse parses and validates Orchid source code. On failure the returned
// error is the *diag.Collection holding every diagnostic found; a
// cancelled context returns ctx.Err() instead.
func Parse(ctx context.Context, source string, opts ...Option) (*Result, error) {
	cfg := newConfig(opts...)

	p := parser.New(lexer.New(source), cfg.parserOptions()...)
	mod, err := p.Parse(ctx)
	if mod == nil && err != nil {
		// Parsing did not produce a module at all: context cancellation.
		return nil, err
	}
	collection := p.Diagnostics()

	if !cfg.failFast || !collection.HasErrors() {
		v := validate.New(cfg.validatorOptions()...)
		v.Validate(mod, collection)
	}
	collection.Sort()

	if collection.HasErrors() {
		if cfg.failFast {
			trimToFirstError(collection)
		}
		return nil, collection
	}
	result := &Result{Module: mod, Warnings: collection.Warnings()}
	if cfg.debug {
		result.Trace = p.Trace()
	}
	return result, nil
}

// Check parses and validates the source and returns the full diagnostic
// collection regardless of outcome, plus an error only when no report
// could be produced at all (a cancelled context). It is the lint-mode
// entry point: callers that only need the report, not the module.
func Check(ctx context.Context, source string, opts ...Option) (*diag.Collection, error) {
	cfg := newConfig(opts...)

	p := parser.New(lexer.New(source), cfg.parserOptions()...)
	mod, err := p.Parse(ctx)
	if mod == nil && err != nil {
		return nil, err
	}
	collection := p.Diagnostics()
	v := validate.New(cfg.validatorOptions()...)
	v.Validate(mod, collection)
	collection.Sort()
	return collection, nil
}

// trimToFirstError reduces a collection to its first error, preserving
// the fail-fast contract when a late pass contributed the only errors.
func trimToFirstError(c *diag.Collection) {
	errs := c.Errors()
	if len(errs) <= 1 {
		return
	}
	trimmed := diag.NewCollection()
	trimmed.Add(errs[0])
	*c = *trimmed
}
