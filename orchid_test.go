package orchid

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orchidlang/orchid/ast"
	"github.com/orchidlang/orchid/diag"
)

const sample = `# pipeline configuration
var { retries = 3; timeout = 2.5; } as cfg;

import "lib/genome" as genome;

graph pipeline as p {
    version = 2;
    fetch {
        url = "https://example.com";
        attempts = cfg.retries;
    }
}

op scale(x) { [x, cfg.timeout] };
`

func TestParse(t *testing.T) {
	result, err := Parse(context.Background(), sample)
	require.Nil(t, err)
	require.NotNil(t, result.Module)
	require.Empty(t, result.Warnings)
	require.Nil(t, result.Trace)

	// Comment, two var bindings, import, graph, op.
	require.Len(t, result.Module.Stmts, 6)
}

func TestParseWarnings(t *testing.T) {
	result, err := Parse(context.Background(), `meta { owner = "ops"; };`)
	require.Nil(t, err)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, diag.Deprecated, result.Warnings[0].Code)
}

func TestParseSyntaxError(t *testing.T) {
	result, err := Parse(context.Background(), `var { x = ; };`)
	require.Nil(t, result)
	collection, ok := err.(*diag.Collection)
	require.True(t, ok)
	require.True(t, collection.HasErrors())
}

func TestParseCollectsAcrossPasses(t *testing.T) {
	// One syntax error and one semantic error, reported together.
	_, err := Parse(context.Background(), `var { x = ; };
var { y = missing; };`)
	collection := err.(*diag.Collection)
	require.Len(t, collection.Errors(), 2)
	require.Equal(t, diag.SyntaxError, collection.Errors()[0].Code)
	require.Equal(t, diag.UndefinedReference, collection.Errors()[1].Code)
}

func TestParseCollectsAfterBadGraph(t *testing.T) {
	// A failed graph statement must not swallow the statements after it:
	// the semantic error in the var block is still found.
	_, err := Parse(context.Background(), `graph g {
	n { x = ; }
}
var { y = z; };`)
	collection := err.(*diag.Collection)
	require.Len(t, collection.Errors(), 2)
	require.Equal(t, diag.SyntaxError, collection.Errors()[0].Code)
	require.Equal(t, diag.UndefinedReference, collection.Errors()[1].Code)
}

func TestParseFailFast(t *testing.T) {
	_, err := Parse(context.Background(), `var { x = ; };
var { y = missing; };`, WithFailFast())
	collection := err.(*diag.Collection)
	require.Len(t, collection.Errors(), 1)
	require.Equal(t, diag.SyntaxError, collection.Errors()[0].Code)
}

func TestParseFailFastSemanticOnly(t *testing.T) {
	_, err := Parse(context.Background(), `var { x = missing; };
var { y = also.missing; };`, WithFailFast())
	collection := err.(*diag.Collection)
	require.Len(t, collection.Errors(), 1)
}

func TestParseStrictDeprecated(t *testing.T) {
	result, err := Parse(context.Background(), `meta { owner = "ops"; };`, WithStrictDeprecated())
	require.Nil(t, result)
	collection := err.(*diag.Collection)
	require.Len(t, collection.Errors(), 1)
	require.Equal(t, diag.Deprecated, collection.Errors()[0].Code)
}

func TestParseBuiltins(t *testing.T) {
	_, err := Parse(context.Background(), `var { home = env.HOME; };`)
	require.NotNil(t, err)

	result, err := Parse(context.Background(), `var { home = env.HOME; };`, WithBuiltins("env"))
	require.Nil(t, err)
	require.NotNil(t, result)
}

func TestParseFilename(t *testing.T) {
	_, err := Parse(context.Background(), `var { x = ; };`, WithFilename("broken.orc"))
	collection := err.(*diag.Collection)
	require.Equal(t, "broken.orc", collection.Errors()[0].File)
}

func TestParseCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := Parse(ctx, sample)
	require.Nil(t, result)
	require.Equal(t, context.Canceled, err)
}

func TestParseDebugTrace(t *testing.T) {
	result, err := Parse(context.Background(), sample, WithDebug())
	require.Nil(t, err)
	require.NotNil(t, result.Trace)
	require.NotEmpty(t, result.Trace.Tokens)
	require.NotEmpty(t, result.Trace.Events)
}

func TestCheck(t *testing.T) {
	c, err := Check(context.Background(), sample)
	require.Nil(t, err)
	require.True(t, c.IsEmpty())
}

func TestCheckCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, err := Check(ctx, sample)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, c)
}

func TestCheckReportsEverything(t *testing.T) {
	c, err := Check(context.Background(), `meta { owner = "ops"; };
var { x = missing; };`)
	require.Nil(t, err)
	require.Len(t, c.Errors(), 1)
	require.Equal(t, diag.UndefinedReference, c.Errors()[0].Code)
	require.Len(t, c.Warnings(), 1)
	require.Equal(t, diag.Deprecated, c.Warnings()[0].Code)
}

func TestParseDeterministic(t *testing.T) {
	first, err := Parse(context.Background(), sample)
	require.Nil(t, err)
	second, err := Parse(context.Background(), sample)
	require.Nil(t, err)
	require.Equal(t, first.Module.String(), second.Module.String())
}

func TestParseConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := Parse(context.Background(), sample)
			require.Nil(t, err)
			require.Len(t, result.Module.Stmts, 6)
		}()
	}
	wg.Wait()
}

func TestResultModuleShape(t *testing.T) {
	result, err := Parse(context.Background(), sample)
	require.Nil(t, err)

	var graphs []*ast.GraphDef
	for n := range ast.Preorder(result.Module) {
		if g, ok := n.(*ast.GraphDef); ok {
			graphs = append(graphs, g)
		}
	}
	require.Len(t, graphs, 1)
	require.Equal(t, "pipeline", graphs[0].Name.Name)
}
