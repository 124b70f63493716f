package compile

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orchidlang/orchid/ast"
	"github.com/orchidlang/orchid/parser"
	"github.com/orchidlang/orchid/token"
)

func compile(t *testing.T, input string) *Artifact {
	t.Helper()
	mod, err := parser.Parse(context.Background(), input)
	require.Nil(t, err)
	art, err := Compile(mod)
	require.Nil(t, err)
	return art
}

func TestCompileVars(t *testing.T) {
	art := compile(t, `var { retries = 3; ratio = 0.5; name = "job"; on = true; off = null; };`)
	require.Equal(t, Version, art.Version)
	require.Equal(t, int64(3), art.Vars["retries"])
	require.Equal(t, 0.5, art.Vars["ratio"])
	require.Equal(t, "job", art.Vars["name"])
	require.Equal(t, true, art.Vars["on"])
	require.Nil(t, art.Vars["off"])
}

func TestCompileAliasQualifiesNames(t *testing.T) {
	art := compile(t, `var { retries = 3; } as cfg;`)
	require.Contains(t, art.Vars, "cfg.retries")
	require.NotContains(t, art.Vars, "retries")
}

func TestCompileConditionalVar(t *testing.T) {
	art := compile(t, `var { flag = true; };
var { level = 9 if flag else 1; };`)
	v, ok := art.Vars["level"].(*Var)
	require.True(t, ok)
	require.Equal(t, int64(9), v.Value)
	require.Equal(t, "flag", v.If)
	require.Equal(t, int64(1), v.Else)
}

func TestCompileCollections(t *testing.T) {
	art := compile(t, `var { xs = [1, 2]; pair = (1, "a"); tags = {"x", "y"}; m = {k: [true]}; };`)
	require.Equal(t, []any{int64(1), int64(2)}, art.Vars["xs"])
	require.Equal(t, []any{int64(1), "a"}, art.Vars["pair"])
	require.Equal(t, []any{"x", "y"}, art.Vars["tags"])
	require.Equal(t, map[string]any{"k": []any{true}}, art.Vars["m"])
}

func TestCompileImports(t *testing.T) {
	art := compile(t, `import "lib/genome" as genome, tools.align;`)
	require.Equal(t, map[string]string{
		"genome": "lib/genome",
		"align":  "tools.align",
	}, art.Imports)
}

func TestCompileGraph(t *testing.T) {
	art := compile(t, `graph pipeline as p {
    version = 2;
    fetch {
        url = "https://example.com";
        mode = "fast" if turbo else "slow";
    }
}`)
	g := art.Graphs["pipeline"]
	require.NotNil(t, g)
	require.Equal(t, "p", g.Alias)
	require.Equal(t, map[string]any{"version": int64(2)}, g.Metadata)

	fetch := g.Nodes["fetch"]
	require.Equal(t, "https://example.com", fetch["url"])
	mode, ok := fetch["mode"].(*Var)
	require.True(t, ok)
	require.Equal(t, "fast", mode.Value)
	require.Equal(t, "turbo", mode.If)
	require.Equal(t, "slow", mode.Else)
}

func TestCompileAnonymousGraphKeyedByAlias(t *testing.T) {
	art := compile(t, `graph as main { entry { cmd = "run"; } }`)
	require.Contains(t, art.Graphs, "main")
	require.Empty(t, art.Graphs["main"].Alias)
}

func TestCompileOp(t *testing.T) {
	art := compile(t, `op scale(input, factor) { [input, factor] };`)
	op := art.Ops["scale"]
	require.NotNil(t, op)
	require.Equal(t, []string{"input", "factor"}, op.Params)
	require.Equal(t, []any{"input", "factor"}, op.Body)
}

func TestCompileDates(t *testing.T) {
	art := compile(t, `var { day = 2024-06-15; when = date("2024-06-15 10:30:00"); };`)
	require.Equal(t, "2024-06-15", art.Vars["day"])
	require.Equal(t, "2024-06-15 10:30:00", art.Vars["when"])
}

func TestCompileSkipsBadStatements(t *testing.T) {
	mod, err := parser.Parse(context.Background(), `var { a = 1; };
import = ;`)
	require.NotNil(t, err)
	art, err := Compile(mod)
	require.Nil(t, err)
	require.Equal(t, int64(1), art.Vars["a"])
}

func TestCompileSkipsEmptyBlocks(t *testing.T) {
	mod, err := parser.Parse(context.Background(), `var { } as cfg;
var { a = 1; };`)
	require.Nil(t, err)
	art, err := Compile(mod)
	require.Nil(t, err)
	require.Len(t, art.Vars, 1)
	require.Equal(t, int64(1), art.Vars["a"])
}

func TestCompileRejectsBadValue(t *testing.T) {
	mod := &ast.Module{Stmts: []ast.Stmt{
		&ast.VarDef{
			Name:  &ast.Symbol{Name: "x"},
			Value: &ast.BadExpr{},
		},
	}}
	_, err := Compile(mod)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "cannot compile")
}

func TestCompileRejectsNamelessGraph(t *testing.T) {
	mod := &ast.Module{Stmts: []ast.Stmt{
		&ast.GraphDef{
			GraphPos: token.Position{Line: 1, Column: 1},
			Metadata: &ast.Dict{},
		},
	}}
	_, err := Compile(mod)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "neither a name nor an alias")
}

func TestArtifactJSON(t *testing.T) {
	art := compile(t, `var { retries = 3; };
graph g { n { f = 1; } }`)
	data, err := json.Marshal(art)
	require.Nil(t, err)

	var decoded map[string]any
	require.Nil(t, json.Unmarshal(data, &decoded))
	require.Equal(t, Version, decoded["version"])
	require.NotContains(t, decoded, "imports") // empty maps are omitted
	require.Contains(t, decoded, "vars")
	require.Contains(t, decoded, "graphs")
}
