package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orchidlang/orchid/ast"
	"github.com/orchidlang/orchid/parser"
)

func parse(t *testing.T, input string) *ast.Module {
	t.Helper()
	mod, err := parser.Parse(context.Background(), input)
	require.Nil(t, err)
	return mod
}

func TestModuleRegroupsVarBlocks(t *testing.T) {
	mod := parse(t, `var{retries=3;timeout   =2.5;}as cfg;`)
	require.Equal(t, `var {
    retries = 3;
    timeout = 2.5;
} as cfg;
`, Module(mod))
}

func TestModuleMetaBlockKeepsKeyword(t *testing.T) {
	mod := parse(t, `meta { owner = "ops"; };`)
	require.Equal(t, `meta {
    owner = "ops";
};
`, Module(mod))
}

func TestModuleEmptyBlocks(t *testing.T) {
	mod := parse(t, `var {   } as cfg;
meta{};`)
	require.Equal(t, `var {} as cfg;

meta {};
`, Module(mod))
}

func TestModuleImports(t *testing.T) {
	mod := parse(t, `import   "lib/genome"   as genome,tools.align;`)
	require.Equal(t, `import "lib/genome" as genome, tools.align;
`, Module(mod))
}

func TestModuleGraph(t *testing.T) {
	mod := parse(t, `graph pipeline as p{version=2;fetch{url="a";retries=3 if fast else 1;}}`)
	require.Equal(t, `graph pipeline as p {
    version = 2;
    fetch {
        url = "a";
        retries = 3 if fast else 1;
    }
}
`, Module(mod))
}

func TestModuleOp(t *testing.T) {
	mod := parse(t, `op scale( input ,factor ){[input,factor]};`)
	require.Equal(t, `op scale(input, factor) { [input, factor] };
`, Module(mod))
}

func TestModuleComments(t *testing.T) {
	mod := parse(t, `# settings
var { x = 1; };`)
	require.Equal(t, `# settings

var {
    x = 1;
};
`, Module(mod))
}

func TestModuleSeparatesStatements(t *testing.T) {
	mod := parse(t, `var { a = 1; };
import tools;`)
	require.Equal(t, `var {
    a = 1;
};

import tools;
`, Module(mod))
}

func TestFormatIsFixedPoint(t *testing.T) {
	input := `# pipeline
var { retries = 3; limit = retries if capped else null; } as cfg;

import "lib/genome" as genome, tools.align;

graph pipeline as p {
    version = 2;
    fetch {
        url = "https://example.com";
        window = (1, 2);
        tags = {"a", "b"};
    }
}

op scale(x) { [x, cfg.retries] };
`
	once := Module(parse(t, input))
	twice := Module(parse(t, once))
	require.Equal(t, once, twice)
}

func TestValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, `"hello"`},
		{`'hello'`, `"hello"`},
		{`"a\nb"`, `"a\nb"`},
		{`-42`, `-42`},
		{`2.5e3`, `2.5e3`},
		{`true`, `true`},
		{`null`, `null`},
		{`2024-01-01`, `2024-01-01`},
		{`date("2024-01-01")`, `date("2024-01-01")`},
		{`[1,2,  3]`, `[1, 2, 3]`},
		{`( 1,"two" )`, `(1, "two")`},
		{`{b:2,a:1}`, `{b: 2, a: 1}`},
		{`{"k v": 1}`, `{"k v": 1}`},
		{`{3,1,2}`, `{3, 1, 2}`},
		{`ref.path`, `ref.path`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mod := parse(t, "var { x = "+tt.input+"; };")
			value := mod.Stmts[0].(*ast.VarDef).Value
			require.Equal(t, tt.want, Value(value))
		})
	}
}

// The deprecated bare datetime form is rewritten to the call form.
func TestValueRewritesDatetime(t *testing.T) {
	mod := parse(t, `var { when = 2024-01-01 10:00:00; };`)
	value := mod.Stmts[0].(*ast.VarDef).Value
	require.Equal(t, `date("2024-01-01 10:00:00")`, Value(value))
}

func TestValueKeepsTripleStrings(t *testing.T) {
	literal := `"""
    line one
    line two
    """`
	mod := parse(t, "var { x = "+literal+"; };")
	value := mod.Stmts[0].(*ast.VarDef).Value
	require.Equal(t, literal, Value(value))
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{"a\nb", `"a\nb"`},
		{"a\tb", `"a\tb"`},
		{`back\slash`, `"back\\slash"`},
		{`say "hi"`, `"say \"hi\""`},
		{"bell\x07", `"bell\u0007"`},
		{"é時", `"é時"`},
		{"", `""`},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Quote(tt.in))
	}
}
