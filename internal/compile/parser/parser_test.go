package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/rileyq/kaleido/internal/compile/ast"
	"codeberg.org/rileyq/kaleido/internal/compile/ast/printer"
	"codeberg.org/rileyq/kaleido/internal/compile/scanner"
	"codeberg.org/rileyq/kaleido/internal/compile/token"
)

const src = `
# Compute the x'th fibonacci number.
extern fib(x);

def add(a b) a + b;

def dist(x1 y1 x2 y2)
  add((x2-x1)*(x2-x1), (y2-y1)*(y2-y1))

dist(0, 0, 3, 4);
`

var ignorePos = cmpopts.IgnoreTypes(token.Pos(0))

func num(v float64) *ast.Number         { return &ast.Number{Value: v} }
func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func bin(op rune, left, right ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, Left: left, Right: right}
}

func call(callee string, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Callee: ident(callee), Args: args}
}

func proto(name string, params ...string) *ast.Prototype {
	p := &ast.Prototype{Name: ident(name)}
	for _, param := range params {
		p.Params = append(p.Params, ident(param))
	}
	return p
}

func TestParser(t *testing.T) {
	module, err := ParseString("main", src)
	require.NoError(t, err)
	require.Len(t, module.Decls, 4)

	var b strings.Builder
	require.NoError(t, printer.Tree(&b, module))
	t.Log(b.String())

	assert.IsType(t, &ast.Extern{}, module.Decls[0])
	assert.IsType(t, &ast.Function{}, module.Decls[1])
	assert.False(t, module.Decls[2].(*ast.Function).Anonymous())
	assert.True(t, module.Decls[3].(*ast.Function).Anonymous())
}

func TestParseExprPrecedence(t *testing.T) {
	for _, test := range []struct {
		src  string
		want ast.Expr
	}{
		{
			src: "x+(1+2)*3-f(x)",
			want: bin('-',
				bin('+', ident("x"), bin('*', bin('+', num(1), num(2)), num(3))),
				call("f", ident("x")),
			),
		},
		{
			src:  "a-b+c",
			want: bin('+', bin('-', ident("a"), ident("b")), ident("c")),
		},
		{
			src:  "a*b*c",
			want: bin('*', bin('*', ident("a"), ident("b")), ident("c")),
		},
		{
			src:  "a+b*c",
			want: bin('+', ident("a"), bin('*', ident("b"), ident("c"))),
		},
		{
			src:  "a<b+c*d",
			want: bin('<', ident("a"), bin('+', ident("b"), bin('*', ident("c"), ident("d")))),
		},
		{
			src:  "a*b+c<d",
			want: bin('<', bin('+', bin('*', ident("a"), ident("b")), ident("c")), ident("d")),
		},
		{
			src:  "a+b*c-d",
			want: bin('-', bin('+', ident("a"), bin('*', ident("b"), ident("c"))), ident("d")),
		},
		{
			src:  "a<b*c+d",
			want: bin('<', ident("a"), bin('+', bin('*', ident("b"), ident("c")), ident("d"))),
		},
		{
			src:  "((x))",
			want: ident("x"),
		},
		{
			src:  "f()",
			want: call("f"),
		},
		{
			src:  "f(a, b+1, g(c))",
			want: call("f", ident("a"), bin('+', ident("b"), num(1)), call("g", ident("c"))),
		},
		{
			src:  "f(a,)",
			want: call("f", ident("a")),
		},
		{
			src:  "2.5",
			want: num(2.5),
		},
	} {
		t.Run(test.src, func(t *testing.T) {
			got, err := ParseExpr(test.src)
			require.NoError(t, err)
			if diff := cmp.Diff(test.want, got, ignorePos); diff != "" {
				t.Errorf("ParseExpr(%q) mismatch (-want +got):\n%s", test.src, diff)
			}
		})
	}
}

func TestParseDefinition(t *testing.T) {
	module, err := ParseString("main", "def foo(x y) x+y")
	require.NoError(t, err)
	require.Len(t, module.Decls, 1)

	fn, ok := module.Decls[0].(*ast.Function)
	require.True(t, ok)
	assert.False(t, fn.Anonymous())
	assert.Equal(t, "foo", fn.Proto.Name.Name)
	assert.Equal(t, []string{"x", "y"}, fn.Proto.ParamNames())
	if diff := cmp.Diff(bin('+', ident("x"), ident("y")), fn.Body, ignorePos); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExtern(t *testing.T) {
	module, err := ParseString("main", "extern cos(x)")
	require.NoError(t, err)
	require.Len(t, module.Decls, 1)

	ext, ok := module.Decls[0].(*ast.Extern)
	require.True(t, ok)
	assert.Equal(t, "cos", ext.Prototype().Name.Name)
	assert.Equal(t, []string{"x"}, ext.Prototype().ParamNames())
	assert.Equal(t, token.Pos(1), ext.Pos())
}

func TestParseTopLevel(t *testing.T) {
	module, err := ParseString("main", ";;def f() 1; extern g(); f() ; 1 2;")
	require.NoError(t, err)

	want := []ast.Decl{
		&ast.Function{Proto: proto("f"), Body: num(1)},
		&ast.Extern{Proto: proto("g")},
		ast.NewAnonymous(call("f")),
		ast.NewAnonymous(num(1)),
		ast.NewAnonymous(num(2)),
	}
	if diff := cmp.Diff(want, module.Decls, ignorePos); diff != "" {
		t.Errorf("decls mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, ast.AnonName, module.Decls[2].Prototype().Name.Name)
	assert.Empty(t, module.Decls[2].Prototype().Params)
}

func TestParseEmpty(t *testing.T) {
	for _, src := range []string{"", "   \n", ";;;", "# only a comment"} {
		module, err := ParseString("empty", src)
		require.NoError(t, err, src)
		assert.Empty(t, module.Decls, src)
		assert.Equal(t, "empty", module.Name)
	}
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		name     string
		src      string
		kind     error
		pos      token.Pos
		expected string
	}{
		{
			name:     "missing closing paren in prototype",
			src:      "def foo( x+1",
			kind:     ErrUnexpectedToken,
			pos:      11,
			expected: "identifier",
		},
		{
			name:     "prototype runs to end of input",
			src:      "def foo(x y",
			kind:     ErrUnexpectedEOF,
			expected: "identifier",
		},
		{
			name:     "missing function name",
			src:      "def (x) x",
			kind:     ErrUnexpectedToken,
			pos:      5,
			expected: "identifier",
		},
		{
			name:     "missing open paren",
			src:      "extern sin x",
			kind:     ErrUnexpectedToken,
			pos:      12,
			expected: "'('",
		},
		{
			name:     "comma in prototype",
			src:      "def f(a, b) a",
			kind:     ErrUnexpectedToken,
			pos:      8,
			expected: "identifier",
		},
		{
			name:     "missing body",
			src:      "def f(x)",
			kind:     ErrUnexpectedEOF,
			expected: "expression",
		},
		{
			name:     "unexpected operator",
			src:      "1 + * 2",
			kind:     ErrUnexpectedToken,
			pos:      5,
			expected: "expression",
		},
		{
			name:     "unclosed paren",
			src:      "(1 + 2",
			kind:     ErrUnexpectedEOF,
			expected: "')'",
		},
		{
			name:     "unclosed call",
			src:      "f(1, 2",
			kind:     ErrUnexpectedEOF,
			expected: "',' or ')'",
		},
		{
			name:     "missing argument separator",
			src:      "f(a b)",
			kind:     ErrUnexpectedToken,
			pos:      5,
			expected: "',' or ')'",
		},
		{
			name:     "keyword as operand",
			src:      "1 + def",
			kind:     ErrUnexpectedToken,
			pos:      5,
			expected: "expression",
		},
		{
			name:     "stray close paren",
			src:      ")",
			kind:     ErrUnexpectedToken,
			pos:      1,
			expected: "expression",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			module, err := ParseString("main", test.src)
			require.Error(t, err)
			assert.Nil(t, module)
			assert.True(t, errors.Is(err, test.kind), "got %v", err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, test.expected, parseErr.Expected)
			if test.kind == ErrUnexpectedToken {
				assert.Equal(t, test.pos, parseErr.Pos())
			} else {
				assert.Equal(t, token.EOF, parseErr.Found.Type)
			}
		})
	}
}

func TestParseStopsAtFirstError(t *testing.T) {
	// The valid definition after the error is never reached.
	_, err := ParseString("main", "def f(x) x; ) ; def g(y) y")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, token.Pos(13), parseErr.Pos())
}

func TestParseMalformedLiteral(t *testing.T) {
	_, err := ParseString("main", "def f(x) x + 1.2.3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, scanner.ErrMalformedLiteral))
	assert.False(t, errors.Is(err, ErrUnexpectedToken))
}

func TestParseExprTrailingInput(t *testing.T) {
	_, err := ParseExpr("a b")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "end of input", parseErr.Expected)
	assert.Equal(t, token.Pos(3), parseErr.Pos())
}

func TestParseTokensWithoutEOF(t *testing.T) {
	// A hand-built sequence missing its EOF token still terminates.
	toks := []*token.Token{
		{Type: token.Identifier, Text: "x", Pos: 1, End: 2},
	}
	module, err := New(toks).Parse("main")
	require.NoError(t, err)
	require.Len(t, module.Decls, 1)

	_, err = New(nil).Parse("main")
	require.NoError(t, err)
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseString("main", "def foo( x+1")
	require.EqualError(t, err, `parse error: expected identifier but found other('+')`)

	_, err = ParseString("main", "def foo(")
	require.EqualError(t, err, `parse error: expected identifier but found end of input`)
}

func TestParsePositions(t *testing.T) {
	module, err := ParseString("main", "def f(a) g(a, 1)")
	require.NoError(t, err)

	fn := module.Decls[0].(*ast.Function)
	assert.Equal(t, token.Pos(1), fn.Pos())
	assert.Equal(t, token.Pos(17), fn.End())
	assert.Equal(t, token.Pos(5), fn.Proto.Pos())
	assert.Equal(t, token.Pos(9), fn.Proto.End())

	c := fn.Body.(*ast.CallExpr)
	assert.Equal(t, token.Pos(10), c.Pos())
	assert.Equal(t, token.Pos(11), c.Lparen)
	assert.Equal(t, token.Pos(16), c.Rparen)
}

func TestRoundTrip(t *testing.T) {
	for _, src := range []string{
		src,
		"x+(1+2)*3-f(x)",
		"a-(b+c)",
		"a-b+c",
		"a*(b*c)",
		"(a<b)<c",
		"a<(b<c)",
		"def f() 0.125; extern g(a b c); g(1, f(), 3)",
		"1e",
		"123456789.5",
	} {
		t.Run(src, func(t *testing.T) {
			first, err := ParseString("main", src)
			require.NoError(t, err)

			text := printer.String(first)
			second, err := ParseString("main", text)
			require.NoError(t, err, text)

			if diff := cmp.Diff(first, second, ignorePos); diff != "" {
				t.Errorf("round trip through %q mismatch (-first +second):\n%s", text, diff)
			}
		})
	}
}
