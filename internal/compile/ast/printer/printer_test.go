package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/rileyq/kaleido/internal/compile/ast"
	"codeberg.org/rileyq/kaleido/internal/compile/token"
)

func id(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func module() *ast.Module {
	return &ast.Module{
		Name: "main",
		Decls: []ast.Decl{
			&ast.Extern{Proto: &ast.Prototype{Name: id("cos"), Params: []*ast.Identifier{id("x")}}},
			&ast.Function{
				Def:   1,
				Proto: &ast.Prototype{Name: id("f"), Params: []*ast.Identifier{id("a"), id("b")}},
				Body: &ast.BinaryExpr{
					Op: '-',
					Left: &ast.BinaryExpr{
						Op:    '+',
						Left:  id("a"),
						Right: &ast.Number{Value: 0.5},
					},
					Right: &ast.CallExpr{Callee: id("cos"), Args: []ast.Expr{id("b")}},
				},
			},
			ast.NewAnonymous(&ast.CallExpr{
				Callee: id("f"),
				Args:   []ast.Expr{&ast.Number{Value: 1}, &ast.Number{Value: 1e21}},
			}),
		},
	}
}

func TestFprint(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Fprint(&b, module()))
	assert.Equal(t, "extern cos(x);\n"+
		"def f(a b) (a + 0.5) - cos(b);\n"+
		"f(1, 1000000000000000000000);\n", b.String())
}

func TestFprintExpr(t *testing.T) {
	x := &ast.BinaryExpr{
		Op:   '*',
		Left: id("a"),
		Right: &ast.BinaryExpr{
			Op:    '*',
			Left:  id("b"),
			Right: &ast.CallExpr{Callee: id("g")},
		},
	}
	assert.Equal(t, "a * (b * g())", String(x))
}

func TestFprintUnknownNode(t *testing.T) {
	err := Fprint(&strings.Builder{}, nil)
	require.Error(t, err)
}

func TestTree(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Tree(&b, module()))
	assert.Equal(t, `Module "main"
  Extern cos(x)
  Function f(a b)
    Binary '-'
      Binary '+'
        Variable a
        Number 0.5
      Call cos
        Variable b
  Function __anon_expr()
    Call f
      Number 1
      Number 1000000000000000000000
`, b.String())
}

func TestTokens(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Tokens(&b, []*token.Token{
		{Type: token.Def},
		{Type: token.Identifier, Text: "f"},
		{Type: token.Other, Rune: '('},
		{Type: token.Number, Value: 2},
		{Type: token.EOF},
	}))
	assert.Equal(t, `def identifier("f") other('(') number(2) <EOF>`+"\n", b.String())
}
