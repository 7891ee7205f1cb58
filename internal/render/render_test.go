package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/noctua/internal/ast"
	"github.com/oxhq/noctua/internal/ident"
	"github.com/oxhq/noctua/internal/render"
)

func ident1(pool *ident.Pool, name string) *ast.Node {
	return &ast.Node{Kind: ast.KindIdent, Ident: pool.Intern(name)}
}

func call(pool *ident.Pool, callee string, actuals ...*ast.Node) *ast.Node {
	kids := append([]*ast.Node{ident1(pool, callee)}, actuals...)
	return &ast.Node{Kind: ast.KindCall, Kids: kids}
}

func TestRenderSimpleCall(t *testing.T) {
	pool := ident.New()
	n := call(pool, "f", &ast.Node{Kind: ast.KindIntLit32, IntVal: 3})

	out := render.New(render.FlagNone).Render(n)
	assert.Equal(t, "f(3'i32)", out)
}

func TestRenderInfixSpacing(t *testing.T) {
	pool := ident.New()
	plus := pool.Intern("+")
	n := &ast.Node{
		Kind: ast.KindInfix,
		Ident: plus,
		Kids: []*ast.Node{
			{Kind: ast.KindIntLit32, IntVal: 1},
			{Kind: ast.KindIntLit32, IntVal: 2},
		},
	}
	out := render.New(render.FlagNone).Render(n)
	assert.Equal(t, "1'i32 + 2'i32", out)
}

func TestRenderUnwrapsHiddenConversion(t *testing.T) {
	pool := ident.New()
	wrapped := &ast.Node{Kind: ast.KindIntLit32, IntVal: 3}
	conv := &ast.Node{Kind: ast.KindHiddenStdConv, Kids: []*ast.Node{wrapped}}
	n := call(pool, "f", conv)

	out := render.New(render.FlagNone).Render(n)
	assert.Equal(t, "f(3'i32)", out, "hidden conversions are a typechecker artifact, invisible on render")
}

func TestRenderNoBodySuppressesProcBody(t *testing.T) {
	pool := ident.New()
	body := &ast.Node{Kind: ast.KindStmtList, Kids: []*ast.Node{
		call(pool, "bar"),
	}}
	def := &ast.Node{
		Kind: ast.KindProcDef,
		Kids: []*ast.Node{
			ident1(pool, "foo"),
			&ast.Node{Kind: ast.KindFormalParams},
			nil,
			body,
		},
	}

	full := render.New(render.FlagNone).Render(def)
	assert.True(t, strings.Contains(full, "bar()"))

	sig := render.New(render.FlagNoBody).Render(def)
	assert.False(t, strings.Contains(sig, "bar()"))
	assert.True(t, strings.Contains(sig, "..."))
}

func TestRenderCommentPlacementAndSuppression(t *testing.T) {
	pool := ident.New()
	n := call(pool, "f")
	n.Comment = "explains f"

	withComment := render.New(render.FlagNone).Render(n)
	assert.True(t, strings.Contains(withComment, "# explains f"))

	withoutComment := render.New(render.FlagNoComments).Render(n)
	assert.False(t, strings.Contains(withoutComment, "explains f"))
}

func TestRenderDocCommentsFlagFiltersNonDocComments(t *testing.T) {
	pool := ident.New()
	n := call(pool, "f")
	n.Comment = "not a doc comment"

	out := render.New(render.FlagDocComments).Render(n)
	assert.False(t, strings.Contains(out, "not a doc comment"))

	n.Comment = "## a doc comment"
	out = render.New(render.FlagDocComments).Render(n)
	assert.True(t, strings.Contains(out, "a doc comment"))
}

func TestRenderIDsFlagAppendsSymbolTag(t *testing.T) {
	pool := ident.New()
	n := ident1(pool, "x")
	n.Sym = 7

	out := render.New(render.FlagIDs).Render(n)
	assert.Equal(t, "x[7]", out)

	without := render.New(render.FlagNone).Render(n)
	assert.Equal(t, "x", without)
}

func TestRenderStringLiteralEscapingAndSplitting(t *testing.T) {
	n := &ast.Node{Kind: ast.KindStrLit, StrVal: "a\"b\\c"}
	out := render.New(render.FlagNone).Render(n)
	assert.Equal(t, `"a\"b\\c"`, out)

	long := &ast.Node{Kind: ast.KindStrLit, StrVal: strings.Repeat("x", 70)}
	out = render.New(render.FlagNone).Render(long)
	assert.True(t, strings.Count(out, "\"") >= 4, "a string over the split width renders as adjacent fragments")
}

func TestRenderWithWidthOverridesWrapThreshold(t *testing.T) {
	pool := ident.New()
	n := call(pool, "f", ident1(pool, "alpha"), ident1(pool, "beta"), ident1(pool, "gamma"))

	wide := render.New(render.FlagNone).Render(n)
	assert.NotContains(t, wide, "\n", "fits on one line at the default width")

	narrow := render.New(render.FlagNone).WithWidth(10).Render(n)
	assert.Contains(t, narrow, "\n", "a narrower configured width forces a wrap")
}

func TestRenderWithWidthIgnoresNonPositiveOverride(t *testing.T) {
	pool := ident.New()
	n := call(pool, "f", ident1(pool, "x"))

	out := render.New(render.FlagNone).WithWidth(0).Render(n)
	assert.Equal(t, "f(x)", out)
}

func TestRenderIsDeterministic(t *testing.T) {
	pool := ident.New()
	n := call(pool, "f", &ast.Node{Kind: ast.KindIntLit32, IntVal: 1}, &ast.Node{Kind: ast.KindIntLit32, IntVal: 2})

	out, stable := render.Stable(n, render.FlagNone)
	require.True(t, stable)
	assert.Equal(t, "f(1'i32, 2'i32)", out)
}

func TestDiffReportsNoChangeForIdenticalText(t *testing.T) {
	text := "f(1)\n"
	diffText, err := render.Diff(text, text)
	require.NoError(t, err)
	assert.Empty(t, diffText)
}

func TestDiffReportsChange(t *testing.T) {
	diffText, err := render.Diff("f(1)\n", "f(2)\n")
	require.NoError(t, err)
	assert.NotEmpty(t, diffText)
}
