package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/noctua/internal/ast"
)

func TestParseKindIsInverseOfString(t *testing.T) {
	for k := ast.KindCall; k <= ast.KindDotExpr; k++ {
		parsed, ok := ast.ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, parsed)
	}
}

func TestParseKindRejectsUnknownName(t *testing.T) {
	_, ok := ast.ParseKind("not-a-real-kind")
	assert.False(t, ok)
}

func TestIsHiddenConversionCoversConversionKinds(t *testing.T) {
	assert.True(t, ast.KindHiddenStdConv.IsHiddenConversion())
	assert.True(t, ast.KindChckRangeF.IsHiddenConversion())
	assert.False(t, ast.KindCall.IsHiddenConversion())
}

func TestChildReturnsNilOutOfRange(t *testing.T) {
	n := &ast.Node{Kind: ast.KindCall, Kids: []*ast.Node{{Kind: ast.KindIdent}}}
	assert.Equal(t, ast.KindIdent, n.Child(0).Kind)
	assert.Nil(t, n.Child(5))
	assert.Nil(t, (*ast.Node)(nil).Child(0))
}

func TestCopyProducesDeepStructuralClone(t *testing.T) {
	orig := &ast.Node{
		Kind: ast.KindInfix,
		Kids: []*ast.Node{
			{Kind: ast.KindIntLit32, IntVal: 1},
			{Kind: ast.KindIntLit32, IntVal: 2},
		},
	}
	cp := ast.Copy(orig)

	assert.True(t, ast.StructurallyEqual(orig, cp))
	assert.NotSame(t, orig, cp)
	assert.NotSame(t, orig.Kids[0], cp.Kids[0])

	cp.Kids[0].IntVal = 99
	assert.Equal(t, int64(1), orig.Kids[0].IntVal)
}

func TestStructurallyEqualIgnoresCommentsAndLocation(t *testing.T) {
	a := &ast.Node{Kind: ast.KindIntLit32, IntVal: 3, Comment: "one", Loc: ast.Location{Line: 1}}
	b := &ast.Node{Kind: ast.KindIntLit32, IntVal: 3, Comment: "two", Loc: ast.Location{Line: 99}}
	assert.True(t, ast.StructurallyEqual(a, b))
}

func TestStructurallyEqualDetectsKindMismatch(t *testing.T) {
	a := &ast.Node{Kind: ast.KindIntLit32}
	b := &ast.Node{Kind: ast.KindIntLit64}
	assert.False(t, ast.StructurallyEqual(a, b))
}

func TestHasFlagAndSetFlagRoundTrip(t *testing.T) {
	n := &ast.Node{Kind: ast.KindIntLit32}
	assert.False(t, n.HasFlag(ast.FlagBase16))
	n.SetFlag(ast.FlagBase16)
	assert.True(t, n.HasFlag(ast.FlagBase16))
}
