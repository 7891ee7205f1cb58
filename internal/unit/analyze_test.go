package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/noctua/internal/ast"
	"github.com/oxhq/noctua/internal/coreid"
	"github.com/oxhq/noctua/internal/typesys"
	"github.com/oxhq/noctua/internal/unit"
)

// identDefs builds a single-name KindIdentDefs triple (name, type-expr,
// default-expr), registering it so its symbol's Node reference resolves.
func identDefs(a *unit.Arena, name string, typeExpr, def *ast.Node) *ast.Node {
	return a.NewNode(&ast.Node{
		Kind: ast.KindIdentDefs,
		Kids: []*ast.Node{identNode(a, name), typeExpr, def},
	})
}

func identNode(a *unit.Arena, name string) *ast.Node {
	return a.NewNode(&ast.Node{Kind: ast.KindIdent, Ident: a.Pool.Intern(name)})
}

func typeName(a *unit.Arena, name string) *ast.Node {
	return a.NewNode(&ast.Node{Kind: ast.KindIdent, Ident: a.Pool.Intern(name)})
}

// procDef builds "proc <name>(<params>...)" with no return type and no
// body — enough for overload resolution to see the formal signature.
func procDef(a *unit.Arena, name string, params ...*ast.Node) *ast.Node {
	formals := a.NewNode(&ast.Node{Kind: ast.KindFormalParams, Kids: params})
	return a.NewNode(&ast.Node{
		Kind: ast.KindProcDef,
		Kids: []*ast.Node{identNode(a, name), formals, nil, nil},
	})
}

func callNode(a *unit.Arena, callee string, actuals ...*ast.Node) *ast.Node {
	kids := append([]*ast.Node{identNode(a, callee)}, actuals...)
	return a.NewNode(&ast.Node{Kind: ast.KindCall, Kids: kids})
}

func intLit(a *unit.Arena, v int64) *ast.Node {
	return a.NewNode(&ast.Node{Kind: ast.KindIntLit32, IntVal: v, Type: a.Builtin(typesys.KindInt).ID})
}

func floatLit(a *unit.Arena, v float64) *ast.Node {
	return a.NewNode(&ast.Node{Kind: ast.KindFloatLit64, FloatVal: v, Type: a.Builtin(typesys.KindFloat).ID})
}

func stmtList(a *unit.Arena, stmts ...*ast.Node) *ast.Node {
	return a.NewNode(&ast.Node{Kind: ast.KindStmtList, Kids: stmts})
}

// TestAnalyzeExactMatch implements spec §8 scenario S1: a single
// candidate, exact match, no conversion inserted.
func TestAnalyzeExactMatch(t *testing.T) {
	a := unit.New()
	def := procDef(a, "f", identDefs(a, "x", typeName(a, "int"), nil))
	call := callNode(a, "f", intLit(a, 3))
	root := stmtList(a, def, call)

	sink := unit.Analyze(a, root)
	require.Empty(t, sink.All())

	rewritten := root.Child(1)
	require.Equal(t, ast.KindCall, rewritten.Kind)
	assert.True(t, rewritten.Sym.Valid(), "call site must be bound to its winning symbol")
	assert.Equal(t, ast.KindIntLit32, rewritten.Child(1).Kind, "exact match inserts no conversion wrapper")
}

// TestAnalyzeConvertibleMatch implements spec §8 scenario S3: the only
// candidate accepts the actual at convertible rank, via a hidden
// standard conversion.
func TestAnalyzeConvertibleMatch(t *testing.T) {
	a := unit.New()
	def := procDef(a, "f", identDefs(a, "x", typeName(a, "float"), nil))
	call := callNode(a, "f", intLit(a, 3))
	root := stmtList(a, def, call)

	sink := unit.Analyze(a, root)
	require.Empty(t, sink.All())

	rewritten := root.Child(1)
	assert.Equal(t, ast.KindHiddenStdConv, rewritten.Child(1).Kind)
}

// TestAnalyzeGenericRebindRefused implements spec §8 scenario S4: a
// generic parameter bound on the first argument refuses to rebind to an
// incompatible type on the second, producing a type-mismatch diagnostic
// rather than a match.
func TestAnalyzeGenericRebindRefused(t *testing.T) {
	a := unit.New()
	tParam := a.NewType(&typesys.Type{Kind: typesys.KindGenericParam})

	def := procDef(a, "f",
		identDefs(a, "x", nil, nil),
		identDefs(a, "y", nil, nil),
	)
	// Declare the proc on its own first, so its symbol and type exist to
	// patch by hand — resolveTypeExpr only understands builtins and
	// declared names, not a bare generic parameter.
	require.Empty(t, unit.Analyze(a, stmtList(a, def)).All())
	procType := lookupType(a, def.Child(0).Sym)
	procType.Sons[1] = tParam
	procType.Sons[2] = tParam

	call := callNode(a, "f", intLit(a, 1), floatLit(a, 2.0))
	sink := unit.Analyze(a, stmtList(a, call))
	require.NotEmpty(t, sink.All())

	assert.Equal(t, ast.KindCall, call.Kind, "no winner: node is left unrewritten")
	assert.False(t, call.Sym.Valid())
}

// TestAnalyzeOpenArrayCollapse implements spec §8 scenario S6: trailing
// positional actuals past the only (open-array) formal collapse into a
// single synthesised array-constructor argument.
func TestAnalyzeOpenArrayCollapse(t *testing.T) {
	a := unit.New()
	openArrayInt := a.NewType(&typesys.Type{Kind: typesys.KindOpenArray, Sons: []*typesys.Type{a.Builtin(typesys.KindInt)}})

	def := procDef(a, "g", identDefs(a, "xs", nil, nil))
	require.Empty(t, unit.Analyze(a, stmtList(a, def)).All())
	procType := lookupType(a, def.Child(0).Sym)
	procType.Sons[1] = openArrayInt

	call := callNode(a, "g", intLit(a, 1), intLit(a, 2), intLit(a, 3))
	root := stmtList(a, call)

	sink := unit.Analyze(a, root)
	require.Empty(t, sink.All())

	rewritten := root.Child(0)
	require.Len(t, rewritten.Kids, 2, "callee + one collapsed container argument")
	container := rewritten.Child(1)
	assert.Equal(t, ast.KindArrayConstructor, container.Kind)
	assert.Len(t, container.Kids, 3)
}

func lookupType(a *unit.Arena, symID coreid.SymID) *typesys.Type {
	return a.TypeByID(a.SymByID(symID).Type)
}
