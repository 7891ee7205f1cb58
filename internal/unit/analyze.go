package unit

import (
	"fmt"

	"github.com/oxhq/noctua/internal/ast"
	"github.com/oxhq/noctua/internal/coreid"
	"github.com/oxhq/noctua/internal/diag"
	"github.com/oxhq/noctua/internal/overload"
	"github.com/oxhq/noctua/internal/symtab"
	"github.com/oxhq/noctua/internal/typesys"
)

// Analyze walks a stmt-list root, declaring every proc/var/const/type
// section it finds and resolving every call site under it via
// overload.ResolveCall. It mutates root's subtree in place — rewritten
// calls replace their original node — and returns the diagnostic sink
// accumulated along the way.
func Analyze(a *Arena, root *ast.Node) *diag.Sink {
	analyzeStmtList(a, root)
	return a.Diags
}

func analyzeStmtList(a *Arena, list *ast.Node) {
	if list == nil {
		return
	}
	for i, stmt := range list.Kids {
		list.Kids[i] = analyzeStmt(a, stmt)
	}
}

// analyzeStmt dispatches declarations to their own handling and falls
// through to the generic expression walk for everything else — an
// if/while/for/call-expression-statement all just need their children
// visited so nested call sites get resolved.
func analyzeStmt(a *Arena, n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.KindProcDef, ast.KindMethodDef, ast.KindIteratorDef:
		declareProc(a, n)
		return n
	case ast.KindVarSection, ast.KindConstSection:
		declareVars(a, n, n.Kind == ast.KindConstSection)
		return n
	case ast.KindTypeSection:
		declareTypes(a, n)
		return n
	case ast.KindStmtList, ast.KindBlock:
		a.Scopes.Open()
		analyzeStmtList(a, n)
		if err := a.Scopes.Close(); err != nil {
			a.Report(internalErr(n, err))
		}
		return n
	default:
		return analyzeExpr(a, n)
	}
}

// analyzeExpr recurses depth-first so inner calls resolve before an outer
// call that might take their result as an actual, then resolves n itself
// if it is a call. A literal that arrives untyped (as every fixture-loaded
// literal does) is given the builtin type its kind names first.
func analyzeExpr(a *Arena, n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	if !n.Type.Valid() {
		litKinds := map[ast.Kind]typesys.Kind{
			ast.KindIntLit8: typesys.KindInt8, ast.KindIntLit16: typesys.KindInt16,
			ast.KindIntLit32: typesys.KindInt32, ast.KindIntLit64: typesys.KindInt64,
			ast.KindFloatLit32: typesys.KindFloat32, ast.KindFloatLit64: typesys.KindFloat64,
			ast.KindCharLit: typesys.KindChar, ast.KindStrLit: typesys.KindString,
			ast.KindRawStrLit: typesys.KindString, ast.KindTripleStrLit: typesys.KindString,
		}
		if k, ok := litKinds[n.Kind]; ok {
			n.Type = a.Builtin(k).ID
		}
	}
	for i, k := range n.Kids {
		n.Kids[i] = analyzeExpr(a, k)
	}
	if n.Kind == ast.KindCall {
		return resolveCallNode(a, n)
	}
	return n
}

// resolveCallNode implements the bridge between the symbol table and
// internal/overload (spec §4.6): gather the callee's visible overload
// set and hand it to overload.ResolveCall. A callee that isn't a bare
// identifier (e.g. a dot-expression method call) or that names nothing
// is left untouched — later passes outside this scope handle it.
func resolveCallNode(a *Arena, call *ast.Node) *ast.Node {
	callee := call.Child(0)
	if callee == nil || callee.Kind != ast.KindIdent {
		return call
	}
	candidates := a.Scopes.Overloads(callee.Ident)
	if len(candidates) == 0 {
		a.Report(diag.Diagnostic{
			Loc: nodeLoc(call), Kind: diag.KindUndeclaredIdent, Severity: diag.SeverityUser,
			Detail: fmt.Sprintf("undeclared identifier: %s", callee.Ident.String()),
		})
		return call
	}
	rewritten, ok := overload.ResolveCall(a, call, candidates)
	if !ok {
		return call
	}
	return rewritten
}

// declareProc implements the proc/method/iterator declaration half of
// spec §3 "Declarations": Kids[0] is the name, Kids[1] the formal
// parameter list (KindFormalParams, itself a list of KindIdentDefs
// triples), Kids[2] the optional return-type expression, Kids[3] the
// body. A missing return-type expression means the procedure returns
// nothing (ProcType.Sons[0] stays nil).
func declareProc(a *Arena, n *ast.Node) {
	nameNode := n.Child(0)
	if nameNode == nil || nameNode.Kind != ast.KindIdent {
		a.Report(diag.Diagnostic{Loc: nodeLoc(n), Kind: diag.KindInternal, Severity: diag.SeverityInternal, Detail: "proc declaration missing a name"})
		return
	}

	procType := a.NewType(&typesys.Type{Kind: typesys.KindProc})
	procType.Sons = append(procType.Sons, resolveTypeExpr(a, n.Child(2)))

	sym := a.NewSym(&symtab.Symbol{Kind: symKindFor(n.Kind), Name: nameNode.Ident, Node: n.ID})
	sym.Type = procType.ID
	procType.Sym = sym.ID
	nameNode.Sym = sym.ID

	if err := a.Scopes.Add(sym); err != nil {
		a.Report(internalErr(n, err))
		return
	}

	a.Scopes.Open()
	if formals := n.Child(1); formals != nil {
		for _, group := range formals.Kids {
			declareParams(a, procType, group)
		}
	}

	if body := n.Child(3); body != nil {
		analyzeStmtList(a, body)
	}
	if err := a.Scopes.Close(); err != nil {
		a.Report(internalErr(n, err))
	}
}

func symKindFor(k ast.Kind) symtab.SymKind {
	switch k {
	case ast.KindMethodDef:
		return symtab.SymKindMethod
	case ast.KindIteratorDef:
		return symtab.SymKindIterator
	default:
		return symtab.SymKindProc
	}
}

// declareParams handles one KindIdentDefs triple "(name: T = default)",
// appending one parameter symbol and type son to procType. Child(0) is
// the name, Child(1) the type expression (nil if inferred from the
// default), Child(2) the default value expression (nil if required) —
// the same triple shape overload.MatchCall's defaultFor reads back via
// Symbol.Node (spec §4.5 step 4, "missing argument").
func declareParams(a *Arena, procType *typesys.Type, group *ast.Node) {
	nameNode := group.Child(0)
	if nameNode == nil || nameNode.Kind != ast.KindIdent {
		return
	}
	paramType := resolveTypeExpr(a, group.Child(1))
	def := group.Child(2)
	if def != nil {
		group.Kids[2] = analyzeExpr(a, def)
		def = group.Kids[2]
	}
	if paramType == nil && def != nil {
		paramType = a.TypeByID(def.Type)
	}

	sym := a.NewSym(&symtab.Symbol{
		Kind: symtab.SymKindParameter, Name: nameNode.Ident, Node: group.ID,
		Position: len(procType.MemberSyms),
	})
	sym.Type = typeIDOrZero(paramType)
	nameNode.Sym = sym.ID
	nameNode.Type = sym.Type
	_ = a.Scopes.Add(sym)

	procType.Sons = append(procType.Sons, paramType)
	procType.MemberSyms = append(procType.MemberSyms, sym.ID)
	procType.Defaults = append(procType.Defaults, def != nil)
}

// declareVars handles a var/const section: a list of KindIdentDefs
// triples, each one name with an optional type expression and/or
// initializer.
func declareVars(a *Arena, section *ast.Node, isConst bool) {
	for _, group := range section.Kids {
		if group == nil || group.Kind != ast.KindIdentDefs {
			continue
		}
		nameNode := group.Child(0)
		if nameNode == nil || nameNode.Kind != ast.KindIdent {
			continue
		}
		declaredType := resolveTypeExpr(a, group.Child(1))
		init := group.Child(2)
		if init != nil {
			group.Kids[2] = analyzeExpr(a, init)
			init = group.Kids[2]
		}
		if declaredType == nil && init != nil {
			declaredType = a.TypeByID(init.Type)
		}

		kind := symtab.SymKindVariable
		if isConst {
			kind = symtab.SymKindConst
		}
		sym := a.NewSym(&symtab.Symbol{Kind: kind, Name: nameNode.Ident, Node: group.ID})
		sym.Type = typeIDOrZero(declaredType)
		nameNode.Sym = sym.ID
		nameNode.Type = sym.Type
		_ = a.Scopes.Add(sym)
	}
}

// declareTypes binds each type-section entry's name to the type its
// right-hand-side expression denotes, so later resolveTypeExpr calls can
// look the name up by identifier.
func declareTypes(a *Arena, section *ast.Node) {
	for _, def := range section.Kids {
		if def == nil || def.Kind != ast.KindTypeDef {
			continue
		}
		nameNode := def.Child(0)
		if nameNode == nil || nameNode.Kind != ast.KindIdent {
			continue
		}
		rhs := resolveTypeExpr(a, def.Child(1))
		sym := a.NewSym(&symtab.Symbol{Kind: symtab.SymKindTypeDecl, Name: nameNode.Ident, Node: def.ID})
		sym.Type = typeIDOrZero(rhs)
		if rhs != nil {
			rhs.Sym = sym.ID
		}
		nameNode.Sym = sym.ID
		_ = a.Scopes.Add(sym)
	}
}

// resolveTypeExpr turns a (tiny) type-expression subtree into a Type:
// either a builtin name, a previously declared type name, or a ptr/ref
// qualifier wrapping a recursively resolved base. Anything else — full
// structural type syntax belongs to a parser this core does not
// implement — resolves to nil, meaning "infer from context" upstream.
func resolveTypeExpr(a *Arena, n *ast.Node) *typesys.Type {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.KindIdent:
		if k, ok := builtinByName[n.Ident.String()]; ok {
			return a.Builtin(k)
		}
		if sym, ok := a.Scopes.Lookup(n.Ident); ok {
			return a.TypeByID(sym.Type)
		}
		return nil
	case ast.KindPtrQual:
		return a.NewType(&typesys.Type{Kind: typesys.KindPtr, Sons: []*typesys.Type{resolveTypeExpr(a, n.Child(0))}})
	case ast.KindRefQual:
		return a.NewType(&typesys.Type{Kind: typesys.KindRef, Sons: []*typesys.Type{resolveTypeExpr(a, n.Child(0))}})
	case ast.KindVarQual:
		return a.NewType(&typesys.Type{Kind: typesys.KindVar, Sons: []*typesys.Type{resolveTypeExpr(a, n.Child(0))}})
	case ast.KindSym:
		if sym := a.SymByID(n.Sym); sym != nil {
			return a.TypeByID(sym.Type)
		}
		return nil
	default:
		return nil
	}
}

var builtinByName = map[string]typesys.Kind{
	"bool": typesys.KindBool, "char": typesys.KindChar,
	"int8": typesys.KindInt8, "int16": typesys.KindInt16, "int32": typesys.KindInt32, "int64": typesys.KindInt64,
	"int": typesys.KindInt, "float32": typesys.KindFloat32, "float64": typesys.KindFloat64, "float": typesys.KindFloat,
	"string": typesys.KindString, "cstring": typesys.KindCString, "pointer": typesys.KindPointer,
}

func typeIDOrZero(t *typesys.Type) coreid.TypeID {
	if t == nil {
		return coreid.NoType
	}
	return t.ID
}

func nodeLoc(n *ast.Node) diag.Location {
	return diag.Location{FileIndex: n.Loc.FileIndex, Line: n.Loc.Line, Col: n.Loc.Col}
}

func internalErr(n *ast.Node, err error) diag.Diagnostic {
	return diag.Diagnostic{Loc: nodeLoc(n), Kind: diag.KindInternal, Severity: diag.SeverityInternal, Detail: err.Error()}
}
