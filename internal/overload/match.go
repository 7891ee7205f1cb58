package overload

import (
	"fmt"

	"github.com/oxhq/noctua/internal/ast"
	"github.com/oxhq/noctua/internal/coreid"
	"github.com/oxhq/noctua/internal/diag"
	"github.com/oxhq/noctua/internal/ident"
	"github.com/oxhq/noctua/internal/symtab"
	"github.com/oxhq/noctua/internal/typesys"
)

// MatchCall implements spec §4.5: match-call(context, call-node, candidate)
// -> Candidate. callNode.Kids[0] is the callee expression; Kids[1:] are
// actual argument expressions, each already typed (Node.Type populated by
// an earlier pass over the AST).
func MatchCall(ctx Context, callNode *ast.Node, cand *Candidate) *Candidate {
	formals := cand.ProcType.Sons[1:]
	nFormals := len(formals)
	assigned := make([]*ast.Node, nFormals)
	visited := make([]bool, nFormals)

	actuals := callNode.Kids[1:]
	nextPositional := 0
	isVarargs := cand.ProcType.HasFlag(typesys.FlagVarargs)

	var tail []*ast.Node
	inTail := false

	for _, actual := range actuals {
		if inTail {
			tail = append(tail, actual)
			continue
		}

		if name, value, isNamed := namedArg(actual); isNamed {
			if name == nil {
				ctx.Report(diag.Diagnostic{
					Loc: loc(actual), Kind: diag.KindNamedParamNotIdent, Severity: diag.SeverityUser,
					Detail: "the left side of a named argument must be an identifier",
				})
				cand.State = StateNoMatch
				return cand
			}
			idx := formalIndexByName(ctx, cand.ProcType, name)
			if idx == -1 {
				ctx.Report(diag.Diagnostic{
					Loc: loc(actual), Kind: diag.KindUndeclaredIdent, Severity: diag.SeverityUser,
					Detail: fmt.Sprintf("no parameter named %q", name.String()),
				})
				cand.State = StateNoMatch
				return cand
			}
			if visited[idx] {
				ctx.Report(diag.Diagnostic{
					Loc: loc(actual), Kind: diag.KindCannotBindTwice, Severity: diag.SeverityUser,
					Detail: fmt.Sprintf("parameter %q bound twice", name.String()),
				})
				cand.State = StateNoMatch
				return cand
			}
			visited[idx] = true
			assigned[idx] = value
			continue
		}

		// Open-array/sequence tail collapsing (step 3): only once we're
		// sitting on the last formal and it is container-shaped.
		if nextPositional == nFormals-1 && nFormals > 0 {
			last := formals[nFormals-1]
			if last.Kind == typesys.KindOpenArray || last.Kind == typesys.KindSequence {
				at := actualType(ctx, actual)
				containerRank := Rel(cand.Mapping, last, at)
				elemRank := Rel(cand.Mapping, last.Son(0), at)
				if containerRank == RankNone && elemRank != RankNone {
					cand.BaseTypeMatch = true
					inTail = true
					visited[nFormals-1] = true
					tail = append(tail, actual)
					continue
				}
			}
		}

		if nextPositional >= nFormals {
			if isVarargs {
				inTail = true
				tail = append(tail, actual)
				continue
			}
			ctx.Report(diag.Diagnostic{
				Loc: loc(actual), Kind: diag.KindGenerated, Severity: diag.SeverityUser,
				Detail: "too many arguments",
			})
			cand.State = StateNoMatch
			return cand
		}
		visited[nextPositional] = true
		assigned[nextPositional] = actual
		nextPositional++
	}

	rewritten := &ast.Node{Kind: ast.KindCall, Loc: callNode.Loc, Kids: make([]*ast.Node, 0, nFormals+1)}
	rewritten.Kids = append(rewritten.Kids, callNode.Kids[0])

	for i, formalType := range formals {
		if cand.BaseTypeMatch && i == nFormals-1 {
			elemType := formalType.Son(0)
			packed, ok := packTail(ctx, cand, elemType, tail)
			if !ok {
				cand.State = StateNoMatch
				return cand
			}
			rewritten.Kids = append(rewritten.Kids, packed)
			continue
		}
		actual := assigned[i]
		if actual == nil {
			def := defaultFor(ctx, cand.ProcType, i)
			if def == nil {
				ctx.Report(diag.Diagnostic{
					Loc: loc(callNode), Kind: diag.KindTypeMismatch, Severity: diag.SeverityUser,
					Detail: "missing argument and no default value",
				})
				cand.State = StateNoMatch
				return cand
			}
			rewritten.Kids = append(rewritten.Kids, ast.Copy(def))
			continue
		}
		converted, ok := paramTypesMatch(ctx, cand, formalType, actual)
		if !ok {
			cand.State = StateNoMatch
			return cand
		}
		rewritten.Kids = append(rewritten.Kids, converted)
	}

	if isVarargs && !cand.BaseTypeMatch {
		for _, t := range tail {
			converted := wrapVarargActual(ctx, t)
			cand.tally(RankConvertible)
			rewritten.Kids = append(rewritten.Kids, converted)
		}
	}

	cand.State = StateMatch
	cand.Call = rewritten
	return cand
}

// namedArg recognises an actual argument shaped "name = value" (spec §4.5
// step 1). Named arguments are represented as a KindInfix node whose
// operator identifier is "=". ok is false when n is an ordinary
// positional actual; when ok is true but name is nil, the left side
// wasn't an identifier (a user error, reported by the caller).
func namedArg(n *ast.Node) (name *ident.Identifier, value *ast.Node, ok bool) {
	if n.Kind != ast.KindInfix || n.Ident == nil || n.Ident.String() != "=" {
		return nil, nil, false
	}
	nameNode := n.Child(0)
	if nameNode == nil || nameNode.Kind != ast.KindIdent {
		return nil, n.Child(1), true
	}
	return nameNode.Ident, n.Child(1), true
}

func loc(n *ast.Node) diag.Location {
	return diag.Location{FileIndex: n.Loc.FileIndex, Line: n.Loc.Line, Col: n.Loc.Col}
}

func actualType(ctx Context, n *ast.Node) *typesys.Type {
	return ctx.TypeByID(n.Type)
}

func formalIndexByName(ctx Context, procType *typesys.Type, name *ident.Identifier) int {
	for i, symID := range procType.MemberSyms {
		sym := ctx.SymByID(symID)
		if sym != nil && sym.Name != nil && sym.Name.Equal(name) {
			return i
		}
	}
	return -1
}

// defaultFor returns a default-value AST node for formal i, if the
// declaration carries one. A parameter symbol's declaring node is a
// KindIdentDefs triple (name, type-expr-or-nil, default-expr-or-nil); the
// default sits at child index 2.
func defaultFor(ctx Context, procType *typesys.Type, i int) *ast.Node {
	if i >= len(procType.Defaults) || !procType.Defaults[i] {
		return nil
	}
	sym := ctx.SymByID(procType.MemberSyms[i])
	if sym == nil {
		return nil
	}
	declNode := ctx.NodeByID(sym.Node)
	if declNode == nil || declNode.Kind != ast.KindIdentDefs {
		return nil
	}
	return declNode.Child(2)
}

// paramTypesMatch implements spec §4.5 step 4.
func paramTypesMatch(ctx Context, cand *Candidate, formal *typesys.Type, actual *ast.Node) (*ast.Node, bool) {
	at := actualType(ctx, actual)
	r := Rel(cand.Mapping, formal, at)
	switch r {
	case RankEqual:
		cand.tally(r)
		tree := ast.Copy(actual)
		if formal.Kind == typesys.KindOpenArray {
			return wrapHidden(ast.KindHiddenStdConv, tree, formal.ID), true
		}
		return tree, true
	case RankSubtype:
		cand.tally(r)
		return wrapHidden(ast.KindHiddenSubConv, ast.Copy(actual), formal.ID), true
	case RankGeneric:
		cand.tally(r)
		tree := ast.Copy(actual)
		if bound, ok := cand.Mapping[formal.ID]; ok {
			tree.Type = bound.ID
		}
		return tree, true
	case RankConvertible:
		cand.tally(r)
		return wrapHidden(ast.KindHiddenStdConv, ast.Copy(actual), formal.ID), true
	default:
		if conv := findUserConverter(ctx, formal, at); conv != nil {
			cand.tally(RankConvertible)
			wrapped := wrapHidden(ast.KindHiddenCallConv, ast.Copy(actual), formal.ID)
			wrapped.Sym = conv.ID
			return wrapped, true
		}
		ctx.Report(diag.Diagnostic{
			Loc: loc(actual), Kind: diag.KindTypeMismatch, Severity: diag.SeverityUser,
			Detail: "argument type does not match parameter type",
		})
		return nil, false
	}
}

func wrapHidden(kind ast.Kind, tree *ast.Node, resultType coreid.TypeID) *ast.Node {
	return &ast.Node{Kind: kind, Loc: tree.Loc, Type: resultType, Kids: []*ast.Node{tree}}
}

// findUserConverter implements the "none" fallback of spec §4.5 step 4:
// iterate registered converters whose domain unifies (rank equal) with
// the actual and whose codomain unifies (rank equal) with the formal. A
// converter's type is a one-argument KindProc: Sons[0] is the codomain,
// Sons[1] the domain.
func findUserConverter(ctx Context, formal, actual *typesys.Type) *symtab.Symbol {
	for _, conv := range ctx.Converters() {
		convType := ctx.TypeByID(conv.Type)
		if convType == nil || len(convType.Sons) < 2 {
			continue
		}
		domain, codomain := convType.Sons[1], convType.Sons[0]
		if Rel(Mapping{}, domain, actual) == RankEqual && Rel(Mapping{}, formal, codomain) == RankEqual {
			return conv
		}
	}
	return nil
}

// packTail builds the implicit "[x, y, …]" open-array/sequence container
// node for the collapsed tail (spec §4.5 step 3), typing each element
// against elemType.
func packTail(ctx Context, cand *Candidate, elemType *typesys.Type, tail []*ast.Node) (*ast.Node, bool) {
	container := &ast.Node{Kind: ast.KindArrayConstructor, Kids: make([]*ast.Node, 0, len(tail))}
	for _, actual := range tail {
		converted, ok := paramTypesMatch(ctx, cand, elemType, actual)
		if !ok {
			return nil, false
		}
		container.Kids = append(container.Kids, converted)
	}
	if len(tail) > 0 {
		container.Loc = tail[0].Loc
	}
	return container, true
}

// wrapVarargActual implements spec §4.5 step 2: remaining actuals past a
// varargs formal are appended verbatim, except string actuals, which are
// wrapped as cstring via a hidden standard conversion.
func wrapVarargActual(ctx Context, actual *ast.Node) *ast.Node {
	at := actualType(ctx, actual)
	if at != nil && at.Kind == typesys.KindString {
		return wrapHidden(ast.KindStringToCString, ast.Copy(actual), at.ID)
	}
	return ast.Copy(actual)
}
