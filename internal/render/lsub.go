package render

import "github.com/oxhq/noctua/internal/ast"

// tooLong is the sentinel "> maxLineLen" value spec §4.7 describes:
// any lsub result at or above this means "must wrap", and propagates
// through every additive formula that sums it in (adding to tooLong
// still overflows maxLineLen, so the sentinel is self-propagating as
// long as the value itself is kept absurdly large rather than exact).
const tooLong = 1 << 30

// lsub computes the per-kind cheap upper bound on the one-line width a
// subtree would need (spec §4.7 "Length estimate"). It never inspects
// comments or flags — lsub is a pure structural estimate; FlagNoComments
// etc. only affect emission.
func lsub(n *ast.Node) int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case ast.KindIdent:
		return len(n.Ident.String())
	case ast.KindSym:
		return 8 // a resolved reference renders as "sym#<id>"; use a flat estimate
	case ast.KindIntLit8, ast.KindIntLit16, ast.KindIntLit32, ast.KindIntLit64, ast.KindCharLit:
		return len(formatIntLit(n))
	case ast.KindFloatLit32, ast.KindFloatLit64:
		return len(formatFloatLit(n))
	case ast.KindNilLit:
		return 3
	case ast.KindStrLit, ast.KindRawStrLit, ast.KindTripleStrLit:
		escaped := escapeString(n.StrVal)
		if len(escaped) > stringSplit {
			return tooLong
		}
		return len(escaped) + 2

	case ast.KindCall, ast.KindBracketExpr:
		return lsub(n.Child(0)) + commaWidth(n.Kids[minInt(1, len(n.Kids)):]) + 2
	case ast.KindArrayConstructor:
		return commaWidth(n.Kids) + 2

	case ast.KindInfix:
		op := 2
		if n.Ident != nil {
			op = len(n.Ident.String()) + 2
		}
		return lsub(n.Child(0)) + op + lsub(n.Child(1))

	case ast.KindPrefix:
		op := 1
		if n.Ident != nil {
			op = len(n.Ident.String())
		}
		return op + lsub(n.Child(0))

	case ast.KindPostfix:
		op := 1
		if n.Ident != nil {
			op = len(n.Ident.String())
		}
		return lsub(n.Child(0)) + op

	case ast.KindDotExpr:
		return lsub(n.Child(0)) + 1 + lsub(n.Child(1))

	case ast.KindRange:
		return lsub(n.Child(0)) + 2 + lsub(n.Child(1))

	case ast.KindAddr:
		return 5 + lsub(n.Child(0))
	case ast.KindDeref:
		return lsub(n.Child(0)) + 2
	case ast.KindTypeOf:
		return lsub(n.Child(0)) + 9

	case ast.KindPtrQual:
		return lsub(n.Child(0)) + 4
	case ast.KindRefQual:
		return lsub(n.Child(0)) + 4
	case ast.KindVarQual:
		return lsub(n.Child(0)) + 4
	case ast.KindDistinctQual:
		return lsub(n.Child(0)) + 9

	case ast.KindTupleType:
		return commaWidth(n.Kids) + 2

	// Hidden conversions are transparent for length purposes too: the
	// rendered text is whatever the wrapped subtree renders as.
	case ast.KindHiddenStdConv, ast.KindHiddenSubConv, ast.KindHiddenCallConv,
		ast.KindStringToCString, ast.KindCStringToString,
		ast.KindObjectUpConv, ast.KindObjectDownConv, ast.KindPassAsOpenArray,
		ast.KindChckRange, ast.KindChckRange64, ast.KindChckRangeF:
		return lsub(n.Child(0))

	// Constructs the spec calls out as always multi-line: a var/const
	// section with more than one declarator, and anything that owns a
	// statement-list body.
	case ast.KindVarSection, ast.KindConstSection:
		if len(n.Kids) > 1 {
			return tooLong
		}
		return lsub(n.Child(0)) + 4
	case ast.KindIdentDefs:
		w := lsub(n.Child(0))
		if t := n.Child(1); t != nil {
			w += 2 + lsub(t)
		}
		if d := n.Child(2); d != nil {
			w += 3 + lsub(d)
		}
		return w

	case ast.KindStmtList, ast.KindBlock,
		ast.KindIf, ast.KindWhen, ast.KindCase, ast.KindWhile, ast.KindFor, ast.KindTry,
		ast.KindProcDef, ast.KindMethodDef, ast.KindIteratorDef, ast.KindMacroDef, ast.KindTemplateDef,
		ast.KindRecordCase, ast.KindRecordWhen, ast.KindObjectType, ast.KindEnumDef:
		return tooLong

	default:
		// Generic fallback: sum of children plus a couple of separators,
		// good enough to decide "short" vs "must wrap" for kinds this
		// renderer does not special-case syntax for.
		w := 0
		for _, k := range n.Kids {
			w += lsub(k) + 1
		}
		return w
	}
}

func commaWidth(kids []*ast.Node) int {
	w := 0
	for i, k := range kids {
		if i > 0 {
			w += 2
		}
		w += lsub(k)
	}
	return w
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
