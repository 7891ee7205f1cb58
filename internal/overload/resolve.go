package overload

import (
	"github.com/oxhq/noctua/internal/ast"
	"github.com/oxhq/noctua/internal/diag"
	"github.com/oxhq/noctua/internal/symtab"
	"github.com/oxhq/noctua/internal/typesys"
)

// ErrAmbiguous is never returned directly — resolve-call reports an
// ambiguous-call diagnostic and signals failure by returning a nil node,
// mirroring the non-exception error model of the rest of the core (spec
// §7: "the core never uses exceptions for normal matching failures").

// ResolveCall implements spec §4.6: resolve-call(context, call-node) ->
// rewritten-call | error. candidates enumerates the overload set named by
// the call's callee expression, in the deterministic insertion order
// ScopeStack.InsertionsAt records (spec §5 "Ordering guarantees").
func ResolveCall(ctx Context, callNode *ast.Node, candidates []*symtab.Symbol) (*ast.Node, bool) {
	var best, runnerUp *Candidate

	for _, sym := range candidates {
		procType := ctx.TypeByID(sym.Type)
		if procType == nil || procType.Kind != typesys.KindProc {
			continue
		}
		cand := NewCandidate(sym, procType)
		cand = MatchCall(ctx, callNode, cand)

		switch {
		case cand.State != StateMatch:
			continue
		case best == nil || best.State != StateMatch:
			best = cand
		case cand.betterThan(best):
			runnerUp = best
			best = cand
		case cand.tiesWith(best):
			runnerUp = cand
		}
	}

	if best == nil {
		// spec §4.6: "if X.state = empty, emit no error here" — allow the
		// caller to try a user-defined apply operator.
		return nil, false
	}
	if runnerUp != nil && runnerUp.tiesWith(best) {
		ctx.Report(diag.Diagnostic{
			Loc:        loc(callNode),
			Kind:       diag.KindAmbiguousCall,
			Severity:   diag.SeverityUser,
			Detail:     "ambiguous call",
			Candidates: []string{best.Signature(), runnerUp.Signature()},
		})
		return nil, false
	}

	best.Sym.SetFlag(symtab.FlagUsed)

	winnerSym := best.Sym
	if best.ProcType.HasFlag(typesys.FlagGenericTemplate) {
		winnerSym = ctx.Instantiate(best.Sym, best.Mapping)
	}

	rewritten := best.Call
	rewritten.Sym = winnerSym.ID
	if retType := ctx.TypeByID(winnerSym.Type).Son(0); retType != nil {
		rewritten.Type = retType.ID
	}
	return rewritten, true
}
