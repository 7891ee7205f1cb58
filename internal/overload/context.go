package overload

import (
	"github.com/oxhq/noctua/internal/ast"
	"github.com/oxhq/noctua/internal/coreid"
	"github.com/oxhq/noctua/internal/diag"
	"github.com/oxhq/noctua/internal/symtab"
	"github.com/oxhq/noctua/internal/typesys"
)

// Allocator mints fresh nodes, types, and symbols in the caller's arena.
// internal/overload never holds an arena itself — it only ever sees one
// through this interface — so that internal/unit can depend on
// internal/overload without internal/overload importing internal/unit
// back (the accept-interfaces-return-structs idiom applied across a
// package boundary that would otherwise cycle).
type Allocator interface {
	// NewNode registers n (built by the caller with a zero id) in the
	// arena's node slab and returns it with a freshly assigned ID.
	NewNode(n *ast.Node) *ast.Node
	// NewType registers t and returns it with a freshly assigned ID.
	NewType(t *typesys.Type) *typesys.Type
	// NewSym registers s and returns it with a freshly assigned ID.
	NewSym(s *symtab.Symbol) *symtab.Symbol
}

// Context is everything match-call and resolve-call need from the
// compilation unit besides the call site itself: allocation, the visible
// converters, and a place to report diagnostics. internal/unit.Arena
// implements this implicitly.
type Context interface {
	Allocator

	// SymByID, TypeByID, NodeByID resolve the slab indices carried on AST
	// nodes (Node.Type, Type.MemberSyms, Symbol.Node) back to their
	// owning records.
	SymByID(id coreid.SymID) *symtab.Symbol
	TypeByID(id coreid.TypeID) *typesys.Type
	NodeByID(id coreid.NodeID) *ast.Node

	// Converters returns every SymKindConverter symbol registered so far,
	// used by the "none" fallback in param-types-match (spec §4.5 step 4).
	Converters() []*symtab.Symbol

	// Report records a diagnostic. Reporting is never fatal by itself —
	// the caller decides what to do with Sink.HasFatal afterwards.
	Report(d diag.Diagnostic)

	// Instantiate builds (or returns the cached) concrete instantiation of
	// a generic procedure symbol under the given bindings (spec §4.6
	// "Instantiation").
	Instantiate(generic *symtab.Symbol, bindings Mapping) *symtab.Symbol
}
