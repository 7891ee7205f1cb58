// Package unit ties C1 through C5 together: the compilation-unit arena
// (Design Notes §9, "single arena ... three typed slabs") that owns every
// node, type, and symbol, plus the Analyze entry point that walks a
// stmt-list root, opening and closing scopes and resolving calls.
package unit

import (
	"fmt"
	"sort"

	"github.com/oxhq/noctua/internal/ast"
	"github.com/oxhq/noctua/internal/coreid"
	"github.com/oxhq/noctua/internal/diag"
	"github.com/oxhq/noctua/internal/ident"
	"github.com/oxhq/noctua/internal/overload"
	"github.com/oxhq/noctua/internal/store"
	"github.com/oxhq/noctua/internal/symtab"
	"github.com/oxhq/noctua/internal/typesys"
)

// Arena owns the three typed slabs for one compilation unit (Design Notes
// §9). Index 0 of every slab is a permanently unused placeholder so a
// zero coreid.*ID reads as "absent" (coreid.NoNode/NoType/NoSym).
type Arena struct {
	Pool   *ident.Pool
	Scopes *symtab.ScopeStack
	Diags  *diag.Sink

	// Store, if non-nil, receives a ledger entry for every generic
	// instantiation this Arena builds (cross-run auditing via `noctua
	// cache inspect`). It is never consulted to avoid rebuilding a
	// substituted type — see internal/store.Instantiation.
	Store *store.Store

	nodes []*ast.Node
	types []*typesys.Type
	syms  []*symtab.Symbol

	builtins map[typesys.Kind]*typesys.Type

	converters []*symtab.Symbol

	instCache map[string]*symtab.Symbol
}

// New creates an Arena with its sentinel slab entries and builtin
// primitive types already registered, and the imported-symbols scope
// (depth 0) open.
func New() *Arena {
	a := &Arena{
		Pool:      ident.New(),
		Scopes:    symtab.NewScopeStack(),
		Diags:     diag.NewSink(),
		nodes:     make([]*ast.Node, 1),
		types:     make([]*typesys.Type, 1),
		syms:      make([]*symtab.Symbol, 1),
		builtins:  map[typesys.Kind]*typesys.Type{},
		instCache: map[string]*symtab.Symbol{},
	}
	for _, k := range []typesys.Kind{
		typesys.KindBool, typesys.KindChar,
		typesys.KindInt8, typesys.KindInt16, typesys.KindInt32, typesys.KindInt64, typesys.KindInt,
		typesys.KindFloat32, typesys.KindFloat64, typesys.KindFloat128, typesys.KindFloat,
		typesys.KindString, typesys.KindCString, typesys.KindPointer,
	} {
		a.builtins[k] = a.NewType(&typesys.Type{Kind: k})
	}
	return a
}

// Builtin returns the singleton Type for a primitive kind, registering it
// on first use for kinds not pre-populated by New (there are none today,
// but this keeps the map the single source of truth).
func (a *Arena) Builtin(k typesys.Kind) *typesys.Type {
	if t, ok := a.builtins[k]; ok {
		return t
	}
	t := a.NewType(&typesys.Type{Kind: k})
	a.builtins[k] = t
	return t
}

// NewNode implements overload.Allocator.
func (a *Arena) NewNode(n *ast.Node) *ast.Node {
	n.ID = coreid.NodeID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return n
}

// NewType implements overload.Allocator.
func (a *Arena) NewType(t *typesys.Type) *typesys.Type {
	t.ID = coreid.TypeID(len(a.types))
	a.types = append(a.types, t)
	return t
}

// NewSym implements overload.Allocator.
func (a *Arena) NewSym(s *symtab.Symbol) *symtab.Symbol {
	s.ID = coreid.SymID(len(a.syms))
	a.syms = append(a.syms, s)
	if s.Kind == symtab.SymKindConverter {
		a.converters = append(a.converters, s)
	}
	return s
}

// NodeByID, TypeByID, SymByID implement overload.Context's lookup half.
func (a *Arena) NodeByID(id coreid.NodeID) *ast.Node {
	if !id.Valid() || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

func (a *Arena) TypeByID(id coreid.TypeID) *typesys.Type {
	if !id.Valid() || int(id) >= len(a.types) {
		return nil
	}
	return a.types[id]
}

func (a *Arena) SymByID(id coreid.SymID) *symtab.Symbol {
	if !id.Valid() || int(id) >= len(a.syms) {
		return nil
	}
	return a.syms[id]
}

// Converters implements overload.Context.
func (a *Arena) Converters() []*symtab.Symbol { return a.converters }

// Report implements overload.Context.
func (a *Arena) Report(d diag.Diagnostic) { a.Diags.Report(d) }

var _ overload.Context = (*Arena)(nil)

// Instantiate implements spec §4.6 "Instantiation": build a fresh
// concrete procedure symbol from the generic template, substituting bound
// generic parameters wherever they appear in the template's type, caching
// by containerId + normalised bindings to avoid exponential
// re-instantiation.
func (a *Arena) Instantiate(generic *symtab.Symbol, bindings overload.Mapping) *symtab.Symbol {
	template := a.TypeByID(generic.Type)
	key := instKey(template.ContainerID, bindings)
	if cached, ok := a.instCache[key]; ok {
		return cached
	}

	instType := a.NewType(substitute(a, template, bindings))
	instType.ContainerID = template.ContainerID

	inst := a.NewSym(&symtab.Symbol{
		Kind:  generic.Kind,
		Owner: generic.Owner,
		Node:  generic.Node,
		Name:  generic.Name,
		Magic: generic.Magic,
	})
	inst.Type = instType.ID
	instType.Sym = inst.ID

	a.instCache[key] = inst
	a.recordInstantiation(int32(template.ContainerID), key, inst.Name)
	return inst
}

// recordInstantiation saves a ledger entry for this instantiation when a
// Store is configured, so it shows up in `noctua cache inspect` across
// runs. It never affects this run's behavior — the in-memory instCache
// above already answers every lookup for the lifetime of this Arena.
func (a *Arena) recordInstantiation(containerID int32, bindingsHash string, name *ident.Identifier) {
	if a.Store == nil || name == nil {
		return
	}
	if _, found := a.Store.Lookup(containerID, bindingsHash); found {
		return
	}
	_ = a.Store.Save(containerID, bindingsHash, name.String())
}

// instKey normalises a binding map into a deterministic cache key: the
// generic template's identity plus its bound types ordered by generic
// parameter id, so the same set of bindings always produces the same key
// regardless of unification order. Which generic-parameter type ids have
// been bound is exactly the "marker tracking" symtab.IntSet exists for
// (spec §4.3).
func instKey(containerID int, bindings overload.Mapping) string {
	ids := make([]int, 0, len(bindings))
	for id := range bindings {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	marked := symtab.NewIntSet()
	for _, id := range ids {
		marked.Insert(id)
	}
	key := fmt.Sprintf("c%d", containerID)
	marked.Each(func(id int) {
		bound := bindings[coreid.TypeID(id)]
		key += fmt.Sprintf("|%d=%d", id, bound.ID)
	})
	return key
}

// substitute builds a structural copy of t with every KindGenericParam son
// replaced by its bound concrete type, per spec §4.6 "substituting bound
// generic parameters wherever they appear in the template's types". The
// top-level copy is left for the caller to register (arena.go:Instantiate
// does so via NewType); every nested copy registers itself here, so a
// substituted son gets its own identity instead of aliasing the
// template's Type.ID.
func substitute(a *Arena, t *typesys.Type, bindings overload.Mapping) *typesys.Type {
	return substituteSon(a, t, bindings, false)
}

func substituteSon(a *Arena, t *typesys.Type, bindings overload.Mapping, isSon bool) *typesys.Type {
	if t == nil {
		return nil
	}
	if t.Kind == typesys.KindGenericParam {
		if bound, ok := bindings[t.ID]; ok {
			return bound
		}
		return t
	}
	if len(t.Sons) == 0 {
		return t
	}
	cp := *t
	cp.Sons = make([]*typesys.Type, len(t.Sons))
	for i, son := range t.Sons {
		cp.Sons[i] = substituteSon(a, son, bindings, true)
	}
	if isSon {
		return a.NewType(&cp)
	}
	return &cp
}
