package symtab

import "github.com/oxhq/noctua/internal/ident"

// entry is one slot of a Scope's open-addressed table.
type entry struct {
	used bool
	key  *ident.Identifier
	sym  *Symbol
}

// Scope is a symbol-name-to-symbol open-addressed hash table (§4.2). It
// visits slots via the probing sequence h ← (5h+1) mod capacity, which
// touches every slot of a power-of-two table exactly once.
type Scope struct {
	slots []entry
	count int
}

const minScopeCapacity = 8

// NewScope creates an empty scope with the minimum table capacity.
func NewScope() *Scope {
	return &Scope{slots: make([]entry, minScopeCapacity)}
}

func probe(h, capacity uint32) uint32 {
	return (5*h + 1) % capacity
}

// needsGrow implements the spec's rehash trigger: "rehash when 2·len <
// 3·count or len − count < 4", where len is the current capacity.
func needsGrow(capacity, count int) bool {
	return 2*capacity < 3*count || capacity-count < 4
}

func (s *Scope) grow() {
	newCap := len(s.slots) * 2
	old := s.slots
	s.slots = make([]entry, newCap)
	s.count = 0
	for _, e := range old {
		if e.used {
			s.insert(e.key, e.sym)
		}
	}
}

// insert places (key, sym) assuming key is not already present; used both
// by Add and by grow's rehash.
func (s *Scope) insert(key *ident.Identifier, sym *Symbol) {
	capacity := uint32(len(s.slots))
	h := key.Hash() % capacity
	for s.slots[h].used {
		h = probe(h, capacity)
	}
	s.slots[h] = entry{used: true, key: key, sym: sym}
	s.count++
}

// Add inserts sym under its identifier into the scope, without checking
// for a pre-existing entry — duplicate detection is the caller's job
// (AddUnique below implements it). O(1) amortized.
func (s *Scope) Add(sym *Symbol) {
	if needsGrow(len(s.slots), s.count+1) {
		s.grow()
	}
	s.insert(sym.Name, sym)
}

// AddUnique inserts sym unless an identifier of the same name is already
// bound in this scope, in which case it returns the pre-existing symbol
// and ok=false.
func (s *Scope) AddUnique(sym *Symbol) (prev *Symbol, ok bool) {
	if existing, found := s.Lookup(sym.Name); found {
		return existing, false
	}
	s.Add(sym)
	return nil, true
}

// Lookup searches this scope only (not its enclosing scopes).
func (s *Scope) Lookup(key *ident.Identifier) (*Symbol, bool) {
	capacity := uint32(len(s.slots))
	h := key.Hash() % capacity
	for i := 0; i < len(s.slots); i++ {
		e := s.slots[h]
		if !e.used {
			return nil, false
		}
		if e.key.Equal(key) {
			return e.sym, true
		}
		h = probe(h, capacity)
	}
	return nil, false
}

// Len returns the number of bound symbols.
func (s *Scope) Len() int { return s.count }

// Each calls f for every bound symbol, in the table's insertion-order-
// neutral slot order. The overload iterator (internal/overload) does NOT
// rely on Scope's own enumeration order for determinism — it walks a
// separately recorded insertion list — see ScopeStack.Overloads.
func (s *Scope) Each(f func(sym *Symbol)) {
	for _, e := range s.slots {
		if e.used {
			f(e.sym)
		}
	}
}

// ScopeStack is the lexical-nesting structure (§3, C2 "Scope stack").
// Index 0 holds imported symbols, index 1 the module top level, deeper
// indices nested routines and blocks.
type ScopeStack struct {
	scopes []*Scope
	// insertions records, per scope depth, the order symbols were added
	// in — independent of the hash table's slot order — so that overload
	// candidate iteration (spec §5 "Ordering guarantees") is deterministic
	// and reproducible regardless of identifier hash values.
	insertions [][]*Symbol
}

// NewScopeStack creates a stack with the imported-symbols scope (depth 0)
// already open.
func NewScopeStack() *ScopeStack {
	st := &ScopeStack{}
	st.Open()
	return st
}

// Top returns the current depth (number of open scopes).
func (st *ScopeStack) Top() int { return len(st.scopes) }

// Open pushes an empty scope. O(1) amortized.
func (st *ScopeStack) Open() {
	st.scopes = append(st.scopes, NewScope())
	st.insertions = append(st.insertions, nil)
}

// Close pops the topmost scope. It is a usage error (an internal
// invariant violation, spec §7) to close an empty stack.
func (st *ScopeStack) Close() error {
	if len(st.scopes) == 0 {
		return ErrEmptyStack
	}
	st.scopes = st.scopes[:len(st.scopes)-1]
	st.insertions = st.insertions[:len(st.insertions)-1]
	return nil
}

// Add inserts sym into the topmost scope and records insertion order.
func (st *ScopeStack) Add(sym *Symbol) error {
	if len(st.scopes) == 0 {
		return ErrEmptyStack
	}
	top := len(st.scopes) - 1
	st.scopes[top].Add(sym)
	st.insertions[top] = append(st.insertions[top], sym)
	return nil
}

// AddUnique inserts sym into the topmost scope unless a same-named symbol
// is already bound there.
func (st *ScopeStack) AddUnique(sym *Symbol) (prev *Symbol, ok bool, err error) {
	if len(st.scopes) == 0 {
		return nil, false, ErrEmptyStack
	}
	top := len(st.scopes) - 1
	prev, ok = st.scopes[top].AddUnique(sym)
	if ok {
		st.insertions[top] = append(st.insertions[top], sym)
	}
	return prev, ok, nil
}

// LookupLocal searches the topmost scope only.
func (st *ScopeStack) LookupLocal(key *ident.Identifier) (*Symbol, bool) {
	if len(st.scopes) == 0 {
		return nil, false
	}
	return st.scopes[len(st.scopes)-1].Lookup(key)
}

// Lookup searches from the topmost scope down to the bottom, returning
// the first hit (testable property 2, "Scope LIFO").
func (st *ScopeStack) Lookup(key *ident.Identifier) (*Symbol, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if sym, ok := st.scopes[i].Lookup(key); ok {
			return sym, true
		}
	}
	return nil, false
}

// Overloads returns every symbol named key that is visible from the
// current scope, drawn from the nearest depth that binds the name at all
// (an inner same-named binding shadows the whole outer overload set, the
// same rule Lookup applies to a single symbol). The result preserves
// insertion order, which is what makes overload.ResolveCall's tie-break
// runner-up deterministic (spec §5 "Ordering guarantees").
func (st *ScopeStack) Overloads(key *ident.Identifier) []*Symbol {
	for d := len(st.insertions) - 1; d >= 0; d-- {
		var hits []*Symbol
		for _, sym := range st.insertions[d] {
			if sym.Name.Equal(key) {
				hits = append(hits, sym)
			}
		}
		if len(hits) > 0 {
			return hits
		}
	}
	return nil
}

// InsertionsAt returns the symbols added at depth d, in the order they
// were added — the deterministic order the overload iterator walks when
// enumerating an identifier's visible overload set (spec §5, §4.6).
func (st *ScopeStack) InsertionsAt(d int) []*Symbol {
	if d < 0 || d >= len(st.insertions) {
		return nil
	}
	return st.insertions[d]
}
