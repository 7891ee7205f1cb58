package overload

import (
	"github.com/oxhq/noctua/internal/ast"
	"github.com/oxhq/noctua/internal/symtab"
	"github.com/oxhq/noctua/internal/typesys"
)

// State is a Candidate's match-state (spec §3 "Overload candidate").
type State int

const (
	StateEmpty State = iota
	StateMatch
	StateNoMatch
)

// Candidate tracks one overloaded symbol's fitness against a single call
// site (spec §3 "Overload candidate", §4.5, §4.6).
type Candidate struct {
	Sym      *symtab.Symbol
	ProcType *typesys.Type

	Exact, Subtype, Generic, Conv int
	State                         State

	// Mapping is this candidate's own generic-binding map; never shared
	// across candidates, so a failed candidate cannot leak partial
	// bindings into a sibling's attempt (spec §4.4, last paragraph).
	Mapping Mapping

	// BaseTypeMatch is set by MatchCall when the formal is open-array[T] or
	// sequence[T] and the actual unifies directly against T, enabling the
	// implicit "[x, y, …]" tail constructor (spec §4.5 step 3).
	BaseTypeMatch bool

	// Call is the in-construction rewritten call node: arguments in
	// formal order, with defaults and hidden conversions materialised.
	Call *ast.Node
}

// NewCandidate starts an empty candidate for sym/procType.
func NewCandidate(sym *symtab.Symbol, procType *typesys.Type) *Candidate {
	return &Candidate{
		Sym:      sym,
		ProcType: procType,
		State:    StateEmpty,
		Mapping:  Mapping{},
	}
}

// precedence returns the lexicographic tuple resolve-call compares
// candidates by: (exact, generic, subtype, conv), higher wins at each tier
// (spec §4.6).
func (c *Candidate) precedence() [4]int {
	return [4]int{c.Exact, c.Generic, c.Subtype, c.Conv}
}

// betterThan reports whether c strictly outranks o under the
// lexicographic precedence tuple.
func (c *Candidate) betterThan(o *Candidate) bool {
	cp, op := c.precedence(), o.precedence()
	for i := range cp {
		if cp[i] != op[i] {
			return cp[i] > op[i]
		}
	}
	return false
}

// tiesWith reports whether c and o have identical precedence tuples.
func (c *Candidate) tiesWith(o *Candidate) bool {
	return c.precedence() == o.precedence()
}

// Signature renders a short human-readable signature for ambiguous-call
// diagnostics (spec §4.6 "listing both signatures").
func (c *Candidate) Signature() string {
	name := "<anonymous>"
	if c.Sym != nil && c.Sym.Name != nil {
		name = c.Sym.Name.String()
	}
	return name
}

// tally records the outcome Rel reported for one argument by incrementing
// the matching Candidate.* precedence counter.
func (c *Candidate) tally(r Rank) {
	switch r {
	case RankEqual:
		c.Exact++
	case RankSubtype:
		c.Subtype++
	case RankGeneric:
		c.Generic++
	case RankConvertible:
		c.Conv++
	}
}
