package ast

import (
	"github.com/oxhq/noctua/internal/coreid"
	"github.com/oxhq/noctua/internal/ident"
)

// Location pins a node to its origin in the (external) parser's input.
type Location struct {
	FileIndex int
	Line      int
	Col       int
}

// Flags is a bag of boolean node properties. Individual bits are named
// below; unused bits are reserved for future flags the way the teacher
// reserves unused JSON fields on Result.
type Flags uint32

const (
	FlagNone Flags = 0
	// FlagUsed marks a reference node whose target symbol has been
	// observed in a context that counts as a use.
	FlagUsed Flags = 1 << iota
	// FlagBase2, FlagBase8, FlagBase16 select the renderer's numeric
	// literal base presentation (spec §4.7 "Numeric literal formatting").
	FlagBase2
	FlagBase8
	FlagBase16
)

// Node is one variant of the closed Kind enumeration (§3, C2). Exactly one
// of the payload fields below is meaningful for a given Kind; which one is
// determined entirely by Kind, per the exhaustive-dispatch design (Design
// Notes §9). A nil *Node in a Kids slot is a significant, deliberate
// "absent optional slot" (e.g. a for-loop with no else clause), not a bug.
type Node struct {
	ID      coreid.NodeID
	Kind    Kind
	Loc     Location
	Comment string
	Flags   Flags
	Type    coreid.TypeID // coreid.NoType if untyped

	IntVal   int64
	FloatVal float64
	StrVal   string
	Ident    *ident.Identifier
	Sym      coreid.SymID // coreid.NoSym unless Kind == KindSym
	Kids     []*Node      // nil entries are significant placeholders
}

// HasFlag reports whether f is set.
func (n *Node) HasFlag(f Flags) bool { return n.Flags&f != 0 }

// SetFlag sets f.
func (n *Node) SetFlag(f Flags) { n.Flags |= f }

// Child returns the i'th child, or nil if i is out of range or the slot is
// an absent placeholder. Both cases look the same to callers by design.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Kids) {
		return nil
	}
	return n.Kids[i]
}

// Len returns the number of child slots (including nil placeholders).
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Kids)
}

// Copy performs a structural deep copy of the subtree rooted at n, giving
// every copied node a fresh identity (a zero coreid.NodeID — the caller,
// normally internal/unit.Arena, is responsible for re-registering the
// copy and assigning it a real id). This is the "copy-tree" operation the
// spec refers to under "Lifecycle & ownership": shared subtrees produced
// during argument lowering are copies, never aliases.
func Copy(n *Node) *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.ID = coreid.NoNode
	if n.Kids != nil {
		cp.Kids = make([]*Node, len(n.Kids))
		for i, k := range n.Kids {
			cp.Kids[i] = Copy(k)
		}
	}
	return &cp
}

// StructurallyEqual implements the "expr-structural-equivalent" relation
// the renderer round-trip property (spec §8, property 4) is checked
// against: same kind, same payload, same children, comments and exact
// source location ignored.
func StructurallyEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindIntLit8, KindIntLit16, KindIntLit32, KindIntLit64, KindCharLit:
		if a.IntVal != b.IntVal {
			return false
		}
	case KindFloatLit32, KindFloatLit64:
		if a.FloatVal != b.FloatVal {
			return false
		}
	case KindStrLit, KindRawStrLit, KindTripleStrLit:
		if a.StrVal != b.StrVal {
			return false
		}
	case KindIdent, KindInfix, KindPrefix, KindPostfix:
		if !a.Ident.Equal(b.Ident) {
			return false
		}
	case KindSym:
		if a.Sym != b.Sym {
			return false
		}
	}
	if len(a.Kids) != len(b.Kids) {
		return false
	}
	for i := range a.Kids {
		if !StructurallyEqual(a.Kids[i], b.Kids[i]) {
			return false
		}
	}
	return true
}
