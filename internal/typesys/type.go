package typesys

import "github.com/oxhq/noctua/internal/coreid"

// CallConv tags the calling convention of a KindProc type.
type CallConv int

const (
	ConvDefault CallConv = iota
	ConvStdcall
	ConvCdecl
	ConvFastcall
	ConvInline
	ConvClosure
)

// Flags mirrors ast.Flags for types: a small bag of booleans (the var-arg
// marker and the generic-template marker).
type Flags uint32

const (
	FlagNone Flags = 0
	// FlagVarargs marks a KindProc type whose last formal parameter
	// accepts a variadic tail (spec §4.5 "Variadic tail").
	FlagVarargs Flags = 1 << iota
	// FlagGenericTemplate marks the KindProc type of a generic procedure;
	// resolving a call to it goes through instantiation.
	FlagGenericTemplate
)

// Type is a tagged structural descriptor (§3, C2). Equality and the
// compatibility relation over Types live in internal/overload; Type
// itself only stores structure.
type Type struct {
	ID    coreid.TypeID
	Kind  Kind
	Sons  []*Type // ordered child types; same-package pointers, cycles OK
	N     coreid.NodeID
	Sym   coreid.SymID // declaring symbol, coreid.NoSym if none
	Flags Flags

	// ContainerID links a KindGenericInst back to the KindGeneric template
	// it was instantiated from (spec §3 "Types"); also used as the
	// identity for declared KindObject/KindRecord/KindEnum "same nominal
	// type" comparisons, assigned once at declaration.
	ContainerID int

	Conv CallConv // meaningful only for KindProc

	Size      int64 // cached size in bytes, 0 if not yet computed
	Align     int64 // cached alignment, 0 if not yet computed

	// RangeLo/RangeHi hold the literal bounds for KindRange types whose
	// base is an ordinal/numeric type (spec §3 "a literal range").
	RangeLo, RangeHi int64

	// MemberSyms parallels Sons and names the declaring symbol of each
	// son. For KindRecord/KindRecordConstructor this is the field symbol
	// (the type relation matches record-constructor fields against record
	// fields by this identity, not by position — spec §4.4 "Record vs
	// record-constructor"). For KindProc, Sons[0] is the return type with
	// no corresponding entry; MemberSyms[i] names the parameter symbol for
	// Sons[i+1], used by the parameter matcher (spec §4.5) to bind named
	// arguments and locate default values.
	MemberSyms []coreid.SymID
	// Defaults parallels MemberSyms: true where the member (record field
	// or proc parameter) may be omitted by a caller/constructor because it
	// carries a default value.
	Defaults []bool
}

// HasFlag reports whether f is set.
func (t *Type) HasFlag(f Flags) bool { return t.Flags&f != 0 }

// SetFlag sets f.
func (t *Type) SetFlag(f Flags) { t.Flags |= f }

// Son returns the i'th child type or nil if out of range.
func (t *Type) Son(i int) *Type {
	if t == nil || i < 0 || i >= len(t.Sons) {
		return nil
	}
	return t.Sons[i]
}

// LastSon returns the final child type, used when unfolding a
// KindGenericInst to its concrete instantiation (spec §4.4: "If F is
// generic-inst, unfold to its last child and retry").
func (t *Type) LastSon() *Type {
	if t == nil || len(t.Sons) == 0 {
		return nil
	}
	return t.Sons[len(t.Sons)-1]
}

// IsNominal reports whether t uses id-based equality (declared object,
// enum, record) rather than structural equality.
func (t *Type) IsNominal() bool {
	switch t.Kind {
	case KindObject, KindEnum:
		return true
	case KindRecord:
		return t.Sym.Valid()
	default:
		return false
	}
}

// Equal implements the equality used by nominal kinds (id-based) and the
// base case of structural kinds (recursive shape comparison). It is NOT
// the compatibility relation — see internal/overload.Rel for that; Equal
// only answers "are these literally the same type".
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.IsNominal() || b.IsNominal() {
		return a.ContainerID != 0 && a.ContainerID == b.ContainerID
	}
	if len(a.Sons) != len(b.Sons) {
		return false
	}
	for i := range a.Sons {
		if !Equal(a.Sons[i], b.Sons[i]) {
			return false
		}
	}
	return true
}
