// Package symtab implements the symbol table machinery (C3): the Symbol
// record, the open-addressed Scope/ScopeStack, and a bitset-of-integers
// used for record-field disambiguation and generic-marker tracking.
package symtab

import (
	"github.com/oxhq/noctua/internal/coreid"
	"github.com/oxhq/noctua/internal/ident"
)

// SymKind discriminates the kind of program entity a Symbol names.
type SymKind int

const (
	SymKindUnknown SymKind = iota
	SymKindModule
	SymKindTypeDecl
	SymKindVariable
	SymKindParameter
	SymKindProc
	SymKindMethod
	SymKindIterator
	SymKindMacro
	SymKindTemplate
	SymKindConverter
	SymKindEnumField
	SymKindField
	SymKindConst
	SymKindLabel
	SymKindGenericParam
	SymKindResult
)

// Magic tags a symbol whose semantics the backend (out of scope) knows
// directly: arithmetic operators and a handful of compiler intrinsics.
// The type relation and overload resolver only need to recognise that a
// symbol IS magic and which one; they never implement the magic itself.
type Magic int

const (
	MagicNone Magic = iota
	MagicAdd
	MagicSub
	MagicMul
	MagicDiv
	MagicMod
	MagicEq
	MagicLt
	MagicLe
	MagicInc
	MagicDec
	MagicLow
	MagicHigh
	MagicSizeOf
	MagicNew
)

// Flags is a bag of boolean symbol properties.
type Flags uint32

const (
	FlagNone Flags = 0
	FlagUsed Flags = 1 << iota
	FlagExported
	FlagImported
	FlagSideEffect
	FlagForward
)

// Symbol is a named program entity (§3, C2).
type Symbol struct {
	ID    coreid.SymID
	Kind  SymKind
	Owner coreid.SymID // owning module or enclosing routine
	Node  coreid.NodeID
	Type  coreid.TypeID
	Flags Flags
	Magic Magic
	// Position holds the parameter ordinal (for SymKindParameter) or the
	// enum ordinal (for SymKindEnumField).
	Position int
	Name     *ident.Identifier
}

// HasFlag reports whether f is set.
func (s *Symbol) HasFlag(f Flags) bool { return s.Flags&f != 0 }

// SetFlag sets f.
func (s *Symbol) SetFlag(f Flags) { s.Flags |= f }
