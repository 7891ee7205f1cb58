// Package coreid defines the slab index types shared by internal/ast,
// internal/typesys, and internal/symtab. The three packages hold
// self-contained values (Node, Type, Symbol) that reference each other
// cyclically — a symbol points at its type, a type's field list points at
// AST nodes, a node carries a type — so instead of holding pointers across
// package boundaries (which would make ast, typesys, and symtab import
// each other and cycle), every cross-package reference is an index into
// the owning arena's slab (internal/unit.Arena), per the "single arena,
// three typed slabs" strategy in the design notes.
//
// Zero ID values are reserved for "no reference" (the Node/Type/Symbol at
// index 0 in every slab is a permanently unused placeholder), so a bare
// zero-valued struct field reads as "absent" without a separate bool.
package coreid

// NodeID indexes internal/unit.Arena.Nodes.
type NodeID int32

// TypeID indexes internal/unit.Arena.Types.
type TypeID int32

// SymID indexes internal/unit.Arena.Syms.
type SymID int32

// NoNode, NoType, and NoSym are the reserved "absent" ids.
const (
	NoNode NodeID = 0
	NoType TypeID = 0
	NoSym  SymID  = 0
)

// Valid reports whether the id refers to a real slab entry.
func (id NodeID) Valid() bool { return id != NoNode }

// Valid reports whether the id refers to a real slab entry.
func (id TypeID) Valid() bool { return id != NoType }

// Valid reports whether the id refers to a real slab entry.
func (id SymID) Valid() bool { return id != NoSym }
