package overload

import (
	"github.com/oxhq/noctua/internal/coreid"
	"github.com/oxhq/noctua/internal/symtab"
	"github.com/oxhq/noctua/internal/typesys"
)

// Mapping is the generic binding: generic-parameter type id -> the
// concrete type chosen during unification (spec §3 "Generic binding").
// Rel is pure with respect to types but effectful on Mapping: successful
// generic unification inserts bindings (spec §4.4).
type Mapping map[coreid.TypeID]*typesys.Type

// Rel computes rel(mapping, F, A) -> Rank (spec §4.4). It is total: every
// pair of types gets some Rank, and it always terminates, because nominal
// recursion bottoms out at typesys.Equal's id short-circuit and structural
// recursion strictly descends into Sons.
func Rel(mapping Mapping, f, a *typesys.Type) Rank {
	if f == nil || a == nil {
		return RankNone
	}

	// Unfold a generic instantiation on the formal side to its concrete
	// instantiation and retry.
	if f.Kind == typesys.KindGenericInst {
		return Rel(mapping, f.LastSon(), a)
	}
	// Unfold a generic instantiation on the actual side, unless the
	// formal itself wants to match against the generic shape.
	if a.Kind == typesys.KindGenericInst && f.Kind != typesys.KindGeneric {
		return Rel(mapping, f, a.LastSon())
	}
	// Descend through `var T` on the actual side when the formal isn't
	// itself a var type.
	if a.Kind == typesys.KindVar && f.Kind != typesys.KindVar {
		return Rel(mapping, f, a.Son(0))
	}

	switch f.Kind {
	case typesys.KindGenericParam:
		return relGenericParam(mapping, f, a)
	case typesys.KindGeneric:
		return relDeclaredGeneric(mapping, f, a)
	}

	if f.Kind.IsOrdinal() {
		return relOrdinal(f, a)
	}
	if f.Kind.IsSignedInt() {
		return relSignedInt(f, a)
	}
	if f.Kind.IsFloat() {
		return relFloat(f, a)
	}

	switch f.Kind {
	case typesys.KindRange:
		return relRange(f, a)
	case typesys.KindArray:
		return relArray(mapping, f, a)
	case typesys.KindArrayConstructor:
		return relArrayConstructor(mapping, f, a)
	case typesys.KindOpenArray:
		return relOpenArray(mapping, f, a)
	case typesys.KindSequence:
		return relSequence(mapping, f, a)
	case typesys.KindTuple:
		return relTuple(mapping, f, a)
	case typesys.KindRecord:
		return relRecord(mapping, f, a)
	case typesys.KindObject:
		return relObject(f, a)
	case typesys.KindSet:
		return relSet(mapping, f, a)
	case typesys.KindPtr, typesys.KindRef:
		return relPtrRef(mapping, f, a)
	case typesys.KindProc:
		return relProc(mapping, f, a)
	case typesys.KindPointer:
		return relPointer(f, a)
	case typesys.KindCString:
		return relCString(f, a)
	case typesys.KindString:
		return relString(f, a)
	}

	if typesys.Equal(f, a) {
		return RankEqual
	}
	return RankNone
}

func relOrdinal(f, a *typesys.Type) Rank {
	if a.Kind != f.Kind {
		return RankNone
	}
	if f.Kind == typesys.KindEnum {
		if f.ContainerID != a.ContainerID {
			return RankNone
		}
	}
	return RankEqual
}

func relSignedInt(f, a *typesys.Type) Rank {
	if a.Kind == typesys.KindRange && rangeBaseMatches(a, f.Kind) {
		return RankSubtype
	}
	if !a.Kind.IsSignedInt() {
		return RankNone
	}
	if f.Kind == a.Kind {
		return RankEqual
	}
	if f.Kind == typesys.KindInt {
		if a.Kind.IntWidth() < f.Kind.IntWidth() {
			return RankConvertible
		}
		return RankSubtype
	}
	if a.Kind == typesys.KindInt {
		return RankConvertible
	}
	if f.Kind.IntWidth() > a.Kind.IntWidth() {
		return RankSubtype
	}
	return RankConvertible
}

func relFloat(f, a *typesys.Type) Rank {
	if a.Kind == typesys.KindRange && rangeBaseMatches(a, f.Kind) {
		return RankSubtype
	}
	if a.Kind.IsSignedInt() {
		// Implicit integer-to-float widening (spec §8 scenario S2: a
		// `float` formal accepts an `int` actual at `convertible`).
		return RankConvertible
	}
	if !a.Kind.IsFloat() {
		return RankNone
	}
	if f.Kind == a.Kind {
		return RankEqual
	}
	if f.Kind == typesys.KindFloat {
		if a.Kind.FloatWidth() < f.Kind.FloatWidth() {
			return RankConvertible
		}
		return RankSubtype
	}
	if a.Kind == typesys.KindFloat {
		return RankConvertible
	}
	if f.Kind.FloatWidth() > a.Kind.FloatWidth() {
		return RankSubtype
	}
	return RankConvertible
}

// rangeBaseMatches reports whether a range type's base son has the given
// kind, used by the signed-int/float rules' "range whose base matches"
// clause.
func rangeBaseMatches(rng *typesys.Type, baseKind typesys.Kind) bool {
	base := rng.Son(0)
	return base != nil && base.Kind == baseKind
}

func relRange(f, a *typesys.Type) Rank {
	if a.Kind == typesys.KindRange {
		if typesys.Equal(f.Son(0), a.Son(0)) {
			return RankEqual
		}
		return RankNone
	}
	// Non-range formal over a subrange actual: handled by the numeric
	// rules above before we ever reach here for int/float formals; a
	// direct range-vs-non-range formal comparison (formal IS a range,
	// actual is not) is an asymmetric reject per spec.
	return RankNone
}

func relArray(mapping Mapping, f, a *typesys.Type) Rank {
	if a.Kind != typesys.KindArray {
		return RankNone
	}
	idxRank := Rel(mapping, f.Son(0), a.Son(0))
	elemRank := Rel(mapping, f.Son(1), a.Son(1))
	r := Min(idxRank, elemRank)
	if r == RankNone {
		return RankNone
	}
	return r
}

func relArrayConstructor(mapping Mapping, f, a *typesys.Type) Rank {
	if a.Kind != typesys.KindArrayConstructor {
		return RankNone
	}
	elemRank := Rel(mapping, f.Son(0), a.Son(0))
	if elemRank == RankNone {
		return RankNone
	}
	if f.Size != 0 && a.Size != 0 && f.Size != a.Size && elemRank != RankGeneric {
		return RankNone
	}
	return elemRank
}

func relOpenArray(mapping Mapping, f, a *typesys.Type) Rank {
	elem := f.Son(0)
	switch a.Kind {
	case typesys.KindOpenArray, typesys.KindArrayConstructor, typesys.KindSequence:
		return Rel(mapping, elem, a.Son(0))
	case typesys.KindArray:
		return Rel(mapping, elem, a.Son(1))
	default:
		return RankNone
	}
}

func relSequence(mapping Mapping, f, a *typesys.Type) Rank {
	switch a.Kind {
	case typesys.KindNil:
		return RankSubtype
	case typesys.KindArrayConstructor:
		if a.Son(0) == nil {
			return RankSubtype // empty constructor `[]`
		}
		return Rel(mapping, f.Son(0), a.Son(0))
	case typesys.KindSequence:
		return Rel(mapping, f.Son(0), a.Son(0))
	default:
		return RankNone
	}
}

func relTuple(mapping Mapping, f, a *typesys.Type) Rank {
	if a.Kind != typesys.KindTuple {
		return RankNone
	}
	if len(a.Sons) < len(f.Sons) {
		return RankNone
	}
	r := RankEqual
	for i := range f.Sons {
		r = Min(r, Rel(mapping, f.Sons[i], a.Sons[i]))
		if r == RankNone {
			return RankNone
		}
	}
	if len(a.Sons) > len(f.Sons) {
		r = Min(r, RankSubtype)
	}
	return r
}

// relRecord implements spec §4.4's "Record vs record-constructor" rule.
// Record and record-constructor field lists are carried on the Type
// itself as parallel slices (Sons holding field types, MemberSyms holding
// the field symbols); fields are matched by symbol identity, which keeps
// typesys free of an ast.Node dependency. See typesys.Type.MemberSyms.
func relRecord(mapping Mapping, f, a *typesys.Type) Rank {
	if a.Kind != typesys.KindRecordConstructor && a.Kind != typesys.KindRecord {
		return RankNone
	}
	if a.Kind == typesys.KindRecord {
		if typesys.Equal(f, a) {
			return RankEqual
		}
		return RankNone
	}
	visited := symtab.NewIntSet()
	r := RankEqual
	for i, ffield := range f.MemberSyms {
		found := -1
		for j, afield := range a.MemberSyms {
			if visited.Contains(j) {
				continue
			}
			if ffield == afield {
				found = j
				break
			}
		}
		if found == -1 {
			if f.Defaults == nil || !f.Defaults[i] {
				return RankNone
			}
			continue
		}
		visited.Insert(found)
		fieldRank := Rel(mapping, f.Sons[i], a.Sons[found])
		if fieldRank == RankNone {
			return RankNone
		}
		r = Min(r, fieldRank)
	}
	if visited.Len() != len(a.MemberSyms) {
		return RankNone
	}
	return r
}

func relObject(f, a *typesys.Type) Rank {
	if a.Kind != typesys.KindObject {
		return RankNone
	}
	if f.ContainerID == a.ContainerID {
		return RankEqual
	}
	for base := a.Son(0); base != nil; base = base.Son(0) {
		if base.ContainerID == f.ContainerID {
			return RankSubtype
		}
		if base.Kind != typesys.KindObject {
			break
		}
	}
	return RankNone
}

func relSet(mapping Mapping, f, a *typesys.Type) Rank {
	if a.Kind == typesys.KindEmptySet {
		return RankSubtype
	}
	if a.Kind != typesys.KindSet {
		return RankNone
	}
	elemRank := Rel(mapping, f.Son(0), a.Son(0))
	if elemRank >= RankConvertible {
		return RankEqual
	}
	return RankNone
}

func relPtrRef(mapping Mapping, f, a *typesys.Type) Rank {
	if a.Kind == typesys.KindNil {
		return RankSubtype
	}
	if a.Kind != f.Kind {
		return RankNone
	}
	if typesys.Equal(f.Son(0), a.Son(0)) {
		return RankEqual
	}
	return RankNone
}

func relProc(mapping Mapping, f, a *typesys.Type) Rank {
	if a.Kind != typesys.KindProc {
		return RankNone
	}
	if f.Conv != a.Conv {
		return RankNone
	}
	fParams, aParams := f.Sons, a.Sons
	if len(fParams) == 0 || len(aParams) == 0 {
		return RankNone
	}
	if len(fParams)-1 != len(aParams)-1 {
		return RankNone
	}
	overall := RankEqual
	for i := 1; i < len(fParams); i++ {
		r := Rel(mapping, fParams[i], aParams[i])
		if r == RankNone {
			// Contravariant fallback: try the actual-is-wider direction.
			if Rel(mapping, aParams[i], fParams[i]) >= RankSubtype {
				overall = Min(overall, RankConvertible)
				continue
			}
			return RankNone
		}
		overall = Min(overall, r)
	}
	fRet, aRet := fParams[0], aParams[0]
	switch {
	case fRet == nil && aRet == nil:
		// both procs return nothing, agree
	case fRet == nil || aRet == nil:
		return RankNone
	default:
		retRank := Rel(mapping, fRet, aRet)
		if retRank == RankNone {
			return RankNone
		}
		if retRank == RankSubtype {
			overall = Min(overall, RankConvertible)
		} else {
			overall = Min(overall, retRank)
		}
	}
	return overall
}

func relPointer(f, a *typesys.Type) Rank {
	if a.Kind == typesys.KindPointer {
		return RankEqual
	}
	switch a.Kind {
	case typesys.KindNil, typesys.KindRef, typesys.KindPtr, typesys.KindProc, typesys.KindCString:
		return RankConvertible
	default:
		return RankNone
	}
}

func relCString(f, a *typesys.Type) Rank {
	if a.Kind == typesys.KindCString {
		return RankEqual
	}
	if a.Kind == typesys.KindString {
		return RankConvertible
	}
	if a.Kind == typesys.KindArray && isZeroBasedCharArray(a) {
		return RankConvertible
	}
	return RankNone
}

// isZeroBasedCharArray resolves Open Question 1 (spec §9 / SPEC_FULL §13):
// a char array converts to cstring only when its index range starts at
// zero and the index is an integer-family type.
func isZeroBasedCharArray(arr *typesys.Type) bool {
	elem := arr.Son(1)
	if elem == nil || elem.Kind != typesys.KindChar {
		return false
	}
	idx := arr.Son(0)
	if idx == nil {
		return false
	}
	if idx.Kind == typesys.KindRange {
		return idx.RangeLo == 0 && idx.Son(0) != nil && idx.Son(0).Kind.IsSignedInt()
	}
	return idx.Kind.IsSignedInt() && idx.RangeLo == 0
}

func relString(f, a *typesys.Type) Rank {
	if a.Kind == typesys.KindString {
		return RankEqual
	}
	return RankNone
}

func relGenericParam(mapping Mapping, f, a *typesys.Type) Rank {
	if bound, ok := mapping[f.ID]; ok {
		return Rel(mapping, bound, a)
	}
	if len(f.Sons) > 0 {
		best := RankNone
		for _, constraint := range f.Sons {
			if r := Rel(mapping, constraint, a); r >= RankSubtype && r > best {
				best = r
			}
		}
		if best == RankNone {
			return RankNone
		}
	}
	concrete := concretize(a)
	if concrete == nil {
		return RankNone
	}
	mapping[f.ID] = concrete
	return RankGeneric
}

// concretize implements spec §4.4's generic-parameter binding rule: an
// array-constructor concretises to an open-array, a record-constructor to
// a record; empty-set and nil are never valid bindings.
func concretize(a *typesys.Type) *typesys.Type {
	switch a.Kind {
	case typesys.KindEmptySet, typesys.KindNil:
		return nil
	case typesys.KindArrayConstructor:
		return &typesys.Type{Kind: typesys.KindOpenArray, Sons: []*typesys.Type{a.Son(0)}}
	case typesys.KindRecordConstructor:
		return &typesys.Type{Kind: typesys.KindRecord, Sons: a.Sons, MemberSyms: a.MemberSyms}
	default:
		return a
	}
}

func relDeclaredGeneric(mapping Mapping, f, a *typesys.Type) Rank {
	if a.Kind != typesys.KindGeneric && a.Kind != typesys.KindGenericInst {
		return RankNone
	}
	if f.ContainerID != a.ContainerID {
		return RankNone
	}
	if len(f.Sons) != len(a.Sons) {
		return RankNone
	}
	r := RankEqual
	for i := range f.Sons {
		fr := Rel(mapping, f.Sons[i], a.Sons[i])
		if fr < RankGeneric {
			return RankNone
		}
		r = Min(r, fr)
	}
	return r
}
