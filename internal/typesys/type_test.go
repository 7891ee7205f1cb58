package typesys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/noctua/internal/coreid"
	"github.com/oxhq/noctua/internal/typesys"
)

func TestIntWidthCoversSignedFamily(t *testing.T) {
	assert.Equal(t, 8, typesys.KindInt8.IntWidth())
	assert.Equal(t, 16, typesys.KindInt16.IntWidth())
	assert.Equal(t, 32, typesys.KindInt32.IntWidth())
	assert.Equal(t, 64, typesys.KindInt64.IntWidth())
	assert.Equal(t, 64, typesys.KindInt.IntWidth())
	assert.Equal(t, 0, typesys.KindBool.IntWidth())
}

func TestIsOrdinalCoversBoolCharEnum(t *testing.T) {
	assert.True(t, typesys.KindBool.IsOrdinal())
	assert.True(t, typesys.KindChar.IsOrdinal())
	assert.True(t, typesys.KindEnum.IsOrdinal())
	assert.False(t, typesys.KindInt32.IsOrdinal())
}

func TestEqualStructuralComparesShapeNotIdentity(t *testing.T) {
	a := &typesys.Type{Kind: typesys.KindArray, Sons: []*typesys.Type{{Kind: typesys.KindInt32}}}
	b := &typesys.Type{Kind: typesys.KindArray, Sons: []*typesys.Type{{Kind: typesys.KindInt32}}}
	assert.True(t, typesys.Equal(a, b))

	c := &typesys.Type{Kind: typesys.KindArray, Sons: []*typesys.Type{{Kind: typesys.KindInt64}}}
	assert.False(t, typesys.Equal(a, c))
}

func TestEqualNominalComparesContainerID(t *testing.T) {
	a := &typesys.Type{Kind: typesys.KindObject, ContainerID: 1}
	b := &typesys.Type{Kind: typesys.KindObject, ContainerID: 1}
	c := &typesys.Type{Kind: typesys.KindObject, ContainerID: 2}

	assert.True(t, typesys.Equal(a, b))
	assert.False(t, typesys.Equal(a, c))
}

func TestEqualNominalRejectsUnassignedContainerID(t *testing.T) {
	a := &typesys.Type{Kind: typesys.KindObject}
	b := &typesys.Type{Kind: typesys.KindObject}
	assert.False(t, typesys.Equal(a, b))
}

func TestSonAndLastSonHandleEmptyAndOutOfRange(t *testing.T) {
	leaf := &typesys.Type{Kind: typesys.KindInt32}
	assert.Nil(t, leaf.Son(0))
	assert.Nil(t, leaf.LastSon())

	proc := &typesys.Type{Kind: typesys.KindProc, Sons: []*typesys.Type{
		{Kind: typesys.KindInt32}, {Kind: typesys.KindBool},
	}}
	assert.Equal(t, typesys.KindBool, proc.LastSon().Kind)
	assert.Nil(t, proc.Son(5))
}

func TestFlagsRoundTrip(t *testing.T) {
	ty := &typesys.Type{Kind: typesys.KindProc}
	assert.False(t, ty.HasFlag(typesys.FlagVarargs))
	ty.SetFlag(typesys.FlagVarargs)
	assert.True(t, ty.HasFlag(typesys.FlagVarargs))
}

func TestIsNominalDistinguishesRecordBySymbol(t *testing.T) {
	anon := &typesys.Type{Kind: typesys.KindRecord}
	assert.False(t, anon.IsNominal())

	named := &typesys.Type{Kind: typesys.KindRecord, Sym: coreid.SymID(1)}
	assert.True(t, named.IsNominal())
}
