package coreid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oxhq/noctua/internal/coreid"
)

func TestNoIDsAreInvalid(t *testing.T) {
	assert.False(t, coreid.NoNode.Valid())
	assert.False(t, coreid.NoType.Valid())
	assert.False(t, coreid.NoSym.Valid())
}

func TestNonZeroIDsAreValid(t *testing.T) {
	assert.True(t, coreid.NodeID(1).Valid())
	assert.True(t, coreid.TypeID(1).Valid())
	assert.True(t, coreid.SymID(1).Valid())
}
