package ident_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/noctua/internal/ident"
)

func TestInternDeterminism(t *testing.T) {
	p := ident.New()

	a1 := p.Intern("foo")
	a2 := p.Intern("foo")
	b := p.Intern("bar")

	require.True(t, a1.Equal(a2), "interning the same bytes twice must yield equal identifiers")
	assert.Equal(t, a1.ID(), a2.ID())
	assert.False(t, a1.Equal(b), "different bytes must not compare equal")
	assert.NotEqual(t, a1.ID(), b.ID())
}

func TestInternMonotonicIDs(t *testing.T) {
	p := ident.New()
	seen := map[int]bool{}
	for _, s := range []string{"a", "b", "c", "a", "d"} {
		id := p.Intern(s)
		seen[id.ID()] = true
	}
	assert.Len(t, seen, 4, "distinct bytes get distinct ids, repeats are deduped")
}

func TestLookupDoesNotIntern(t *testing.T) {
	p := ident.New()
	_, ok := p.Lookup("never-interned")
	assert.False(t, ok)
	assert.Equal(t, 0, p.Len())

	p.Intern("x")
	id, ok := p.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "x", id.String())
}

func TestHashStability(t *testing.T) {
	p := ident.New()
	id1 := p.Intern("hash-me")
	id2 := p.Intern("hash-me")
	assert.Equal(t, id1.Hash(), id2.Hash())
}
