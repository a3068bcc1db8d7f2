package trible_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/pact/internal/xhash"
	"github.com/rskv-p/pact/trible"
)

func TestConstraint_CursorSelectsMatchingPermutation(t *testing.T) {
	secret := xhash.NewSeededSecret(1)
	set := trible.NewTribleSet(secret)
	require.NoError(t, set.Add(mkTrible(1, 2, 3)))

	const (
		varE trible.Variable = iota
		varA
		varV
	)
	c := set.Constraint(varE, varA, varV)

	// With E bound first, the E-prefixed permutation must be walkable
	// starting from E's own bytes.
	cur := c.Cursor([]trible.Variable{varE})
	require.True(t, cur.Valid())

	offset := c.FieldOffset([]trible.Variable{varE}, varE)
	assert.Equal(t, 0, offset)
}

func TestConstraint_FieldOffsetsCoverWholeKey(t *testing.T) {
	secret := xhash.NewSeededSecret(2)
	set := trible.NewTribleSet(secret)

	const (
		varE trible.Variable = iota
		varA
		varV
	)
	c := set.Constraint(varE, varA, varV)

	bound := []trible.Variable{varA, varV}
	oe := c.FieldOffset(bound, varE)
	oa := c.FieldOffset(bound, varA)
	ov := c.FieldOffset(bound, varV)

	offsets := map[int]bool{oe: true, oa: true, ov: true}
	assert.Len(t, offsets, 3)
	assert.Contains(t, offsets, 0)
}
