package bitset_test

import (
	"testing"

	"github.com/rskv-p/pact/internal/bitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUnsetIsSet(t *testing.T) {
	var s bitset.Set256
	assert.True(t, s.IsEmpty())

	s.Set(0)
	s.Set(255)
	s.Set(128)
	assert.True(t, s.IsSet(0))
	assert.True(t, s.IsSet(255))
	assert.True(t, s.IsSet(128))
	assert.False(t, s.IsSet(1))
	assert.Equal(t, 3, s.Count())

	s.Unset(128)
	assert.False(t, s.IsSet(128))
	assert.Equal(t, 2, s.Count())
}

func TestSetValue(t *testing.T) {
	var s bitset.Set256
	s.SetValue(10, true)
	assert.True(t, s.IsSet(10))
	s.SetValue(10, false)
	assert.False(t, s.IsSet(10))
}

func TestIntersectUnionSubtract(t *testing.T) {
	var a, b bitset.Set256
	a.Set(1)
	a.Set(2)
	a.Set(3)
	b.Set(2)
	b.Set(3)
	b.Set(4)

	inter := a.Intersect(b)
	assert.Equal(t, 2, inter.Count())
	assert.True(t, inter.IsSet(2))
	assert.True(t, inter.IsSet(3))

	union := a.Union(b)
	assert.Equal(t, 4, union.Count())

	sub := a.Subtract(b)
	assert.Equal(t, 1, sub.Count())
	assert.True(t, sub.IsSet(1))
}

func TestFindFirstLastSet(t *testing.T) {
	var s bitset.Set256
	_, ok := s.FindFirstSet()
	assert.False(t, ok)

	s.Set(200)
	s.Set(5)
	s.Set(64)

	first, ok := s.FindFirstSet()
	require.True(t, ok)
	assert.Equal(t, byte(5), first)

	last, ok := s.FindLastSet()
	require.True(t, ok)
	assert.Equal(t, byte(200), last)
}

func TestDrainAscendingDescending(t *testing.T) {
	var s bitset.Set256
	for _, k := range []byte{10, 200, 5, 128, 0, 255} {
		s.Set(k)
	}

	var ascending []byte
	for {
		k, ok := s.DrainAscending()
		if !ok {
			break
		}
		ascending = append(ascending, k)
	}
	assert.Equal(t, []byte{0, 5, 10, 128, 200, 255}, ascending)
	assert.True(t, s.IsEmpty())

	for _, k := range []byte{10, 200, 5} {
		s.Set(k)
	}
	var descending []byte
	for {
		k, ok := s.DrainDescending()
		if !ok {
			break
		}
		descending = append(descending, k)
	}
	assert.Equal(t, []byte{200, 10, 5}, descending)
}

func TestDrainDoesNotMutateOriginalCopy(t *testing.T) {
	var s bitset.Set256
	s.Set(1)
	s.Set(2)

	copyOfS := s
	copyOfS.DrainAscending()

	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 1, copyOfS.Count())
}
