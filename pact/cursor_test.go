package pact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/pact/internal/bitset"
	"github.com/rskv-p/pact/internal/xhash"
	"github.com/rskv-p/pact/pact"
)

func TestCursor_WalksExactKey(t *testing.T) {
	secret := xhash.NewSeededSecret(1)
	tr := pact.New[int](4, secret, nil)
	require.NoError(t, tr.Put([]byte{1, 2, 3, 4}, 99))
	require.NoError(t, tr.Put([]byte{1, 2, 9, 9}, 100))

	c := tr.Cursor()
	require.True(t, c.Valid())

	var out bitset.Set256
	c.Propose(&out)
	assert.True(t, out.IsSet(1))
	assert.True(t, c.Push(1))

	c.Propose(&out)
	assert.True(t, out.IsSet(2))
	assert.True(t, c.Push(2))

	c.Propose(&out)
	assert.True(t, out.IsSet(3))
	assert.True(t, out.IsSet(9))

	assert.True(t, c.Push(3))
	c.Propose(&out)
	assert.True(t, out.IsSet(4))
	assert.True(t, c.Push(4))

	v, ok := c.Value()
	require.True(t, ok)
	assert.Equal(t, 99, v)

	assert.False(t, c.Push(5))
}

func TestCursor_PopBacktracks(t *testing.T) {
	secret := xhash.NewSeededSecret(2)
	tr := pact.New[int](2, secret, nil)
	require.NoError(t, tr.Put([]byte{1, 1}, 1))
	require.NoError(t, tr.Put([]byte{2, 2}, 2))

	c := tr.Cursor()
	require.True(t, c.Push(1))
	require.True(t, c.Push(1))
	_, ok := c.Value()
	require.True(t, ok)

	c.Pop()
	c.Pop()
	require.True(t, c.Push(2))
	require.True(t, c.Push(2))
	v, ok := c.Value()
	require.True(t, ok)
	assert.Equal(t, 2, v)
}
