package trible_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/pact/config"
	"github.com/rskv-p/pact/internal/xhash"
	"github.com/rskv-p/pact/trible"
)

func mkTrible(e, a, v byte) trible.Trible {
	return trible.New(fill16(e), fill16(a), fill32(v))
}

func TestTribleSet_AddAndHas(t *testing.T) {
	set := trible.NewTribleSet(xhash.NewSeededSecret(1))
	tr := mkTrible(1, 2, 3)

	require.NoError(t, set.Add(tr))
	assert.True(t, set.Has(tr))
	assert.False(t, set.Has(mkTrible(9, 9, 9)))
	assert.Equal(t, uint64(1), set.Count())
}

func TestTribleSet_AddIsIdempotent(t *testing.T) {
	set := trible.NewTribleSet(xhash.NewSeededSecret(2))
	tr := mkTrible(1, 2, 3)
	require.NoError(t, set.Add(tr))
	require.NoError(t, set.Add(tr))
	assert.Equal(t, uint64(1), set.Count())
}

func TestTribleSet_IsEqual(t *testing.T) {
	secret := xhash.NewSeededSecret(3)
	a := trible.NewTribleSet(secret)
	b := trible.NewTribleSet(secret)

	require.NoError(t, a.Add(mkTrible(1, 1, 1)))
	require.NoError(t, a.Add(mkTrible(2, 2, 2)))

	require.NoError(t, b.Add(mkTrible(2, 2, 2)))
	require.NoError(t, b.Add(mkTrible(1, 1, 1)))

	assert.True(t, a.IsEqual(b))
}

func TestUnion(t *testing.T) {
	secret := xhash.NewSeededSecret(4)
	a := trible.NewTribleSet(secret)
	b := trible.NewTribleSet(secret)

	require.NoError(t, a.Add(mkTrible(1, 1, 1)))
	require.NoError(t, b.Add(mkTrible(2, 2, 2)))

	out := trible.Union(secret, a, b)
	assert.Equal(t, uint64(2), out.Count())
	assert.True(t, out.Has(mkTrible(1, 1, 1)))
	assert.True(t, out.Has(mkTrible(2, 2, 2)))
}

func TestNewTribleSetFromConfig(t *testing.T) {
	cfg := config.DefaultStoreConfig()
	cfg.HashSecretSeed = 5

	a := trible.NewTribleSetFromConfig(cfg)
	b := trible.NewTribleSetFromConfig(cfg)

	tr := mkTrible(1, 2, 3)
	require.NoError(t, a.Add(tr))
	require.NoError(t, b.Add(tr))

	assert.True(t, a.IsEqual(b))
}
