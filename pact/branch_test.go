package pact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/pact/internal/xhash"
)

func TestGrowBranch_DuplicatesBuckets(t *testing.T) {
	br := newBranch1[int](0, 1, nil)
	br.buckets[0].slots[0] = bucketSlot[int]{key: 3, occupied: true, child: newLeaf[int](1, []byte{3, 0}, 3)}

	growBranch(br)

	require.Len(t, br.buckets, 2)
	assert.Equal(t, br.buckets[0], br.buckets[1])
}

func TestInsertChild_ManyKeysAllRetrievable(t *testing.T) {
	secret := xhash.NewSeededSecret(20)
	ctx := &putCtx{secret: secret, segments: []int{2}}
	br := newBranch1[int](0, 1, nil)

	for i := 0; i < 200; i++ {
		k := byte(i % 251)
		if br.childSet.IsSet(k) {
			continue
		}
		lf := newLeaf[int](1, []byte{k, byte(i)}, i)
		insertChild[int](br, ctx, lf)
	}

	for i := 0; i < 251; i++ {
		k := byte(i)
		if !br.childSet.IsSet(k) {
			continue
		}
		child, bIdx, sIdx := br.bucketChild(k)
		require.NotNil(t, child)
		require.GreaterOrEqual(t, bIdx, 0)
		require.GreaterOrEqual(t, sIdx, 0)
		lf, ok := child.(*leafNode[int])
		require.True(t, ok)
		assert.Equal(t, k, lf.key[0])
	}
}

func TestBranchPut_DispatchesToExistingChild(t *testing.T) {
	secret := xhash.NewSeededSecret(21)
	ctx := &putCtx{secret: secret, segments: []int{4}}

	key1 := []byte{10, 1, 1, 1}
	key2 := []byte{10, 2, 2, 2}

	lf1 := newLeaf[int](0, key1, 1)
	n := lf1.put(0, key2, 2, ctx, true)

	br, ok := n.(*branchNode[int])
	require.True(t, ok)

	updated := br.put(0, key1, 100, ctx, true)
	assert.Same(t, br, updated)

	v1, ok := func() (int, bool) {
		child, ok := updated.get(1, key1[1])
		if !ok {
			return 0, false
		}
		lf, ok := child.(*leafNode[int])
		if !ok {
			return 0, false
		}
		return lf.value, true
	}()
	require.True(t, ok)
	assert.Equal(t, 100, v1)
}

func TestBranchPut_NotSingleOwnerClonesInsteadOfMutating(t *testing.T) {
	secret := xhash.NewSeededSecret(22)
	ctx := &putCtx{secret: secret, segments: []int{4}}

	key1 := []byte{10, 1, 1, 1}
	key2 := []byte{10, 2, 2, 2}

	lf1 := newLeaf[int](0, key1, 1)
	n := lf1.put(0, key2, 2, ctx, true)
	br := n.(*branchNode[int])
	br.retain() // simulate a second referrer

	updated := br.put(0, key1, 999, ctx, false)
	assert.NotSame(t, br, updated)

	// The original branch must remain unaffected by the clone's mutation.
	origChild, ok := br.get(1, key1[1])
	require.True(t, ok)
	origLf := origChild.(*leafNode[int])
	assert.Equal(t, 1, origLf.value)
}
