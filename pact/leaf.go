package pact

import (
	"sync/atomic"

	"github.com/rskv-p/pact/internal/bitset"
	"github.com/rskv-p/pact/internal/xhash"
)

// leafNode stores one full key and its value. It keeps the entire key
// rather than only its tail from start: leaf_hash is defined over the full
// reconstructed key, and keeping the whole key on hand avoids having to
// thread ancestor prefix bytes back down for hashing, at the cost of a few
// extra bytes per leaf (bounded by K, which is small and fixed).
type leafNode[V any] struct {
	refCount int32
	start    int
	key      []byte
	value    V
	hashed   *xhash.Hash128 // memoized on first hash() call
}

func newLeaf[V any](start int, key []byte, val V) *leafNode[V] {
	return &leafNode[V]{
		refCount: 1,
		start:    start,
		key:      clonePrefixBytes(key),
		value:    val,
	}
}

func (n *leafNode[V]) startDepth() int { return n.start }

func (n *leafNode[V]) peek(depth int) (byte, bool) {
	if depth < n.start || depth >= len(n.key) {
		return 0, false
	}
	return n.key[depth], true
}

func (n *leafNode[V]) propose(depth int, out *bitset.Set256) {
	*out = bitset.Set256{}
	if b, ok := n.peek(depth); ok {
		out.Set(b)
	}
}

func (n *leafNode[V]) get(depth int, b byte) (node[V], bool) {
	pb, ok := n.peek(depth)
	if !ok || pb != b {
		return nil, false
	}
	return n, true
}

func (n *leafNode[V]) put(depth int, key []byte, val V, ctx *putCtx, singleOwner bool) node[V] {
	k := len(key)
	m := depth
	for m < k && n.key[m] == key[m] {
		m++
	}
	if m == k {
		// Same key re-inserted: update the value only. The structural hash
		// is keyed on the key alone, so it never needs recomputing here.
		if singleOwner {
			n.value = val
			return n
		}
		return newLeaf[V](n.start, key, val)
	}

	newLf := newLeaf[V](m, key, val)
	existingLf := &leafNode[V]{refCount: 1, start: m, key: n.key, value: n.value}

	br := newBranch1[V](depth, m, key[depth:m])
	insertChild[V](br, ctx, newLf)
	insertChild[V](br, ctx, existingLf)
	return br
}

func (n *leafNode[V]) hash(secret *xhash.Secret) xhash.Hash128 {
	if n.hashed != nil {
		return *n.hashed
	}
	h := secret.LeafHash(n.key)
	n.hashed = &h
	return h
}

func (n *leafNode[V]) count() uint64 { return 1 }

func (n *leafNode[V]) segCount(_ []int) uint64 { return 1 }

func (n *leafNode[V]) owned() bool { return atomic.LoadInt32(&n.refCount) <= 1 }

func (n *leafNode[V]) retain() { atomic.AddInt32(&n.refCount, 1) }
func (n *leafNode[V]) release() {
	atomic.AddInt32(&n.refCount, -1)
}
