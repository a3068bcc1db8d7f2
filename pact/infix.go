package pact

import (
	"sync/atomic"

	"github.com/rskv-p/pact/internal/bitset"
	"github.com/rskv-p/pact/internal/xhash"
)

// infixNode path-compresses a run of key bytes shared by every descendant,
// terminating at branchDepth and delegating everything past it to a single
// child, realized here with a single dynamically sized byte slice rather
// than discrete size classes.
type infixNode[V any] struct {
	refCount int32
	prefix
	child node[V]
}

func (n *infixNode[V]) peek(depth int) (byte, bool) { return n.prefix.peek(depth) }

func (n *infixNode[V]) propose(depth int, out *bitset.Set256) {
	*out = bitset.Set256{}
	if b, ok := n.prefix.peek(depth); ok {
		out.Set(b)
		return
	}
	if depth == n.branchDepth {
		n.child.propose(depth, out)
	}
}

func (n *infixNode[V]) get(depth int, b byte) (node[V], bool) {
	if depth < n.branchDepth {
		pb := n.bytes[depth-n.start]
		if pb != b {
			return nil, false
		}
		if depth+1 == n.branchDepth {
			return n.child, true
		}
		return n, true
	}
	return n.child.get(depth, b)
}

func (n *infixNode[V]) put(depth int, key []byte, val V, ctx *putCtx, singleOwner bool) node[V] {
	d := n.matchTo(depth, key)
	if d == n.branchDepth {
		// A child may only be mutated in place if this node is itself
		// singly owned: otherwise a second referrer to n would see the
		// mutation through the child it still shares.
		childSingle := singleOwner && n.child.owned()
		newChild := n.child.put(d, key, val, ctx, childSingle)
		if newChild == n.child {
			return n
		}
		if singleOwner {
			n.child.release()
			n.child = newChild
			return n
		}
		return &infixNode[V]{refCount: 1, prefix: n.prefix, child: newChild}
	}

	// Mismatch inside our own infix bytes at depth d: split here.
	newLf := newLeaf[V](d, key, val)
	existing := relocate[V](n, d, key, !singleOwner)
	br := newBranch1[V](depth, d, key[depth:d])
	insertChild[V](br, ctx, newLf)
	insertChild[V](br, ctx, existing)
	return br
}

func (n *infixNode[V]) hash(secret *xhash.Secret) xhash.Hash128 { return n.child.hash(secret) }

func (n *infixNode[V]) count() uint64 { return n.child.count() }

func (n *infixNode[V]) segCount(segments []int) uint64 { return n.child.segCount(segments) }

func (n *infixNode[V]) owned() bool { return atomic.LoadInt32(&n.refCount) <= 1 }

func (n *infixNode[V]) retain() { atomic.AddInt32(&n.refCount, 1) }
func (n *infixNode[V]) release() {
	if atomic.AddInt32(&n.refCount, -1) == 0 {
		n.child.release()
	}
}
