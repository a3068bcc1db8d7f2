package pact

import (
	"sync/atomic"

	"github.com/rskv-p/pact/internal/bitset"
	"github.com/rskv-p/pact/internal/xhash"
)

const maxCuckooRetries = 32

// branchNode is a 256-way fan-out point realized as a growable array of
// four-slot cuckoo buckets, one array slot per byte value currently
// present; a single dynamically sized bucket slice stands in for discrete
// Branch(1..64) size classes.
type branchNode[V any] struct {
	refCount int32
	prefix

	nodeHash xhash.Hash128 // xhash.Combine of every child's hash, maintained incrementally
	leafCnt  uint64

	childSet     bitset.Set256 // which byte values have a child
	randHashUsed bitset.Set256 // per byte value: false = H0, true = H1
	buckets      []bucket[V]
}

func newBranch1[V any](start, branchDepth int, infixBytes []byte) *branchNode[V] {
	return &branchNode[V]{
		refCount: 1,
		prefix: prefix{
			start:       start,
			branchDepth: branchDepth,
			bytes:       clonePrefixBytes(infixBytes),
		},
		buckets: make([]bucket[V], 1),
	}
}

func (n *branchNode[V]) peek(depth int) (byte, bool) { return n.prefix.peek(depth) }

func (n *branchNode[V]) propose(depth int, out *bitset.Set256) {
	if b, ok := n.prefix.peek(depth); ok {
		*out = bitset.Set256{}
		out.Set(b)
		return
	}
	*out = n.childSet
}

// bucketChild locates the current slot holding byte key k, per invariant
// P11: k is always found in bucket bucketIndex(k, randHashUsed[k]).
func (n *branchNode[V]) bucketChild(k byte) (child node[V], bucketIdx, slotIdx int) {
	b := len(n.buckets)
	idx := bucketIndex(k, n.randHashUsed.IsSet(k), b)
	for i := range n.buckets[idx].slots {
		s := &n.buckets[idx].slots[i]
		if s.occupied && s.key == k {
			return s.child, idx, i
		}
	}
	return nil, -1, -1
}

func (n *branchNode[V]) get(depth int, b byte) (node[V], bool) {
	if depth < n.branchDepth {
		pb := n.bytes[depth-n.start]
		if pb != b {
			return nil, false
		}
		if depth+1 == n.branchDepth {
			return n, true
		}
		return n, true
	}
	if !n.childSet.IsSet(b) {
		return nil, false
	}
	child, _, _ := n.bucketChild(b)
	return child, true
}

func (n *branchNode[V]) put(depth int, key []byte, val V, ctx *putCtx, singleOwner bool) node[V] {
	d := n.matchTo(depth, key)
	if d < n.branchDepth {
		newLf := newLeaf[V](d, key, val)
		existing := relocate[V](n, d, key, !singleOwner)
		br := newBranch1[V](depth, d, key[depth:d])
		insertChild[V](br, ctx, newLf)
		insertChild[V](br, ctx, existing)
		return br
	}

	k := key[n.branchDepth]

	if n.childSet.IsSet(k) {
		oldChild, bIdx, sIdx := n.bucketChild(k)
		// As in infixNode.put: a child may be mutated in place only when
		// this branch is itself singly owned.
		childSingle := singleOwner && oldChild.owned()
		newChild := oldChild.put(n.branchDepth, key, val, ctx, childSingle)
		if newChild == oldChild {
			return n
		}

		var self *branchNode[V]
		if singleOwner {
			self = n
		} else {
			self = cloneBranchHeader(n)
		}
		self.nodeHash = xhash.Combine(xhash.Combine(self.nodeHash, oldChild.hash(ctx.secret)), newChild.hash(ctx.secret))
		self.leafCnt = self.leafCnt - oldChild.count() + newChild.count()
		// self's reference to oldChild (its own if singleOwner, or the one
		// cloneBranchHeader just retained otherwise) is being replaced.
		oldChild.release()
		self.buckets[bIdx].slots[sIdx].child = newChild
		return self
	}

	var self *branchNode[V]
	if singleOwner {
		self = n
	} else {
		self = cloneBranchHeader(n)
	}
	newLf := wrapInfix[V](self.branchDepth, key, newLeaf[V](self.branchDepth, key, val))
	insertChild[V](self, ctx, newLf)
	return self
}

func (n *branchNode[V]) hash(_ *xhash.Secret) xhash.Hash128 { return n.nodeHash }

func (n *branchNode[V]) count() uint64 { return n.leafCnt }

func (n *branchNode[V]) segCount(segments []int) uint64 {
	end := segmentEnd(segments, n.branchDepth)
	if n.branchDepth+1 >= end {
		return uint64(n.childSet.Count())
	}
	var total uint64
	for i := range n.buckets {
		for j := range n.buckets[i].slots {
			s := &n.buckets[i].slots[j]
			if s.occupied && bucketIndex(s.key, n.randHashUsed.IsSet(s.key), len(n.buckets)) == i {
				total += s.child.segCount(segments)
			}
		}
	}
	return total
}

func (n *branchNode[V]) owned() bool { return atomic.LoadInt32(&n.refCount) <= 1 }

func (n *branchNode[V]) retain() { atomic.AddInt32(&n.refCount, 1) }

func (n *branchNode[V]) release() {
	if atomic.AddInt32(&n.refCount, -1) == 0 {
		for i := range n.buckets {
			for j := range n.buckets[i].slots {
				s := &n.buckets[i].slots[j]
				if s.occupied {
					s.child.release()
				}
			}
		}
	}
}

// cloneBranchHeader makes an independent copy of t suitable for in-place
// bucket mutation, retaining every child it now shares (Rule C: a new
// referrer to a reused child must retain it).
func cloneBranchHeader[V any](t *branchNode[V]) *branchNode[V] {
	nb := &branchNode[V]{
		refCount:     1,
		prefix:       t.prefix,
		nodeHash:     t.nodeHash,
		leafCnt:      t.leafCnt,
		childSet:     t.childSet,
		randHashUsed: t.randHashUsed,
		buckets:      cloneBuckets(t.buckets),
	}
	retainAllChildren(nb.buckets)
	return nb
}

func cloneBuckets[V any](bs []bucket[V]) []bucket[V] {
	out := make([]bucket[V], len(bs))
	copy(out, bs)
	return out
}

func retainAllChildren[V any](bs []bucket[V]) {
	for i := range bs {
		for j := range bs[i].slots {
			if bs[i].slots[j].occupied {
				bs[i].slots[j].child.retain()
			}
		}
	}
}

// insertChild adds a brand-new child to br, accounting for it exactly once
// in the branch's incremental hash and leaf count, then placing it into the
// cuckoo buckets (which may grow the bucket array as a side effect).
func insertChild[V any](br *branchNode[V], ctx *putCtx, child node[V]) {
	k, ok := child.peek(br.branchDepth)
	if !ok {
		panic("pact: insertChild: child does not start at branch depth")
	}
	br.childSet.Set(k)
	br.nodeHash = xhash.Combine(br.nodeHash, child.hash(ctx.secret))
	br.leafCnt += child.count()
	placeInBucket(br, ctx, k, child, false)
}

// placeInBucket runs the cuckoo displacement protocol: try the current
// entry's home bucket, and on failure either evict an outdated slot, evict
// a pseudo-randomly chosen slot and continue with the displaced entry, or
// grow the bucket array and retry.
func placeInBucket[V any](br *branchNode[V], ctx *putCtx, key byte, child node[V], startH1 bool) {
	displacedKey := key
	displacedChild := child
	useH1 := startH1

	for attempt := 0; attempt < maxCuckooRetries; attempt++ {
		b := len(br.buckets)
		br.randHashUsed.SetValue(displacedKey, useH1)
		idx := bucketIndex(displacedKey, useH1, b)

		if bucketPut(&br.buckets[idx], &br.randHashUsed, b, idx, displacedKey, displacedChild) {
			return
		}

		switch {
		case b == 1:
			logGrowth(ctx, br, b)
			growBranch(br)
			placeInBucket(br, ctx, displacedKey, displacedChild, false)
			return

		case b == maxBucketCount:
			bkt := &br.buckets[idx]
			evicted := -1
			for i := range bkt.slots {
				if bkt.slots[i].occupied && br.randHashUsed.IsSet(bkt.slots[i].key) {
					evicted = i
					break
				}
			}
			if evicted < 0 {
				panic("pact: cuckoo eviction exhausted at maximum bucket count")
			}
			evKey, evChild := bkt.slots[evicted].key, bkt.slots[evicted].child
			bkt.slots[evicted] = bucketSlot[V]{key: displacedKey, occupied: true, child: displacedChild}
			displacedKey, displacedChild, useH1 = evKey, evChild, false

		default:
			bkt := &br.buckets[idx]
			pr := int(nextDisplacementByte()) % len(bkt.slots)
			evKey, evChild := bkt.slots[pr].key, bkt.slots[pr].child
			wasH1 := br.randHashUsed.IsSet(evKey)
			bkt.slots[pr] = bucketSlot[V]{key: displacedKey, occupied: true, child: displacedChild}
			displacedKey, displacedChild, useH1 = evKey, evChild, !wasH1
		}
	}

	logGrowth(ctx, br, len(br.buckets))
	growBranch(br)
	placeInBucket(br, ctx, displacedKey, displacedChild, false)
}

// logGrowth reports a bucket-array growth event at debug level; growth is
// rare enough after the first few insertions that it is worth surfacing,
// unlike per-key put logging which would be far too chatty.
func logGrowth[V any](ctx *putCtx, br *branchNode[V], fromBucketCount int) {
	if ctx.log == nil {
		return
	}
	ctx.log.Debug().
		Int("branch_depth", br.branchDepth).
		Int("from_buckets", fromBucketCount).
		Int("to_buckets", fromBucketCount*2).
		Msg("growing cuckoo bucket array")
}

// growBranch doubles the bucket array by duplication: every existing bucket
// is copied into both halves of the new array, so no key needs to move
// immediately. A key's slot becomes "outdated" only once its hash choice
// resolves to the other half, at which point bucketPut's third step
// reclaims it lazily.
func growBranch[V any](br *branchNode[V]) {
	oldB := len(br.buckets)
	newBuckets := make([]bucket[V], oldB*2)
	copy(newBuckets[:oldB], br.buckets)
	copy(newBuckets[oldB:], br.buckets)
	br.buckets = newBuckets
}
