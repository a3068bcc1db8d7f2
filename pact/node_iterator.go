package pact

// nodeIterFrame is one node still pending in a NodeIterator's descent. For a
// branch node, bucketIdx/slotIdx mark the next occupied slot to resume from
// on a later call to Next, so the walk never needs to revisit a bucket it
// has already scanned.
type nodeIterFrame[V any] struct {
	n         node[V]
	bucketIdx int
	slotIdx   int
}

// NodeIterator enumerates every leaf reachable from a Tree, one at a time,
// via an explicit stack of pending nodes rather than recursion — so a
// caller pulling one leaf per Next call never grows the Go call stack with
// the size of the tree.
type NodeIterator[V any] struct {
	stack []nodeIterFrame[V]
	key   []byte
	val   V
}

func newNodeIterator[V any](root node[V]) *NodeIterator[V] {
	it := &NodeIterator[V]{}
	if root != nil {
		it.stack = append(it.stack, nodeIterFrame[V]{n: root})
	}
	return it
}

// Next advances to the next leaf in the tree's internal layout order (not
// lexicographic), returning false once every leaf has been visited.
func (it *NodeIterator[V]) Next() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		switch n := top.n.(type) {
		case *leafNode[V]:
			it.stack = it.stack[:len(it.stack)-1]
			it.key = n.key
			it.val = n.value
			return true

		case *infixNode[V]:
			it.stack = it.stack[:len(it.stack)-1]
			it.stack = append(it.stack, nodeIterFrame[V]{n: n.child})

		case *branchNode[V]:
			child, found := nextBranchChild(n, &top.bucketIdx, &top.slotIdx)
			if !found {
				it.stack = it.stack[:len(it.stack)-1]
				continue
			}
			it.stack = append(it.stack, nodeIterFrame[V]{n: child})

		default:
			it.stack = it.stack[:len(it.stack)-1]
		}
	}
	return false
}

// nextBranchChild scans forward from (*bucketIdx, *slotIdx) for the next
// occupied slot in br, advancing the two indices past whatever it finds so
// a later call resumes right after it. Outdated duplicates left behind by
// growBranch (slots whose key's home bucket is elsewhere) are skipped.
func nextBranchChild[V any](br *branchNode[V], bucketIdx, slotIdx *int) (node[V], bool) {
	for *bucketIdx < len(br.buckets) {
		bkt := &br.buckets[*bucketIdx]
		for *slotIdx < len(bkt.slots) {
			s := &bkt.slots[*slotIdx]
			*slotIdx++
			if s.occupied && bucketIndex(s.key, br.randHashUsed.IsSet(s.key), len(br.buckets)) == *bucketIdx {
				return s.child, true
			}
		}
		*bucketIdx++
		*slotIdx = 0
	}
	return nil, false
}

// KeyPrefix returns the full key of the leaf Next most recently advanced
// to. Despite the name (kept for parity with the byte-at-a-time Cursor
// vocabulary elsewhere in this package), a leaf's key_prefix and its full
// key are the same slice: a leaf is only ever reached once every byte of
// its key has matched.
func (it *NodeIterator[V]) KeyPrefix() []byte { return it.key }

// Value returns the value of the leaf Next most recently advanced to.
func (it *NodeIterator[V]) Value() V { return it.val }

// Nodes returns an iterator over every leaf stored in the tree. Order is
// unspecified, matching Each; use it when a caller wants pull-based
// iteration instead of a visit callback.
func (t *Tree[V]) Nodes() *NodeIterator[V] { return newNodeIterator[V](t.root) }
