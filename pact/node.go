// Package pact implements the Persistent Adaptive Cuckoo Trie: a 256-way
// byte-branching radix tree whose interior branch nodes use cuckoo-hashed
// buckets, whose runs of unbranching key bytes are path-compressed into
// infix nodes, and whose subtrees carry a commutative structural hash for
// O(1) equality tests.
package pact

import (
	"github.com/rs/zerolog"

	"github.com/rskv-p/pact/internal/bitset"
	"github.com/rskv-p/pact/internal/xhash"
)

// putCtx bundles the state every recursive put call needs but that never
// varies within a single Tree: the structural hash secret, the segment
// boundary layout used for selectivity accounting, and the tree's scoped
// logger for structural events like bucket growth.
type putCtx struct {
	secret   *xhash.Secret
	segments []int // cumulative boundaries, e.g. [16, 32, 64]; last == K
	log      *zerolog.Logger
}

// segmentEnd returns the exclusive upper bound of the segment containing depth.
func segmentEnd(segments []int, depth int) int {
	for _, b := range segments {
		if depth < b {
			return b
		}
	}
	return segments[len(segments)-1]
}

// node is the tagged union of the node variants: a nil node[V] represents
// an empty subtree. The concrete variants are *leafNode[V], *infixNode[V],
// and *branchNode[V] — a single variable-length bucket array stands in for
// discrete Branch(1..64) size classes, and a single infix type with one
// variable-length byte slice stands in for discrete Infix(2,3,4) size
// classes.
type node[V any] interface {
	// startDepth is the depth at which this node's key range begins; by
	// construction it always equals the branchDepth of whichever branch
	// or infix placed it here.
	startDepth() int

	// peek returns the byte this node fixes at depth, or false if the
	// node branches at depth (only branch nodes at their own branchDepth
	// do this).
	peek(depth int) (byte, bool)

	// propose resets out and fills it with the candidate byte(s) at depth.
	propose(depth int, out *bitset.Set256)

	// get returns the node to continue descending into for byte b at
	// depth, or (nil, false) if no key with that byte exists here.
	get(depth int, b byte) (node[V], bool)

	// put inserts key/val starting at depth (depth always equals
	// startDepth() on the initial call for this node) and returns the
	// resulting node, which may be the receiver unchanged, the receiver
	// mutated in place (only permitted when singleOwner is true), or a
	// freshly built replacement.
	put(depth int, key []byte, val V, ctx *putCtx, singleOwner bool) node[V]

	// hash returns the structural hash of the subtree rooted here.
	hash(secret *xhash.Secret) xhash.Hash128

	// count returns the number of distinct keys reachable from here.
	count() uint64

	// segCount is the number of distinct keys reachable from here within
	// the segment boundary layout given, used as a selectivity estimate.
	segCount(segments []int) uint64

	// owned reports whether this node currently has at most one referrer,
	// meaning it is safe to mutate in place rather than copy.
	owned() bool

	retain()
	release()
}

// prefix is the shared start/branchDepth/byte-run state common to infix
// and branch nodes.
type prefix struct {
	start       int
	branchDepth int
	bytes       []byte // len(bytes) == branchDepth-start
}

func (p prefix) startDepth() int { return p.start }

// peek returns the infix byte at depth, valid only for start <= depth < branchDepth.
func (p prefix) peek(depth int) (byte, bool) {
	if depth < p.start || depth >= p.branchDepth {
		return 0, false
	}
	return p.bytes[depth-p.start], true
}

// matchTo scans key against the infix bytes starting at depth, returning the
// first mismatching depth, or branchDepth if the whole infix matched.
func (p prefix) matchTo(depth int, key []byte) int {
	d := depth
	for d < p.branchDepth {
		if p.bytes[d-p.start] != key[d] {
			return d
		}
		d++
	}
	return d
}

func clonePrefixBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// wrapInfix wraps child in an infix node covering [start, child.startDepth())
// using bytes from key, unless child already starts exactly at start, in
// which case no wrapping is needed and child is returned unchanged. Since
// this implementation has one dynamically sized infix type rather than
// discrete size classes, there is no smallest-variant choice to make.
func wrapInfix[V any](start int, key []byte, child node[V]) node[V] {
	childStart := child.startDepth()
	if childStart == start {
		return child
	}
	return &infixNode[V]{
		refCount: 1,
		prefix: prefix{
			start:       start,
			branchDepth: childStart,
			bytes:       clonePrefixBytes(key[start:childStart]),
		},
		child: child,
	}
}

// relocatedBytes computes the byte run a node covering [newStart, p.branchDepth)
// should carry, given it previously covered [p.start, p.branchDepth) with
// p.bytes. Two directions occur in practice: newStart < p.start grows the
// run backward, borrowing the newly covered head bytes from key (this is
// wrapInfix's own direction, used when a node is lowered to start earlier
// than it used to); newStart > p.start shrinks the run forward, dropping
// the bytes now consumed by whatever now sits above it, keeping only
// p.bytes' surviving tail. newStart == p.start needs no byte computation at
// all and is short-circuited by relocate's callers.
func relocatedBytes(p prefix, newStart int, key []byte) []byte {
	if newStart < p.start {
		return append(clonePrefixBytes(key[newStart:p.start]), p.bytes...)
	}
	return clonePrefixBytes(p.bytes[newStart-p.start:])
}

// relocate re-anchors n so it logically starts at newStart; leaves need no
// relocation since they already store their own tail directly regardless of
// start. Both call sites (infixNode.put and branchNode.put, on a prefix
// mismatch) invoke this with newStart at or after n's own start — the
// mismatch depth can never precede the node it was found in — so
// relocatedBytes' shrink-forward direction is the one exercised in
// practice, but the grow-backward direction is kept correct too since
// relocate's contract does not otherwise constrain newStart.
//
// extraOwner must be true when the caller knows n itself remains reachable
// from elsewhere (singleOwner was false) — in that case, reusing n as-is
// (the no-relocation-needed short-circuit) creates one more live reference
// to it, which must be retained. Building a genuinely new wrapper always
// retains the shared child regardless of extraOwner, since the new wrapper
// is an additional referrer to that child whether or not the old wrapper
// also survives.
func relocate[V any](n node[V], newStart int, key []byte, extraOwner bool) node[V] {
	switch t := n.(type) {
	case *leafNode[V]:
		return t
	case *infixNode[V]:
		if t.start == newStart {
			if extraOwner {
				t.retain()
			}
			return t
		}
		t.child.retain()
		return &infixNode[V]{
			refCount: 1,
			prefix: prefix{
				start:       newStart,
				branchDepth: t.branchDepth,
				bytes:       relocatedBytes(t.prefix, newStart, key),
			},
			child: t.child,
		}
	case *branchNode[V]:
		if t.start == newStart {
			if extraOwner {
				t.retain()
			}
			return t
		}
		nb := &branchNode[V]{
			refCount: 1,
			prefix: prefix{
				start:       newStart,
				branchDepth: t.branchDepth,
				bytes:       relocatedBytes(t.prefix, newStart, key),
			},
			nodeHash:     t.nodeHash,
			leafCnt:      t.leafCnt,
			childSet:     t.childSet,
			randHashUsed: t.randHashUsed,
			buckets:      cloneBuckets(t.buckets),
		}
		retainAllChildren(nb.buckets)
		return nb
	default:
		panic("pact: relocate: unknown node type")
	}
}
