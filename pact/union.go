package pact

import "github.com/rskv-p/pact/internal/xhash"

// InitUnion builds a new Tree holding every key present in any of trees.
// Two structurally identical inputs collapse to a single walk via the
// hash fast path; the general case enumerates and re-inserts, which is a
// deliberate simplification of a node-level structural merge (see
// DESIGN.md).
func InitUnion[V any](trees ...*Tree[V]) *Tree[V] {
	base := firstNonNil(trees)
	if base == nil {
		return nil
	}
	out := New[V](base.keyLen, base.secret, base.segments)
	if isIdenticalSet(trees) {
		trees = trees[:1]
	}
	for _, t := range trees {
		if t == nil || t.root == nil {
			continue
		}
		walkKeys(t.root, func(key []byte, val V) {
			out.Put(key, val)
		})
	}
	return out
}

func firstNonNil[V any](trees []*Tree[V]) *Tree[V] {
	for _, t := range trees {
		if t != nil {
			return t
		}
	}
	return nil
}

// isIdenticalSet reports whether every tree in trees has the same
// structural hash, letting callers skip enumeration entirely.
func isIdenticalSet[V any](trees []*Tree[V]) bool {
	if len(trees) == 0 || trees[0] == nil {
		return false
	}
	h0 := trees[0].Hash()
	for _, t := range trees[1:] {
		if t == nil || !xhash.Equal(t.Hash(), h0) {
			return false
		}
	}
	return true
}
