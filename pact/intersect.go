package pact

// InitIntersection builds a new Tree holding only the keys present in every
// one of trees. When all inputs share a structural hash, the first is
// returned directly (an intersection of identical sets is itself) without
// walking anything — an O(1) fast path for equal subtrees. Otherwise it
// enumerates the smallest input and probes the rest, which is
// a simplified stand-in for a true worst-case-optimal multi-way join over
// cursors (see package trible for that algorithm applied to Tribles).
func InitIntersection[V any](trees ...*Tree[V]) *Tree[V] {
	base := firstNonNil(trees)
	if base == nil {
		return nil
	}
	if isIdenticalSet(trees) {
		return trees[0]
	}

	smallest := base
	for _, t := range trees {
		if t != nil && t.Count() < smallest.Count() {
			smallest = t
		}
	}

	out := New[V](base.keyLen, base.secret, base.segments)
	if smallest.root == nil {
		return out
	}
	walkKeys(smallest.root, func(key []byte, val V) {
		for _, t := range trees {
			if t == smallest {
				continue
			}
			if t == nil || t.root == nil {
				return
			}
			if _, ok := t.Get(key); !ok {
				return
			}
		}
		out.Put(key, val)
	})
	return out
}
