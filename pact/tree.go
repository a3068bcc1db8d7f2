package pact

import (
	"github.com/rs/zerolog"

	"github.com/rskv-p/pact/internal/xhash"
	"github.com/rskv-p/pact/pkg/x_log"
)

// Tree is a PACT over fixed-width keys. Put updates the tree in place,
// replacing its root when the root node changes. Internal nodes are
// reference-counted, and put copies a node instead of mutating it when
// that node has more than one referrer.
type Tree[V any] struct {
	root     node[V]
	keyLen   int
	secret   *xhash.Secret
	segments []int
	log      zerolog.Logger
}

// New creates an empty Tree over keys of exactly keyLen bytes. secret fixes
// the structural hash's keyed digest — two Trees built with different
// secrets are never comparable by hash, which keeps an adversary who
// doesn't know the secret from crafting keys to force hash collisions.
// segmentSizes gives the cumulative byte boundaries used
// by segment-selectivity accounting; a nil slice defaults to treating the
// whole key as one segment.
func New[V any](keyLen int, secret *xhash.Secret, segmentSizes []int) *Tree[V] {
	segs := segmentSizes
	if len(segs) == 0 {
		segs = []int{keyLen}
	}
	return &Tree[V]{
		keyLen:   keyLen,
		secret:   secret,
		segments: segs,
		log:      x_log.New("pact"),
	}
}

// KeyLen returns the fixed key width this tree was created with.
func (t *Tree[V]) KeyLen() int { return t.keyLen }

// Put inserts or overwrites key with val, returning ErrKeyLengthMismatch if
// key is not exactly KeyLen() bytes.
func (t *Tree[V]) Put(key []byte, val V) error {
	if len(key) != t.keyLen {
		return ErrKeyLengthMismatch
	}
	if t.root == nil {
		t.root = newLeaf[V](0, key, val)
		return nil
	}

	ctx := &putCtx{secret: t.secret, segments: t.segments, log: &t.log}
	singleOwner := t.root.owned()
	newRoot := t.root.put(0, key, val, ctx, singleOwner)
	if newRoot != t.root {
		t.root.release()
		t.root = newRoot
	}
	return nil
}

// Get returns the value stored under key, if any.
func (t *Tree[V]) Get(key []byte) (V, bool) {
	var zero V
	if t.root == nil || len(key) != t.keyLen {
		return zero, false
	}
	n := t.root
	depth := n.startDepth()
	for {
		if lf, ok := n.(*leafNode[V]); ok {
			if depth == len(lf.key) {
				return lf.value, true
			}
			return zero, false
		}
		if depth >= t.keyLen {
			return zero, false
		}
		next, ok := n.get(depth, key[depth])
		if !ok {
			return zero, false
		}
		n = next
		depth++
	}
}

// Count returns the number of distinct keys stored.
func (t *Tree[V]) Count() uint64 {
	if t.root == nil {
		return 0
	}
	return t.root.count()
}

// IsEmpty reports whether the tree holds no keys.
func (t *Tree[V]) IsEmpty() bool { return t.root == nil }

// Hash returns the tree's commutative structural hash, unaffected by
// insertion order.
func (t *Tree[V]) Hash() xhash.Hash128 {
	if t.root == nil {
		return xhash.Hash128{}
	}
	return t.root.hash(t.secret)
}

// IsEqual reports whether t and other hold exactly the same set of keys, in
// O(1) via structural hash comparison rather than by walking either tree.
func (t *Tree[V]) IsEqual(other *Tree[V]) bool {
	if t == nil || other == nil {
		return t == other
	}
	return xhash.Equal(t.Hash(), other.Hash())
}

// IsSubsetOf reports whether every key in t is also present in other.
func (t *Tree[V]) IsSubsetOf(other *Tree[V]) bool {
	if t == nil || t.root == nil {
		return true
	}
	if other == nil || other.root == nil {
		return false
	}
	if xhash.Equal(t.Hash(), other.Hash()) {
		return true
	}
	allPresent := true
	walkKeysUntil(t.root, func(key []byte, _ V) bool {
		if _, ok := other.Get(key); !ok {
			allPresent = false
			return true
		}
		return false
	})
	return allPresent
}

// IsIntersecting reports whether t and other share at least one key.
func (t *Tree[V]) IsIntersecting(other *Tree[V]) bool {
	if t == nil || t.root == nil || other == nil || other.root == nil {
		return false
	}
	found := false
	walkKeysUntil(t.root, func(key []byte, _ V) bool {
		if _, ok := other.Get(key); ok {
			found = true
			return true
		}
		return false
	})
	return found
}

// Cursor returns a fresh traversal cursor positioned at the tree's root.
func (t *Tree[V]) Cursor() *Cursor[V] { return NewCursor[V](t.root) }

// Each visits every stored key/value pair. Order is unspecified; it follows
// the tree's internal cuckoo layout, not lexicographic order.
func (t *Tree[V]) Each(visit func(key []byte, val V)) {
	if t.root == nil {
		return
	}
	walkKeys(t.root, visit)
}

// walkKeysUntil performs a depth-first enumeration of every stored key,
// stopping as soon as visit returns true.
func walkKeysUntil[V any](n node[V], visit func(key []byte, val V) bool) bool {
	switch t := n.(type) {
	case nil:
		return false
	case *leafNode[V]:
		return visit(t.key, t.value)
	case *infixNode[V]:
		return walkKeysUntil(t.child, visit)
	case *branchNode[V]:
		for i := range t.buckets {
			for j := range t.buckets[i].slots {
				s := &t.buckets[i].slots[j]
				home := bucketIndex(s.key, t.randHashUsed.IsSet(s.key), len(t.buckets)) == i
				if s.occupied && home && walkKeysUntil(s.child, visit) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

func walkKeys[V any](n node[V], visit func(key []byte, val V)) {
	walkKeysUntil(n, func(k []byte, v V) bool {
		visit(k, v)
		return false
	})
}
