package pact

import (
	"github.com/rskv-p/pact/internal/bitset"
	"github.com/rskv-p/pact/internal/xhash"
)

// PaddedCursor presents a Cursor whose real key begins at some depth greater
// than zero as if it began at depth zero, fixing every depth before
// padStart to a single constant byte. This lets a TribleConstraint walk
// several trees whose relevant field starts at different depths (E and A
// are 16 bytes, V is 32) in lockstep by padding the shorter ones out to a
// common width, matching the fixed 16/16/32 field layout of a trible's
// entity, attribute, and value.
type PaddedCursor[V any] struct {
	inner    *Cursor[V]
	depth    int
	padStart int
	padByte  byte
}

// NewPaddedCursor wraps inner so it appears to start at depth 0, with the
// first padStart bytes fixed to padByte.
func NewPaddedCursor[V any](inner *Cursor[V], padStart int, padByte byte) *PaddedCursor[V] {
	return &PaddedCursor[V]{inner: inner, padStart: padStart, padByte: padByte}
}

func (c *PaddedCursor[V]) Depth() int { return c.depth }

func (c *PaddedCursor[V]) inPad() bool { return c.depth < c.padStart }

func (c *PaddedCursor[V]) Peek() (byte, bool) {
	if c.inPad() {
		return c.padByte, true
	}
	return c.inner.Peek()
}

func (c *PaddedCursor[V]) Propose(out *bitset.Set256) {
	if c.inPad() {
		*out = bitset.Set256{}
		out.Set(c.padByte)
		return
	}
	c.inner.Propose(out)
}

func (c *PaddedCursor[V]) Push(b byte) bool {
	if c.inPad() {
		if b != c.padByte {
			return false
		}
		c.depth++
		return true
	}
	if !c.inner.Push(b) {
		return false
	}
	c.depth++
	return true
}

// Pop panics if called with nothing pushed to undo, for the same reason
// Cursor.Pop does: a caller that over-pops has a bug worth surfacing
// immediately.
func (c *PaddedCursor[V]) Pop() {
	if c.depth <= 0 {
		panic("pact: PaddedCursor.Pop: no pushed depth to undo")
	}
	if c.depth <= c.padStart {
		c.depth--
		return
	}
	c.inner.Pop()
	c.depth--
}

func (c *PaddedCursor[V]) Value() (V, bool) { return c.inner.Value() }

// InnerClone returns an independent clone of the wrapped cursor, discarding
// the padding view — used when starting a fresh field whose pad width
// differs from this one's, since padStart is fixed per PaddedCursor
// instance rather than per push.
func (c *PaddedCursor[V]) InnerClone() *Cursor[V] { return c.inner.Clone() }

// SegCount and SubtreeHash pass straight through to the wrapped cursor:
// both describe the real subtree beneath the current position, which
// padding never touches.
func (c *PaddedCursor[V]) SegCount(segments []int) uint64 { return c.inner.SegCount(segments) }

func (c *PaddedCursor[V]) SubtreeHash(secret *xhash.Secret) xhash.Hash128 {
	return c.inner.SubtreeHash(secret)
}
