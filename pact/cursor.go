package pact

import (
	"github.com/rskv-p/pact/internal/bitset"
	"github.com/rskv-p/pact/internal/xhash"
)

// cursorFrame pins one node during a depth-first descent, together with the
// key depth currently under examination inside that node. Multiple depths
// can map to the same node when it is an infix or a branch's own
// discriminating byte (get() reflects this by returning the same node back).
type cursorFrame[V any] struct {
	n     node[V]
	depth int
}

// Cursor is the byte-at-a-time descent primitive the join algorithms in
// package trible drive directly: at each depth it can propose the set of
// candidate bytes, and the caller pushes one to descend or pops to
// backtrack. The descent is restated as an explicit stack so external
// callers (not just internal recursive helpers) can drive the walk.
type Cursor[V any] struct {
	stack []cursorFrame[V]
}

// NewCursor returns a cursor positioned at root's own start depth, or an
// exhausted cursor if root is empty.
func NewCursor[V any](root node[V]) *Cursor[V] {
	c := &Cursor[V]{}
	if root != nil {
		c.stack = append(c.stack, cursorFrame[V]{n: root, depth: root.startDepth()})
	}
	return c
}

// Valid reports whether the cursor still has a current position.
func (c *Cursor[V]) Valid() bool { return len(c.stack) > 0 }

// Depth returns the key depth currently under examination.
func (c *Cursor[V]) Depth() int {
	if !c.Valid() {
		return -1
	}
	return c.top().depth
}

func (c *Cursor[V]) top() *cursorFrame[V] { return &c.stack[len(c.stack)-1] }

// Peek returns the single fixed byte at the current depth, if the node here
// fixes one (an infix run, or a leaf's own key byte); it returns false where
// a branch node offers more than one candidate.
func (c *Cursor[V]) Peek() (byte, bool) {
	f := c.top()
	return f.n.peek(f.depth)
}

// Propose fills out with every candidate byte at the current depth.
func (c *Cursor[V]) Propose(out *bitset.Set256) {
	f := c.top()
	f.n.propose(f.depth, out)
}

// Push descends past byte b at the current depth, returning false without
// moving the cursor if no key here has that byte.
func (c *Cursor[V]) Push(b byte) bool {
	f := c.top()
	child, ok := f.n.get(f.depth, b)
	if !ok {
		return false
	}
	c.stack = append(c.stack, cursorFrame[V]{n: child, depth: f.depth + 1})
	return true
}

// Pop backtracks the most recent Push. It panics if called on a cursor with
// no pushed depth to undo — every Pop must be paired with an earlier
// successful Push, and a caller that over-pops has a bug worth surfacing
// immediately rather than silently corrupting the cursor's position.
func (c *Cursor[V]) Pop() {
	if len(c.stack) <= 1 {
		panic("pact: Cursor.Pop: no pushed depth to undo")
	}
	c.stack = c.stack[:len(c.stack)-1]
}

// Clone returns an independent cursor positioned exactly where c is; the two
// can then Push/Pop independently. Cloning is a plain slice copy since
// tree nodes are themselves immutable once shared (copy-on-write), so
// nothing about the underlying tree needs duplicating, only the stack of
// which nodes/depths c has descended through.
func (c *Cursor[V]) Clone() *Cursor[V] {
	stack := make([]cursorFrame[V], len(c.stack))
	copy(stack, c.stack)
	return &Cursor[V]{stack: stack}
}

// SegCount is the selectivity estimate for the segment containing the
// cursor's current depth, letting a join driver compare candidate
// variables by how much of the tree pushing each one would still leave
// reachable.
func (c *Cursor[V]) SegCount(segments []int) uint64 {
	if !c.Valid() {
		return 0
	}
	f := c.top()
	return f.n.segCount(segments)
}

// Value returns the value stored at the cursor's current position, if it
// has descended to a fully matched leaf.
func (c *Cursor[V]) Value() (V, bool) {
	var zero V
	if !c.Valid() {
		return zero, false
	}
	f := c.top()
	lf, ok := f.n.(*leafNode[V])
	if !ok || f.depth != len(lf.key) {
		return zero, false
	}
	return lf.value, true
}

// SubtreeHash returns the structural hash of the node currently under the
// cursor, letting join algorithms short-circuit equal subtrees without
// walking them.
func (c *Cursor[V]) SubtreeHash(secret *xhash.Secret) xhash.Hash128 {
	f := c.top()
	return f.n.hash(secret)
}
