package trible

import (
	"encoding/binary"

	"github.com/rskv-p/pact/internal/bitset"
	"github.com/rskv-p/pact/internal/xhash"
	"github.com/rskv-p/pact/pact"
)

// Variable names one of the three fields a join binds, in the caller's own
// variable numbering — a TribleConstraint only cares which of its own three
// fields each Variable value corresponds to, not what it means elsewhere in
// a larger join.
type Variable int

type field int

const (
	fieldE field = iota
	fieldA
	fieldV
)

// maxFieldLen is the byte width every field is padded out to when a byte is
// pushed for it, so a join driver walks exactly maxFieldLen bytes per
// variable regardless of whether the underlying field is E/A's 16 bytes or
// V's 32.
const maxFieldLen = vLen

func fieldLen(f field) int {
	if f == fieldV {
		return vLen
	}
	return eLen
}

func permutationFieldOrder(p permutation) [3]field {
	switch p {
	case permEAV:
		return [3]field{fieldE, fieldA, fieldV}
	case permEVA:
		return [3]field{fieldE, fieldV, fieldA}
	case permAEV:
		return [3]field{fieldA, fieldE, fieldV}
	case permAVE:
		return [3]field{fieldA, fieldV, fieldE}
	case permVEA:
		return [3]field{fieldV, fieldE, fieldA}
	default:
		return [3]field{fieldV, fieldA, fieldE}
	}
}

// permutationsWithPrefix returns every permutation whose first len(order)
// fields exactly equal order, in order. Because order only ever grows one
// field at a time, this set only ever narrows as more variables are bound:
// 6 permutations match the empty order, exactly 2 match any one-field
// order (the two ways of arranging the other two fields behind it), and
// exactly 1 matches any two- or three-field order.
func permutationsWithPrefix(order []field) []permutation {
	out := make([]permutation, 0, len(allPermutations))
	for _, p := range allPermutations {
		fo := permutationFieldOrder(p)
		matches := true
		for i, f := range order {
			if fo[i] != f {
				matches = false
				break
			}
		}
		if matches {
			out = append(out, p)
		}
	}
	return out
}

// frame is one entry of a TribleConstraint's push/pop stack: the variable
// bound at this step, which field it corresponds to, and the padded
// cursor(s) live at this depth. A single-variable frame keeps two cursors
// — one per permutation still consistent with only that one field being
// bound — advancing them in lockstep on every PushByte, since either
// permutation could still turn out authoritative depending on which
// variable is bound next; a pair or triple frame has narrowed to exactly
// one.
type frame struct {
	v      Variable
	f      field
	perms  []permutation
	cursor []*pact.PaddedCursor[struct{}]
}

// TribleConstraint restricts a join variable ordering to whatever facts a
// TribleSet can supply. It tracks which of its three fields have been
// bound, in push order, as an explicit stack; that stack position is a
// 16-state FSM (the empty state, three single-variable states, six
// two-variable states, and six three-variable states — one per field-order
// stack of length 0, 1, 2, or 3), restated here as "which permutations are
// still candidates" rather than a literal transition table, since the
// candidate set is a pure function of the bound field sequence with no
// other hidden state.
type TribleConstraint struct {
	set     *TribleSet
	e, a, v Variable
	frames  []frame
}

// Variables returns the three variables this constraint binds, in
// entity/attribute/value order.
func (c *TribleConstraint) Variables() (e, a, v Variable) { return c.e, c.a, c.v }

// fieldForVariable reports which of this constraint's three fields
// variable corresponds to. If a caller reuses the same Variable for more
// than one field (a self-join pattern, e.g. Constraint(x, x, y)), the
// first match in E, A, V order wins.
func (c *TribleConstraint) fieldForVariable(variable Variable) (field, bool) {
	switch variable {
	case c.e:
		return fieldE, true
	case c.a:
		return fieldA, true
	case c.v:
		return fieldV, true
	default:
		return 0, false
	}
}

func (c *TribleConstraint) boundFields() []field {
	out := make([]field, len(c.frames))
	for i, fr := range c.frames {
		out[i] = fr.f
	}
	return out
}

func (c *TribleConstraint) isBound(f field) bool {
	for _, fr := range c.frames {
		if fr.f == f {
			return true
		}
	}
	return false
}

// rawCursorFor returns a fresh, independently steppable cursor over
// permutation p's tree, continuing from wherever the constraint's current
// top frame already had it (since permutationsWithPrefix only narrows,
// any p reachable from the new, longer order was already a candidate at
// the current frame), or from that tree's root if no variable is bound
// yet.
func (c *TribleConstraint) rawCursorFor(p permutation) *pact.Cursor[struct{}] {
	if len(c.frames) == 0 {
		return c.set.trees[p].Cursor()
	}
	top := &c.frames[len(c.frames)-1]
	for i, pp := range top.perms {
		if pp == p {
			return top.cursor[i].InnerClone()
		}
	}
	// permutationsWithPrefix guarantees p was already a candidate one
	// field ago; reaching here means a caller pushed a variable this
	// constraint doesn't own.
	return c.set.trees[p].Cursor()
}

// PushVariable binds variable, extending the FSM by one field and
// selecting whichever permutation(s) remain consistent with the fields
// bound so far. It reports false if variable isn't one of this
// constraint's own three, or is already bound. This is the join driver's
// entry point for descending into a new field.
func (c *TribleConstraint) PushVariable(variable Variable) bool {
	f, ok := c.fieldForVariable(variable)
	if !ok || c.isBound(f) {
		return false
	}

	order := append(c.boundFields(), f)
	perms := permutationsWithPrefix(order)

	padStart := maxFieldLen - fieldLen(f)
	cursors := make([]*pact.PaddedCursor[struct{}], len(perms))
	for i, p := range perms {
		cursors[i] = pact.NewPaddedCursor[struct{}](c.rawCursorFor(p), padStart, 0)
	}

	c.frames = append(c.frames, frame{v: variable, f: f, perms: perms, cursor: cursors})
	return true
}

// PopVariable unwinds the most recent PushVariable, discarding whatever
// byte-level progress was made into that variable's field.
func (c *TribleConstraint) PopVariable() {
	if len(c.frames) == 0 {
		panic("pact: TribleConstraint.PopVariable: no bound variable")
	}
	c.frames = c.frames[:len(c.frames)-1]
}

func (c *TribleConstraint) top() *frame {
	if len(c.frames) == 0 {
		panic("pact: TribleConstraint: byte operation with no variable bound")
	}
	return &c.frames[len(c.frames)-1]
}

// PeekByte returns the single fixed byte at the current position within
// the currently bound variable's field, if there is only one candidate.
func (c *TribleConstraint) PeekByte() (byte, bool) {
	return c.top().cursor[0].Peek()
}

// ProposeByte fills out with every candidate byte at the current position.
func (c *TribleConstraint) ProposeByte(out *bitset.Set256) {
	c.top().cursor[0].Propose(out)
}

// PushByte descends past b at the current position, in lockstep across
// every candidate permutation cursor the current frame still holds (the
// dual-cursor case a single-variable state needs, since either candidate
// could still end up authoritative). All candidates hold the same
// underlying fact set, so they must agree; a disagreement means a caller
// pushed a byte one candidate's tree doesn't have, which PushByte's own
// bool return already communicates via the first candidate's answer, and
// which would otherwise indicate a corrupted index.
func (c *TribleConstraint) PushByte(b byte) bool {
	fr := c.top()
	if !fr.cursor[0].Push(b) {
		return false
	}
	for _, cur := range fr.cursor[1:] {
		if !cur.Push(b) {
			panic("pact: TribleConstraint: candidate cursors disagreed on PushByte")
		}
	}
	return true
}

// PopByte backtracks the most recent PushByte, across every candidate
// cursor in the current frame.
func (c *TribleConstraint) PopByte() {
	for _, cur := range c.top().cursor {
		cur.Pop()
	}
}

// CountVariable returns the segment_count of whichever cursor would become
// authoritative if variable were pushed next, without actually pushing it
// — the selectivity hint a worst-case-optimal join uses to pick the
// smallest-count variable to bind at each step.
func (c *TribleConstraint) CountVariable(variable Variable) uint64 {
	f, ok := c.fieldForVariable(variable)
	if !ok || c.isBound(f) {
		return 0
	}
	p := permutationsWithPrefix(append(c.boundFields(), f))[0]

	if len(c.frames) == 0 {
		return c.set.trees[p].Cursor().SegCount(segmentSizes)
	}
	top := &c.frames[len(c.frames)-1]
	for i, pp := range top.perms {
		if pp == p {
			return top.cursor[i].SegCount(segmentSizes)
		}
	}
	return 0
}

// SampleVariable returns a selectivity sample for variable, analogous to
// CountVariable but drawn from the subtree's structural hash rather than
// its exact leaf count — a min-hash proper would need a dedicated sketch
// maintained per subtree; folding the already-maintained structural hash
// down to a scalar gives a usable selectivity signal without adding a
// second incrementally-maintained summary alongside nodeHash.
func (c *TribleConstraint) SampleVariable(variable Variable) uint64 {
	f, ok := c.fieldForVariable(variable)
	if !ok || c.isBound(f) {
		return 0
	}
	p := permutationsWithPrefix(append(c.boundFields(), f))[0]

	var h xhash.Hash128
	if len(c.frames) == 0 {
		h = c.set.trees[p].Cursor().SubtreeHash(c.set.secret)
	} else {
		top := &c.frames[len(c.frames)-1]
		for i, pp := range top.perms {
			if pp == p {
				h = top.cursor[i].SubtreeHash(c.set.secret)
				break
			}
		}
	}
	return binary.LittleEndian.Uint64(h[:8])
}

// bestPermutation picks whichever of the set's six indices places the
// already-bound fields first, breaking ties toward E, then A, then V. Kept
// as a standalone query (independent of the push/pop stack above) for
// callers that just want to know which index would answer a given bound
// set without walking it.
func (c *TribleConstraint) bestPermutation(bound []Variable) permutation {
	var order []field
	if c.fieldBound(bound, c.e) {
		order = append(order, fieldE)
	}
	if c.fieldBound(bound, c.a) {
		order = append(order, fieldA)
	}
	if c.fieldBound(bound, c.v) {
		order = append(order, fieldV)
	}
	return permutationsWithPrefix(order)[0]
}

func (c *TribleConstraint) fieldBound(bound []Variable, want Variable) bool {
	for _, b := range bound {
		if b == want {
			return true
		}
	}
	return false
}

// Cursor returns a cursor over whichever permutation index best matches the
// variables already bound by earlier steps of a larger join, independent
// of this constraint's own push/pop stack.
func (c *TribleConstraint) Cursor(bound []Variable) *pact.Cursor[struct{}] {
	return c.set.trees[c.bestPermutation(bound)].Cursor()
}

// FieldOffset returns the byte offset at which the given variable's field
// begins within the permutation Cursor(bound) would select.
func (c *TribleConstraint) FieldOffset(bound []Variable, v Variable) int {
	p := c.bestPermutation(bound)
	order := permutationFieldOrder(p)
	offset := 0
	for _, f := range order {
		field := c.fieldFor(f)
		if field == v {
			return offset
		}
		offset += fieldLen(f)
	}
	return -1
}

func (c *TribleConstraint) fieldFor(f field) Variable {
	switch f {
	case fieldE:
		return c.e
	case fieldA:
		return c.a
	default:
		return c.v
	}
}
