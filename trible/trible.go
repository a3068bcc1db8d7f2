// Package trible implements the composite E/A/V index built on top of
// package pact: a Trible is a fixed 64-byte (entity, attribute, value)
// triple, and a TribleSet stores it under all six byte-order permutations
// so a TribleConstraint can pick whichever permutation lets a join walk
// already-bound variables as a shared prefix.
package trible

const (
	eLen = 16
	aLen = 16
	vLen = 32

	eStart = 0
	aStart = eStart + eLen
	vStart = aStart + aLen
	tribleLen = vStart + vLen
)

// Trible is one (entity, attribute, value) fact, laid out as 16 bytes of
// entity id, 16 bytes of attribute id, and 32 bytes of value.
type Trible [tribleLen]byte

// New builds a Trible from its three fields.
func New(e [eLen]byte, a [aLen]byte, v [vLen]byte) Trible {
	var t Trible
	copy(t[eStart:aStart], e[:])
	copy(t[aStart:vStart], a[:])
	copy(t[vStart:], v[:])
	return t
}

// E returns the entity field.
func (t Trible) E() [eLen]byte {
	var e [eLen]byte
	copy(e[:], t[eStart:aStart])
	return e
}

// A returns the attribute field.
func (t Trible) A() [aLen]byte {
	var a [aLen]byte
	copy(a[:], t[aStart:vStart])
	return a
}

// V returns the value field.
func (t Trible) V() [vLen]byte {
	var v [vLen]byte
	copy(v[:], t[vStart:])
	return v
}
