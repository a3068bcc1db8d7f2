// Package xhash implements the structural hash used to give every PACT
// subtree an O(1)-comparable identity: a keyed 128-bit digest per leaf,
// combined commutatively across a subtree by XOR.
package xhash

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"
)

// Hash128 is a 128-bit structural digest.
type Hash128 [16]byte

// Secret is the process-wide keyed hash secret. It must be created before
// any tree using it is populated; inserting into a tree whose secret was
// never initialized is a programmer error the type system rules out here,
// since every Tree is constructed with an explicit *Secret.
type Secret struct {
	key [32]byte
}

// NewRandomSecret draws a fresh 256-bit key from a cryptographic RNG,
// suitable for production use. Hashes produced under two different random
// secrets are never comparable.
func NewRandomSecret() *Secret {
	var s Secret
	if _, err := rand.Read(s.key[:]); err != nil {
		panic(fmt.Sprintf("xhash: reading random secret: %v", err))
	}
	return &s
}

// NewSeededSecret expands a deterministic seed into a 256-bit key via a
// splitmix64-style stream, giving byte-for-byte reproducible hashes across
// processes. Intended for tests and for content-addressed comparisons
// between independently built trees.
func NewSeededSecret(seed uint64) *Secret {
	var s Secret
	x := seed
	for i := 0; i < 4; i++ {
		x += 0x9E3779B97F4A7C15
		z := x
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		z = z ^ (z >> 31)
		binary.LittleEndian.PutUint64(s.key[i*8:(i+1)*8], z)
	}
	return &s
}

// LeafHash returns the keyed 128-bit digest of key.
func (s *Secret) LeafHash(key []byte) Hash128 {
	h, err := highwayhash.New128(s.key[:])
	if err != nil {
		// s.key is always exactly 32 bytes; this can never happen.
		panic(fmt.Sprintf("xhash: building highwayhash-128: %v", err))
	}
	h.Write(key)
	var out Hash128
	copy(out[:], h.Sum(nil))
	return out
}

// Combine is the commutative, associative subtree hash combinator, with
// identity Hash128{}.
func Combine(a, b Hash128) Hash128 {
	var out Hash128
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// Equal reports whether two digests are bytewise identical.
func Equal(a, b Hash128) bool {
	return a == b
}
