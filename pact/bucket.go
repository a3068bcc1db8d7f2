package pact

import (
	"math/bits"
	"sync/atomic"

	"github.com/rskv-p/pact/internal/bitset"
)

const maxBucketCount = 64

// h1LUT is the second cuckoo hash function, built once at package init. It
// needs a compile-time permutation with the property that H0 and H1
// disagree on the bucket index for every key at the largest bucket count.
// Rather than empirically verify that property against an arbitrary
// permutation, h1LUT is built directly from H0 with its low 6 bits
// complemented, which satisfies the disagreement requirement by
// construction for every mask up to 0x3F (64 buckets) — see DESIGN.md.
var h1LUT [256]byte

func init() {
	for k := 0; k < 256; k++ {
		h1LUT[k] = bits.Reverse8(byte(k)) ^ 0x3F
	}
}

func h0(k byte) byte { return bits.Reverse8(k) }
func h1(k byte) byte { return h1LUT[k] }

func bucketIndex(k byte, useH1 bool, b int) int {
	h := h0(k)
	if useH1 {
		h = h1(k)
	}
	return int(h) & (b - 1)
}

// bucketSlot is one of a bucket's four cache-line slots.
type bucketSlot[V any] struct {
	key      byte
	occupied bool
	child    node[V]
}

// bucket is a fixed four-slot cuckoo hash table row.
type bucket[V any] struct {
	slots [4]bucketSlot[V]
}

// bucketPut implements the bucket-put policy: overwrite a slot with the
// same key, else fill an empty slot, else evict an outdated slot (one whose
// current hash choice no longer maps to this bucket), else fail.
func bucketPut[V any](bkt *bucket[V], hashUsed *bitset.Set256, b, bucketIdx int, key byte, child node[V]) bool {
	for i := range bkt.slots {
		if bkt.slots[i].occupied && bkt.slots[i].key == key {
			bkt.slots[i].child = child
			return true
		}
	}
	for i := range bkt.slots {
		if !bkt.slots[i].occupied {
			bkt.slots[i] = bucketSlot[V]{key: key, occupied: true, child: child}
			return true
		}
	}
	for i := range bkt.slots {
		s := &bkt.slots[i]
		idx := bucketIndex(s.key, hashUsed.IsSet(s.key), b)
		if idx != bucketIdx {
			*s = bucketSlot[V]{key: key, occupied: true, child: child}
			return true
		}
	}
	return false
}

// displacementRegister is a process-wide rotating register whose only
// purpose is to diversify cuckoo eviction choices; no correctness property
// depends on its exact value.
var displacementRegister uint32

func nextDisplacementByte() byte {
	v := atomic.AddUint32(&displacementRegister, 0x9E3779B1)
	return byte(v >> 24)
}
