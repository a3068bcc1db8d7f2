package trible

import (
	"github.com/rskv-p/pact/config"
	"github.com/rskv-p/pact/internal/xhash"
	"github.com/rskv-p/pact/pact"
	"github.com/rskv-p/pact/pkg/x_log"
)

// permutation identifies one of the six byte-orderings a TribleSet
// maintains, named for the order its bytes place the three fields in.
type permutation int

const (
	permEAV permutation = iota
	permEVA
	permAEV
	permAVE
	permVEA
	permVAE
)

var allPermutations = [6]permutation{permEAV, permEVA, permAEV, permAVE, permVEA, permVAE}

// segmentSizes matches the 16/16/32 field layout regardless of which field
// comes first: every permutation still lays down a 16-byte segment, another
// 16-byte segment, then a 32-byte segment.
var segmentSizes = []int{16, 32, tribleLen}

// TribleSet indexes a collection of facts under every field ordering, so a
// TribleConstraint can always find a permutation whose prefix matches
// whichever fields a join has already bound: six coordinated indices
// sharing one structural hash secret.
type TribleSet struct {
	trees  [6]*pact.Tree[struct{}]
	secret *xhash.Secret
}

// NewTribleSet creates an empty set. secret must match across any two sets
// compared or joined together.
func NewTribleSet(secret *xhash.Secret) *TribleSet {
	s := &TribleSet{secret: secret}
	for _, p := range allPermutations {
		s.trees[p] = pact.New[struct{}](tribleLen, secret, segmentSizes)
	}
	return s
}

// NewTribleSetFromConfig creates an empty set whose structural hash secret
// is derived from cfg via pact.NewFromConfig, rather than supplied
// directly; cfg.SegmentSizes is ignored in favor of the fixed 16/16/32
// field layout every permutation index needs to stay walkable field-by-field.
func NewTribleSetFromConfig(cfg config.StoreConfig) *TribleSet {
	return NewTribleSet(pact.NewFromConfig(cfg))
}

func permute(p permutation, e, a, v []byte) []byte {
	key := make([]byte, 0, tribleLen)
	switch p {
	case permEAV:
		key = append(key, e...)
		key = append(key, a...)
		key = append(key, v...)
	case permEVA:
		key = append(key, e...)
		key = append(key, v...)
		key = append(key, a...)
	case permAEV:
		key = append(key, a...)
		key = append(key, e...)
		key = append(key, v...)
	case permAVE:
		key = append(key, a...)
		key = append(key, v...)
		key = append(key, e...)
	case permVEA:
		key = append(key, v...)
		key = append(key, e...)
		key = append(key, a...)
	case permVAE:
		key = append(key, v...)
		key = append(key, a...)
		key = append(key, e...)
	}
	return key
}

// Add inserts t into every permutation index.
func (s *TribleSet) Add(t Trible) error {
	e, a, v := t.E(), t.A(), t.V()
	for _, p := range allPermutations {
		if err := s.trees[p].Put(permute(p, e[:], a[:], v[:]), struct{}{}); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of distinct tribles stored.
func (s *TribleSet) Count() uint64 { return s.trees[permEAV].Count() }

// IsEmpty reports whether the set holds no tribles.
func (s *TribleSet) IsEmpty() bool { return s.trees[permEAV].IsEmpty() }

// Has reports whether t is present.
func (s *TribleSet) Has(t Trible) bool {
	e, a, v := t.E(), t.A(), t.V()
	_, ok := s.trees[permEAV].Get(permute(permEAV, e[:], a[:], v[:]))
	return ok
}

// IsEqual reports whether s and other hold exactly the same tribles.
func (s *TribleSet) IsEqual(other *TribleSet) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.trees[permEAV].IsEqual(other.trees[permEAV])
}

// Union returns a new set holding every trible present in any of sets.
func Union(secret *xhash.Secret, sets ...*TribleSet) *TribleSet {
	out := NewTribleSet(secret)
	for _, p := range allPermutations {
		perTree := make([]*pact.Tree[struct{}], 0, len(sets))
		for _, s := range sets {
			if s != nil {
				perTree = append(perTree, s.trees[p])
			}
		}
		out.trees[p] = pact.InitUnion(perTree...)
	}
	x_log.Debug().Int("inputs", len(sets)).Uint64("count", out.Count()).Msg("computed trible union")
	return out
}

// Constraint returns a TribleConstraint over this set for the given
// variable assignment to the entity, attribute, and value fields.
func (s *TribleSet) Constraint(e, a, v Variable) *TribleConstraint {
	return &TribleConstraint{set: s, e: e, a: a, v: v}
}
