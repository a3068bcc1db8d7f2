package pact

import (
	"github.com/rskv-p/pact/config"
	"github.com/rskv-p/pact/internal/xhash"
)

// NewFromConfig translates cfg's hash-secret settings into the matching
// xhash.Secret constructor: "random" draws a fresh secret from a
// cryptographic RNG on every call, so hashes stop being comparable across
// process restarts; anything else, including the documented default
// "deterministic", expands cfg.HashSecretSeed into a reproducible secret so
// independently built trees can still be compared by structural hash.
func NewFromConfig(cfg config.StoreConfig) *xhash.Secret {
	if cfg.HashSecretMode == "random" {
		return xhash.NewRandomSecret()
	}
	return xhash.NewSeededSecret(cfg.HashSecretSeed)
}

// NewTreeFromConfig builds an empty Tree over keyLen-byte keys, deriving its
// structural hash secret and segment layout from cfg rather than from
// caller-supplied arguments directly, so a store's on-disk/env
// configuration is the single source of truth for both.
func NewTreeFromConfig[V any](keyLen int, cfg config.StoreConfig) *Tree[V] {
	// cfg.SegmentSizes lists per-segment widths; New takes cumulative
	// boundaries.
	var bounds []int
	end := 0
	for _, w := range cfg.SegmentSizes {
		end += w
		bounds = append(bounds, end)
	}
	return New[V](keyLen, NewFromConfig(cfg), bounds)
}
