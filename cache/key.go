// Package cache implements the per-engine result cache: an LRU keyed by
// (node-id, structural input hash), bounded by both entry count and a
// byte budget, with TTL-based expiry. Built on
// github.com/hashicorp/golang-lru/v2 for eviction-order bookkeeping,
// wrapped to additionally track the byte budget and TTL neither
// golang-lru nor any other pack dependency provides natively.
package cache

import (
	"sort"

	"github.com/ambarahq/ambara/value"
)

// Key identifies one cached node result: the node id plus a 64-bit
// structural digest of its effective inputs.
type Key struct {
	NodeID string
	Hash   uint64
}

// NewKey computes the cache key for a node given its gathered inputs:
// sort input names, then fold each name and its value's structural
// digest into a running hash.
func NewKey(nodeID string, inputs map[string]value.Value) Key {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	h := fnvOffset
	for _, name := range names {
		h = foldString(h, name)
		h = foldUint64(h, value.Digest(inputs[name]))
	}
	return Key{NodeID: nodeID, Hash: h}
}

// fnvOffset/foldString/foldUint64 combine the per-input digests into one
// 64-bit key hash using the FNV-1a mixing step, kept local to this
// package since value.Digest already owns the payload-hashing rule and
// this is purely list-folding on top of it.
const (
	fnvOffset = uint64(14695981039346656037)
	fnvPrime  = uint64(1099511628211)
)

func foldString(h uint64, s string) uint64 {
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime
	}
	return h
}

func foldUint64(h uint64, v uint64) uint64 {
	for i := 0; i < 8; i++ {
		h ^= (v >> (8 * uint(i))) & 0xff
		h *= fnvPrime
	}
	return h
}
