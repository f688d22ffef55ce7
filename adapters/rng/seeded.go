package rng

import (
	"math/rand"

	"godem/ports"
)

// SeededAdapter implements ports.RNGPort with djb2-derived seeds
type SeededAdapter struct{}

var _ ports.RNGPort = SeededAdapter{}

// NewSeededAdapter creates a seeded RNG adapter
func NewSeededAdapter() SeededAdapter {
	return SeededAdapter{}
}

// Stream creates a deterministic RNG stream for a named stage. Different
// names give independent streams for the same base seed.
func (SeededAdapter) Stream(name string, seed int64) *rand.Rand {
	if name != "" {
		seed += int64(hashString(name))
	}
	return rand.New(rand.NewSource(seed))
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
