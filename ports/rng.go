package ports

import (
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic runs
type RNGPort interface {
	// Stream creates a deterministic random number generator for a named
	// stage of a run. The same name and seed always produce the same stream.
	Stream(name string, seed int64) *rand.Rand
}
