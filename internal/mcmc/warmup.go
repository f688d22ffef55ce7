package mcmc

import (
	"fmt"
	"math/rand"

	"github.com/montanaflynn/stats"

	"godem/domain/core"
)

// WarmupState accumulates the results of the per-bin warm-up runs.
//
// guess is the shared DEM vector every 1-D run conditions on; seeds holds,
// per walker and dimension, the walker positions each run starts from and,
// after Update, the positions it finished at.
type WarmupState struct {
	guess []float64
	seeds [][]float64
}

// NewWarmupState starts every component at initial and jitters the walker
// seeds multiplicatively by up to jitter.
func NewWarmupState(nDim, nWalkers int, initial, jitter float64, rng *rand.Rand) *WarmupState {
	guess := make([]float64, nDim)
	for i := range guess {
		guess[i] = initial
	}
	return &WarmupState{guess: guess, seeds: jitterCopies(guess, nWalkers, jitter, rng)}
}

// Guess returns a copy of the current combined guess
func (s *WarmupState) Guess() []float64 {
	return append([]float64(nil), s.guess...)
}

// Seeds returns the 1-D starting positions (one per walker) of dimension i
func (s *WarmupState) Seeds(i int) [][]float64 {
	out := make([][]float64, len(s.seeds))
	for k, walker := range s.seeds {
		out[k] = []float64{walker[i]}
	}
	return out
}

// Update folds the chain of the 1-D run over dimension i into the state:
// guess[i] becomes the mean over the last tail steps of all walkers, and the
// walkers' final positions become the seeds of dimension i.
func (s *WarmupState) Update(i int, chain [][][]float64, tail int) error {
	if len(chain) == 0 {
		return fmt.Errorf("%w: empty warm-up chain for bin %d", core.ErrInvalidInput, i)
	}
	if tail > len(chain) {
		tail = len(chain)
	}

	var window []float64
	for _, step := range chain[len(chain)-tail:] {
		for _, walker := range step {
			window = append(window, walker[0])
		}
	}
	mean, err := stats.Mean(window)
	if err != nil {
		return fmt.Errorf("warm-up mean for bin %d: %w", i, err)
	}
	s.guess[i] = mean

	last := chain[len(chain)-1]
	for k := range s.seeds {
		s.seeds[k][i] = last[k][0]
	}
	return nil
}

// jitterCopies returns n copies of v, each element scaled by 1 + jitter*U[0,1).
func jitterCopies(v []float64, n int, jitter float64, rng *rand.Rand) [][]float64 {
	out := make([][]float64, n)
	for k := range out {
		row := make([]float64, len(v))
		for d, x := range v {
			row[d] = x + rng.Float64()*jitter*x
		}
		out[k] = row
	}
	return out
}
