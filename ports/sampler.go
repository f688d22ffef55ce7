package ports

import (
	"context"
	"math/rand"
)

// LogProbFunc returns the log-probability of a parameter vector. It may be
// called concurrently and must not retain or modify params.
type LogProbFunc func(params []float64) float64

// EnsembleSampler runs an ensemble MCMC over a fixed number of walkers
type EnsembleSampler interface {
	// RunMCMC advances every walker nSteps times starting from initial
	// (nWalkers x nDim). Repeated calls extend the stored chain.
	RunMCMC(ctx context.Context, initial [][]float64, nSteps int) error

	// Chain returns a copy of the positions indexed as [step][walker][dim]
	Chain() [][][]float64

	// LogProb returns a copy of the log-probabilities indexed as [step][walker]
	LogProb() [][]float64

	// AcceptanceFraction returns the fraction of accepted proposals per walker
	AcceptanceFraction() []float64

	NWalkers() int
	NDim() int
}

// SamplerFactory builds ensemble samplers for a log-probability function
type SamplerFactory interface {
	NewSampler(nWalkers, nDim int, logProb LogProbFunc, rng *rand.Rand) (EnsembleSampler, error)
}
