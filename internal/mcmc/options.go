package mcmc

import (
	"fmt"

	"godem/domain/core"
)

// Options controls the staged sampling run
type Options struct {
	// NSteps is the joint-run step budget per DEM dimension; the joint run
	// takes NSteps * bins steps.
	NSteps int
	// NWalkers is the joint-run ensemble size; 0 means 2*bins+1.
	NWalkers int

	WarmupSteps   int
	WarmupWalkers int
	// WarmupTail is how many trailing warm-up steps are averaged into the guess.
	WarmupTail int

	InitialGuess float64 // cm^-5
	Jitter       float64 // relative
	Seed         int64
}

// DefaultOptions returns the standard staged-run settings for nSteps
func DefaultOptions(nSteps int) Options {
	return Options{
		NSteps:        nSteps,
		WarmupSteps:   100,
		WarmupWalkers: 3,
		WarmupTail:    10,
		InitialGuess:  1e22,
		Jitter:        0.01,
	}
}

// walkers resolves the joint ensemble size for nDim parameters
func (o Options) walkers(nDim int) int {
	if o.NWalkers > 0 {
		return o.NWalkers
	}
	return 2*nDim + 1
}

func (o Options) validate(nDim int) error {
	switch {
	case o.NSteps < 1:
		return fmt.Errorf("%w: nsteps must be at least 1, got %d", core.ErrInvalidInput, o.NSteps)
	case o.NWalkers < 0:
		return fmt.Errorf("%w: negative walker count %d", core.ErrInvalidInput, o.NWalkers)
	case o.walkers(nDim) < 2:
		return fmt.Errorf("%w: joint run needs at least 2 walkers", core.ErrTooFewWalkers)
	case o.WarmupSteps < 1:
		return fmt.Errorf("%w: warm-up steps must be at least 1, got %d", core.ErrInvalidInput, o.WarmupSteps)
	case o.WarmupWalkers < 2:
		return fmt.Errorf("%w: warm-up needs at least 2 walkers, got %d", core.ErrTooFewWalkers, o.WarmupWalkers)
	case o.WarmupTail < 1:
		return fmt.Errorf("%w: warm-up tail must be at least 1, got %d", core.ErrInvalidInput, o.WarmupTail)
	case !(o.InitialGuess > 0):
		return fmt.Errorf("%w: initial guess must be positive, got %g", core.ErrInvalidInput, o.InitialGuess)
	case !(o.Jitter > 0):
		return fmt.Errorf("%w: jitter must be positive, got %g", core.ErrInvalidInput, o.Jitter)
	}
	return nil
}
