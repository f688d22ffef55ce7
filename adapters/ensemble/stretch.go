// Package ensemble implements the affine-invariant ensemble sampler of
// Goodman & Weare (2010) with the parallel "stretch move" split of
// Foreman-Mackey et al. (2013).
//
// Walkers are split in two halves; each half is moved using the other half
// as its complementary ensemble, so the log-probabilities of one half can be
// evaluated concurrently. All random numbers are drawn on the calling
// goroutine before evaluation, which keeps runs reproducible for a given
// seed regardless of scheduling.
package ensemble

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"godem/domain/core"
	"godem/ports"
)

// DefaultScale is the stretch move scale parameter a
const DefaultScale = 2.0

// ProgressFunc is called after every completed step
type ProgressFunc func(done, total int)

// Factory creates stretch-move samplers
type Factory struct {
	scale    float64
	workers  int
	progress ProgressFunc
}

// Option configures a Factory
type Option func(*Factory)

// WithScale sets the stretch scale parameter (must be > 1)
func WithScale(a float64) Option {
	return func(f *Factory) { f.scale = a }
}

// WithWorkers bounds the number of concurrent log-probability evaluations
func WithWorkers(n int) Option {
	return func(f *Factory) { f.workers = n }
}

// WithProgress registers a progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(f *Factory) { f.progress = fn }
}

// NewFactory creates a sampler factory
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		scale:   DefaultScale,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.workers < 1 {
		f.workers = 1
	}
	return f
}

var _ ports.SamplerFactory = (*Factory)(nil)

// NewSampler validates the ensemble shape and returns a fresh sampler
func (f *Factory) NewSampler(nWalkers, nDim int, logProb ports.LogProbFunc, rng *rand.Rand) (ports.EnsembleSampler, error) {
	if nDim < 1 {
		return nil, fmt.Errorf("%w: dimension must be at least 1, got %d", core.ErrInvalidInput, nDim)
	}
	if nWalkers < 2 {
		return nil, fmt.Errorf("%w: need at least 2 walkers, got %d", core.ErrTooFewWalkers, nWalkers)
	}
	if logProb == nil || rng == nil {
		return nil, fmt.Errorf("%w: log-probability function and rng are required", core.ErrInvalidInput)
	}
	if !(f.scale > 1) {
		return nil, fmt.Errorf("%w: stretch scale must exceed 1, got %g", core.ErrInvalidInput, f.scale)
	}
	return &Sampler{
		nWalkers: nWalkers,
		nDim:     nDim,
		logProb:  logProb,
		rng:      rng,
		scale:    f.scale,
		workers:  f.workers,
		progress: f.progress,
		accepted: make([]int, nWalkers),
	}, nil
}

// Sampler is a stretch-move ensemble sampler. A Sampler is not safe for
// concurrent use; only its log-probability evaluations run in parallel.
type Sampler struct {
	nWalkers int
	nDim     int
	logProb  ports.LogProbFunc
	rng      *rand.Rand
	scale    float64
	workers  int
	progress ProgressFunc

	chain    [][][]float64
	lnp      [][]float64
	accepted []int
}

var _ ports.EnsembleSampler = (*Sampler)(nil)

// NWalkers returns the ensemble size
func (s *Sampler) NWalkers() int { return s.nWalkers }

// NDim returns the parameter dimension
func (s *Sampler) NDim() int { return s.nDim }

// Chain returns a copy of the stored walker positions as [step][walker][dim]
func (s *Sampler) Chain() [][][]float64 {
	out := make([][][]float64, len(s.chain))
	for i, step := range s.chain {
		out[i] = make([][]float64, len(step))
		for k, walker := range step {
			out[i][k] = slices.Clone(walker)
		}
	}
	return out
}

// LogProb returns a copy of the stored log-probabilities as [step][walker]
func (s *Sampler) LogProb() [][]float64 {
	out := make([][]float64, len(s.lnp))
	for i, step := range s.lnp {
		out[i] = slices.Clone(step)
	}
	return out
}

// AcceptanceFraction returns the accepted fraction of proposals per walker
func (s *Sampler) AcceptanceFraction() []float64 {
	out := make([]float64, s.nWalkers)
	steps := len(s.chain)
	if steps == 0 {
		return out
	}
	for k, a := range s.accepted {
		out[k] = float64(a) / float64(steps)
	}
	return out
}

// RunMCMC advances the ensemble nSteps times from initial.
func (s *Sampler) RunMCMC(ctx context.Context, initial [][]float64, nSteps int) error {
	if nSteps < 0 {
		return fmt.Errorf("%w: negative step count %d", core.ErrInvalidInput, nSteps)
	}
	pos, err := s.copyInitial(initial)
	if err != nil {
		return err
	}

	lp := make([]float64, s.nWalkers)
	if err := s.evaluate(ctx, pos, lp); err != nil {
		return err
	}
	for k, v := range lp {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: log-probability of walker %d is NaN", core.ErrBadInitial, k)
		}
	}

	// Scratch buffers reused across steps.
	half := (s.nWalkers + 1) / 2
	proposals := make([][]float64, half)
	for i := range proposals {
		proposals[i] = make([]float64, s.nDim)
	}
	propLP := make([]float64, half)
	zs := make([]float64, half)
	logU := make([]float64, half)

	for step := 0; step < nSteps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for split := 0; split < 2; split++ {
			active, complement := s.partition(split)
			n := len(active)

			for i, k := range active {
				z := s.drawZ()
				c := pos[complement[s.rng.Intn(len(complement))]]
				x := pos[k]
				q := proposals[i]
				for d := 0; d < s.nDim; d++ {
					q[d] = c[d] + z*(x[d]-c[d])
				}
				zs[i] = z
				logU[i] = math.Log(s.rng.Float64())
			}

			if err := s.evaluate(ctx, proposals[:n], propLP[:n]); err != nil {
				return err
			}

			for i, k := range active {
				lnpdiff := float64(s.nDim-1)*math.Log(zs[i]) + propLP[i] - lp[k]
				if lnpdiff > logU[i] {
					copy(pos[k], proposals[i])
					lp[k] = propLP[i]
					s.accepted[k]++
				}
			}
		}

		s.record(pos, lp)
		if s.progress != nil {
			s.progress(step+1, nSteps)
		}
	}
	return nil
}

func (s *Sampler) copyInitial(initial [][]float64) ([][]float64, error) {
	if len(initial) != s.nWalkers {
		return nil, fmt.Errorf("%w: got %d initial positions for %d walkers", core.ErrBadInitial, len(initial), s.nWalkers)
	}
	pos := make([][]float64, s.nWalkers)
	for k, p := range initial {
		if len(p) != s.nDim {
			return nil, fmt.Errorf("%w: walker %d has dimension %d, want %d", core.ErrBadInitial, k, len(p), s.nDim)
		}
		pos[k] = append([]float64(nil), p...)
	}
	return pos, nil
}

// partition returns walker indices of the half being moved and of its
// complementary ensemble.
func (s *Sampler) partition(split int) (active, complement []int) {
	for k := 0; k < s.nWalkers; k++ {
		if k%2 == split {
			active = append(active, k)
		} else {
			complement = append(complement, k)
		}
	}
	return active, complement
}

// drawZ samples the stretch factor from g(z) ∝ 1/sqrt(z) on [1/a, a].
func (s *Sampler) drawZ() float64 {
	u := s.rng.Float64()
	z := (s.scale-1)*u + 1
	return z * z / s.scale
}

func (s *Sampler) evaluate(ctx context.Context, points [][]float64, out []float64) error {
	if s.workers == 1 || len(points) == 1 {
		for i, p := range points {
			out[i] = s.logProb(p)
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range points {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = s.logProb(points[i])
			return nil
		})
	}
	return g.Wait()
}

func (s *Sampler) record(pos [][]float64, lp []float64) {
	snapshot := make([][]float64, s.nWalkers)
	for k, p := range pos {
		snapshot[k] = append([]float64(nil), p...)
	}
	s.chain = append(s.chain, snapshot)
	s.lnp = append(s.lnp, append([]float64(nil), lp...))
}
