package ensemble

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"godem/domain/core"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func gaussianLogProb(params []float64) float64 {
	sum := 0.0
	for _, p := range params {
		sum += p * p
	}
	return -sum / 2
}

func initialBall(rng *rand.Rand, nWalkers, nDim int, center float64) [][]float64 {
	out := make([][]float64, nWalkers)
	for k := range out {
		out[k] = make([]float64, nDim)
		for d := range out[k] {
			out[k][d] = center + 0.1*rng.Float64()
		}
	}
	return out
}

func TestSamplerRecoversGaussian(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sampler, err := NewFactory(WithWorkers(4)).NewSampler(32, 2, gaussianLogProb, rng)
	require.NoError(t, err)

	require.NoError(t, sampler.RunMCMC(context.Background(), initialBall(rng, 32, 2, 0), 2000))

	chain := sampler.Chain()
	require.Len(t, chain, 2000)

	var xs []float64
	for _, step := range chain[500:] {
		for _, walker := range step {
			xs = append(xs, walker[0])
		}
	}
	mean, err := stats.Mean(xs)
	require.NoError(t, err)
	variance, err := stats.Variance(xs)
	require.NoError(t, err)

	assert.InDelta(t, 0, mean, 0.15)
	assert.InDelta(t, 1, variance, 0.3)

	for _, f := range sampler.AcceptanceFraction() {
		assert.Greater(t, f, 0.2)
		assert.Less(t, f, 0.95)
	}
}

func TestSamplerRejectsInfeasible(t *testing.T) {
	logProb := func(params []float64) float64 {
		if params[0] < 0 {
			return math.Inf(-1)
		}
		return -params[0]
	}

	rng := rand.New(rand.NewSource(7))
	sampler, err := NewFactory().NewSampler(6, 1, logProb, rng)
	require.NoError(t, err)
	require.NoError(t, sampler.RunMCMC(context.Background(), initialBall(rng, 6, 1, 0.5), 300))

	for s, step := range sampler.Chain() {
		for k, walker := range step {
			assert.GreaterOrEqual(t, walker[0], 0.0, "step %d walker %d", s, k)
		}
	}
	for _, step := range sampler.LogProb() {
		for _, lp := range step {
			assert.False(t, math.IsInf(lp, -1))
		}
	}
}

func TestSamplerDeterministicAcrossWorkers(t *testing.T) {
	run := func(workers int) [][][]float64 {
		rng := rand.New(rand.NewSource(99))
		sampler, err := NewFactory(WithWorkers(workers)).NewSampler(8, 3, gaussianLogProb, rng)
		require.NoError(t, err)
		require.NoError(t, sampler.RunMCMC(context.Background(), initialBall(rng, 8, 3, 1), 50))
		return sampler.Chain()
	}

	assert.Equal(t, run(1), run(8))
}

func TestSamplerAppendsAcrossRuns(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sampler, err := NewFactory().NewSampler(4, 1, gaussianLogProb, rng)
	require.NoError(t, err)

	start := initialBall(rng, 4, 1, 0)
	require.NoError(t, sampler.RunMCMC(context.Background(), start, 5))
	require.NoError(t, sampler.RunMCMC(context.Background(), start, 7))

	assert.Len(t, sampler.Chain(), 12)
	assert.Len(t, sampler.LogProb(), 12)
	assert.Equal(t, 4, sampler.NWalkers())
	assert.Equal(t, 1, sampler.NDim())
}

func TestSamplerHistoryIsCopied(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	sampler, err := NewFactory().NewSampler(4, 2, gaussianLogProb, rng)
	require.NoError(t, err)
	require.NoError(t, sampler.RunMCMC(context.Background(), initialBall(rng, 4, 2, 0), 3))

	chain := sampler.Chain()
	lnp := sampler.LogProb()
	want := chain[2][1][0]
	wantLP := lnp[2][1]

	chain[2][1][0] = 1e9
	chain[0] = nil
	lnp[2][1] = 1e9

	assert.Equal(t, want, sampler.Chain()[2][1][0])
	assert.NotNil(t, sampler.Chain()[0])
	assert.Equal(t, wantLP, sampler.LogProb()[2][1])
}

func TestSamplerProgress(t *testing.T) {
	var calls []int
	factory := NewFactory(WithProgress(func(done, total int) {
		assert.Equal(t, 3, total)
		calls = append(calls, done)
	}))

	rng := rand.New(rand.NewSource(5))
	sampler, err := factory.NewSampler(4, 2, gaussianLogProb, rng)
	require.NoError(t, err)
	require.NoError(t, sampler.RunMCMC(context.Background(), initialBall(rng, 4, 2, 0), 3))

	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestSamplerCancellation(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	sampler, err := NewFactory().NewSampler(4, 2, gaussianLogProb, rng)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = sampler.RunMCMC(ctx, initialBall(rng, 4, 2, 0), 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSamplerValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	factory := NewFactory()

	_, err := factory.NewSampler(1, 1, gaussianLogProb, rng)
	assert.ErrorIs(t, err, core.ErrTooFewWalkers)

	_, err = factory.NewSampler(4, 0, gaussianLogProb, rng)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = NewFactory(WithScale(1)).NewSampler(4, 1, gaussianLogProb, rng)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	sampler, err := factory.NewSampler(4, 2, gaussianLogProb, rng)
	require.NoError(t, err)

	err = sampler.RunMCMC(context.Background(), initialBall(rng, 3, 2, 0), 1)
	assert.ErrorIs(t, err, core.ErrBadInitial)

	err = sampler.RunMCMC(context.Background(), initialBall(rng, 4, 3, 0), 1)
	assert.ErrorIs(t, err, core.ErrBadInitial)

	nan, err := factory.NewSampler(2, 1, func([]float64) float64 { return math.NaN() }, rng)
	require.NoError(t, err)
	err = nan.RunMCMC(context.Background(), initialBall(rng, 2, 1, 0), 1)
	assert.ErrorIs(t, err, core.ErrBadInitial)
}
