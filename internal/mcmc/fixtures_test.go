package mcmc

import (
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"godem/adapters/ensemble"
	"godem/domain/dem"
	"godem/domain/emission"
	"godem/domain/units"
	"godem/internal/testkit"
	"godem/ports"
)

func syntheticProblem(t *testing.T) ([]*emission.EmissionLine, *dem.TempBins, *dem.BinnedDEM) {
	t.Helper()
	bins, err := dem.NewTempBins(units.New(testkit.Linspace(1, 2, 6), units.MegaKelvin))
	require.NoError(t, err)
	demIn, err := testkit.GaussianDEM(bins, 1.2, 0.2)
	require.NoError(t, err)
	lines, err := testkit.SyntheticLines(testkit.Linspace(1, 2, 11), 0.1, demIn, 0.1)
	require.NoError(t, err)
	return lines, bins, demIn
}

func demOf(t *testing.T, bins *dem.TempBins, values ...float64) *dem.BinnedDEM {
	t.Helper()
	d, err := dem.NewBinnedDEM(bins, units.New(values, units.DEM))
	require.NoError(t, err)
	return d
}

// countingFactory records how many samplers were created
type countingFactory struct {
	inner   ports.SamplerFactory
	created atomic.Int32
}

func newCountingFactory() *countingFactory {
	return &countingFactory{inner: ensemble.NewFactory(ensemble.WithWorkers(2))}
}

func (f *countingFactory) NewSampler(nWalkers, nDim int, fn ports.LogProbFunc, rng *rand.Rand) (ports.EnsembleSampler, error) {
	f.created.Add(1)
	return f.inner.NewSampler(nWalkers, nDim, fn, rng)
}
