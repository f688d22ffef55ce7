package emission

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godem/domain/core"
	"godem/domain/dem"
	"godem/domain/units"
)

func newTestDiscrete(t *testing.T, opts ...DiscreteOption) *Discrete {
	t.Helper()
	cf, err := NewDiscrete(
		units.New([]float64{1, 2, 3, 4, 5}, units.MegaKelvin),
		units.New([]float64{0.1, 0.3, 0.5, 0.7, 0.5}, units.ContFunc),
		opts...,
	)
	require.NoError(t, err)
	return cf
}

func mkBins(t *testing.T, edgesMK ...float64) *dem.TempBins {
	t.Helper()
	bins, err := dem.NewTempBins(units.New(edgesMK, units.MegaKelvin))
	require.NoError(t, err)
	return bins
}

func TestDiscreteBinned(t *testing.T) {
	cf := newTestDiscrete(t)

	got, err := cf.Binned(mkBins(t, 1, 3, 5))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.3, 0.6}, got, 1e-12)
}

func TestDiscreteBinnedMissingEdges(t *testing.T) {
	cf := newTestDiscrete(t)

	_, err := cf.Binned(mkBins(t, 0, 1, 3, 6))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMissingEdge)

	var missing *core.MissingEdgeError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []float64{0, 6e6}, missing.Edges)

	_, err = cf.Binned(mkBins(t, 0, 1, 3, 4))
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []float64{0}, missing.Edges)
}

func TestDiscreteEdgeTolerance(t *testing.T) {
	// Edges 0.5 K away from the samples still match with the default tolerance.
	bins, err := dem.NewTempBins(units.New([]float64{1e6 + 0.5, 3e6 - 0.5, 5e6}, units.Kelvin))
	require.NoError(t, err)

	got, err := newTestDiscrete(t).Binned(bins)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.3, 0.6}, got, 1e-12)

	_, err = newTestDiscrete(t, WithEdgeTolerance(0.1)).Binned(bins)
	assert.ErrorIs(t, err, core.ErrMissingEdge)
}

func TestDiscreteNarrowBins(t *testing.T) {
	// Samples closer together than twice the tolerance, each one an edge.
	temps := []float64{1e6, 1e6 + 0.8, 1e6 + 1.6, 1e6 + 2.4}
	cf, err := NewDiscrete(units.New(temps, units.Kelvin), units.New([]float64{1, 2, 3, 4}, units.ContFunc))
	require.NoError(t, err)

	bins, err := dem.NewTempBins(units.New(temps, units.Kelvin))
	require.NoError(t, err)
	got, err := cf.Binned(bins)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 3, 4}, got)

	// Two edges sharing the only nearby sample leave a bin without samples.
	shared, err := dem.NewTempBins(units.New([]float64{1e6, 1e6 + 2.4, 1e6 + 2.6}, units.Kelvin))
	require.NoError(t, err)
	_, err = cf.Binned(shared)
	var missing *core.MissingEdgeError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []float64{1e6 + 2.6}, missing.Edges)
}

func TestDiscreteCacheIsPerInstance(t *testing.T) {
	cf := newTestDiscrete(t)
	a := mkBins(t, 1, 3, 5)
	b := mkBins(t, 1, 3, 5)

	_, err := cf.Binned(a)
	require.NoError(t, err)
	assert.Equal(t, 1, cf.binned.ItemCount())

	_, err = cf.Binned(a)
	require.NoError(t, err)
	assert.Equal(t, 1, cf.binned.ItemCount())

	_, err = cf.Binned(b)
	require.NoError(t, err)
	assert.Equal(t, 2, cf.binned.ItemCount())
}

func TestDiscreteCachedResultIsCopied(t *testing.T) {
	cf := newTestDiscrete(t)
	bins := mkBins(t, 1, 3, 5)

	first, err := cf.Binned(bins)
	require.NoError(t, err)
	first[0] = 42

	second, err := cf.Binned(bins)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, second[0], 1e-12)
}

func TestDiscreteConcurrentBinning(t *testing.T) {
	cf := newTestDiscrete(t)
	bins := []*dem.TempBins{mkBins(t, 1, 3, 5), mkBins(t, 1, 2, 5), mkBins(t, 2, 4)}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(b *dem.TempBins) {
			defer wg.Done()
			_, err := cf.Binned(b)
			assert.NoError(t, err)
		}(bins[i%len(bins)])
	}
	wg.Wait()

	assert.Equal(t, len(bins), cf.binned.ItemCount())
}

func TestNewDiscreteInvalid(t *testing.T) {
	temps := units.New([]float64{1, 2}, units.MegaKelvin)

	_, err := NewDiscrete(temps, units.New([]float64{1}, units.ContFunc))
	assert.ErrorIs(t, err, core.ErrLengthMismatch)

	_, err = NewDiscrete(temps, units.New([]float64{1, 2}, units.DEM))
	assert.ErrorIs(t, err, core.ErrDimension)

	_, err = NewDiscrete(units.New([]float64{1, 2}, units.Centimeter), units.New([]float64{1, 2}, units.ContFunc))
	assert.ErrorIs(t, err, core.ErrDimension)

	_, err = NewDiscrete(units.New(nil, units.Kelvin), units.New(nil, units.ContFunc))
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = NewDiscrete(units.New([]float64{2, 1}, units.Kelvin), units.New([]float64{1, 2}, units.ContFunc))
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = NewDiscrete(temps, units.New([]float64{1, 2}, units.ContFunc), WithEdgeTolerance(-1))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestDiscreteAccessorsCopy(t *testing.T) {
	cf := newTestDiscrete(t)
	temps := cf.Temperatures()
	temps[0] = 0

	assert.Equal(t, 1e6, cf.Temperatures()[0])
	assert.Equal(t, DefaultEdgeTolerance, cf.Tolerance())
}
