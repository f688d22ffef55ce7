package dem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godem/domain/core"
	"godem/domain/units"
)

func newTestBins(t *testing.T) *TempBins {
	t.Helper()
	bins, err := NewTempBins(units.New([]float64{1, 2, 4}, units.Kelvin))
	require.NoError(t, err)
	return bins
}

func TestTempBinsDerived(t *testing.T) {
	bins := newTestBins(t)

	assert.Equal(t, 2, bins.Len())
	assert.Equal(t, []float64{1, 2}, bins.Widths())
	assert.Equal(t, []float64{1.5, 3}, bins.Centers())
	assert.Equal(t, 1.0, bins.Min())
	assert.Equal(t, 4.0, bins.Max())
}

func TestTempBinsIter(t *testing.T) {
	bins := newTestBins(t)
	expected := [][2]float64{{1, 2}, {2, 4}}

	// The sequence restarts on every range.
	for pass := 0; pass < 2; pass++ {
		var got [][2]float64
		for lo, hi := range bins.Iter() {
			got = append(got, [2]float64{lo, hi})
		}
		assert.Equal(t, expected, got, "pass %d", pass)
	}

	for lo, hi := range bins.Iter() {
		assert.Equal(t, 1.0, lo)
		assert.Equal(t, 2.0, hi)
		break
	}
}

func TestTempBinsWidthsMatchEdges(t *testing.T) {
	edges := []float64{0.5, 0.7, 1.1, 2.0, 2.05, 9}
	bins, err := NewTempBins(units.New(edges, units.MegaKelvin))
	require.NoError(t, err)

	assert.Equal(t, len(edges)-1, bins.Len())
	kelvin := bins.Edges()
	widths := bins.Widths()
	for i := range widths {
		assert.Equal(t, kelvin[i+1]-kelvin[i], widths[i])
	}
}

func TestTempBinsUnitConversion(t *testing.T) {
	bins, err := NewTempBins(units.New([]float64{1, 3, 5}, units.MegaKelvin))
	require.NoError(t, err)

	assert.Equal(t, []float64{1e6, 3e6, 5e6}, bins.Edges())
	centers, err := bins.CentersIn(units.MegaKelvin)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 4}, centers, 1e-12)
}

func TestTempBinsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		edges units.Quantity
		want  error
	}{
		{"wrong dimension", units.New([]float64{1, 2}, units.Centimeter), core.ErrDimension},
		{"single edge", units.New([]float64{1}, units.Kelvin), core.ErrInvalidBins},
		{"empty", units.New(nil, units.Kelvin), core.ErrInvalidBins},
		{"decreasing", units.New([]float64{1, 3, 2}, units.Kelvin), core.ErrInvalidBins},
		{"repeated edge", units.New([]float64{1, 2, 2}, units.Kelvin), core.ErrInvalidBins},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTempBins(tt.edges)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTempBinsImmutable(t *testing.T) {
	bins := newTestBins(t)

	edges := bins.Edges()
	edges[0] = 100
	widths := bins.Widths()
	widths[0] = 100

	assert.Equal(t, []float64{1, 2, 4}, bins.Edges())
	assert.Equal(t, []float64{1, 2}, bins.Widths())
}

func TestTempBinsIdentity(t *testing.T) {
	a := newTestBins(t)
	b := newTestBins(t)

	assert.Equal(t, a.Edges(), b.Edges())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, a.ID(), a.ID())
}

func TestBinnedDEM(t *testing.T) {
	bins := newTestBins(t)

	d, err := NewBinnedDEM(bins, units.New([]float64{3, 5}, units.DEM))
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5}, d.Values())
	assert.Equal(t, []float64{3, 10}, d.EmissionMeasure())
	assert.Same(t, bins, d.TempBins())

	_, err = NewBinnedDEM(bins, units.New([]float64{1, 2, 3}, units.DEM))
	assert.ErrorIs(t, err, core.ErrLengthMismatch)

	_, err = NewBinnedDEM(bins, units.New([]float64{1, 2}, units.Kelvin))
	assert.ErrorIs(t, err, core.ErrDimension)

	_, err = NewBinnedDEM(nil, units.New([]float64{1, 2}, units.DEM))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
