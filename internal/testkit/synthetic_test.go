package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godem/domain/dem"
	"godem/domain/units"
)

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{1, 1.25, 1.5, 1.75, 2}, Linspace(1, 2, 5))
	assert.Equal(t, []float64{3}, Linspace(3, 4, 1))
}

func TestSyntheticLines(t *testing.T) {
	bins, err := dem.NewTempBins(units.New(Linspace(1, 2, 6), units.MegaKelvin))
	require.NoError(t, err)
	demIn, err := GaussianDEM(bins, 1.2, 0.2)
	require.NoError(t, err)

	lines, err := SyntheticLines(Linspace(1, 2, 5), 0.1, demIn, 0.1)
	require.NoError(t, err)
	require.Len(t, lines, 5)

	for _, line := range lines {
		intensity, sigma, ok := line.Observation()
		require.True(t, ok)
		assert.Greater(t, intensity, 0.0)
		assert.InDelta(t, intensity/10, sigma, intensity*1e-12)

		predicted, err := line.PredictedIntensity(demIn)
		require.NoError(t, err)
		assert.Equal(t, intensity, predicted)
	}
	assert.Equal(t, "gauss-1.000MK", lines[0].Name)
}
