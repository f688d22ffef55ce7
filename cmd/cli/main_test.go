package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godem/adapters/excel"
	"godem/domain/core"
)

func TestBinFlags(t *testing.T) {
	b := binFlags{tmin: 1, tmax: 2, nbins: 4}
	bins, err := b.bins()
	require.NoError(t, err)
	assert.Equal(t, []float64{1e6, 1.25e6, 1.5e6, 1.75e6, 2e6}, bins.Edges())

	b.edges = "0.5, 1,3"
	bins, err = b.bins()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5e6, 1e6, 3e6}, bins.Edges())

	b.edges = "1,x"
	_, err = b.bins()
	assert.Error(t, err)

	b.edges = "2,1"
	_, err = b.bins()
	assert.ErrorIs(t, err, core.ErrInvalidBins)

	_, err = (&binFlags{nbins: 0}).bins()
	assert.Error(t, err)
}

func TestSynthInvertInspect(t *testing.T) {
	dir := t.TempDir()
	cf := filepath.Join(dir, "cf.csv")
	obs := filepath.Join(dir, "obs.csv")
	out := filepath.Join(dir, "dem.xlsx")

	t.Chdir(dir)
	t.Setenv("DEM_NSTEPS", "3")
	t.Setenv("DEM_WARMUP_STEPS", "10")
	t.Setenv("DEM_INITIAL_GUESS", "1")
	t.Setenv("DEM_SEED", "5")

	run := func(args ...string) error {
		cmd := newRootCmd()
		cmd.SetArgs(append(args, "--log-level", "ERROR"))
		return cmd.Execute()
	}

	require.NoError(t, run("synth", "--cont-funcs", cf, "--intensities", obs, "--grid", "2"))
	require.NoError(t, run("loci", "--cont-funcs", cf, "--intensities", obs))
	require.NoError(t, run("invert", "--cont-funcs", cf, "--intensities", obs, "--output", out, "--json"))
	require.NoError(t, run("inspect", out))

	result, err := excel.LoadOutput(out)
	require.NoError(t, err)
	walkers, nBins := result.Shape()
	assert.Equal(t, 11, walkers)
	assert.Equal(t, 5, nBins)

	assert.Error(t, run("inspect", filepath.Join(dir, "absent.xlsx")))
	assert.Error(t, run("invert", "--intensities", obs, "--cont-funcs", ""))
}
