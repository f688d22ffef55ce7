package app

import (
	"fmt"
	"strconv"

	"godem/adapters/excel"
	"godem/domain/dem"
	"godem/domain/emission"
	"godem/domain/units"
	"godem/internal"
	apperrors "godem/internal/errors"
	"godem/internal/testkit"
)

// SynthRequest describes a synthetic observation: a Gaussian DEM over bins
// and Gaussian-profile lines observed with relative error RelErr.
type SynthRequest struct {
	Bins          *dem.TempBins
	DEMPeakMK     float64
	DEMWidthMK    float64
	LineCentersMK []float64
	LineWidthMK   float64
	RelErr        float64
	// GridPerBin is how many contribution function samples each bin is
	// split into. Bin edges are always on the grid.
	GridPerBin int

	ContFuncs   string // output paths
	Intensities string
}

// SynthResult holds the generated truth and lines
type SynthResult struct {
	DEM   *dem.BinnedDEM
	Lines []*emission.EmissionLine
	Grid  []float64 // K
}

type profiled interface {
	At(temps units.Quantity) ([]float64, error)
}

// Synthesize simulates line intensities from a known DEM and writes the
// contribution function and intensity tables, ready to be inverted.
func Synthesize(req SynthRequest, logger *internal.Logger) (*SynthResult, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if req.Bins == nil || req.GridPerBin < 1 || !(req.RelErr > 0) {
		return nil, apperrors.InvalidInput("synthetic run needs bins, a positive grid density and a positive relative error")
	}

	truth, err := testkit.GaussianDEM(req.Bins, req.DEMPeakMK, req.DEMWidthMK)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}
	lines, err := testkit.SyntheticLines(req.LineCentersMK, req.LineWidthMK, truth, req.RelErr)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}

	grid := binGrid(req.Bins, req.GridPerBin)
	if err := writeContFuncs(req.ContFuncs, grid, lines); err != nil {
		return nil, err
	}
	if err := writeIntensities(req.Intensities, lines); err != nil {
		return nil, err
	}

	logger.Info("[Synth] Wrote %d lines on a %d-point grid to %s and %s",
		len(lines), len(grid), req.ContFuncs, req.Intensities)
	return &SynthResult{DEM: truth, Lines: lines, Grid: grid}, nil
}

// binGrid splits every bin into n equal steps, in K
func binGrid(bins *dem.TempBins, n int) []float64 {
	grid := []float64{bins.Min()}
	for lo, hi := range bins.Iter() {
		step := (hi - lo) / float64(n)
		for k := 1; k < n; k++ {
			grid = append(grid, lo+float64(k)*step)
		}
		grid = append(grid, hi)
	}
	return grid
}

func writeContFuncs(path string, grid []float64, lines []*emission.EmissionLine) error {
	headers := []string{excel.TemperatureColumn}
	columns := make([][]float64, len(lines))
	for i, line := range lines {
		cf, ok := line.ContFunc().(profiled)
		if !ok {
			return apperrors.InvalidInput(fmt.Sprintf("line %s cannot be sampled on a grid", line.Name))
		}
		values, err := cf.At(units.New(grid, units.Kelvin))
		if err != nil {
			return apperrors.WithCode(apperrors.CodeInternalError, err)
		}
		headers = append(headers, line.Name)
		columns[i] = values
	}

	rows := make([][]float64, len(grid))
	for r, temp := range grid {
		row := make([]float64, 0, len(lines)+1)
		row = append(row, temp)
		for _, col := range columns {
			row = append(row, col[r])
		}
		rows[r] = row
	}
	return excel.WriteTable(path, excel.NumericTable(headers, rows))
}

func writeIntensities(path string, lines []*emission.EmissionLine) error {
	table := &excel.Table{Headers: []string{excel.LineColumn, excel.IntensityColumn, excel.ErrorColumn}}
	for _, line := range lines {
		intensity, sigma, _ := line.Observation()
		table.Rows = append(table.Rows, []string{
			line.Name,
			strconv.FormatFloat(intensity, 'g', -1, 64),
			strconv.FormatFloat(sigma, 'g', -1, 64),
		})
	}
	return excel.WriteTable(path, table)
}
