package dem

import (
	"fmt"
	"slices"

	"godem/domain/core"
	"godem/domain/units"
)

// BinnedDEM is a DEM over a set of temperature bins, in cm^-5.
type BinnedDEM struct {
	bins   *TempBins
	values []float64
}

// NewBinnedDEM checks that values carry the DEM dimension and match the bin count.
func NewBinnedDEM(bins *TempBins, values units.Quantity) (*BinnedDEM, error) {
	if bins == nil {
		return nil, fmt.Errorf("%w: nil temperature bins", core.ErrInvalidInput)
	}
	raw, err := values.In(units.DEM)
	if err != nil {
		return nil, fmt.Errorf("DEM values: %w", err)
	}
	if len(raw) != bins.Len() {
		return nil, fmt.Errorf("%w: %d DEM values for %d bins", core.ErrLengthMismatch, len(raw), bins.Len())
	}
	return &BinnedDEM{bins: bins, values: raw}, nil
}

// TempBins returns the bins the DEM is defined on
func (d *BinnedDEM) TempBins() *TempBins {
	return d.bins
}

// Values returns the DEM values in cm^-5
func (d *BinnedDEM) Values() []float64 {
	return slices.Clone(d.values)
}

// EmissionMeasure integrates the DEM over each bin (cm^-5 K).
func (d *BinnedDEM) EmissionMeasure() []float64 {
	widths := d.bins.widthsView()
	out := make([]float64, len(d.values))
	for i, v := range d.values {
		out[i] = v * widths[i]
	}
	return out
}
