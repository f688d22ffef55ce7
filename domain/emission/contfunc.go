// Package emission models spectral lines and their temperature-dependent
// contribution functions.
package emission

import (
	"godem/domain/dem"
)

// ContFunc is a line contribution function that can be averaged over a set
// of temperature bins. Binned returns one value per bin in cm^5 / K.
//
// Implementations must be safe for concurrent use.
type ContFunc interface {
	Binned(bins *dem.TempBins) ([]float64, error)
}

var (
	_ ContFunc = (*Gaussian)(nil)
	_ ContFunc = (*Discrete)(nil)
)
