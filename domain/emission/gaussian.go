package emission

import (
	"fmt"
	"math"

	"godem/domain/core"
	"godem/domain/dem"
	"godem/domain/units"
)

// gaussianPeak is the contribution function value at the line center, in cm^5 / K.
const gaussianPeak = 1e6

// Gaussian is an analytic contribution function with a Gaussian profile in
// temperature.
type Gaussian struct {
	centerMK float64
	widthMK  float64
}

// NewGaussian creates a Gaussian contribution function. center and width
// must be scalar temperatures and width must be positive.
func NewGaussian(center, width units.Quantity) (*Gaussian, error) {
	c, err := scalarIn(center, units.MegaKelvin, "center")
	if err != nil {
		return nil, err
	}
	w, err := scalarIn(width, units.MegaKelvin, "width")
	if err != nil {
		return nil, err
	}
	if !(w > 0) {
		return nil, fmt.Errorf("%w: gaussian width must be positive, got %g MK", core.ErrInvalidInput, w)
	}
	return &Gaussian{centerMK: c, widthMK: w}, nil
}

// Center returns the line center in MK
func (g *Gaussian) Center() float64 {
	return g.centerMK
}

// Width returns the profile width in MK
func (g *Gaussian) Width() float64 {
	return g.widthMK
}

// Binned evaluates exp(-((center - T)/width)^2) * 1e6 at every bin center.
func (g *Gaussian) Binned(bins *dem.TempBins) ([]float64, error) {
	centers, err := bins.CentersIn(units.MegaKelvin)
	if err != nil {
		return nil, err
	}
	g.profile(centers)
	return centers, nil
}

// At evaluates the profile at arbitrary temperatures, in cm^5 / K.
func (g *Gaussian) At(temps units.Quantity) ([]float64, error) {
	values, err := temps.In(units.MegaKelvin)
	if err != nil {
		return nil, err
	}
	g.profile(values)
	return values, nil
}

// profile replaces temperatures in MK by the profile value, in place
func (g *Gaussian) profile(temps []float64) {
	for i, t := range temps {
		x := (g.centerMK - t) / g.widthMK
		temps[i] = math.Exp(-x*x) * gaussianPeak
	}
}

func scalarIn(q units.Quantity, u units.Unit, name string) (float64, error) {
	if q.Len() != 1 {
		return 0, fmt.Errorf("%w: %s must be a scalar, got %d values", core.ErrInvalidInput, name, q.Len())
	}
	v, err := q.In(u)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v[0], nil
}
