package testkit

import (
	"fmt"
	"math"

	"godem/domain/dem"
	"godem/domain/emission"
	"godem/domain/units"
)

// GaussianDEM builds a DEM shaped exp(-((T - peak)/width)^2) cm^-5 over bins,
// with peak and width in MK.
func GaussianDEM(bins *dem.TempBins, peakMK, widthMK float64) (*dem.BinnedDEM, error) {
	centers, err := bins.CentersIn(units.MegaKelvin)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(centers))
	for i, c := range centers {
		x := (c - peakMK) / widthMK
		values[i] = math.Exp(-x * x)
	}
	return dem.NewBinnedDEM(bins, units.New(values, units.DEM))
}

// SyntheticLines creates one Gaussian-contribution line per center (MK) and
// sets its observation to the intensity predicted from demIn, with an
// uncertainty of relErr times that intensity.
func SyntheticLines(centersMK []float64, widthMK float64, demIn *dem.BinnedDEM, relErr float64) ([]*emission.EmissionLine, error) {
	lines := make([]*emission.EmissionLine, 0, len(centersMK))
	for _, c := range centersMK {
		cf, err := emission.NewGaussian(units.Scalar(c, units.MegaKelvin), units.Scalar(widthMK, units.MegaKelvin))
		if err != nil {
			return nil, err
		}
		line := emission.NewEmissionLine(cf)
		line.Name = fmt.Sprintf("gauss-%.3fMK", c)

		intensity, err := line.PredictedIntensity(demIn)
		if err != nil {
			return nil, err
		}
		if err := line.SetObservation(intensity, relErr*intensity); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
