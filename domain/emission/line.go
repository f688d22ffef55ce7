package emission

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"godem/domain/core"
	"godem/domain/dem"
)

// EmissionLine ties a contribution function to an observed intensity.
//
// The observation may be supplied at construction or set exactly once later,
// e.g. after simulating intensities from a known DEM.
type EmissionLine struct {
	Name string

	contFunc     ContFunc
	intensityObs float64
	sigmaObs     float64
	observed     bool
}

// NewEmissionLine creates a line without an observation
func NewEmissionLine(cf ContFunc) *EmissionLine {
	return &EmissionLine{contFunc: cf}
}

// NewObservedLine creates a line with its observed intensity and uncertainty
func NewObservedLine(cf ContFunc, intensity, sigma float64) (*EmissionLine, error) {
	line := NewEmissionLine(cf)
	if err := line.SetObservation(intensity, sigma); err != nil {
		return nil, err
	}
	return line, nil
}

// ContFunc returns the line's contribution function
func (l *EmissionLine) ContFunc() ContFunc {
	return l.contFunc
}

// SetObservation records the observed intensity and its uncertainty. It can
// only be called once per line.
func (l *EmissionLine) SetObservation(intensity, sigma float64) error {
	if l.observed {
		return fmt.Errorf("%w: %s", core.ErrAlreadyObserved, l.label())
	}
	if math.IsNaN(intensity) || math.IsInf(intensity, 0) {
		return fmt.Errorf("%w: intensity %g for %s", core.ErrInvalidInput, intensity, l.label())
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return fmt.Errorf("%w: uncertainty must be positive and finite, got %g for %s", core.ErrInvalidInput, sigma, l.label())
	}
	l.intensityObs = intensity
	l.sigmaObs = sigma
	l.observed = true
	return nil
}

// Observation returns the observed intensity and uncertainty; ok is false
// until an observation has been set.
func (l *EmissionLine) Observation() (intensity, sigma float64, ok bool) {
	return l.intensityObs, l.sigmaObs, l.observed
}

// PredictedIntensity is the intensity this line would have for DEM d
func (l *EmissionLine) PredictedIntensity(d *dem.BinnedDEM) (float64, error) {
	return PredictedIntensity(l.contFunc, d)
}

func (l *EmissionLine) label() string {
	if l.Name != "" {
		return "line " + l.Name
	}
	return "line"
}

// PredictedIntensity computes sum_i cf[i] * dem[i] * width[i]. The units
// cm^5/K * cm^-5 * K cancel, so the result is dimensionless.
func PredictedIntensity(cf ContFunc, d *dem.BinnedDEM) (float64, error) {
	binned, err := cf.Binned(d.TempBins())
	if err != nil {
		return 0, err
	}
	return floats.Dot(binned, d.EmissionMeasure()), nil
}
