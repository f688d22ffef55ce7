// Package mcmc estimates a DEM from emission lines by staged ensemble MCMC.
//
// Log-probabilities here are -((I_obs - I_pred)/sigma)^2 per line. This is a
// Gaussian log-likelihood without the normalisation constant and without the
// factor 1/2, so absolute values are not comparable with a textbook
// likelihood (or usable for evidence calculations). Acceptance in the
// sampler only depends on differences within one model, so the scaling is
// kept as is.
package mcmc

import (
	"fmt"
	"math"

	"godem/domain/core"
	"godem/domain/dem"
	"godem/domain/emission"
)

// LogProbLine returns -((I_obs - I_pred)/sigma)^2 for one line.
func LogProbLine(line *emission.EmissionLine, d *dem.BinnedDEM) (float64, error) {
	intensity, sigma, ok := line.Observation()
	if !ok {
		return 0, core.ErrUnobservedLine
	}
	predicted, err := line.PredictedIntensity(d)
	if err != nil {
		return 0, err
	}
	return residual(intensity, predicted, sigma), nil
}

// LogProbLines sums LogProbLine over lines. A DEM with any negative value is
// infeasible and yields -Inf without an error.
func LogProbLines(lines []*emission.EmissionLine, d *dem.BinnedDEM) (float64, error) {
	if !feasible(d.Values()) {
		return math.Inf(-1), nil
	}
	total := 0.0
	for i, line := range lines {
		lp, err := LogProbLine(line, d)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", i, err)
		}
		total += lp
	}
	return total, nil
}

func residual(observed, predicted, sigma float64) float64 {
	r := (observed - predicted) / sigma
	return -r * r
}

func feasible(values []float64) bool {
	for _, v := range values {
		if v < 0 {
			return false
		}
	}
	return true
}
