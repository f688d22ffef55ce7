package emission

import (
	"fmt"
	"math"

	"godem/domain/core"
	"godem/domain/dem"
)

// Loci returns the emission locus of every line in cm^-5: for bin j, the DEM
// value that reproduces the observed intensity on its own when all plasma
// sits in bin j, I_obs / (cf[j] * width[j]). Together the curves bound the
// solution from above. Bins where the contribution function vanishes give
// +Inf.
func Loci(lines []*EmissionLine, bins *dem.TempBins) ([][]float64, error) {
	widths := bins.Widths()
	loci := make([][]float64, len(lines))
	for i, line := range lines {
		intensity, _, ok := line.Observation()
		if !ok {
			return nil, fmt.Errorf("%w: %s (index %d)", core.ErrUnobservedLine, line.label(), i)
		}
		cf, err := line.ContFunc().Binned(bins)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", line.label(), err)
		}
		locus := make([]float64, len(cf))
		for j, c := range cf {
			if c == 0 {
				locus[j] = math.Inf(1)
				continue
			}
			locus[j] = intensity / (c * widths[j])
		}
		loci[i] = locus
	}
	return loci, nil
}
