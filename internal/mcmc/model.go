package mcmc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"godem/domain/core"
	"godem/domain/dem"
	"godem/domain/emission"
	"godem/ports"
)

// Model is the sampling posterior for a fixed set of lines and bins.
//
// Contribution functions are binned once, when the model is built, into a
// kernel K with K[l][j] = cf_l[j] * width[j], so that the predicted
// intensity of line l is the dot product of row l with the DEM. The model is
// read-only after construction and safe for concurrent use.
type Model struct {
	bins     *dem.TempBins
	kernel   *mat.Dense
	observed []float64
	sigma    []float64
}

// NewModel bins every line's contribution function against bins. It fails
// if a line is unobserved or its contribution function cannot be binned.
func NewModel(lines []*emission.EmissionLine, bins *dem.TempBins) (*Model, error) {
	if bins == nil {
		return nil, fmt.Errorf("%w: nil temperature bins", core.ErrInvalidInput)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no emission lines", core.ErrInvalidInput)
	}

	widths := bins.Widths()
	kernel := mat.NewDense(len(lines), bins.Len(), nil)
	observed := make([]float64, len(lines))
	sigma := make([]float64, len(lines))

	for i, line := range lines {
		intensity, sig, ok := line.Observation()
		if !ok {
			return nil, fmt.Errorf("line %d: %w", i, core.ErrUnobservedLine)
		}
		cf, err := line.ContFunc().Binned(bins)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		floats.Mul(cf, widths)
		kernel.SetRow(i, cf)
		observed[i] = intensity
		sigma[i] = sig
	}

	return &Model{bins: bins, kernel: kernel, observed: observed, sigma: sigma}, nil
}

// NBins returns the number of DEM parameters
func (m *Model) NBins() int {
	return m.bins.Len()
}

// NLines returns the number of lines
func (m *Model) NLines() int {
	return len(m.observed)
}

// TempBins returns the bins the model was built for
func (m *Model) TempBins() *dem.TempBins {
	return m.bins
}

// LogProb is the posterior used by the sampler: the summed line
// log-probabilities, or -Inf if any DEM value is negative.
func (m *Model) LogProb(params []float64) float64 {
	if !feasible(params) {
		return math.Inf(-1)
	}
	total := 0.0
	for i, obs := range m.observed {
		total += residual(obs, floats.Dot(m.kernel.RawRowView(i), params), m.sigma[i])
	}
	return total
}

// Predicted writes the forward-modelled intensity of every line into out,
// which must have NLines elements.
func (m *Model) Predicted(params, out []float64) {
	for i := range m.observed {
		out[i] = floats.Dot(m.kernel.RawRowView(i), params)
	}
}

// Conditional returns the 1-D posterior over component i with every other
// component held at frozen. frozen is copied; the returned function does not
// allocate and is safe for concurrent use.
func (m *Model) Conditional(frozen []float64, i int) ports.LogProbFunc {
	rest := append([]float64(nil), frozen...)
	rest[i] = 0
	feasibleRest := feasible(rest)

	base := make([]float64, m.NLines())
	m.Predicted(rest, base)
	column := mat.Col(nil, i, m.kernel)

	return func(params []float64) float64 {
		v := params[0]
		if !feasibleRest || v < 0 {
			return math.Inf(-1)
		}
		total := 0.0
		for l, obs := range m.observed {
			total += residual(obs, base[l]+column[l]*v, m.sigma[l])
		}
		return total
	}
}
