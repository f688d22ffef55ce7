package dem

import (
	"fmt"
	"slices"

	"github.com/montanaflynn/stats"

	"godem/domain/core"
)

// Sampler is the part of an ensemble sampler an Output keeps for diagnostics.
type Sampler interface {
	Chain() [][][]float64
	LogProb() [][]float64
	AcceptanceFraction() []float64
}

// Output is the result of a DEM inversion: the DEM samples of every walker
// at the final step of the joint run.
type Output struct {
	sampler Sampler
	bins    *TempBins
	samples [][]float64
}

// BinSummary condenses the walker samples of one temperature bin.
type BinSummary struct {
	Lower  float64 `json:"lower_k"`
	Upper  float64 `json:"upper_k"`
	Median float64 `json:"median"`
	P16    float64 `json:"p16"`
	P84    float64 `json:"p84"`
}

// NewOutputFromSampler takes the last step of the sampler's chain as the
// sample set.
func NewOutputFromSampler(sampler Sampler, bins *TempBins) (*Output, error) {
	chain := sampler.Chain()
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: sampler has an empty chain", core.ErrInvalidInput)
	}
	out, err := NewOutput(bins, chain[len(chain)-1])
	if err != nil {
		return nil, err
	}
	out.sampler = sampler
	return out, nil
}

// NewOutput builds an Output without a sampler handle, e.g. after loading
// a saved result.
func NewOutput(bins *TempBins, samples [][]float64) (*Output, error) {
	if bins == nil {
		return nil, fmt.Errorf("%w: nil temperature bins", core.ErrInvalidInput)
	}
	copied := make([][]float64, len(samples))
	for i, row := range samples {
		if len(row) != bins.Len() {
			return nil, fmt.Errorf("%w: walker %d has %d values for %d bins", core.ErrLengthMismatch, i, len(row), bins.Len())
		}
		copied[i] = slices.Clone(row)
	}
	return &Output{bins: bins, samples: copied}, nil
}

// Sampler returns the sampler handle, or nil for loaded results
func (o *Output) Sampler() Sampler {
	return o.sampler
}

// TempBins returns the temperature bins
func (o *Output) TempBins() *TempBins {
	return o.bins
}

// Samples returns a walkers x bins copy of the DEM samples (cm^-5)
func (o *Output) Samples() [][]float64 {
	out := make([][]float64, len(o.samples))
	for i, row := range o.samples {
		out[i] = slices.Clone(row)
	}
	return out
}

// Shape returns (walkers, bins)
func (o *Output) Shape() (int, int) {
	return len(o.samples), o.bins.Len()
}

// Summary computes the median and 16th/84th percentiles of every bin across
// walkers.
func (o *Output) Summary() ([]BinSummary, error) {
	summaries := make([]BinSummary, o.bins.Len())
	column := make([]float64, len(o.samples))
	for j := range summaries {
		for i, row := range o.samples {
			column[i] = row[j]
		}
		median, err := stats.Median(column)
		if err != nil {
			return nil, fmt.Errorf("bin %d median: %w", j, err)
		}
		p16, err := stats.PercentileNearestRank(column, 16)
		if err != nil {
			return nil, fmt.Errorf("bin %d 16th percentile: %w", j, err)
		}
		p84, err := stats.PercentileNearestRank(column, 84)
		if err != nil {
			return nil, fmt.Errorf("bin %d 84th percentile: %w", j, err)
		}
		lower, upper := o.bins.Bin(j)
		summaries[j] = BinSummary{Lower: lower, Upper: upper, Median: median, P16: p16, P84: p84}
	}
	return summaries, nil
}
