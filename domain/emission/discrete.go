package emission

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/patrickmn/go-cache"
	"gonum.org/v1/gonum/stat"

	"godem/domain/core"
	"godem/domain/dem"
	"godem/domain/units"
)

// DefaultEdgeTolerance is how far (in kelvin) a sample temperature may sit
// from a bin edge and still count as that edge.
const DefaultEdgeTolerance = 1.0

// Discrete is a contribution function tabulated at fixed sample temperatures.
//
// Binned results are cached per bin-set instance (TempBins.ID), not per edge
// values: two bin sets with identical edges are binned separately.
type Discrete struct {
	temps     []float64 // K, strictly increasing
	values    []float64 // cm^5 / K
	tolerance float64

	binned *cache.Cache
}

// DiscreteOption configures a Discrete contribution function
type DiscreteOption func(*Discrete)

// WithEdgeTolerance sets the absolute edge matching tolerance in kelvin.
func WithEdgeTolerance(kelvin float64) DiscreteOption {
	return func(d *Discrete) {
		d.tolerance = kelvin
	}
}

// NewDiscrete builds a contribution function from paired samples.
func NewDiscrete(temps, values units.Quantity, opts ...DiscreteOption) (*Discrete, error) {
	t, err := temps.In(units.Kelvin)
	if err != nil {
		return nil, fmt.Errorf("contribution function temperatures: %w", err)
	}
	v, err := values.In(units.ContFunc)
	if err != nil {
		return nil, fmt.Errorf("contribution function values: %w", err)
	}
	if len(t) == 0 {
		return nil, fmt.Errorf("%w: contribution function needs at least one sample", core.ErrInvalidInput)
	}
	if len(t) != len(v) {
		return nil, fmt.Errorf("%w: %d temperatures but %d values", core.ErrLengthMismatch, len(t), len(v))
	}
	for i := 1; i < len(t); i++ {
		if !(t[i] > t[i-1]) {
			return nil, fmt.Errorf("%w: sample temperatures must be strictly increasing (index %d)", core.ErrInvalidInput, i)
		}
	}

	d := &Discrete{
		temps:     t,
		values:    v,
		tolerance: DefaultEdgeTolerance,
		binned:    cache.New(cache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.tolerance < 0 {
		return nil, fmt.Errorf("%w: negative edge tolerance %g", core.ErrInvalidInput, d.tolerance)
	}
	return d, nil
}

// Temperatures returns the sample temperatures in kelvin
func (d *Discrete) Temperatures() []float64 {
	return slices.Clone(d.temps)
}

// Values returns the sample values in cm^5 / K
func (d *Discrete) Values() []float64 {
	return slices.Clone(d.values)
}

// Tolerance returns the edge matching tolerance in kelvin
func (d *Discrete) Tolerance() float64 {
	return d.tolerance
}

// Binned averages the samples falling in each bin. The first bin includes
// the samples at both edges; later bins include only their upper edge
// sample. Every bin edge must match a distinct sample temperature, otherwise
// a *core.MissingEdgeError listing the unmatched edges is returned.
func (d *Discrete) Binned(bins *dem.TempBins) ([]float64, error) {
	key := bins.ID().String()
	if cached, ok := d.binned.Get(key); ok {
		return slices.Clone(cached.([]float64)), nil
	}

	out, err := d.bin(bins)
	if err != nil {
		return nil, err
	}
	// Concurrent misses for the same bins compute identical results.
	d.binned.Set(key, out, cache.NoExpiration)
	return slices.Clone(out), nil
}

func (d *Discrete) bin(bins *dem.TempBins) ([]float64, error) {
	idx, missing := d.matchEdges(bins.Edges())
	if len(missing) > 0 {
		return nil, &core.MissingEdgeError{Edges: missing}
	}

	// Bin i holds the samples after the one matched by its lower edge, up to
	// and including the one matched by its upper edge.
	out := make([]float64, bins.Len())
	for i := range out {
		first := idx[i] + 1
		if i == 0 {
			first = idx[0]
		}
		out[i] = stat.Mean(d.values[first:idx[i+1]+1], nil)
	}
	return out, nil
}

// matchEdges pairs every edge with the nearest sample within tolerance that
// lies after the previous edge's sample. Edges without such a sample are
// returned as missing.
func (d *Discrete) matchEdges(edges []float64) (idx []int, missing []float64) {
	prev := -1
	for _, e := range edges {
		best := -1
		for j := sort.SearchFloat64s(d.temps, e-d.tolerance); j < len(d.temps) && d.temps[j] <= e+d.tolerance; j++ {
			if j <= prev {
				continue
			}
			if best < 0 || math.Abs(d.temps[j]-e) < math.Abs(d.temps[best]-e) {
				best = j
			}
		}
		if best < 0 {
			missing = append(missing, e)
			continue
		}
		idx = append(idx, best)
		prev = best
	}
	return idx, missing
}
