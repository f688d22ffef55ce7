package dem

import (
	"fmt"
	"iter"
	"slices"

	"godem/domain/core"
	"godem/domain/units"
)

// TempBins is an immutable set of contiguous temperature bins defined by
// their edges. Edges are held in kelvin.
//
// Every instance carries its own ID. Caches keyed on bins use that ID, so two
// bin sets built from identical edges are distinct cache entries.
type TempBins struct {
	id      core.ID
	edges   []float64
	widths  []float64
	centers []float64
}

// NewTempBins validates the edges and derives widths and centers.
func NewTempBins(edges units.Quantity) (*TempBins, error) {
	kelvin, err := edges.In(units.Kelvin)
	if err != nil {
		return nil, fmt.Errorf("temperature bin edges: %w", err)
	}
	if len(kelvin) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 edges, got %d", core.ErrInvalidBins, len(kelvin))
	}

	n := len(kelvin) - 1
	widths := make([]float64, n)
	centers := make([]float64, n)
	for i := 0; i < n; i++ {
		if !(kelvin[i+1] > kelvin[i]) {
			return nil, fmt.Errorf("%w: edges must be strictly increasing (edge %d = %g K, edge %d = %g K)",
				core.ErrInvalidBins, i, kelvin[i], i+1, kelvin[i+1])
		}
		widths[i] = kelvin[i+1] - kelvin[i]
		centers[i] = (kelvin[i] + kelvin[i+1]) / 2
	}

	return &TempBins{
		id:      core.NewID(),
		edges:   kelvin,
		widths:  widths,
		centers: centers,
	}, nil
}

// MustTempBins is NewTempBins for fixed, known-good edges.
func MustTempBins(edges units.Quantity) *TempBins {
	b, err := NewTempBins(edges)
	if err != nil {
		panic(err)
	}
	return b
}

// ID returns the per-instance identifier
func (b *TempBins) ID() core.ID {
	return b.id
}

// Len returns the number of bins
func (b *TempBins) Len() int {
	return len(b.widths)
}

// Edges returns the bin edges in kelvin
func (b *TempBins) Edges() []float64 {
	return slices.Clone(b.edges)
}

// Widths returns the bin widths in kelvin
func (b *TempBins) Widths() []float64 {
	return slices.Clone(b.widths)
}

// Centers returns the bin centers in kelvin
func (b *TempBins) Centers() []float64 {
	return slices.Clone(b.centers)
}

// CentersIn returns the bin centers converted to u.
func (b *TempBins) CentersIn(u units.Unit) ([]float64, error) {
	return units.New(b.centers, units.Kelvin).In(u)
}

// EdgesQuantity returns the edges as a dimension-tagged quantity
func (b *TempBins) EdgesQuantity() units.Quantity {
	return units.New(b.edges, units.Kelvin)
}

// Min returns the lowest edge
func (b *TempBins) Min() float64 {
	return b.edges[0]
}

// Max returns the highest edge
func (b *TempBins) Max() float64 {
	return b.edges[len(b.edges)-1]
}

// Bin returns the lower and upper edge of bin i
func (b *TempBins) Bin(i int) (lower, upper float64) {
	return b.edges[i], b.edges[i+1]
}

// Iter yields (lower, upper) edge pairs in order. The sequence can be ranged
// over any number of times.
func (b *TempBins) Iter() iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for i := 0; i < b.Len(); i++ {
			if !yield(b.edges[i], b.edges[i+1]) {
				return
			}
		}
	}
}

// widthsView exposes the memoized widths without copying, for hot paths
// inside the module.
func (b *TempBins) widthsView() []float64 {
	return b.widths
}
