// Package units tags physical quantities with a dimension so that
// construction boundaries can reject mismatched inputs early.
//
// Only the handful of dimensions the DEM inversion needs are modelled:
// temperature, length and their products. Values are stored in the unit they
// were given and converted on request.
package units

import (
	"fmt"
	"slices"

	"godem/domain/core"
)

// Dimension is a product of base dimensions raised to integer powers.
type Dimension struct {
	Length      int
	Temperature int
}

// String renders the dimension as e.g. "L^5 Θ^-1".
func (d Dimension) String() string {
	if d == (Dimension{}) {
		return "dimensionless"
	}
	s := ""
	if d.Length != 0 {
		s += fmt.Sprintf("L^%d", d.Length)
	}
	if d.Temperature != 0 {
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("Θ^%d", d.Temperature)
	}
	return s
}

// Common dimensions
var (
	DimTemperature   = Dimension{Temperature: 1}
	DimLength        = Dimension{Length: 1}
	DimContFunc      = Dimension{Length: 5, Temperature: -1}
	DimDEM           = Dimension{Length: -5}
	DimDimensionless = Dimension{}
)

// Unit is a named scale of a dimension. Scale converts a value in this unit
// to the base unit of its dimension (K, cm and products thereof).
type Unit struct {
	Symbol string
	Dim    Dimension
	Scale  float64
}

func (u Unit) String() string {
	return u.Symbol
}

// Units used throughout the inversion
var (
	Kelvin        = Unit{Symbol: "K", Dim: DimTemperature, Scale: 1}
	MegaKelvin    = Unit{Symbol: "MK", Dim: DimTemperature, Scale: 1e6}
	Centimeter    = Unit{Symbol: "cm", Dim: DimLength, Scale: 1}
	ContFunc      = Unit{Symbol: "cm5 / K", Dim: DimContFunc, Scale: 1}
	DEM           = Unit{Symbol: "1 / cm5", Dim: DimDEM, Scale: 1}
	Dimensionless = Unit{Symbol: "", Dim: DimDimensionless, Scale: 1}
)

// Quantity is a sequence of values sharing one unit.
type Quantity struct {
	values []float64
	unit   Unit
}

// New creates a quantity; the values are copied.
func New(values []float64, unit Unit) Quantity {
	return Quantity{values: slices.Clone(values), unit: unit}
}

// Scalar creates a single-valued quantity.
func Scalar(value float64, unit Unit) Quantity {
	return Quantity{values: []float64{value}, unit: unit}
}

// Unit returns the unit the values are expressed in
func (q Quantity) Unit() Unit {
	return q.unit
}

// Dim returns the dimension of the quantity
func (q Quantity) Dim() Dimension {
	return q.unit.Dim
}

// Len returns the number of values
func (q Quantity) Len() int {
	return len(q.values)
}

// Values returns a copy of the raw values in the quantity's own unit
func (q Quantity) Values() []float64 {
	return slices.Clone(q.values)
}

// In converts the values to the target unit. Converting between different
// dimensions fails with core.ErrDimension.
func (q Quantity) In(target Unit) ([]float64, error) {
	if err := q.Require(target.Dim); err != nil {
		return nil, err
	}
	factor := q.unit.Scale / target.Scale
	out := make([]float64, len(q.values))
	for i, v := range q.values {
		out[i] = v * factor
	}
	return out, nil
}

// Require fails unless the quantity has the given dimension.
func (q Quantity) Require(dim Dimension) error {
	if q.unit.Dim != dim {
		return fmt.Errorf("%w: expected %s, got %s (%q)", core.ErrDimension, dim, q.unit.Dim, q.unit.Symbol)
	}
	return nil
}
