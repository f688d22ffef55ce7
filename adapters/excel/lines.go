package excel

import (
	"fmt"

	"godem/domain/emission"
	"godem/domain/units"
	"godem/internal"
	apperrors "godem/internal/errors"
)

// Column headers of the input tables
const (
	TemperatureColumn = "Temperature"
	LineColumn        = "Line"
	IntensityColumn   = "Intensity"
	ErrorColumn       = "Error"
)

// LoadContFuncs reads a contribution function table: a Temperature column in
// K followed by one column of cm^5 / K values per line, headed by the line
// name.
func LoadContFuncs(path string, logger *internal.Logger, opts ...emission.DiscreteOption) (map[string]*emission.Discrete, error) {
	table, err := NewDataReader(path, logger).ReadTable()
	if err != nil {
		return nil, err
	}
	tcol := table.Column(TemperatureColumn)
	if tcol < 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s: missing %q column", path, TemperatureColumn))
	}

	temps := make([]float64, len(table.Rows))
	for i, row := range table.Rows {
		if temps[i], err = parseFloat(row[tcol], i+2, TemperatureColumn); err != nil {
			return nil, apperrors.Wrap(err, path)
		}
	}

	out := make(map[string]*emission.Discrete, len(table.Headers)-1)
	for col, name := range table.Headers {
		if col == tcol || name == "" {
			continue
		}
		if _, dup := out[name]; dup {
			return nil, apperrors.InvalidInput(fmt.Sprintf("%s: duplicate line %q", path, name))
		}
		values := make([]float64, len(table.Rows))
		for i, row := range table.Rows {
			if values[i], err = parseFloat(row[col], i+2, name); err != nil {
				return nil, apperrors.Wrap(err, path)
			}
		}
		cf, err := emission.NewDiscrete(units.New(temps, units.Kelvin), units.New(values, units.ContFunc), opts...)
		if err != nil {
			return nil, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("%s: line %q: %w", path, name, err))
		}
		out[name] = cf
	}
	if len(out) == 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s: no line columns", path))
	}
	return out, nil
}

// LoadIntensities reads an intensity table with Line, Intensity and Error
// columns. Names are returned in file order alongside the observations.
func LoadIntensities(path string, logger *internal.Logger) ([]string, map[string]Observation, error) {
	table, err := NewDataReader(path, logger).ReadTable()
	if err != nil {
		return nil, nil, err
	}
	cols := make(map[string]int, 3)
	for _, name := range []string{LineColumn, IntensityColumn, ErrorColumn} {
		if cols[name] = table.Column(name); cols[name] < 0 {
			return nil, nil, apperrors.InvalidInput(fmt.Sprintf("%s: missing %q column", path, name))
		}
	}

	order := make([]string, 0, len(table.Rows))
	obs := make(map[string]Observation, len(table.Rows))
	for i, row := range table.Rows {
		name := row[cols[LineColumn]]
		if name == "" {
			return nil, nil, apperrors.InvalidInput(fmt.Sprintf("%s: row %d has no line name", path, i+2))
		}
		if _, dup := obs[name]; dup {
			return nil, nil, apperrors.InvalidInput(fmt.Sprintf("%s: duplicate line %q", path, name))
		}
		intensity, err := parseFloat(row[cols[IntensityColumn]], i+2, IntensityColumn)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, path)
		}
		sigma, err := parseFloat(row[cols[ErrorColumn]], i+2, ErrorColumn)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, path)
		}
		order = append(order, name)
		obs[name] = Observation{Intensity: intensity, Error: sigma}
	}
	return order, obs, nil
}

// BuildLines creates one observed line per name, in order. Every name needs
// both a contribution function and an observation.
func BuildLines(order []string, cfs map[string]*emission.Discrete, obs map[string]Observation) ([]*emission.EmissionLine, error) {
	lines := make([]*emission.EmissionLine, 0, len(order))
	for _, name := range order {
		cf, ok := cfs[name]
		if !ok {
			return nil, apperrors.InvalidInput(fmt.Sprintf("no contribution function for line %q", name))
		}
		o, ok := obs[name]
		if !ok {
			return nil, apperrors.InvalidInput(fmt.Sprintf("no observation for line %q", name))
		}
		line, err := emission.NewObservedLine(cf, o.Intensity, o.Error)
		if err != nil {
			return nil, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("line %q: %w", name, err))
		}
		line.Name = name
		lines = append(lines, line)
	}
	return lines, nil
}
