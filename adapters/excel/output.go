package excel

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"godem/domain/dem"
	"godem/domain/units"
	apperrors "godem/internal/errors"
)

// Sheet and header names of a saved result workbook
const (
	SamplesSheet    = "Samples"
	AttributesSheet = "Attributes"
	SamplerColumn   = "Sampler"
	EdgesColumn     = "Temp bin edges"
)

// SaveOutput writes out to an xlsx workbook. Sheet Samples holds one row per
// walker under a header of bin centres in K; sheet Attributes holds the bin
// edges in K. Values are written in shortest exact form so LoadOutput
// restores them bit for bit.
func SaveOutput(path string, out *dem.Output) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(DataSheet, SamplesSheet); err != nil {
		return apperrors.IOError(path, err)
	}
	if _, err := f.NewSheet(AttributesSheet); err != nil {
		return apperrors.IOError(path, err)
	}

	if err := writeSamples(f, out); err != nil {
		return apperrors.IOError(path, err)
	}
	if err := writeColumn(f, AttributesSheet, EdgesColumn, out.TempBins().Edges()); err != nil {
		return apperrors.IOError(path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.IOError(path, err)
	}
	return nil
}

func writeSamples(f *excelize.File, out *dem.Output) error {
	if err := f.SetCellStr(SamplesSheet, "A1", SamplerColumn); err != nil {
		return err
	}
	for j, c := range out.TempBins().Centers() {
		if err := setFloat(f, SamplesSheet, j+2, 1, c); err != nil {
			return err
		}
	}
	for k, walker := range out.Samples() {
		if err := f.SetCellValue(SamplesSheet, cell(1, k+2), k); err != nil {
			return err
		}
		for j, v := range walker {
			if err := setFloat(f, SamplesSheet, j+2, k+2, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeColumn(f *excelize.File, sheet, header string, values []float64) error {
	if err := f.SetCellStr(sheet, "A1", header); err != nil {
		return err
	}
	for i, v := range values {
		if err := setFloat(f, sheet, 1, i+2, v); err != nil {
			return err
		}
	}
	return nil
}

func setFloat(f *excelize.File, sheet string, col, row int, v float64) error {
	return f.SetCellFloat(sheet, cell(col, row), v, -1, 64)
}

func cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		panic(err)
	}
	return name
}

// LoadOutput reads a workbook written by SaveOutput. The result has no
// sampler handle.
func LoadOutput(path string) (*dem.Output, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.IOError(path, err)
	}
	defer f.Close()

	raw := excelize.Options{RawCellValue: true}
	edgeRows, err := f.GetRows(AttributesSheet, raw)
	if err != nil {
		return nil, apperrors.IOError(path, err)
	}
	if len(edgeRows) == 0 || len(edgeRows[0]) == 0 || edgeRows[0][0] != EdgesColumn {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s: sheet %s has no %q column", path, AttributesSheet, EdgesColumn))
	}
	edges := make([]float64, 0, len(edgeRows)-1)
	for i, row := range edgeRows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		v, err := parseFloat(row[0], i+2, EdgesColumn)
		if err != nil {
			return nil, apperrors.Wrap(err, path)
		}
		edges = append(edges, v)
	}
	bins, err := dem.NewTempBins(units.New(edges, units.Kelvin))
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("%s: %w", path, err))
	}

	rows, err := f.GetRows(SamplesSheet, raw)
	if err != nil {
		return nil, apperrors.IOError(path, err)
	}
	if len(rows) < 2 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s: sheet %s has no samples", path, SamplesSheet))
	}
	samples := make([][]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		walker := make([]float64, bins.Len())
		for j := range walker {
			if j+1 >= len(row) {
				return nil, apperrors.InvalidInput(fmt.Sprintf("%s: row %d has %d values, want %d", path, i+2, len(row)-1, bins.Len()))
			}
			if walker[j], err = parseFloat(row[j+1], i+2, strconv.Itoa(j+2)); err != nil {
				return nil, apperrors.Wrap(err, path)
			}
		}
		samples = append(samples, walker)
	}

	out, err := dem.NewOutput(bins, samples)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("%s: %w", path, err))
	}
	return out, nil
}
