package excel

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "godem/internal/errors"
)

// NumericTable builds a table whose cells are floats in shortest exact form
func NumericTable(headers []string, rows [][]float64) *Table {
	t := &Table{Headers: headers, Rows: make([][]string, len(rows))}
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		t.Rows[i] = cells
	}
	return t
}

// WriteTable writes t to path as csv or, for any other extension, as Sheet1
// of an xlsx workbook. Numeric cells are stored as numbers.
func WriteTable(path string, t *Table) error {
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		err = writeCSV(path, t)
	} else {
		err = writeWorkbook(path, t)
	}
	if err != nil {
		return apperrors.IOError(path, err)
	}
	return nil
}

func writeCSV(path string, t *Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(file)
	if err := w.Write(t.Headers); err != nil {
		file.Close()
		return err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeWorkbook(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for j, h := range t.Headers {
		if err := f.SetCellStr(DataSheet, cell(j+1, 1), h); err != nil {
			return err
		}
	}
	for i, row := range t.Rows {
		for j, v := range row {
			ref := cell(j+1, i+2)
			var err error
			if x, perr := strconv.ParseFloat(v, 64); perr == nil {
				err = f.SetCellFloat(DataSheet, ref, x, -1, 64)
			} else {
				err = f.SetCellStr(DataSheet, ref, v)
			}
			if err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}
