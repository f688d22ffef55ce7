package excel

// Table is a sheet (or csv file) of trimmed string cells
type Table struct {
	Headers []string   // Column headers, in file order
	Rows    [][]string // Data rows, padded to len(Headers)
}

// Column returns the index of the named header, or -1
func (t *Table) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Observation is one row of an intensity table
type Observation struct {
	Intensity float64
	Error     float64
}
