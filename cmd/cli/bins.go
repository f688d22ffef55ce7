package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"godem/domain/dem"
	"godem/domain/units"
	"godem/internal/testkit"
)

// binFlags selects temperature bins either as explicit edges or as an
// evenly spaced range, all in MK
type binFlags struct {
	edges string
	tmin  float64
	tmax  float64
	nbins int
}

func (b *binFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.edges, "edges", "", "Comma-separated bin edges in MK (overrides --tmin/--tmax/--nbins)")
	cmd.Flags().Float64Var(&b.tmin, "tmin", 1, "Lowest bin edge in MK")
	cmd.Flags().Float64Var(&b.tmax, "tmax", 2, "Highest bin edge in MK")
	cmd.Flags().IntVar(&b.nbins, "nbins", 5, "Number of evenly spaced bins")
}

func (b *binFlags) bins() (*dem.TempBins, error) {
	var edges []float64
	if b.edges != "" {
		for _, field := range strings.Split(b.edges, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid bin edge %q: %w", field, err)
			}
			edges = append(edges, v)
		}
	} else {
		if b.nbins < 1 {
			return nil, fmt.Errorf("--nbins must be at least 1")
		}
		edges = testkit.Linspace(b.tmin, b.tmax, b.nbins+1)
	}
	return dem.NewTempBins(units.New(edges, units.MegaKelvin))
}

func printSummary(summary []dem.BinSummary) {
	fmt.Printf("%14s %14s %14s %14s %14s\n", "T lower [K]", "T upper [K]", "p16", "median", "p84")
	for _, s := range summary {
		fmt.Printf("%14.4g %14.4g %14.4g %14.4g %14.4g\n", s.Lower, s.Upper, s.P16, s.Median, s.P84)
	}
}
