package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"godem/adapters/excel"
	"godem/app"
	"godem/domain/emission"
	"godem/internal/config"
	"godem/internal/container"
	"godem/internal/testkit"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globals shared by every subcommand
type globals struct {
	configPath string
	logLevel   string
}

func (g *globals) load() (*container.Container, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	return container.New(cfg, nil)
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:           "godem",
		Short:         "Differential emission measure inversion by ensemble MCMC",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML run file overlaying environment settings")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE (default from LOG_LEVEL)")

	rootCmd.AddCommand(
		newInvertCmd(g),
		newSynthCmd(g),
		newInspectCmd(),
		newLociCmd(g),
	)
	return rootCmd
}

func newInvertCmd(g *globals) *cobra.Command {
	var paths config.PathConfig
	var grid binFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "invert",
		Short: "Estimate a DEM from contribution function and intensity tables",
		Long: `Run the staged MCMC inversion and save the last-step walker samples.

Sampling settings come from DEM_* environment variables, a .env file or the
--config YAML file.

Example: godem invert --cont-funcs cf.xlsx --intensities obs.xlsx --tmin 1 --tmax 2 --nbins 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.load()
			if err != nil {
				return err
			}
			defer c.Shutdown()
			cfg := c.Config

			bins, err := grid.bins()
			if err != nil {
				return err
			}
			req := app.InvertRequest{
				ContFuncs:   firstNonEmpty(paths.ContFuncs, cfg.Paths.ContFuncs),
				Intensities: firstNonEmpty(paths.Intensities, cfg.Paths.Intensities),
				Output:      firstNonEmpty(paths.Output, cfg.Paths.Output),
				Bins:        bins,
			}
			if req.ContFuncs == "" || req.Intensities == "" {
				return fmt.Errorf("contribution function and intensity files are required (flags or CONT_FUNC_FILE / INTENSITY_FILE)")
			}

			res, err := c.Inversion.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(res)
			}
			fmt.Printf("\n📊 DEM INVERSION\n")
			fmt.Printf("Lines: %d, walkers: %d, runtime: %dms\n", res.Lines, res.Walkers, res.RuntimeMs)
			fmt.Printf("Saved to %s\n\n", req.Output)
			printSummary(res.Summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&paths.ContFuncs, "cont-funcs", "", "Contribution function table (xlsx or csv)")
	cmd.Flags().StringVar(&paths.Intensities, "intensities", "", "Intensity table (xlsx or csv)")
	cmd.Flags().StringVar(&paths.Output, "output", "", "Result workbook (default from OUTPUT_FILE)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result summary as JSON")
	grid.register(cmd)

	return cmd
}

func newSynthCmd(g *globals) *cobra.Command {
	var grid binFlags
	var req app.SynthRequest
	var lineMin, lineMax float64
	var nLines int

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write synthetic tables simulated from a Gaussian DEM",
		Long: `Simulate Gaussian-profile lines observed from a Gaussian DEM and write
contribution function and intensity tables that invert cleanly on the same bins.

Example: godem synth --tmin 1 --tmax 2 --nbins 5 --cont-funcs cf.csv --intensities obs.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.load()
			if err != nil {
				return err
			}
			defer c.Shutdown()

			if req.Bins, err = grid.bins(); err != nil {
				return err
			}
			if nLines < 1 {
				return fmt.Errorf("--nlines must be at least 1")
			}
			req.LineCentersMK = testkit.Linspace(lineMin, lineMax, nLines)

			res, err := app.Synthesize(req, c.Logger)
			if err != nil {
				return err
			}
			fmt.Printf("✅ %d lines written to %s and %s\n", len(res.Lines), req.ContFuncs, req.Intensities)
			return nil
		},
	}

	grid.register(cmd)
	cmd.Flags().Float64Var(&req.DEMPeakMK, "peak", 1.2, "DEM peak temperature in MK")
	cmd.Flags().Float64Var(&req.DEMWidthMK, "width", 0.2, "DEM width in MK")
	cmd.Flags().Float64Var(&lineMin, "line-min", 1, "Lowest line center in MK")
	cmd.Flags().Float64Var(&lineMax, "line-max", 2, "Highest line center in MK")
	cmd.Flags().IntVar(&nLines, "nlines", 11, "Number of lines")
	cmd.Flags().Float64Var(&req.LineWidthMK, "line-width", 0.1, "Line contribution function width in MK")
	cmd.Flags().Float64Var(&req.RelErr, "rel-err", 0.1, "Relative intensity uncertainty")
	cmd.Flags().IntVar(&req.GridPerBin, "grid", 10, "Contribution function samples per bin")
	cmd.Flags().StringVar(&req.ContFuncs, "cont-funcs", "cont_funcs.csv", "Contribution function table to write")
	cmd.Flags().StringVar(&req.Intensities, "intensities", "intensities.csv", "Intensity table to write")

	return cmd
}

func newInspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [result.xlsx]",
		Short: "Summarise a saved inversion result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := excel.LoadOutput(args[0])
			if err != nil {
				return err
			}
			summary, err := out.Summary()
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(summary)
			}
			walkers, nBins := out.Shape()
			fmt.Printf("%s: %d walkers x %d bins\n\n", args[0], walkers, nBins)
			printSummary(summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func newLociCmd(g *globals) *cobra.Command {
	var paths config.PathConfig
	var grid binFlags

	cmd := &cobra.Command{
		Use:   "loci",
		Short: "Print the emission loci I_obs / (cf * width) of every line",
		Long: `Print, per line and bin, the DEM that would alone reproduce the observed
intensity. The true DEM lies below every locus.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.load()
			if err != nil {
				return err
			}
			defer c.Shutdown()
			cfg := c.Config

			bins, err := grid.bins()
			if err != nil {
				return err
			}
			lines, err := c.Store.LoadLines(
				firstNonEmpty(paths.ContFuncs, cfg.Paths.ContFuncs),
				firstNonEmpty(paths.Intensities, cfg.Paths.Intensities))
			if err != nil {
				return err
			}
			loci, err := emission.Loci(lines, bins)
			if err != nil {
				return err
			}

			fmt.Printf("%-20s", "line")
			for _, c := range bins.Centers() {
				fmt.Printf(" %12.4g", c)
			}
			fmt.Println()
			for i, line := range lines {
				fmt.Printf("%-20s", line.Name)
				for _, v := range loci[i] {
					fmt.Printf(" %12.4g", v)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&paths.ContFuncs, "cont-funcs", "", "Contribution function table (xlsx or csv)")
	cmd.Flags().StringVar(&paths.Intensities, "intensities", "", "Intensity table (xlsx or csv)")
	grid.register(cmd)
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
