package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/particles/internal/config"
)

var (
	dataDir  string
	logLevel string

	configFile string
	preset     string
	dt         float64
	steps      int
	integrator string
	noSave     bool

	stride    int
	plane     string
	frameRate int
	theme     string
	output    string
	svgWidth  int
	svgHeight int

	sweepDt     []float64
	sweepK      []float64
	sweepMetric string

	trials  int
	perturb float64
	bound   float64
	seed    int64
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "particles",
		Short:         "charged and gravitating particle simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %s", logLevel)
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".particles", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario and store its trajectory",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "preset scenario, e.g. charge/orbit")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "override timestep")
	runCmd.Flags().IntVar(&steps, "steps", 0, "override number of steps")
	runCmd.Flags().StringVar(&integrator, "integrator", "", "override integrator (verlet, taylor)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot each particle's coordinates over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectory to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render run trajectory to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane (xy, xz, yz)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	exportSVGCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	playCmd := &cobra.Command{
		Use:   "play [run_id]",
		Short: "replay a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  playRun,
	}
	playCmd.Flags().IntVar(&stride, "stride", 0, "show every n-th step (default from run)")
	playCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane (xy, xz, yz)")
	playCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	playCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "pairwise separation and orbital period",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", 0, "override timestep")
	compareCmd.Flags().IntVar(&steps, "steps", 0, "override number of steps")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "grid search dt and k for the lowest metric value",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepScenario,
	}
	sweepCmd.Flags().Float64SliceVar(&sweepDt, "dt", nil, "timesteps to try")
	sweepCmd.Flags().Float64SliceVar(&sweepK, "k", nil, "force constants to try")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimise")
	sweepCmd.Flags().IntVar(&steps, "steps", 0, "override number of steps")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "perturb initial positions and count stable runs",
		Args:  cobra.ExactArgs(1),
		RunE:  monteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.1, "maximum position perturbation per component")
	monteCarloCmd.Flags().Float64Var(&bound, "bound", 100, "radius a stable run stays within")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 for time based)")
	monteCarloCmd.Flags().IntVar(&steps, "steps", 0, "override number of steps")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models := config.ListModels()
			if len(args) == 1 {
				models = args
			}
			for _, model := range models {
				presets := config.ListPresets(model)
				if len(presets) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "no presets for model: %s\n", model)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "presets for %s:\n", model)
				for _, p := range presets {
					cfg := config.GetPreset(model, p)
					fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %d particles, %s, dt=%g, %d steps\n",
						p, len(cfg.Particles), cfg.Integrator, cfg.Dt, cfg.Steps)
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, playCmd, analyzeCmd, compareCmd, sweepCmd, monteCarloCmd, presetsCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
