package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/particles/internal/analysis"
	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/experiment"
	"github.com/san-kum/particles/internal/sim"
	"github.com/san-kum/particles/internal/storage"
	"github.com/san-kum/particles/internal/viz"
)

// loadScenario resolves --config or --preset, falling back to the default
// scenario, then applies command line overrides.
func loadScenario() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case configFile != "" && preset != "":
		return nil, fmt.Errorf("--config and --preset are mutually exclusive")
	case configFile != "":
		cfg, err = config.Load(configFile)
	case preset != "":
		cfg, err = config.Lookup(preset)
	default:
		cfg = config.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg)
	return cfg, cfg.Validate()
}

func applyOverrides(cfg *config.Config) {
	if dt != 0 {
		cfg.Dt = dt
	}
	if steps != 0 {
		cfg.Steps = steps
	}
	if integrator != "" {
		cfg.Integrator = integrator
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry.DefaultMetrics(cfg)); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := exp.Run(ctx)
	if err != nil {
		if result == nil || result.StepsTaken == 0 {
			return err
		}
		logrus.WithError(err).WithField("steps", result.StepsTaken).Warn("run incomplete")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d/%d steps, %s, %s\n", cfg.Name, result.StepsTaken, cfg.Steps, cfg.Integrator, exp.GetSimulator().Law())
	printMetrics(out, result)

	if noSave {
		return err
	}

	st := storage.New(dataDir)
	if serr := st.Init(); serr != nil {
		return serr
	}
	runID, serr := st.Save(storage.NewMetadata(cfg, result), result)
	if serr != nil {
		return serr
	}
	fmt.Fprintf(out, "saved run: %s\n", runID)
	return err
}

func printMetrics(out io.Writer, result *sim.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  energy drift\t%.3e\n", result.EnergyDrift)
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(w, "  %s\t%.3e\n", name, result.Metrics[name])
	}
	w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSTEPS\tDT\tINTEG\tLAW\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%s\t%s\t%.2e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StepsTaken,
			run.Dt,
			run.Integrator,
			run.Law,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if traj.Len() == 0 {
		return fmt.Errorf("run %s has no recorded steps", runID)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s (%s, %s, dt=%g)\n\n", meta.ID, meta.Name, meta.Integrator, meta.Dt)

	axes := "xyz"
	for i, name := range traj.Names() {
		positions := traj.Positions(i)
		for axis := 0; axis < traj.Dim(); axis++ {
			data := make([]float64, len(positions))
			for j, p := range positions {
				data[j] = p[axis]
			}

			mean, std := stat.MeanStdDev(data, nil)
			caption := fmt.Sprintf("%s.%c  mean=%.3f std=%.3f", name, axes[axis], mean, std)
			graph := asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(caption),
			)
			fmt.Fprintln(out, graph)
			fmt.Fprintln(out)
		}
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	names := traj.Names()
	fmt.Fprintf(out, "run: %s (%s, dt=%g, %d steps)\n\n", meta.ID, meta.Name, meta.Dt, traj.Len())

	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			sep, err := analysis.Separation(traj, i, j)
			if err != nil {
				return err
			}
			if len(sep) == 0 {
				continue
			}

			lo, hi := analysis.Extrema(sep)
			graph := asciigraph.Plot(sep,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("|%s - %s|", names[i], names[j])),
			)
			fmt.Fprintln(out, graph)
			fmt.Fprintf(out, "separation: min %.4g, max %.4g\n", lo, hi)
			if period, ok := analysis.DominantPeriod(sep, meta.Dt); ok {
				fmt.Fprintf(out, "dominant period: %.4g\n", period)
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}

// openOutput returns stdout when path is empty or "-".
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	in, err := os.Open(st.CSVPath(args[0]))
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(cmd, output)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, times, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	out, err := openOutput(cmd, output)
	if err != nil {
		return err
	}
	defer out.Close()

	return storage.ExportJSON(out, *meta, traj, times)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	traj, _, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	p, err := viz.ParsePlane(plane)
	if err != nil {
		return err
	}

	out, err := openOutput(cmd, output)
	if err != nil {
		return err
	}
	defer out.Close()

	svg := viz.TrajectorySVG(traj, viz.View{Plane: p}, svgWidth, svgHeight, viz.GetTheme(theme))
	_, err = io.WriteString(out, svg)
	return err
}

func playRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, times, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	p, err := viz.ParsePlane(plane)
	if err != nil {
		return err
	}

	n := stride
	if n <= 0 {
		n = meta.Stride
	}

	player := viz.NewPlayer(meta.Name, traj, times, viz.PlayerOptions{
		Stride: n,
		Plane:  p,
		FPS:    frameRate,
		Theme:  theme,
	})
	_, err = tea.NewProgram(player, tea.WithAltScreen()).Run()
	return err
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := config.Lookup(args[0])
	if err != nil {
		return err
	}
	integrator = ""
	applyOverrides(base)

	registry := experiment.NewRegistry()
	members := make([]sim.Member, 0, len(args)-1)
	var simCfg sim.Config
	for _, name := range args[1:] {
		cfg := base.Clone()
		cfg.Integrator = name
		if err := cfg.Validate(); err != nil {
			return err
		}
		exp := experiment.New(cfg)
		simCfg = exp.SimConfig()
		members = append(members, exp.Member(name, func() []sim.Metric { return registry.DefaultMetrics(cfg) }))
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, runErr := sim.NewEnsemble(members...).Run(ctx, simCfg)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scenario: %s (dt=%g, %d steps)\n\n", base.Name, simCfg.Dt, simCfg.Steps)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT\tCOM DRIFT")
	for i, m := range members {
		res := results[i]
		if res == nil {
			fmt.Fprintf(w, "%s\tfailed\t-\t-\t-\n", m.Name)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.3e\t%.3e\t%.3e\n", m.Name, res.StepsTaken,
			res.EnergyDrift, res.Metrics["momentum_drift"], res.Metrics["com_drift"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) >= 2 && results[0] != nil && results[1] != nil {
		fmt.Fprintln(out)
		for i, pc := range base.Particles {
			a := results[0].Trajectory.Positions(i)
			b := results[1].Trajectory.Positions(i)
			if len(a) == 0 || len(b) == 0 {
				continue
			}
			gap := a[len(a)-1].Sub(b[len(b)-1]).Norm()
			fmt.Fprintf(out, "%s final separation %s vs %s: %.3e", pc.Name, members[0].Name, members[1].Name, gap)
			div, err := analysis.Divergence(results[0].Trajectory, results[1].Trajectory, i)
			if err == nil {
				if rate, ok := analysis.DivergenceRate(div, simCfg.Dt); ok {
					fmt.Fprintf(out, " (divergence rate %.3g/t)", rate)
				}
			}
			fmt.Fprintln(out)
		}
	}

	if runErr != nil {
		return fmt.Errorf("compare: %w", runErr)
	}
	return nil
}
