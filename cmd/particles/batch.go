package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/particles/internal/automation"
	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/optim"
)

func sweepScenario(cmd *cobra.Command, args []string) error {
	base, err := config.Lookup(args[0])
	if err != nil {
		return err
	}
	if steps != 0 {
		base.Steps = steps
	}

	var names []string
	var ranges [][]float64
	if len(sweepDt) > 0 {
		names = append(names, "dt")
		ranges = append(ranges, sweepDt)
	}
	if len(sweepK) > 0 {
		names = append(names, "k")
		ranges = append(ranges, sweepK)
	}
	if len(names) == 0 {
		return fmt.Errorf("nothing to sweep: pass --dt and/or --k")
	}

	ctx, cancel := signalContext()
	defer cancel()

	best, val, points, err := optim.NewGridSearch(names, ranges).Search(ctx, base, sweepMetric)

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.Join(names, "\t"), sweepMetric)
	for _, p := range points {
		row := ""
		for _, n := range names {
			row += fmt.Sprintf("%g\t", p.Params[n])
		}
		if p.Err != nil {
			fmt.Fprintf(w, "%sfailed: %v\n", row, p.Err)
			continue
		}
		fmt.Fprintf(w, "%s%.3e\n", row, p.Value)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprint(out, "\nbest:")
	for _, k := range keys {
		fmt.Fprintf(out, " %s=%g", k, best[k])
	}
	fmt.Fprintf(out, " (%s %.3e)\n", sweepMetric, val)
	return nil
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	base, err := config.Lookup(args[0])
	if err != nil {
		return err
	}
	if steps != 0 {
		base.Steps = steps
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         base,
		Perturbation: perturb,
		NumTrials:    trials,
		Bound:        bound,
		Seed:         seed,
	})
	if err != nil && len(results) == 0 {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scenario: %s, %d trials, perturbation ±%g, bound %g\n", base.Name, len(results), perturb, bound)
	fmt.Fprintf(out, "stable: %d  unstable: %d\n", stable, unstable)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "  trial %d: %v\n", r.TrialID, r.Err)
		}
	}
	return err
}
