package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/experiment"
)

// GridSearch runs a scenario at every combination of parameter values and
// keeps the one minimising a run metric. Supported parameters are dt, k
// and steps.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Point is one evaluated combination. Err is set when the run failed.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Apply sets a named parameter on cfg.
func Apply(cfg *config.Config, name string, val float64) error {
	switch name {
	case "dt":
		cfg.Dt = val
	case "k":
		cfg.Law.K = val
	case "steps":
		cfg.Steps = int(val)
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, []Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for _, name := range g.paramNames {
		if err := Apply(base.Clone(), name, 0); err != nil {
			return nil, 0, nil, err
		}
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	var points []Point

	g.searchRecursive(ctx, 0, make(map[string]float64), base, metricName, &best, &bestParams, &points)

	if err := ctx.Err(); err != nil {
		return bestParams, best, points, err
	}
	if bestParams == nil {
		return nil, 0, points, fmt.Errorf("no successful run for metric %s", metricName)
	}
	return bestParams, best, points, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
	points *[]Point,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(g.paramNames) {
		pt := Point{Params: current}
		pt.Value, pt.Err = g.evaluate(ctx, base, current, metricName)
		*points = append(*points, pt)
		logrus.WithFields(logrus.Fields{"params": current, "value": pt.Value}).WithError(pt.Err).Debug("grid point")

		if pt.Err == nil && pt.Value < *best {
			*best = pt.Value
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, base, metricName, best, bestParams, points)
	}
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, params map[string]float64, metricName string) (float64, error) {
	cfg := base.Clone()
	for name, val := range params {
		if err := Apply(cfg, name, val); err != nil {
			return 0, err
		}
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry().DefaultMetrics(cfg)); err != nil {
		return 0, err
	}

	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}

	val, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("unknown metric: %s", metricName)
	}
	return val, nil
}
