package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
)

// Setters maps sweepable parameter names to the config field they write.
var Setters = map[string]func(*config.Config, float64){
	"g":                   func(c *config.Config, v float64) { c.Physics.G = v },
	"distance_scale":      func(c *config.Config, v float64) { c.Physics.DistanceScale = v },
	"softening":           func(c *config.Config, v float64) { c.Physics.Softening = v },
	"min_distance":        func(c *config.Config, v float64) { c.Physics.MinDistance = v },
	"restitution":         func(c *config.Config, v float64) { c.Physics.Restitution = v },
	"collision_dampening": func(c *config.Config, v float64) { c.Physics.CollisionDampening = v },
	"dt":                  func(c *config.Config, v float64) { c.Run.Dt = v },
}

var ErrNoResult = errors.New("optim: no parameter combination produced the metric")

// Trial is one evaluated point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize flips the objective.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, p := range params {
		if _, ok := Setters[p]; !ok {
			return nil, fmt.Errorf("optim: unknown parameter %q (available: %v)", p, ParamNames())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: empty range for %q", p)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

func ParamNames() []string {
	names := make([]string, 0, len(Setters))
	for n := range Setters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Search runs base once per grid point and returns the best parameters
// for metricName along with every trial. Points whose build or run fails are
// recorded and skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	opts experiment.Options,
	metricName string,
) (map[string]float64, float64, []Trial, error) {

	best := math.Inf(1)
	if g.Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		t := Trial{Params: params}
		t.Value, t.Err = evaluate(ctx, base, opts, params, metricName)
		trials = append(trials, t)
		if t.Err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}
		if g.better(t.Value, best) {
			best = t.Value
			bestParams = params
		}
		return nil
	})
	if err != nil {
		return bestParams, best, trials, err
	}
	if bestParams == nil {
		return nil, best, trials, ErrNoResult
	}
	return bestParams, best, trials, nil
}

func (g *GridSearch) better(v, best float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if g.Maximize {
		return v > best
	}
	return v < best
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	visit func(map[string]float64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(ctx context.Context, base *config.Config, opts experiment.Options, params map[string]float64, metricName string) (float64, error) {
	c := *base
	c.Scenario.Bodies = append([]config.BodyConfig(nil), base.Scenario.Bodies...)
	for name, v := range params {
		Setters[name](&c, v)
	}

	exp, err := experiment.New(&c, opts)
	if err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("optim: unknown metric %q", metricName)
	}
	return v, nil
}
