// Package optim searches simulation parameters for the best metric value.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/clothsim/internal/sim"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Trial is one evaluated parameter combination.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type SearchResult struct {
	Best   map[string]float64
	Value  float64
	Trials []Trial
}

// Combinations enumerates the cartesian product of the ranges in the order
// the names were given, last name varying fastest.
func (g *GridSearch) Combinations() []map[string]float64 {
	var out []map[string]float64
	g.combine(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) combine(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.combine(depth+1, newParams, out)
	}
}

func label(params map[string]float64, names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%g", n, params[n])
	}
	return strings.Join(parts, ",")
}

// Search replays e under every combination and minimises metricName over
// the final metric values. Combinations that fail are kept as trials with
// their error.
func (g *GridSearch) Search(ctx context.Context, e *sim.Ensemble, metricName string) (*SearchResult, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("%d parameter names but %d ranges", len(g.paramNames), len(g.ranges))
	}

	combos := g.Combinations()
	variants := make([]sim.Variant, len(combos))
	setErrs := make([]error, len(combos))
	for i, c := range combos {
		variants[i] = sim.Variant{
			Name: label(c, g.paramNames),
			Apply: func(p *sim.Params) {
				for _, name := range g.paramNames {
					if err := p.Set(name, c[name]); err != nil {
						setErrs[i] = err
					}
				}
			},
		}
	}

	results, errs := e.RunAll(ctx, variants)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &SearchResult{Value: math.Inf(1), Trials: make([]Trial, len(combos))}
	for i, c := range combos {
		tr := Trial{Params: c, Value: math.NaN(), Err: errors.Join(setErrs[i], errs[i])}
		if tr.Err == nil {
			v, ok := results[i].Metrics[metricName]
			if !ok {
				return nil, fmt.Errorf("metric %q not recorded", metricName)
			}
			tr.Value = v
			if v < res.Value {
				res.Value = v
				res.Best = c
			}
		}
		res.Trials[i] = tr
	}

	if res.Best == nil {
		return res, fmt.Errorf("no combination of %d succeeded", len(combos))
	}
	return res, nil
}
