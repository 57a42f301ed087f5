package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// Variant names a parameter override applied to every tick of a run.
type Variant struct {
	Name  string
	Apply func(*Params)
}

// Ensemble replays the same ticks under several parameter variants. Each
// variant gets its own Simulation on its own goroutine.
type Ensemble struct {
	base  Params
	ticks []Tick

	// Metrics, when set, builds a fresh metric set per variant.
	Metrics func() []Metric
	Options []Option
}

func NewEnsemble(base Params, ticks []Tick) *Ensemble {
	return &Ensemble{base: base, ticks: ticks}
}

// Run returns one result per variant, in variant order. The first error
// wins; results of variants that finished are still returned.
func (e *Ensemble) Run(ctx context.Context, variants []Variant) ([]*Result, error) {
	results, errs := e.RunAll(ctx, variants)
	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("variant %q: %w", variants[i].Name, err)
		}
	}
	return results, nil
}

// RunAll is Run with one error slot per variant.
func (e *Ensemble) RunAll(ctx context.Context, variants []Variant) ([]*Result, []error) {
	results := make([]*Result, len(variants))
	errs := make([]error, len(variants))

	dynamo.ParallelFor(len(variants), 1, func(start, end int) {
		for i := start; i < end; i++ {
			results[i], errs[i] = e.runOne(ctx, variants[i])
		}
	})
	return results, errs
}

func (e *Ensemble) runOne(ctx context.Context, v Variant) (*Result, error) {
	p := e.base
	if v.Apply != nil {
		v.Apply(&p)
	}

	opts := append([]Option(nil), e.Options...)
	if e.Metrics != nil {
		opts = append(opts, WithMetrics(e.Metrics()...))
	}
	s, err := New(p, opts...)
	if err != nil {
		return nil, err
	}

	ticks := make([]Tick, len(e.ticks))
	for i, t := range e.ticks {
		tp := t.Params
		if v.Apply != nil {
			v.Apply(&tp)
		}
		ticks[i] = Tick{Input: t.Input, Dt: t.Dt, Params: tp}
	}
	return s.Run(ctx, ticks)
}
