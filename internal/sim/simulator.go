package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/integrators"
	"github.com/san-kum/clothsim/internal/interact"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/solver"
)

// Simulation owns one cloth and advances it frame by frame. It is not safe
// for concurrent use.
type Simulation struct {
	params Params
	grid   *cloth.Grid
	mesh   *cloth.Mesh

	ctrl       *interact.Controller
	integrator *integrators.Verlet
	solver     *solver.Solver

	time  float64
	steps int

	metrics       []Metric
	observers     []Observer
	logger        *slog.Logger
	validateState bool
}

type Option func(*Simulation)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(ms ...Metric) Option {
	return func(s *Simulation) { s.metrics = append(s.metrics, ms...) }
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

// WithStateValidation makes Step fail with ErrUnstable once any position
// becomes NaN or Inf.
func WithStateValidation() Option {
	return func(s *Simulation) { s.validateState = true }
}

func New(p Params, opts ...Option) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		params:     p,
		ctrl:       interact.NewController(p.PickRadius, p.CutRadius),
		integrator: integrators.NewVerlet(p.Damping),
		solver:     solver.New(p.Stiffness, p.TearThreshold),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.build(p.Layout()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) build(l cloth.Layout) error {
	g, err := cloth.NewGrid(l)
	if err != nil {
		return err
	}
	s.grid = g
	s.mesh = cloth.NewMesh(g)
	s.ctrl.Reset()
	s.logger.Debug("cloth built",
		"rows", l.Rows, "cols", l.Cols, "particles", g.Len(), "springs", s.mesh.Len())
	return nil
}

func (s *Simulation) Params() Params                   { return s.params }
func (s *Simulation) Grid() *cloth.Grid                { return s.grid }
func (s *Simulation) Mesh() *cloth.Mesh                { return s.mesh }
func (s *Simulation) Controller() *interact.Controller { return s.ctrl }
func (s *Simulation) Time() float64                    { return s.time }
func (s *Simulation) Steps() int                       { return s.steps }

// Reset rebuilds the cloth from the current parameters and clears time,
// step count and metrics.
func (s *Simulation) Reset() error {
	if err := s.build(s.params.Layout()); err != nil {
		return err
	}
	s.time, s.steps = 0, 0
	for _, m := range s.metrics {
		m.Reset()
	}
	return nil
}

// ClampDt maps dt into [0, maxDt]. NaN and negative values become 0.
func ClampDt(dt, maxDt float64) float64 {
	if !(dt > 0) {
		return 0
	}
	if dt > maxDt {
		return maxDt
	}
	return dt
}

// Step applies one frame: input, then integration, then relaxation.
//
// Invalid parameters are rejected before anything changes. A change to any
// layout field rebuilds the cloth and drops the current interaction.
func (s *Simulation) Step(in interact.Input, p Params, dt float64) (Report, error) {
	if err := p.Validate(); err != nil {
		s.logger.Debug("parameters rejected", "step", s.steps, "err", err)
		return Report{}, err
	}

	var rep Report
	if p.Layout() != s.params.Layout() {
		if err := s.build(p.Layout()); err != nil {
			return Report{}, err
		}
		rep.Rebuilt = true
	}
	s.params = p
	s.ctrl.PickRadius, s.ctrl.CutRadius = p.PickRadius, p.CutRadius
	s.integrator.Damping = p.Damping
	s.solver.Stiffness, s.solver.TearThreshold = p.Stiffness, p.TearThreshold

	dt = ClampDt(dt, p.MaxDt)
	rep.Dt = dt

	act, err := s.ctrl.Update(s.grid, s.mesh, in)
	if err != nil {
		return rep, &dynamo.SimulationError{Step: s.steps, Time: s.time, Wrapped: err}
	}
	rep.Cut = act.Cut

	s.integrator.Step(s.grid, dynamo.V(0, p.Gravity), dt)
	st := s.solver.Relax(s.grid, s.mesh, p.Iterations)
	rep.Torn, rep.Degenerate, rep.MaxStretch = st.Torn, st.Degenerate, st.MaxStretch

	if s.validateState {
		for i, pt := range s.grid.Particles() {
			if !pt.Pos.IsValid() {
				return rep, &dynamo.SimulationError{
					Step:    s.steps,
					Time:    s.time,
					Wrapped: fmt.Errorf("particle %d: %w", i, dynamo.ErrUnstable),
				}
			}
		}
	}

	s.time += dt
	s.steps++
	rep.Step, rep.Time = s.steps, s.time

	for _, m := range s.metrics {
		m.Observe(s.grid, s.mesh, dt)
	}
	for _, o := range s.observers {
		o.OnStep(s.grid, s.mesh, rep)
	}
	return rep, nil
}

// Frame snapshots the current cloth.
func (s *Simulation) Frame() *Frame {
	f := &Frame{}
	s.FrameInto(f)
	return f
}

// FrameInto fills f, reusing its slices.
func (s *Simulation) FrameInto(f *Frame) {
	ps := s.grid.Particles()
	f.Step, f.Time = s.steps, s.time
	f.Particles = f.Particles[:0]
	for _, p := range ps {
		f.Particles = append(f.Particles, ParticleView{Pos: p.Pos, Pinned: p.Pinned})
	}
	f.Springs = f.Springs[:0]
	for _, sp := range s.mesh.Intact() {
		f.Springs = append(f.Springs, SpringView{A: ps[sp.A].Pos, B: ps[sp.B].Pos, Kind: sp.Kind})
	}
}

// Sample measures the cloth after a step.
func (s *Simulation) Sample(r Report) Sample {
	return Sample{
		Step:       r.Step,
		Time:       r.Time,
		Dt:         r.Dt,
		Intact:     s.mesh.IntactCount(),
		Broken:     s.mesh.BrokenCount(),
		Torn:       r.Torn,
		Cut:        r.Cut,
		Sag:        metrics.BottomSag(s.grid),
		Energy:     metrics.KineticEnergy(s.grid, r.Dt),
		MaxStretch: r.MaxStretch,
	}
}

// Run replays ticks from the current state and records one sample per
// step. On error the partial result is returned with it.
func (s *Simulation) Run(ctx context.Context, ticks []Tick) (*Result, error) {
	res := &Result{
		Samples: make([]Sample, 0, len(ticks)),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	for _, t := range ticks {
		select {
		case <-ctx.Done():
			s.finish(res)
			return res, ctx.Err()
		default:
		}

		rep, err := s.Step(t.Input, t.Params, t.Dt)
		if err != nil {
			s.finish(res)
			return res, fmt.Errorf("run: %w", err)
		}
		res.Samples = append(res.Samples, s.Sample(rep))
	}

	s.finish(res)
	s.logger.Debug("run finished", "steps", res.Steps, "time", res.Time, "broken", s.mesh.BrokenCount())
	return res, nil
}

func (s *Simulation) finish(res *Result) {
	res.Steps = len(res.Samples)
	res.Time = s.time
	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
}

// Ticks builds n identical ticks with no input.
func Ticks(p Params, n int, dt float64) []Tick {
	ts := make([]Tick, n)
	for i := range ts {
		ts[i] = Tick{Dt: dt, Params: p}
	}
	return ts
}
