package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/interact"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
)

const frameDt = 1.0 / 60

func scenarioParams() sim.Params {
	p := sim.DefaultParams()
	p.Rows, p.Cols = 10, 10
	p.Spacing = 20
	p.Gravity = 9.8
	p.Iterations = 4
	return p
}

func newSim(p sim.Params, opts ...sim.Option) *sim.Simulation {
	s, err := sim.New(p, opts...)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func stepN(s *sim.Simulation, p sim.Params, n int) {
	for i := 0; i < n; i++ {
		_, err := s.Step(interact.Input{}, p, frameDt)
		Expect(err).NotTo(HaveOccurred())
	}
}

func positions(g *cloth.Grid) []dynamo.Vec2 {
	out := make([]dynamo.Vec2, g.Len())
	for i, p := range g.Particles() {
		out[i] = p.Pos
	}
	return out
}

var _ = Describe("Simulation", func() {
	var p sim.Params

	BeforeEach(func() {
		p = scenarioParams()
	})

	Describe("construction", func() {
		It("builds the lattice described by the params", func() {
			s := newSim(p)
			Expect(s.Grid().Len()).To(Equal(100))
			Expect(s.Mesh().BrokenCount()).To(BeZero())
			Expect(s.Steps()).To(BeZero())
		})

		It("rejects invalid params", func() {
			p.Rows = 0
			_, err := sim.New(p)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})
	})

	Describe("rest state", func() {
		It("does not move without gravity", func() {
			p.Gravity = 0
			s := newSim(p)
			before := positions(s.Grid())
			stepN(s, p, 50)
			Expect(positions(s.Grid())).To(Equal(before))
			Expect(s.Mesh().BrokenCount()).To(BeZero())
		})
	})

	Describe("pinned particles", func() {
		It("never move under gravity", func() {
			s := newSim(p)
			stepN(s, p, 100)
			for c := 0; c < p.Cols; c++ {
				i, _ := s.Grid().Index(0, c)
				pt, _ := s.Grid().Get(i)
				rest, _ := s.Grid().Lattice(i)
				Expect(pt.Pinned).To(BeTrue())
				Expect(pt.Pos).To(Equal(rest))
			}
		})
	})

	Describe("sag scenario", func() {
		It("drops the bottom row without tearing", func() {
			s := newSim(p)
			g := s.Grid()
			start := make([]float64, p.Cols)
			for c := range start {
				i, _ := g.Index(p.Rows-1, c)
				pt, _ := g.Get(i)
				start[c] = pt.Pos.Y
			}

			stepN(s, p, 100)

			for c := range start {
				i, _ := g.Index(p.Rows-1, c)
				pt, _ := g.Get(i)
				Expect(pt.Pos.Y).To(BeNumerically(">", start[c]))
			}
			Expect(metrics.BottomSag(g)).To(BeNumerically(">", 0))
			Expect(s.Mesh().BrokenCount()).To(BeZero())
			Expect(s.Time()).To(BeNumerically("~", 100*frameDt, 1e-9))
		})
	})

	Describe("drag tear scenario", func() {
		It("tears the springs around a particle dragged far below the cloth", func() {
			s := newSim(p)
			g, m := s.Grid(), s.Mesh()
			const target = 95 // bottom row, centre column

			pt, _ := g.Get(target)
			_, err := s.Step(interact.Input{Pointer: pt.Pos, Left: true}, p, frameDt)
			Expect(err).NotTo(HaveOccurred())
			i, dragging := s.Controller().Grabbed()
			Expect(dragging).To(BeTrue())
			Expect(i).To(Equal(target))

			far := pt.Pos.Add(dynamo.V(0, 10*p.Spacing))
			_, err = s.Step(interact.Input{Pointer: far, Left: true}, p, frameDt)
			Expect(err).NotTo(HaveOccurred())

			for j := 0; j < m.Len(); j++ {
				sp, _ := m.Spring(j)
				if sp.A == target || sp.B == target {
					Expect(sp.Broken()).To(BeTrue(), "spring %d-%d should have torn", sp.A, sp.B)
				}
				if sp.Kind == cloth.Structural && sp.A < p.Cols && sp.B < p.Cols {
					Expect(sp.Broken()).To(BeFalse(), "top row spring %d-%d should hold", sp.A, sp.B)
				}
			}

			held, _ := g.Get(target)
			Expect(held.Pos).To(Equal(far))
		})
	})

	Describe("cutting", func() {
		It("is irreversible", func() {
			s := newSim(p)
			x := p.OriginX + 4.5*p.Spacing
			top, bottom := p.OriginY-5, p.OriginY+float64(p.Rows)*p.Spacing

			_, err := s.Step(interact.Input{Pointer: dynamo.V(x, top), Right: true}, p, frameDt)
			Expect(err).NotTo(HaveOccurred())
			rep, err := s.Step(interact.Input{Pointer: dynamo.V(x, bottom), Right: true}, p, frameDt)
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Cut).To(BeNumerically(">", 0))

			var broken []int
			for j := 0; j < s.Mesh().Len(); j++ {
				if sp, _ := s.Mesh().Spring(j); sp.Broken() {
					broken = append(broken, j)
				}
			}

			prev := s.Mesh().BrokenCount()
			for k := 0; k < 60; k++ {
				stepN(s, p, 1)
				Expect(s.Mesh().BrokenCount()).To(BeNumerically(">=", prev))
				prev = s.Mesh().BrokenCount()
			}
			for _, j := range broken {
				sp, _ := s.Mesh().Spring(j)
				Expect(sp.Broken()).To(BeTrue())
			}
		})
	})

	Describe("determinism", func() {
		It("produces identical state for identical inputs", func() {
			ticks := sim.Ticks(p, 80, frameDt)
			ticks[10].Input = interact.Input{Pointer: dynamo.V(300, 230), Left: true}
			for k := 11; k < 40; k++ {
				ticks[k].Input = interact.Input{Pointer: dynamo.V(300+float64(k), 260), Left: true}
			}

			a, b := newSim(p), newSim(p)
			_, err := a.Run(context.Background(), ticks)
			Expect(err).NotTo(HaveOccurred())
			_, err = b.Run(context.Background(), ticks)
			Expect(err).NotTo(HaveOccurred())
			Expect(positions(a.Grid())).To(Equal(positions(b.Grid())))
		})
	})

	Describe("dt handling", func() {
		It("clamps large, negative and NaN dt", func() {
			s := newSim(p)
			rep, err := s.Step(interact.Input{}, p, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Dt).To(Equal(p.MaxDt))

			before := positions(s.Grid())
			for _, dt := range []float64{-1, math.NaN()} {
				rep, err = s.Step(interact.Input{}, p, dt)
				Expect(err).NotTo(HaveOccurred())
				Expect(rep.Dt).To(BeZero())
			}
			Expect(s.Time()).To(Equal(p.MaxDt))
			// The implicit velocity from the first step still carries.
			Expect(positions(s.Grid())).NotTo(Equal(before))
		})
	})

	Describe("parameter changes", func() {
		It("rebuilds when the layout changes", func() {
			s := newSim(p)
			stepN(s, p, 5)
			p.Rows = 12
			rep, err := s.Step(interact.Input{}, p, frameDt)
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Rebuilt).To(BeTrue())
			Expect(s.Grid().Rows()).To(Equal(12))
			Expect(s.Controller().Mode()).To(Equal(interact.Idle))
		})

		It("applies physics changes in place", func() {
			s := newSim(p)
			g := s.Grid()
			p.Stiffness = 0.5
			rep, err := s.Step(interact.Input{}, p, frameDt)
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Rebuilt).To(BeFalse())
			Expect(s.Grid()).To(BeIdenticalTo(g))
		})

		It("keeps the current cloth when params are invalid", func() {
			s := newSim(p)
			stepN(s, p, 3)
			g, before := s.Grid(), positions(s.Grid())

			bad := p
			bad.Rows = 0
			_, err := s.Step(interact.Input{}, bad, frameDt)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
			Expect(s.Grid()).To(BeIdenticalTo(g))
			Expect(positions(g)).To(Equal(before))
			Expect(s.Steps()).To(Equal(3))
			Expect(s.Params().Rows).To(Equal(10))
		})
	})

	Describe("Run", func() {
		It("matches direct stepping and records samples", func() {
			ticks := sim.Ticks(p, 30, frameDt)
			a, b := newSim(p), newSim(p, sim.WithMetrics(metrics.NewSag()))

			stepN(a, p, 30)
			res, err := b.Run(context.Background(), ticks)
			Expect(err).NotTo(HaveOccurred())

			Expect(positions(b.Grid())).To(Equal(positions(a.Grid())))
			Expect(res.Steps).To(Equal(30))
			Expect(res.Samples).To(HaveLen(30))
			Expect(res.Samples[29].Step).To(Equal(30))
			Expect(res.Metrics).To(HaveKeyWithValue("sag", metrics.BottomSag(b.Grid())))
		})

		It("stops on a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := newSim(p).Run(ctx, sim.Ticks(p, 10, frameDt))
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Steps).To(BeZero())
		})

		It("reports diverged state when validating", func() {
			s := newSim(p, sim.WithStateValidation())
			Expect(s.Grid().SetPosition(55, dynamo.V(math.NaN(), 0))).To(Succeed())
			_, err := s.Run(context.Background(), sim.Ticks(p, 5, frameDt))
			Expect(err).To(MatchError(dynamo.ErrUnstable))
			var se *dynamo.SimulationError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Step).To(BeZero())
		})
	})

	Describe("Frame", func() {
		It("lists every particle and only intact springs", func() {
			s := newSim(p)
			Expect(s.Mesh().Break(0)).To(Succeed())
			f := s.Frame()
			Expect(f.Particles).To(HaveLen(s.Grid().Len()))
			Expect(f.Springs).To(HaveLen(s.Mesh().IntactCount()))
			Expect(f.Particles[0].Pinned).To(BeTrue())

			s.FrameInto(f)
			Expect(f.Springs).To(HaveLen(s.Mesh().IntactCount()))
		})
	})

	Describe("Reset", func() {
		It("restores the lattice and clears counters", func() {
			s := newSim(p)
			stepN(s, p, 20)
			Expect(s.Reset()).To(Succeed())
			Expect(s.Steps()).To(BeZero())
			Expect(s.Time()).To(BeZero())
			for i := 0; i < s.Grid().Len(); i++ {
				pt, _ := s.Grid().Get(i)
				rest, _ := s.Grid().Lattice(i)
				Expect(pt.Pos).To(Equal(rest))
			}
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs variants independently and keeps their order", func() {
		p := scenarioParams()
		e := sim.NewEnsemble(p, sim.Ticks(p, 40, frameDt))
		e.Metrics = func() []sim.Metric { return []sim.Metric{metrics.NewSag()} }

		variants := []sim.Variant{
			{Name: "light", Apply: func(q *sim.Params) { q.Gravity = 1 }},
			{Name: "heavy", Apply: func(q *sim.Params) { q.Gravity = 50 }},
			{Name: "base"},
		}
		results, err := e.Run(context.Background(), variants)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[1].Metrics["sag"]).To(BeNumerically(">", results[0].Metrics["sag"]))

		direct := newSim(p)
		res, err := direct.Run(context.Background(), sim.Ticks(p, 40, frameDt))
		Expect(err).NotTo(HaveOccurred())
		Expect(results[2].Samples).To(Equal(res.Samples))
	})

	It("names the failing variant", func() {
		p := scenarioParams()
		e := sim.NewEnsemble(p, sim.Ticks(p, 5, frameDt))
		_, err := e.Run(context.Background(), []sim.Variant{
			{Name: "broken", Apply: func(q *sim.Params) { q.Damping = 0 }},
		})
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		Expect(err.Error()).To(ContainSubstring(`"broken"`))
	})
})
