// Package solver relaxes spring constraints by Gauss-Seidel projection and
// tears springs stretched past a threshold.
package solver

import (
	"github.com/san-kum/clothsim/internal/cloth"
)

const (
	DefaultStiffness     = 0.9
	DefaultTearThreshold = 3.5
	DefaultIterations    = 5
)

// Solver projects particle positions toward spring rest lengths.
type Solver struct {
	Stiffness     float64 // fraction of the violation corrected per pass, (0, 1]
	TearThreshold float64 // fractional stretch (len-rest)/rest above which a spring breaks
}

// Stats summarises one Relax call.
type Stats struct {
	Torn       int
	Degenerate int
	MaxStretch float64 // largest fractional stretch seen in the last pass
}

func New(stiffness, tearThreshold float64) *Solver {
	return &Solver{Stiffness: stiffness, TearThreshold: tearThreshold}
}

// Relax runs iterations passes over the intact springs in creation order.
//
// Each spring is measured before its own correction. A spring whose stretch
// exceeds TearThreshold is broken and left uncorrected. A zero-length spring
// is skipped for the pass. Pinned endpoints are never displaced.
func (s *Solver) Relax(g *cloth.Grid, m *cloth.Mesh, iterations int) Stats {
	var st Stats
	ps := g.Particles()

	for it := 0; it < iterations; it++ {
		st.MaxStretch = 0
		for i, sp := range m.Intact() {
			a, b := &ps[sp.A], &ps[sp.B]
			d := b.Pos.Sub(a.Pos)
			dist := d.Len()
			if dist == 0 {
				st.Degenerate++
				continue
			}

			stretch := (dist - sp.RestLength) / sp.RestLength
			if stretch > st.MaxStretch {
				st.MaxStretch = stretch
			}
			if stretch > s.TearThreshold {
				// i comes from the mesh itself, so Break cannot fail.
				_ = m.Break(i)
				st.Torn++
				continue
			}
			if a.Pinned && b.Pinned {
				continue
			}

			corr := d.Scale(0.5 * s.Stiffness * (dist - sp.RestLength) / dist)
			if !a.Pinned {
				a.Pos = a.Pos.Add(corr)
			}
			if !b.Pinned {
				b.Pos = b.Pos.Sub(corr)
			}
		}
	}
	return st
}
