package integrators

import (
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/dynamo"
)

// DefaultDamping keeps 99% of the implicit velocity per step.
const DefaultDamping = 0.99

// Verlet advances particles with position-based Verlet integration. Velocity
// is never stored; it is the difference between the current and previous
// position.
type Verlet struct {
	Damping float64 // fraction of implicit velocity kept per step
}

func NewVerlet(damping float64) *Verlet {
	return &Verlet{Damping: damping}
}

// Step moves every unpinned particle by its damped implicit velocity plus
// acc·dt². Pinned particles are not touched.
func (v *Verlet) Step(g *cloth.Grid, acc dynamo.Vec2, dt float64) {
	ps := g.Particles()
	dt2 := acc.Scale(dt * dt)

	for i := range ps {
		p := &ps[i]
		if p.Pinned {
			continue
		}
		vel := p.Pos.Sub(p.Prev).Scale(v.Damping)
		p.Prev = p.Pos
		p.Pos = p.Pos.Add(vel).Add(dt2)
	}
}
