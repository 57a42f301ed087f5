package metrics

import (
	"github.com/san-kum/clothsim/internal/cloth"
)

// KineticEnergy is the unit-mass kinetic energy of the free particles, with
// velocity recovered as (Pos-Prev)/dt. It is zero when dt is zero.
func KineticEnergy(g *cloth.Grid, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	var sum float64
	for _, p := range g.Particles() {
		if p.Pinned {
			continue
		}
		sum += 0.5 * p.Velocity().LenSq()
	}
	return sum / (dt * dt)
}

// BottomSag is the mean downward displacement of the bottom row from its
// lattice position.
func BottomSag(g *cloth.Grid) float64 {
	rows, cols := g.Rows(), g.Cols()
	if rows == 0 || cols == 0 {
		return 0
	}
	ps := g.Particles()
	var sum float64
	for c := 0; c < cols; c++ {
		i := (rows-1)*cols + c
		rest, _ := g.Lattice(i)
		sum += ps[i].Pos.Y - rest.Y
	}
	return sum / float64(cols)
}

type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(g *cloth.Grid, m *cloth.Mesh, dt float64) {
	if dt <= 0 {
		return
	}
	e.total += KineticEnergy(g, dt)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// Sag tracks the bottom-row sag of the latest observation.
type Sag struct {
	name  string
	value float64
}

func NewSag() *Sag {
	return &Sag{name: "sag"}
}

func (s *Sag) Name() string { return s.name }

func (s *Sag) Observe(g *cloth.Grid, m *cloth.Mesh, dt float64) {
	s.value = BottomSag(g)
}

func (s *Sag) Value() float64 { return s.value }

func (s *Sag) Reset() { s.value = 0 }
