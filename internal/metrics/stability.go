package metrics

import (
	"sort"

	"github.com/san-kum/clothsim/internal/cloth"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// StretchStats summarises fractional spring stretch (len-rest)/rest over
// the intact springs.
type StretchStats struct {
	Mean   float64
	StdDev float64
	P95    float64
	Max    float64
}

// Stretch computes StretchStats for m's intact springs on g.
func Stretch(g *cloth.Grid, m *cloth.Mesh) StretchStats {
	ps := g.Particles()
	xs := make([]float64, 0, m.IntactCount())
	for _, s := range m.Intact() {
		l := ps[s.B].Pos.Sub(ps[s.A].Pos).Len()
		xs = append(xs, (l-s.RestLength)/s.RestLength)
	}
	if len(xs) == 0 {
		return StretchStats{}
	}
	sort.Float64s(xs)

	st := StretchStats{
		Mean: stat.Mean(xs, nil),
		P95:  stat.Quantile(0.95, stat.Empirical, xs, nil),
		Max:  floats.Max(xs),
	}
	if len(xs) > 1 {
		st.StdDev = stat.StdDev(xs, nil)
	}
	return st
}

// MaxStretch records the peak stretch seen across observations.
type MaxStretch struct {
	name string
	peak float64
}

func NewMaxStretch() *MaxStretch {
	return &MaxStretch{name: "max_stretch"}
}

func (s *MaxStretch) Name() string { return s.name }

func (s *MaxStretch) Observe(g *cloth.Grid, m *cloth.Mesh, dt float64) {
	if v := Stretch(g, m).Max; v > s.peak {
		s.peak = v
	}
}

func (s *MaxStretch) Value() float64 { return s.peak }

func (s *MaxStretch) Reset() { s.peak = 0 }

// Integrity is the fraction of springs still intact at the latest
// observation. An empty mesh counts as fully intact.
type Integrity struct {
	name  string
	value float64
	seen  bool
}

func NewIntegrity() *Integrity {
	return &Integrity{name: "integrity"}
}

func (s *Integrity) Name() string { return s.name }

func (s *Integrity) Observe(g *cloth.Grid, m *cloth.Mesh, dt float64) {
	s.seen = true
	if m.Len() == 0 {
		s.value = 1
		return
	}
	s.value = float64(m.IntactCount()) / float64(m.Len())
}

func (s *Integrity) Value() float64 {
	if !s.seen {
		return 1.0
	}
	return s.value
}

func (s *Integrity) Reset() {
	s.value = 0
	s.seen = false
}
