package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/dynamo"
)

func newCloth(t *testing.T, rows, cols int) (*cloth.Grid, *cloth.Mesh) {
	t.Helper()
	g, err := cloth.NewGrid(cloth.Layout{Rows: rows, Cols: cols, Spacing: 10})
	if err != nil {
		t.Fatal(err)
	}
	return g, cloth.NewMesh(g)
}

func TestKineticEnergy(t *testing.T) {
	g, _ := newCloth(t, 2, 1)

	// Particle 1 moved 2 units in one step of dt=0.5, so v=4 and KE=8.
	p, _ := g.Get(1)
	g.SetPosition(1, p.Pos.Add(dynamo.V(0, 2)))

	if ke := KineticEnergy(g, 0.5); math.Abs(ke-8) > 1e-12 {
		t.Errorf("expected kinetic energy 8, got %f", ke)
	}
	if ke := KineticEnergy(g, 0); ke != 0 {
		t.Errorf("expected zero energy at dt=0, got %f", ke)
	}
}

func TestBottomSag(t *testing.T) {
	g, _ := newCloth(t, 3, 2)
	if s := BottomSag(g); s != 0 {
		t.Errorf("expected zero sag at rest, got %f", s)
	}

	for _, i := range []int{4, 5} {
		p, _ := g.Get(i)
		g.Place(i, p.Pos.Add(dynamo.V(0, float64(i))))
	}
	if s := BottomSag(g); math.Abs(s-4.5) > 1e-12 {
		t.Errorf("expected sag 4.5, got %f", s)
	}
}

func TestEnergyReset(t *testing.T) {
	g, m := newCloth(t, 2, 2)
	e := NewEnergy()

	p, _ := g.Get(3)
	g.SetPosition(3, p.Pos.Add(dynamo.V(1, 0)))
	e.Observe(g, m, 1)
	if e.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	e.Reset()
	if e.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestStretch(t *testing.T) {
	g, m := newCloth(t, 2, 1)
	if st := Stretch(g, m); st.Max != 0 || st.Mean != 0 {
		t.Errorf("expected no stretch at rest, got %+v", st)
	}

	g.Place(1, dynamo.V(0, 15))
	st := Stretch(g, m)
	if math.Abs(st.Max-0.5) > 1e-12 || math.Abs(st.Mean-0.5) > 1e-12 {
		t.Errorf("expected stretch 0.5, got %+v", st)
	}
	if st.StdDev != 0 {
		t.Errorf("single spring has no spread, got %f", st.StdDev)
	}
}

func TestMaxStretchKeepsPeak(t *testing.T) {
	g, m := newCloth(t, 2, 1)
	s := NewMaxStretch()

	g.Place(1, dynamo.V(0, 20))
	s.Observe(g, m, 0.01)
	g.Place(1, dynamo.V(0, 10))
	s.Observe(g, m, 0.01)

	if math.Abs(s.Value()-1) > 1e-12 {
		t.Errorf("expected peak stretch 1, got %f", s.Value())
	}
}

func TestIntegrity(t *testing.T) {
	g, m := newCloth(t, 3, 3)
	s := NewIntegrity()
	if s.Value() != 1 {
		t.Errorf("expected full integrity before observing, got %f", s.Value())
	}

	m.Break(0)
	s.Observe(g, m, 0.01)
	want := float64(m.Len()-1) / float64(m.Len())
	if math.Abs(s.Value()-want) > 1e-12 {
		t.Errorf("expected integrity %f, got %f", want, s.Value())
	}
}
