package cloth

import (
	"fmt"
	"math"

	"github.com/san-kum/clothsim/internal/dynamo"
)

// MaxDimension bounds rows and columns of a single build.
const MaxDimension = 512

// PinMode selects which particles are anchored when a grid is built.
type PinMode string

const (
	PinTop     PinMode = "top"
	PinCorners PinMode = "corners"
	PinLeft    PinMode = "left"
	PinNone    PinMode = "none"
)

// PinModes lists every accepted pin mode.
var PinModes = []PinMode{PinTop, PinCorners, PinLeft, PinNone}

// Layout is the input of a grid build. The zero Pin means PinTop.
type Layout struct {
	Rows    int
	Cols    int
	Spacing float64
	Origin  dynamo.Vec2
	Pin     PinMode
}

// Validate rejects layouts that cannot produce a lattice.
func (l Layout) Validate() error {
	if l.Rows <= 0 || l.Rows > MaxDimension {
		return &dynamo.ConfigError{Field: "rows", Reason: fmt.Sprintf("must be in [1, %d], got %d", MaxDimension, l.Rows)}
	}
	if l.Cols <= 0 || l.Cols > MaxDimension {
		return &dynamo.ConfigError{Field: "cols", Reason: fmt.Sprintf("must be in [1, %d], got %d", MaxDimension, l.Cols)}
	}
	if !(l.Spacing > 0) || math.IsInf(l.Spacing, 0) {
		return &dynamo.ConfigError{Field: "spacing", Reason: fmt.Sprintf("must be positive and finite, got %v", l.Spacing)}
	}
	if !l.Origin.IsValid() {
		return &dynamo.ConfigError{Field: "origin", Reason: "must be finite"}
	}
	switch l.Pin {
	case "", PinTop, PinCorners, PinLeft, PinNone:
	default:
		return &dynamo.ConfigError{Field: "pin", Reason: fmt.Sprintf("unknown mode %q", l.Pin)}
	}
	return nil
}

// Particle is a point mass. Pos - Prev is its implicit velocity.
type Particle struct {
	Pos    dynamo.Vec2
	Prev   dynamo.Vec2
	Pinned bool
}

func (p Particle) Velocity() dynamo.Vec2 { return p.Pos.Sub(p.Prev) }

// Grid owns the positional state of every particle.
type Grid struct {
	layout    Layout
	particles []Particle
}

// NewGrid lays out Rows×Cols particles at rest with zero velocity.
func NewGrid(l Layout) (*Grid, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if l.Pin == "" {
		l.Pin = PinTop
	}

	g := &Grid{
		layout:    l,
		particles: make([]Particle, l.Rows*l.Cols),
	}
	for r := 0; r < l.Rows; r++ {
		for c := 0; c < l.Cols; c++ {
			i := r*l.Cols + c
			pos := g.lattice(r, c)
			g.particles[i] = Particle{Pos: pos, Prev: pos, Pinned: l.pinned(r, c)}
		}
	}
	return g, nil
}

func (l Layout) pinned(r, c int) bool {
	switch l.Pin {
	case PinTop:
		return r == 0
	case PinCorners:
		return r == 0 && (c == 0 || c == l.Cols-1)
	case PinLeft:
		return c == 0
	}
	return false
}

func (g *Grid) lattice(r, c int) dynamo.Vec2 {
	return g.layout.Origin.Add(dynamo.V(float64(c)*g.layout.Spacing, float64(r)*g.layout.Spacing))
}

func (g *Grid) Layout() Layout { return g.layout }
func (g *Grid) Rows() int      { return g.layout.Rows }
func (g *Grid) Cols() int      { return g.layout.Cols }
func (g *Grid) Len() int       { return len(g.particles) }

func (g *Grid) check(i int) error {
	if i < 0 || i >= len(g.particles) {
		return &dynamo.IndexError{Kind: "particle", Index: i, Len: len(g.particles)}
	}
	return nil
}

// Index maps a lattice coordinate to its particle index.
func (g *Grid) Index(row, col int) (int, error) {
	if row < 0 || row >= g.layout.Rows || col < 0 || col >= g.layout.Cols {
		return 0, &dynamo.IndexError{Kind: "lattice", Index: row*g.layout.Cols + col, Len: len(g.particles)}
	}
	return row*g.layout.Cols + col, nil
}

// Coord is the inverse of Index.
func (g *Grid) Coord(i int) (row, col int) {
	return i / g.layout.Cols, i % g.layout.Cols
}

func (g *Grid) Get(i int) (Particle, error) {
	if err := g.check(i); err != nil {
		return Particle{}, err
	}
	return g.particles[i], nil
}

// SetPosition moves a particle without touching Prev.
func (g *Grid) SetPosition(i int, pos dynamo.Vec2) error {
	if err := g.check(i); err != nil {
		return err
	}
	g.particles[i].Pos = pos
	return nil
}

// Place moves a particle and zeroes its implicit velocity.
func (g *Grid) Place(i int, pos dynamo.Vec2) error {
	if err := g.check(i); err != nil {
		return err
	}
	g.particles[i].Pos = pos
	g.particles[i].Prev = pos
	return nil
}

func (g *Grid) SetPinned(i int, pinned bool) error {
	if err := g.check(i); err != nil {
		return err
	}
	g.particles[i].Pinned = pinned
	return nil
}

// Lattice returns the rest position particle i was built at.
func (g *Grid) Lattice(i int) (dynamo.Vec2, error) {
	if err := g.check(i); err != nil {
		return dynamo.Vec2{}, err
	}
	r, c := g.Coord(i)
	return g.lattice(r, c), nil
}

// Particles exposes the backing slice. Only the integrator and the
// constraint solver write through it; everything else goes through the
// checked accessors.
func (g *Grid) Particles() []Particle { return g.particles }
