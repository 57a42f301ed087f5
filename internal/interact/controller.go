// Package interact turns per-frame pointer and button samples into drag and
// cut edits on a cloth mesh.
package interact

import (
	"fmt"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/dynamo"
)

const DefaultPickRadius = 20.0

// Mode is the state of the interaction state machine.
type Mode int

const (
	Idle Mode = iota
	Dragging
	Cutting
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Cutting:
		return "cutting"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Input is the pointer state sampled once per frame.
type Input struct {
	Pointer dynamo.Vec2 `yaml:"pointer"`
	Left    bool        `yaml:"left"`
	Right   bool        `yaml:"right"`
}

// Result reports what an Update changed.
type Result struct {
	Grabbed  int // particle index grabbed this frame, -1 if none
	Released bool
	Cut      int // springs broken by the cut segment
}

// Controller is the drag/cut state machine. The zero value is Idle with no
// pick or cut radius.
type Controller struct {
	PickRadius float64
	CutRadius  float64

	mode      Mode
	grabbed   int
	wasPinned bool
	last      dynamo.Vec2

	prevLeft, prevRight bool
}

func NewController(pickRadius, cutRadius float64) *Controller {
	return &Controller{PickRadius: pickRadius, CutRadius: cutRadius}
}

func (c *Controller) Mode() Mode { return c.mode }

// Grabbed returns the dragged particle index while Dragging.
func (c *Controller) Grabbed() (int, bool) {
	return c.grabbed, c.mode == Dragging
}

// Reset drops any interaction without touching the mesh. Used after a
// rebuild, when the grabbed index no longer refers to anything.
func (c *Controller) Reset() {
	c.mode = Idle
	c.grabbed = 0
	c.wasPinned = false
	c.prevLeft, c.prevRight = false, false
}

// Update applies one frame of input to g and m.
func (c *Controller) Update(g *cloth.Grid, m *cloth.Mesh, in Input) (Result, error) {
	res := Result{Grabbed: -1}
	leftPressed := in.Left && !c.prevLeft
	rightPressed := in.Right && !c.prevRight
	c.prevLeft, c.prevRight = in.Left, in.Right

	switch c.mode {
	case Idle:
		if leftPressed {
			i, ok := Nearest(g, in.Pointer, c.PickRadius)
			if !ok {
				break
			}
			if err := c.grab(g, i); err != nil {
				return res, err
			}
			res.Grabbed = i
		} else if rightPressed {
			c.mode = Cutting
			c.last = in.Pointer
			res.Cut = Cut(g, m, in.Pointer, in.Pointer, c.CutRadius)
		}

	case Dragging:
		if !in.Left {
			if err := g.SetPinned(c.grabbed, c.wasPinned); err != nil {
				return res, err
			}
			c.mode = Idle
			res.Released = true
			break
		}
		if err := g.Place(c.grabbed, in.Pointer); err != nil {
			return res, err
		}

	case Cutting:
		if !in.Right {
			c.mode = Idle
			break
		}
		res.Cut = Cut(g, m, c.last, in.Pointer, c.CutRadius)
		c.last = in.Pointer
	}

	return res, nil
}

func (c *Controller) grab(g *cloth.Grid, i int) error {
	p, err := g.Get(i)
	if err != nil {
		return err
	}
	if err := g.SetPinned(i, true); err != nil {
		return err
	}
	if err := g.Place(i, p.Pos); err != nil {
		return err
	}
	c.mode = Dragging
	c.grabbed = i
	c.wasPinned = p.Pinned
	return nil
}

// Nearest finds the particle closest to pos strictly inside radius. Ties go
// to the lower index.
func Nearest(g *cloth.Grid, pos dynamo.Vec2, radius float64) (int, bool) {
	best, bestDist := -1, radius*radius
	for i, p := range g.Particles() {
		if d := p.Pos.Sub(pos).LenSq(); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// Cut breaks every intact spring whose segment comes within radius of the
// segment from..to and returns how many were broken. A zero radius means
// the segments must intersect.
//
// TODO: bucket springs in a uniform grid once meshes grow past a few hundred
// particles per side; this is a full scan per call.
func Cut(g *cloth.Grid, m *cloth.Mesh, from, to dynamo.Vec2, radius float64) int {
	ps := g.Particles()
	n := 0
	for i, s := range m.Intact() {
		a, b := ps[s.A].Pos, ps[s.B].Pos
		if cloth.SegmentDistance(a, b, from, to) <= radius {
			_ = m.Break(i)
			n++
		}
	}
	return n
}
