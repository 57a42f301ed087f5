package sim

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/integrators"
	"github.com/san-kum/clothsim/internal/interact"
	"github.com/san-kum/clothsim/internal/solver"
)

// Params is the full set of simulation parameters. It is passed by value
// into every step; layout fields trigger a rebuild when they change.
type Params struct {
	Rows    int           `yaml:"rows" json:"rows"`
	Cols    int           `yaml:"cols" json:"cols"`
	Spacing float64       `yaml:"spacing" json:"spacing"`
	OriginX float64       `yaml:"origin_x" json:"origin_x"`
	OriginY float64       `yaml:"origin_y" json:"origin_y"`
	Pin     cloth.PinMode `yaml:"pin" json:"pin"`

	Gravity       float64 `yaml:"gravity" json:"gravity"`
	Damping       float64 `yaml:"damping" json:"damping"`
	Stiffness     float64 `yaml:"stiffness" json:"stiffness"`
	TearThreshold float64 `yaml:"tear_threshold" json:"tear_threshold"`
	Iterations    int     `yaml:"iterations" json:"iterations"`
	PickRadius    float64 `yaml:"pick_radius" json:"pick_radius"`
	CutRadius     float64 `yaml:"cut_radius" json:"cut_radius"`
	MaxDt         float64 `yaml:"max_dt" json:"max_dt"`
}

// MaxIterations bounds relaxation passes per step.
const MaxIterations = 1000

func DefaultParams() Params {
	return Params{
		Rows:          25,
		Cols:          40,
		Spacing:       15,
		OriginX:       300,
		OriginY:       50,
		Pin:           cloth.PinTop,
		Gravity:       980,
		Damping:       integrators.DefaultDamping,
		Stiffness:     solver.DefaultStiffness,
		TearThreshold: solver.DefaultTearThreshold,
		Iterations:    solver.DefaultIterations,
		PickRadius:    interact.DefaultPickRadius,
		CutRadius:     0,
		MaxDt:         1.0 / 30,
	}
}

func (p Params) Layout() cloth.Layout {
	return cloth.Layout{
		Rows:    p.Rows,
		Cols:    p.Cols,
		Spacing: p.Spacing,
		Origin:  dynamo.V(p.OriginX, p.OriginY),
		Pin:     p.Pin,
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (p Params) Validate() error {
	if err := p.Layout().Validate(); err != nil {
		return err
	}
	unit := func(field string, v float64) error {
		if !(v > 0 && v <= 1) {
			return &dynamo.ConfigError{Field: field, Reason: fmt.Sprintf("must be in (0, 1], got %v", v)}
		}
		return nil
	}
	positive := func(field string, v float64) error {
		if !(v > 0) || !finite(v) {
			return &dynamo.ConfigError{Field: field, Reason: fmt.Sprintf("must be positive and finite, got %v", v)}
		}
		return nil
	}

	if !finite(p.Gravity) {
		return &dynamo.ConfigError{Field: "gravity", Reason: "must be finite"}
	}
	if err := unit("damping", p.Damping); err != nil {
		return err
	}
	if err := unit("stiffness", p.Stiffness); err != nil {
		return err
	}
	if err := positive("tear_threshold", p.TearThreshold); err != nil {
		return err
	}
	if p.Iterations < 0 || p.Iterations > MaxIterations {
		return &dynamo.ConfigError{Field: "iterations", Reason: fmt.Sprintf("must be in [0, %d], got %d", MaxIterations, p.Iterations)}
	}
	if err := positive("pick_radius", p.PickRadius); err != nil {
		return err
	}
	if p.CutRadius < 0 || !finite(p.CutRadius) {
		return &dynamo.ConfigError{Field: "cut_radius", Reason: fmt.Sprintf("must be non-negative and finite, got %v", p.CutRadius)}
	}
	if err := positive("max_dt", p.MaxDt); err != nil {
		return err
	}
	return nil
}

var paramNames = []string{
	"rows", "cols", "spacing", "origin_x", "origin_y",
	"gravity", "damping", "stiffness", "tear_threshold", "iterations",
	"pick_radius", "cut_radius", "max_dt",
}

// Names lists the numeric parameters accepted by Get and Set.
func (p Params) Names() []string { return slices.Clone(paramNames) }

func (p Params) Get(name string) (float64, error) {
	switch name {
	case "rows":
		return float64(p.Rows), nil
	case "cols":
		return float64(p.Cols), nil
	case "spacing":
		return p.Spacing, nil
	case "origin_x":
		return p.OriginX, nil
	case "origin_y":
		return p.OriginY, nil
	case "gravity":
		return p.Gravity, nil
	case "damping":
		return p.Damping, nil
	case "stiffness":
		return p.Stiffness, nil
	case "tear_threshold":
		return p.TearThreshold, nil
	case "iterations":
		return float64(p.Iterations), nil
	case "pick_radius":
		return p.PickRadius, nil
	case "cut_radius":
		return p.CutRadius, nil
	case "max_dt":
		return p.MaxDt, nil
	}
	return 0, &dynamo.ConfigError{Field: name, Reason: "is not a parameter"}
}

// Set assigns a parameter by name. Integer parameters are rounded. The
// result is not validated.
func (p *Params) Set(name string, v float64) error {
	switch name {
	case "rows":
		p.Rows = int(math.Round(v))
	case "cols":
		p.Cols = int(math.Round(v))
	case "spacing":
		p.Spacing = v
	case "origin_x":
		p.OriginX = v
	case "origin_y":
		p.OriginY = v
	case "gravity":
		p.Gravity = v
	case "damping":
		p.Damping = v
	case "stiffness":
		p.Stiffness = v
	case "tear_threshold":
		p.TearThreshold = v
	case "iterations":
		p.Iterations = int(math.Round(v))
	case "pick_radius":
		p.PickRadius = v
	case "cut_radius":
		p.CutRadius = v
	case "max_dt":
		p.MaxDt = v
	default:
		return &dynamo.ConfigError{Field: name, Reason: "is not a parameter"}
	}
	return nil
}

// Tick is one recorded frame: the input sampled that frame, the frame time
// and the parameters in effect.
type Tick struct {
	Input  interact.Input
	Dt     float64
	Params Params
}

// Report describes what one Step did.
type Report struct {
	Step       int
	Time       float64
	Dt         float64 // after clamping
	Rebuilt    bool
	Torn       int
	Cut        int
	Degenerate int
	MaxStretch float64
}

// Sample is one per-step measurement row.
type Sample struct {
	Step       int     `csv:"step" json:"step"`
	Time       float64 `csv:"time" json:"time"`
	Dt         float64 `csv:"dt" json:"dt"`
	Intact     int     `csv:"intact" json:"intact"`
	Broken     int     `csv:"broken" json:"broken"`
	Torn       int     `csv:"torn" json:"torn"`
	Cut        int     `csv:"cut" json:"cut"`
	Sag        float64 `csv:"sag" json:"sag"`
	Energy     float64 `csv:"energy" json:"energy"`
	MaxStretch float64 `csv:"max_stretch" json:"max_stretch"`
}

type Metric interface {
	Name() string
	Observe(g *cloth.Grid, m *cloth.Mesh, dt float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(g *cloth.Grid, m *cloth.Mesh, r Report)
}

// ParticleView is the drawable state of one particle.
type ParticleView struct {
	Pos    dynamo.Vec2
	Pinned bool
}

// SpringView is the drawable state of one intact spring.
type SpringView struct {
	A, B dynamo.Vec2
	Kind cloth.Kind
}

// Frame is the output surface handed to renderers after each step.
type Frame struct {
	Step      int
	Time      float64
	Particles []ParticleView
	Springs   []SpringView
}

type Result struct {
	Steps   int
	Time    float64
	Samples []Sample
	Metrics map[string]float64
}
