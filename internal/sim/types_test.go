package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/clothsim/internal/dynamo"
)

func TestDefaultParams_Valid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"zero rows", func(p *Params) { p.Rows = 0 }, "rows"},
		{"too many cols", func(p *Params) { p.Cols = 10000 }, "cols"},
		{"nan spacing", func(p *Params) { p.Spacing = math.NaN() }, "spacing"},
		{"inf gravity", func(p *Params) { p.Gravity = math.Inf(1) }, "gravity"},
		{"zero damping", func(p *Params) { p.Damping = 0 }, "damping"},
		{"damping above one", func(p *Params) { p.Damping = 1.2 }, "damping"},
		{"zero stiffness", func(p *Params) { p.Stiffness = 0 }, "stiffness"},
		{"negative tear", func(p *Params) { p.TearThreshold = -1 }, "tear_threshold"},
		{"negative iterations", func(p *Params) { p.Iterations = -1 }, "iterations"},
		{"zero pick radius", func(p *Params) { p.PickRadius = 0 }, "pick_radius"},
		{"negative cut radius", func(p *Params) { p.CutRadius = -1 }, "cut_radius"},
		{"zero max dt", func(p *Params) { p.MaxDt = 0 }, "max_dt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var ce *dynamo.ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestParams_GetSet(t *testing.T) {
	p := DefaultParams()
	for _, name := range p.Names() {
		if _, err := p.Get(name); err != nil {
			t.Errorf("Get(%q): %v", name, err)
		}
	}

	if err := p.Set("iterations", 7.6); err != nil {
		t.Fatal(err)
	}
	if p.Iterations != 8 {
		t.Errorf("expected iterations rounded to 8, got %d", p.Iterations)
	}
	if err := p.Set("gravity", 9.8); err != nil {
		t.Fatal(err)
	}
	if v, _ := p.Get("gravity"); v != 9.8 {
		t.Errorf("expected gravity 9.8, got %f", v)
	}

	if err := p.Set("wind", 1); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown name, got %v", err)
	}
	if _, err := p.Get("wind"); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestClampDt(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.01, 0.01},
		{1, 1.0 / 30},
		{math.Inf(1), 1.0 / 30},
		{-0.5, 0},
		{math.NaN(), 0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := ClampDt(tt.in, 1.0/30); got != tt.want {
			t.Errorf("ClampDt(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParams_LayoutChange(t *testing.T) {
	p := DefaultParams()
	q := p
	q.Gravity = 1
	if p.Layout() != q.Layout() {
		t.Error("gravity must not change the layout")
	}
	q.Pin = "corners"
	if p.Layout() == q.Layout() {
		t.Error("pin mode is part of the layout")
	}
}
