package config

import (
	"sort"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/sim"
)

func preset(steps int, edit func(p *sim.Params)) *Config {
	cfg := DefaultConfig()
	cfg.Run.Steps = steps
	edit(&cfg.Params)
	return cfg
}

var Presets = map[string]*Config{
	// The default sheet hanging from its top row.
	"drape": preset(600, func(p *sim.Params) {}),
	// A long, fine sheet held along the top.
	"curtain": preset(900, func(p *sim.Params) {
		p.Rows, p.Cols = 40, 30
		p.Spacing = 10
		p.OriginX, p.OriginY = 350, 20
	}),
	// Held only at the two top corners.
	"hammock": preset(900, func(p *sim.Params) {
		p.Rows, p.Cols = 20, 40
		p.Pin = cloth.PinCorners
		p.Stiffness = 1
		p.TearThreshold = 5
		p.Iterations = 8
	}),
	// A flag held along its left edge.
	"banner": preset(600, func(p *sim.Params) {
		p.Rows, p.Cols = 15, 45
		p.Pin = cloth.PinLeft
		p.OriginX, p.OriginY = 100, 100
		p.Gravity = 400
	}),
	// Small sheet used by the regression scenarios.
	"scenario": preset(100, func(p *sim.Params) {
		p.Rows, p.Cols = 10, 10
		p.Spacing = 20
		p.Gravity = 9.8
		p.Iterations = 4
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
