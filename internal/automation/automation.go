// Package automation records and replays pointer input as yaml scripts.
package automation

import (
	"fmt"
	"os"

	"github.com/san-kum/clothsim/internal/interact"
	"github.com/san-kum/clothsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const DefaultDt = 1.0 / 60

// Script is a recorded sequence of input frames.
type Script struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Dt          float64 `yaml:"dt"`
	Frames      []Frame `yaml:"frames"`
}

// Frame is one input sample, held for Repeat consecutive steps. Params
// overrides stay in effect for all later frames.
type Frame struct {
	Pointer Point              `yaml:"pointer"`
	Left    bool               `yaml:"left,omitempty"`
	Right   bool               `yaml:"right,omitempty"`
	Repeat  int                `yaml:"repeat,omitempty"`
	Dt      float64            `yaml:"dt,omitempty"`
	Params  map[string]float64 `yaml:"params,omitempty"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// LoadScript loads a script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if s.Dt == 0 {
		s.Dt = DefaultDt
	}
	return &s, nil
}

func SaveScript(path string, s *Script) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Len is the number of steps the script expands to.
func (s *Script) Len() int {
	n := 0
	for _, f := range s.Frames {
		n += max(f.Repeat, 1)
	}
	return n
}

// Ticks expands the script into one tick per step, starting from base.
func (s *Script) Ticks(base sim.Params) ([]sim.Tick, error) {
	ticks := make([]sim.Tick, 0, s.Len())
	p := base

	for i, f := range s.Frames {
		if f.Repeat < 0 {
			return nil, fmt.Errorf("frame %d: negative repeat %d", i, f.Repeat)
		}
		for name, v := range f.Params {
			if err := p.Set(name, v); err != nil {
				return nil, fmt.Errorf("frame %d: %w", i, err)
			}
		}
		dt := f.Dt
		if dt == 0 {
			dt = s.Dt
		}
		in := interact.Input{
			Pointer: dynamoPoint(f.Pointer),
			Left:    f.Left,
			Right:   f.Right,
		}
		for r := 0; r < max(f.Repeat, 1); r++ {
			ticks = append(ticks, sim.Tick{Input: in, Dt: dt, Params: p})
		}
	}
	return ticks, nil
}
