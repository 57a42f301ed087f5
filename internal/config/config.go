package config

import (
	"fmt"
	"os"

	"github.com/san-kum/clothsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt    = 1.0 / 60
	DefaultSteps = 600
)

type Config struct {
	Params sim.Params `yaml:"params"`
	Run    RunConfig  `yaml:"run"`
}

// RunConfig controls a headless run. Script, when set, is a path to a
// recorded input script that replaces Steps and Dt.
type RunConfig struct {
	Steps  int     `yaml:"steps"`
	Dt     float64 `yaml:"dt"`
	Script string  `yaml:"script,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Params: sim.DefaultParams(),
		Run: RunConfig{
			Steps: DefaultSteps,
			Dt:    DefaultDt,
		},
	}
}

// Load reads a yaml config over the defaults, so a file only needs the
// fields it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.Run.Steps < 0 {
		return fmt.Errorf("run.steps must not be negative, got %d", c.Run.Steps)
	}
	if !(c.Run.Dt >= 0) {
		return fmt.Errorf("run.dt must not be negative, got %v", c.Run.Dt)
	}
	return nil
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
