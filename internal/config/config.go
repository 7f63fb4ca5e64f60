package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rlsim/internal/circuit"
	"github.com/san-kum/rlsim/internal/dynamo"
	"github.com/san-kum/rlsim/internal/source"
)

const (
	DefaultR             = 1.0
	DefaultL             = 1.0
	DefaultPeriod        = 1.0
	DefaultDuty          = 0.5
	DefaultHigh          = 10.0
	DefaultLow           = 0.0
	DefaultH             = 0.001
	DefaultTMax          = 3.0
	DefaultFrameInterval = 20
)

var DefaultRValues = []float64{0.1, 1, 10}

type Config struct {
	Circuit CircuitConfig `yaml:"circuit"`
	Source  SourceConfig  `yaml:"source"`
	Solver  SolverConfig  `yaml:"solver"`
	Sweep   SweepConfig   `yaml:"sweep"`
	View    ViewConfig    `yaml:"view"`
}

type CircuitConfig struct {
	R float64 `yaml:"r"`
	L float64 `yaml:"l"`
}

type SourceConfig struct {
	Period float64 `yaml:"period"`
	Duty   float64 `yaml:"duty"`
	High   float64 `yaml:"high"`
	Low    float64 `yaml:"low"`
}

type SolverConfig struct {
	H    float64 `yaml:"h"`
	TMax float64 `yaml:"t_max"`
}

type SweepConfig struct {
	RValues []float64 `yaml:"r_values"`
}

type ViewConfig struct {
	FrameIntervalMs int `yaml:"frame_interval_ms"`
}

func DefaultConfig() *Config {
	return &Config{
		Circuit: CircuitConfig{R: DefaultR, L: DefaultL},
		Source: SourceConfig{
			Period: DefaultPeriod,
			Duty:   DefaultDuty,
			High:   DefaultHigh,
			Low:    DefaultLow,
		},
		Solver: SolverConfig{H: DefaultH, TMax: DefaultTMax},
		Sweep:  SweepConfig{RValues: append([]float64(nil), DefaultRValues...)},
		View:   ViewConfig{FrameIntervalMs: DefaultFrameInterval},
	}
}

// Load reads a YAML file over the defaults; keys missing from the file keep
// their default values.
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

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Params() circuit.Params {
	return circuit.Params{
		R:     c.Circuit.R,
		L:     c.Circuit.L,
		T:     c.Source.Period,
		Alpha: c.Source.Duty,
	}
}

func (c *Config) Wave() source.SquareWave {
	return source.NewSquareWave(c.Source.Period, c.Source.Duty, c.Source.High, c.Source.Low)
}

// Validate checks every field that feeds a simulation run.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if err := c.Wave().Validate(); err != nil {
		return err
	}
	if !(c.Solver.H > 0) {
		return dynamo.InvalidParam("h", c.Solver.H, "must be positive")
	}
	if !(c.Solver.TMax > 0) {
		return dynamo.InvalidParam("t_max", c.Solver.TMax, "must be positive")
	}
	n := dynamo.SampleCount(c.Solver.TMax, c.Solver.H)
	if n < 1 {
		return dynamo.InvalidParam("t_max", c.Solver.TMax, "shorter than one step")
	}
	if n > dynamo.MaxSamples {
		return dynamo.InvalidParam("h", c.Solver.H, "too small for t_max")
	}
	for _, r := range c.Sweep.RValues {
		if !(r > 0) {
			return dynamo.InvalidParam("r_values", r, "must be positive")
		}
	}
	if c.View.FrameIntervalMs <= 0 {
		return dynamo.InvalidParam("frame_interval_ms", float64(c.View.FrameIntervalMs), "must be positive")
	}
	return nil
}
