// Package config loads and validates the flat run-parameter file. Values
// map 1:1 onto engine options; malformed configuration is fatal at startup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt      = 1e-6
	DefaultSteps   = 5000
	DefaultWorkers = 4
)

type Config struct {
	Species    string  `yaml:"species"`
	Dt         float64 `yaml:"dt"`
	Steps      int     `yaml:"steps"`
	Workers    int     `yaml:"workers"`
	Seed       uint64  `yaml:"seed"`
	Integrator string  `yaml:"integrator"`
	// Gravity adds the gravitational force to every atom.
	Gravity bool `yaml:"gravity"`

	Ramp     RampConfig     `yaml:"timestep_ramp"`
	Beams    []BeamConfig   `yaml:"beams"`
	Fields   []FieldConfig  `yaml:"fields"`
	Source   SourceConfig   `yaml:"source"`
	Repump   float64        `yaml:"repump_loss"`
	Boundary BoundaryConfig `yaml:"boundary"`
	Detector DetectorConfig `yaml:"detector"`
	Output   OutputConfig   `yaml:"output"`
}

type RampConfig struct {
	Enabled bool    `yaml:"enabled"`
	Until   float64 `yaml:"until"`
	Factor  float64 `yaml:"factor"`
}

type BeamConfig struct {
	// Wavelength in nm; zero means the species transition wavelength.
	Wavelength float64 `yaml:"wavelength"`
	// Detuning in MHz, negative red.
	Detuning float64 `yaml:"detuning"`
	// Intensity in W/m^2.
	Intensity    float64    `yaml:"intensity"`
	Direction    [3]float64 `yaml:"direction"`
	Polarization float64    `yaml:"polarization"`
}

type FieldConfig struct {
	// Type is "quadrupole" or "uniform".
	Type string `yaml:"type"`
	// Gradient in Gauss/cm, for quadrupole fields.
	Gradient float64    `yaml:"gradient"`
	Center   [3]float64 `yaml:"center"`
	Axis     [3]float64 `yaml:"axis"`
	// B is the bias field in Gauss, for uniform fields.
	B [3]float64 `yaml:"b"`
}

type ApertureConfig struct {
	// Type is "circle", "rect" or "point".
	Type   string  `yaml:"type"`
	Radius float64 `yaml:"radius"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type SourceConfig struct {
	// Type is "oven" or "surface".
	Type        string         `yaml:"type"`
	Position    [3]float64     `yaml:"position"`
	Direction   [3]float64     `yaml:"direction"`
	Temperature float64        `yaml:"temperature"`
	Aperture    ApertureConfig `yaml:"aperture"`
	// Rate in atoms/s; Burst atoms are emitted at the first step.
	Rate  float64 `yaml:"rate"`
	Burst int     `yaml:"burst"`
	// VelocityCap discards faster atoms at creation, m/s.
	VelocityCap float64 `yaml:"velocity_cap"`
}

type BoundaryConfig struct {
	Enabled bool `yaml:"enabled"`
	// Shape is "box", "sphere" or "cylinder".
	Shape       string     `yaml:"shape"`
	Center      [3]float64 `yaml:"center"`
	HalfExtents [3]float64 `yaml:"half_extents"`
	Radius      float64    `yaml:"radius"`
	Axis        [3]float64 `yaml:"axis"`
	HalfLength  float64    `yaml:"half_length"`
	// SpeedCap marks atoms above this speed for destruction, m/s.
	SpeedCap float64 `yaml:"speed_cap"`
}

type DetectorConfig struct {
	Enabled bool `yaml:"enabled"`
	// Shape is "sphere", "ring" or "box".
	Shape       string     `yaml:"shape"`
	Center      [3]float64 `yaml:"center"`
	Radius      float64    `yaml:"radius"`
	Tube        float64    `yaml:"tube"`
	Axis        [3]float64 `yaml:"axis"`
	HalfExtents [3]float64 `yaml:"half_extents"`
	// Dwell is the residence time before capture, s.
	Dwell float64 `yaml:"dwell"`
	// Destroy removes captured atoms; otherwise they are retained.
	Destroy bool `yaml:"destroy"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Interval uint64 `yaml:"interval"`
	// Format is the 3-vector payload format, e.g. "(%f, %f, %f)".
	Format       string `yaml:"format"`
	Positions    bool   `yaml:"positions"`
	Velocities   bool   `yaml:"velocities"`
	ScatterRates bool   `yaml:"scatter_rates"`
}

// Default returns the standard six-beam Rb87 MOT configuration.
func Default() *Config {
	return &Config{
		Species:    "Rb87",
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Workers:    DefaultWorkers,
		Seed:       1,
		Integrator: "symplectic_euler",
		Beams: []BeamConfig{
			{Detuning: -6, Intensity: 16.69, Direction: [3]float64{1, 0, 0}, Polarization: 1},
			{Detuning: -6, Intensity: 16.69, Direction: [3]float64{-1, 0, 0}, Polarization: 1},
			{Detuning: -6, Intensity: 16.69, Direction: [3]float64{0, 1, 0}, Polarization: 1},
			{Detuning: -6, Intensity: 16.69, Direction: [3]float64{0, -1, 0}, Polarization: 1},
			{Detuning: -6, Intensity: 16.69, Direction: [3]float64{0, 0, 1}, Polarization: -1},
			{Detuning: -6, Intensity: 16.69, Direction: [3]float64{0, 0, -1}, Polarization: -1},
		},
		Fields: []FieldConfig{
			{Type: "quadrupole", Gradient: 15, Axis: [3]float64{0, 0, 1}},
		},
		Source: SourceConfig{
			Type:        "oven",
			Position:    [3]float64{0, 0, -0.08},
			Direction:   [3]float64{0, 0, 1},
			Temperature: 400,
			Aperture:    ApertureConfig{Type: "circle", Radius: 1e-3},
			Rate:        1e5,
			VelocityCap: 60,
		},
		Boundary: BoundaryConfig{
			Enabled:     true,
			Shape:       "box",
			HalfExtents: [3]float64{0.1, 0.1, 0.1},
			SpeedCap:    500,
		},
		Detector: DetectorConfig{
			Enabled: true,
			Shape:   "sphere",
			Radius:  3e-3,
			Dwell:   2e-3,
		},
		Output: OutputConfig{
			Dir:       ".",
			Interval:  100,
			Format:    "(%f, %f, %f)",
			Positions: true,
		},
	}
}

// Load reads path into a Config over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first configuration error.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if len(c.Beams) == 0 {
		return fmt.Errorf("at least one beam is required")
	}
	if c.Repump < 0 || c.Repump > 1 {
		return fmt.Errorf("repump_loss must be a probability, got %g", c.Repump)
	}
	switch c.Source.Type {
	case "oven", "surface":
	default:
		return fmt.Errorf("unknown source type %q", c.Source.Type)
	}
	if c.Source.Temperature <= 0 {
		return fmt.Errorf("source temperature must be positive, got %g", c.Source.Temperature)
	}
	if c.Source.Rate <= 0 && c.Source.Burst <= 0 {
		return fmt.Errorf("source emits nothing: rate and burst are both zero")
	}
	if c.Ramp.Enabled && c.Ramp.Until <= 0 {
		return fmt.Errorf("timestep_ramp.until must be positive when the ramp is enabled")
	}
	return nil
}
