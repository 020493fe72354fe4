// Package config holds the run configuration: an immutable value handed to
// the simulator at construction, loadable from YAML and from named presets.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravlab/internal/nbody"
)

const (
	DefaultBodies    = 100
	DefaultTotalMass = 20.0
	DefaultG         = 1.0
	DefaultSoftening = 0.1
	DefaultDt        = 0.01
	DefaultSteps     = 1000
	DefaultRadius    = 1.0
	DefaultVelScale  = 0.1
)

type Config struct {
	Bodies    int     `yaml:"bodies"`
	TotalMass float64 `yaml:"total_mass"`
	G         float64 `yaml:"g"`
	Softening float64 `yaml:"softening"`
	Dt        float64 `yaml:"dt"`
	Steps     int     `yaml:"steps"`
	Seed      int64   `yaml:"seed"`
	Workers   int     `yaml:"workers"`

	InitState InitStateConfig `yaml:"init_state"`
}

// InitStateConfig selects and parameterizes the initial-state provider.
type InitStateConfig struct {
	Kind       string  `yaml:"kind"` // cluster, binary, ring
	Radius     float64 `yaml:"radius"`
	VelScale   float64 `yaml:"vel_scale"`
	Separation float64 `yaml:"separation"`
	Speed      float64 `yaml:"speed"`
}

func DefaultConfig() *Config {
	return &Config{
		Bodies:    DefaultBodies,
		TotalMass: DefaultTotalMass,
		G:         DefaultG,
		Softening: DefaultSoftening,
		Dt:        DefaultDt,
		Steps:     DefaultSteps,
		InitState: InitStateConfig{
			Kind:     "cluster",
			Radius:   DefaultRadius,
			VelScale: DefaultVelScale,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// Core converts to the physics-engine configuration.
func (c *Config) Core() nbody.Config {
	return nbody.Config{
		Bodies:    c.Bodies,
		TotalMass: c.TotalMass,
		G:         c.G,
		Softening: c.Softening,
		Dt:        c.Dt,
		Steps:     c.Steps,
		Workers:   c.Workers,
	}
}
