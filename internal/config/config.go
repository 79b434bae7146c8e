package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spinsim/internal/mag"
)

// Config is the user-facing configuration. Lengths are in nanometers here;
// Params converts to meters so the core never sees mixed units.
type Config struct {
	GridSize  int     `yaml:"grid_size"`
	CellSize  float64 `yaml:"cell_size"` // nm
	Thickness float64 `yaml:"thickness"` // nm

	A     float64 `yaml:"exchange"`   // J/m
	D     float64 `yaml:"dmi"`        // J/m²
	K0    float64 `yaml:"anisotropy"` // J/m³
	EpsK  float64 `yaml:"modulation"`
	Bz    float64 `yaml:"field"` // T
	Ms    float64 `yaml:"saturation"`
	Alpha float64 `yaml:"damping"`
	Gamma float64 `yaml:"gamma"`

	Dt           float64 `yaml:"dt"` // s
	NumSteps     int     `yaml:"num_steps"`
	SaveInterval int     `yaml:"save_interval"`

	Seed    int64   `yaml:"seed"`
	Pattern string  `yaml:"pattern"`
	Noise   float64 `yaml:"noise"`
	BiasZ   float64 `yaml:"bias_z"`
	Method  string  `yaml:"method"` // euler | heun
}

func DefaultConfig() *Config {
	return &Config{
		GridSize:  128,
		CellSize:  1.0,
		Thickness: 10.0,

		A:     15e-12,
		D:     4e-3,
		K0:    0.8e6,
		EpsK:  0.2,
		Bz:    0.01,
		Ms:    4e5,
		Alpha: 0.3,
		Gamma: 1e4,

		Dt:           1e-12,
		NumSteps:     15000,
		SaveInterval: 250,

		Seed:    1,
		Pattern: "gaussian_bumps",
		Noise:   0.18,
		BiasZ:   0.9,
		Method:  "euler",
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

// Params converts the config into core parameters, nm → m.
func (c *Config) Params() mag.Params {
	p := mag.Default()
	p.GridSize = c.GridSize
	p.CellSize = c.CellSize * 1e-9
	p.Thickness = c.Thickness * 1e-9
	p.A = c.A
	p.D = c.D
	p.K0 = c.K0
	p.EpsK = c.EpsK
	p.Bz = c.Bz
	p.Ms = c.Ms
	p.Alpha = c.Alpha
	p.Gamma = c.Gamma
	p.Dt = c.Dt
	p.NumSteps = c.NumSteps
	p.SaveInterval = c.SaveInterval
	return p
}

// InitOptions builds the state-initialization options (without manifold,
// which the caller supplies from the pattern).
func (c *Config) InitOptions() mag.InitOptions {
	return mag.InitOptions{
		Bias:  [3]float64{0, 0, c.BiasZ},
		Noise: c.Noise,
	}
}
