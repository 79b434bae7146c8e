package config

// Presets are pre-configured parameter sets for common scenarios, from the
// quick smoke test up to research-grade resolutions.
var Presets = map[string]*Config{
	"quick_test": {
		GridSize: 64, Dt: 1e-12, NumSteps: 5000, SaveInterval: 100,
		A: 15e-12, D: 4e-3, K0: 0.8e6, Bz: -0.01, Alpha: 0.3,
	},
	"standard": {
		GridSize: 128, Dt: 1e-12, NumSteps: 15000, SaveInterval: 250,
		A: 15e-12, D: 4e-3, K0: 0.8e6, Bz: -0.01, Alpha: 0.3, EpsK: 0.2,
	},
	"high_resolution": {
		GridSize: 256, Dt: 5e-13, NumSteps: 30000, SaveInterval: 500,
		A: 15e-12, D: 4e-3, K0: 0.8e6, Bz: -0.01, Alpha: 0.3, EpsK: 0.2,
	},
	"skyrmion_creation": {
		GridSize: 128, Dt: 1e-12, NumSteps: 20000, SaveInterval: 200,
		A: 15e-12, D: 5e-3, K0: 1.0e6, Bz: -0.02, Alpha: 0.4, EpsK: 0,
	},
	"data_encoding": {
		GridSize: 256, Dt: 5e-13, NumSteps: 25000, SaveInterval: 250,
		A: 15e-12, D: 4e-3, K0: 0.8e6, Bz: -0.015, Alpha: 0.3, EpsK: 0.25,
	},
	"fast_relaxation": {
		GridSize: 64, Dt: 2e-12, NumSteps: 10000, SaveInterval: 200,
		A: 15e-12, D: 4e-3, K0: 0.8e6, Bz: -0.01, Alpha: 0.6,
	},
	"stable_low_field": {
		GridSize: 128, Dt: 5e-13, NumSteps: 40000, SaveInterval: 400,
		A: 15e-12, D: 3e-3, K0: 1.2e6, Bz: -0.005, Alpha: 0.3,
	},
}

// GetPreset returns the named preset merged over the defaults, or nil when
// the name is unknown.
func GetPreset(name string) *Config {
	src, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.GridSize = src.GridSize
	cfg.Dt = src.Dt
	cfg.NumSteps = src.NumSteps
	cfg.SaveInterval = src.SaveInterval
	cfg.A = src.A
	cfg.D = src.D
	cfg.K0 = src.K0
	cfg.Bz = src.Bz
	cfg.Alpha = src.Alpha
	cfg.EpsK = src.EpsK
	return cfg
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
