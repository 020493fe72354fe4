package config

var Presets = map[string]*Config{
	"cluster": {
		Bodies: 100, TotalMass: 20.0, G: 1.0, Softening: 0.1,
		Dt: 0.01, Steps: 1000,
		InitState: InitStateConfig{Kind: "cluster", Radius: 1.0, VelScale: 0.1},
	},
	"cold-collapse": {
		Bodies: 50, TotalMass: 10.0, G: 1.0, Softening: 0.1,
		Dt: 0.001, Steps: 5000,
		InitState: InitStateConfig{Kind: "cluster", Radius: 1.0, VelScale: 0.01},
	},
	"binary": {
		Bodies: 2, TotalMass: 2.0, G: 1.0, Softening: 0.01,
		Dt: 0.001, Steps: 13000,
		InitState: InitStateConfig{Kind: "binary", Separation: 2.0},
	},
	"ring": {
		Bodies: 12, TotalMass: 12.0, G: 1.0, Softening: 0.1,
		Dt: 0.005, Steps: 4000,
		InitState: InitStateConfig{Kind: "ring", Radius: 1.0, Speed: 0.5},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
