package config

import "sort"

// Presets are named scenarios. GetPreset hands out copies so callers may
// modify the result.
var Presets = map[string]func() *Config{
	"corners": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "corners"
		cfg.Physics.G = 6.7943e-11
		cfg.Physics.DistanceScale = 1000
		cfg.Physics.Guard = "floor"
		cfg.Physics.MinDistance = 1.0
		cfg.Physics.Collisions = false
		cfg.Scenario = ScenarioConfig{Kind: KindCorners, Mass: DefaultBodyMass, Radius: DefaultBodyRadius}
		return cfg
	},
	"figure-eight": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "figure-eight"
		cfg.Physics.G = 1
		cfg.Physics.Collisions = false
		cfg.Scenario = ScenarioConfig{Kind: KindFigureEight, Mass: 2e6, Radius: 6, Scale: 200}
		cfg.Run.Dt = 0.004
		cfg.Run.Steps = 3200
		return cfg
	},
	"random": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "random"
		cfg.Physics.G = 1
		cfg.Physics.Guard = "softening"
		cfg.Physics.Softening = 10
		cfg.Physics.Collisions = true
		cfg.Physics.MaxSpeed = 600
		cfg.Radius.Model = "log"
		cfg.Radius.Offset = 4
		cfg.Radius.Slope = 4
		cfg.Scenario = ScenarioConfig{
			Kind:     KindRandom,
			Seed:     1,
			Count:    12,
			MassMin:  1e4,
			MassMax:  1e6,
			SpeedMax: 40,
			Margin:   60,
		}
		return cfg
	},
	"binary": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "binary"
		cfg.Physics.G = 1
		cfg.Physics.Collisions = true
		cfg.Scenario = ScenarioConfig{Kind: KindBinary, Mass: 1e6, Radius: 15, Scale: 240}
		return cfg
	},
	"collide": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "collide"
		cfg.Physics.G = 1
		cfg.Physics.Collisions = true
		cfg.Scenario = ScenarioConfig{
			Kind: KindList,
			Bodies: []BodyConfig{
				{Pos: [2]float64{300, 400}, Vel: [2]float64{120, 0}, Mass: 5e5, Radius: 20, Color: "#e74c3c"},
				{Pos: [2]float64{900, 400}, Vel: [2]float64{-60, 0}, Mass: 1e6, Radius: 25, Color: "#3498db"},
				{Pos: [2]float64{600, 150}, Vel: [2]float64{0, 80}, Mass: 2e5, Radius: 12, Color: "#f1c40f"},
			},
		}
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
