package config

import (
	"math"
	"sort"
)

// henry is the sun/earth/moon arrangement of the reference animation. The
// sun sits at the center of the viewport; the earth and moon start at fixed
// pixel positions. Masses are in earth masses.
func henry(w, h float64) (string, []BodyConfig) {
	return "THE HENRY SOLAR SYSTEM WOOOOO", []BodyConfig{
		{Name: "sun", Mass: 333000, Volume: 1304000, Position: [2]float64{math.Floor(w / 2), math.Floor(h / 2)}, Radius: 80, Color: "orange", TrailColor: "orange"},
		{Name: "earth", Mass: 1, Volume: 1, Position: [2]float64{450, 450}, Velocity: [2]float64{0.001, 0.0018}, Radius: 10, Color: "green", TrailColor: "lime"},
		{Name: "moon", Mass: 0.0002, Volume: 0.5, Position: [2]float64{455, 455}, Velocity: [2]float64{0.0015, 0.00179}, Radius: 5, Color: "white", TrailColor: "silver"},
	}
}

func base() Config {
	return Config{
		FPS:        DefaultFPS,
		UnitWidth:  DefaultUnitWidth,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Scale:      DefaultScale,
		Background: DefaultBackground,
		Theme:      DefaultTheme,
	}
}

var Presets = map[string]func() *Config{
	"henry": DefaultConfig,
	"binary": func() *Config {
		cfg := base()
		cfg.Name = "binary"
		cfg.Bodies = []BodyConfig{
			{Name: "alpha", Mass: 1000, Position: [2]float64{540, 360}, Velocity: [2]float64{0, -0.0001}, Radius: 20, Color: "gold", TrailColor: "gold"},
			{Name: "beta", Mass: 1000, Position: [2]float64{740, 360}, Velocity: [2]float64{0, 0.0001}, Radius: 20, Color: "deepskyblue", TrailColor: "deepskyblue"},
		}
		return &cfg
	},
	"lonely": func() *Config {
		cfg := base()
		cfg.Name = "lonely"
		cfg.Theme = "minimal"
		cfg.Bodies = []BodyConfig{
			{Name: "rogue", Mass: 1, Position: [2]float64{100, 360}, Velocity: [2]float64{0.0001, 0}, Radius: 12, Color: "tomato", TrailColor: "tomato"},
		}
		return &cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
