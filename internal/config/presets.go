package config

import "sort"

var Presets = map[string]*Config{
	"fountain": {
		FrameDt: DefaultFrameDt, MaxFrameDt: DefaultMaxFrameDt,
		Substeps: 8, Frames: 900,
		Gravity: VecConfig{Y: 1000},
		Arena:   ArenaConfig{Shape: "circle", Radius: 250},
		Spawn:   SpawnConfig{Count: 1, PerFrame: 2, RadiusMin: 4, RadiusMax: 10},
	},
	"dense": {
		FrameDt: DefaultFrameDt, MaxFrameDt: DefaultMaxFrameDt,
		Substeps: 12, Frames: 600,
		Gravity: VecConfig{Y: 1000},
		Arena:   ArenaConfig{Shape: "circle", Radius: 200},
		Spawn:   SpawnConfig{Count: 500, RadiusMin: 3, RadiusMax: 6},
	},
	"sparse": {
		FrameDt: DefaultFrameDt, MaxFrameDt: DefaultMaxFrameDt,
		Substeps: 4, Frames: 600,
		Gravity: VecConfig{Y: 600},
		Arena:   ArenaConfig{Shape: "circle", Radius: 300},
		Spawn:   SpawnConfig{Count: 40, RadiusMin: 8, RadiusMax: 16},
	},
	"boxed": {
		FrameDt: DefaultFrameDt, MaxFrameDt: DefaultMaxFrameDt,
		Substeps: 8, Frames: 600,
		Gravity: VecConfig{Y: 1000},
		Arena:   ArenaConfig{Shape: "box", MinX: -200, MinY: -150, MaxX: 200, MaxY: 150},
		Spawn:   SpawnConfig{Count: 250, RadiusMin: 4, RadiusMax: 8},
	},
	"hashed": {
		FrameDt: DefaultFrameDt, MaxFrameDt: DefaultMaxFrameDt,
		Substeps: 8, Frames: 600,
		Gravity: VecConfig{Y: 1000},
		Arena:   ArenaConfig{Shape: "circle", Radius: 300},
		Spawn:   SpawnConfig{Count: 1500, RadiusMin: 2, RadiusMax: 4},
		Spatial: true, CellSize: 8,
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
