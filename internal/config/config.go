package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/verletbox/internal/verlet"
)

const (
	DefaultFrameDt    = 1.0 / 60
	DefaultMaxFrameDt = 1.0 / 30
	DefaultSubsteps   = 8
	DefaultGravityY   = 1000.0
	DefaultArenaR     = 250.0
	DefaultRadiusMin  = 4.0
	DefaultRadiusMax  = 12.0
	DefaultFrames     = 600
	DefaultSpawnCount = 200
)

type Config struct {
	FrameDt    float64     `yaml:"frame_dt"`
	MaxFrameDt float64     `yaml:"max_frame_dt"`
	Substeps   int         `yaml:"substeps"`
	Frames     int         `yaml:"frames"`
	Seed       int64       `yaml:"seed"`
	Gravity    VecConfig   `yaml:"gravity"`
	Arena      ArenaConfig `yaml:"arena"`
	Spawn      SpawnConfig `yaml:"spawn"`
	Spatial    bool        `yaml:"spatial"`
	CellSize   float64     `yaml:"cell_size"`
}

type VecConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ArenaConfig struct {
	Shape   string  `yaml:"shape"` // "circle" or "box"
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	Radius  float64 `yaml:"radius"`
	MinX    float64 `yaml:"min_x"`
	MinY    float64 `yaml:"min_y"`
	MaxX    float64 `yaml:"max_x"`
	MaxY    float64 `yaml:"max_y"`
}

type SpawnConfig struct {
	Count     int     `yaml:"count"` // particles spawned up front
	PerFrame  int     `yaml:"per_frame"`
	RadiusMin float64 `yaml:"radius_min"`
	RadiusMax float64 `yaml:"radius_max"`
}

func DefaultConfig() *Config {
	return &Config{
		FrameDt:    DefaultFrameDt,
		MaxFrameDt: DefaultMaxFrameDt,
		Substeps:   DefaultSubsteps,
		Frames:     DefaultFrames,
		Gravity:    VecConfig{Y: DefaultGravityY},
		Arena:      ArenaConfig{Shape: "circle", Radius: DefaultArenaR},
		Spawn: SpawnConfig{
			Count:     DefaultSpawnCount,
			RadiusMin: DefaultRadiusMin,
			RadiusMax: DefaultRadiusMax,
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

// Validate rejects host-level misconfiguration before any of it reaches
// the solver.
func (c *Config) Validate() error {
	if c.FrameDt <= 0 {
		return fmt.Errorf("frame_dt must be positive, got %f", c.FrameDt)
	}
	if c.Substeps < 1 {
		return fmt.Errorf("substeps must be at least 1, got %d", c.Substeps)
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must be non-negative, got %d", c.Frames)
	}
	if c.Spawn.RadiusMin <= 0 || c.Spawn.RadiusMax < c.Spawn.RadiusMin {
		return fmt.Errorf("spawn radius range [%f, %f] invalid",
			c.Spawn.RadiusMin, c.Spawn.RadiusMax)
	}
	switch c.Arena.Shape {
	case "circle":
		if c.Arena.Radius <= 0 {
			return fmt.Errorf("arena radius must be positive, got %f", c.Arena.Radius)
		}
	case "box":
		if c.Arena.MaxX <= c.Arena.MinX || c.Arena.MaxY <= c.Arena.MinY {
			return fmt.Errorf("arena box bounds invalid")
		}
	default:
		return fmt.Errorf("unknown arena shape: %s", c.Arena.Shape)
	}
	if c.Spatial && c.CellSize < 2*c.Spawn.RadiusMax {
		return fmt.Errorf("cell_size %f too small for spawn radius up to %f",
			c.CellSize, c.Spawn.RadiusMax)
	}
	return nil
}

// BuildArena constructs the containment boundary described by the config.
func (c *Config) BuildArena() (verlet.Arena, error) {
	switch c.Arena.Shape {
	case "circle":
		return verlet.CircleArena{
			Center: verlet.Vec2{X: c.Arena.CenterX, Y: c.Arena.CenterY},
			Radius: c.Arena.Radius,
		}, nil
	case "box":
		return verlet.BoxArena{
			Min: verlet.Vec2{X: c.Arena.MinX, Y: c.Arena.MinY},
			Max: verlet.Vec2{X: c.Arena.MaxX, Y: c.Arena.MaxY},
		}, nil
	default:
		return nil, fmt.Errorf("unknown arena shape: %s", c.Arena.Shape)
	}
}

// BuildSolver constructs a solver per the config, including the opt-in
// spatial hash mode.
func (c *Config) BuildSolver() (*verlet.Solver, error) {
	arena, err := c.BuildArena()
	if err != nil {
		return nil, err
	}
	s := verlet.NewSolver(verlet.Vec2{X: c.Gravity.X, Y: c.Gravity.Y}, c.Substeps, arena)
	if c.Spatial {
		if err := s.UseGrid(c.CellSize); err != nil {
			return nil, err
		}
	}
	return s, nil
}
