package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/orrery/internal/frame"
	"github.com/san-kum/orrery/internal/palette"
	"github.com/san-kum/orrery/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS        = 60
	DefaultUnitWidth  = 10
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultScale      = 1.0
	DefaultBackground = "black"
	DefaultTheme      = "deepspace"
	DefaultPreset     = "henry"
)

type Config struct {
	Name       string       `yaml:"name"`
	FPS        int          `yaml:"fps"`
	UnitWidth  float64      `yaml:"unit_width"` // grid unit; stored, not drawn
	Width      float64      `yaml:"width"`
	Height     float64      `yaml:"height"`
	Scale      float64      `yaml:"scale"`
	Background string       `yaml:"background"`
	Theme      string       `yaml:"theme"`
	Bodies     []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Name       string     `yaml:"name"`
	Mass       float64    `yaml:"mass"`
	Volume     float64    `yaml:"volume,omitempty"`
	Position   [2]float64 `yaml:"position,flow"`
	Velocity   [2]float64 `yaml:"velocity,flow"`
	Radius     float64    `yaml:"radius"`
	Color      string     `yaml:"color"`
	TrailColor string     `yaml:"trail_color,omitempty"`
}

// DefaultConfig returns the "henry" preset laid out for the default viewport.
func DefaultConfig() *Config {
	cfg := base()
	cfg.Name, cfg.Bodies = henry(cfg.Width, cfg.Height)
	return &cfg
}

// Load reads a YAML file over the defaults. A file that lists bodies
// replaces the default bodies entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Bodies = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Bodies) == 0 {
		_, cfg.Bodies = henry(cfg.Width, cfg.Height)
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

var (
	ErrFPS      = errors.New("config: fps must be positive")
	ErrViewport = errors.New("config: width and height must be positive")
	ErrScale    = errors.New("config: scale must be positive")
	ErrRadius   = errors.New("config: body radius must be positive")
)

// Validate reports every problem found, joined into one error. Physics
// preconditions (positive mass, distinct positions) are checked on the
// built system.
func (c *Config) Validate() error {
	var errs []error
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrFPS, c.FPS))
	}
	if !(c.Width > 0) || !(c.Height > 0) {
		errs = append(errs, fmt.Errorf("%w, got %gx%g", ErrViewport, c.Width, c.Height))
	}
	if !(c.Scale > 0) || math.IsInf(c.Scale, 0) {
		errs = append(errs, fmt.Errorf("%w, got %g", ErrScale, c.Scale))
	}
	for i, b := range c.Bodies {
		if !(b.Radius > 0) {
			errs = append(errs, fmt.Errorf("body %d (%s): %w", i, b.Name, ErrRadius))
		}
		if _, err := palette.Parse(b.Color); err != nil {
			errs = append(errs, fmt.Errorf("body %d (%s): %w", i, b.Name, err))
		}
	}
	if err := c.System().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// System builds a fresh physics system from the body list.
func (c *Config) System() *physics.System {
	sys := physics.NewSystem(c.Name)
	for i, b := range c.Bodies {
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("body%d", i)
		}
		sys.Add(&physics.Body{
			Name:       name,
			Mass:       b.Mass,
			Volume:     b.Volume,
			Position:   physics.Vector{X: b.Position[0], Y: b.Position[1]},
			Velocity:   physics.Vector{X: b.Velocity[0], Y: b.Velocity[1]},
			Radius:     b.Radius,
			Color:      b.Color,
			TrailColor: b.TrailColor,
		})
	}
	return sys
}

func (c *Config) FrameOptions() frame.Options {
	return frame.Options{
		FPS:        c.FPS,
		Width:      c.Width,
		Height:     c.Height,
		Scale:      c.Scale,
		Background: c.Background,
	}
}
