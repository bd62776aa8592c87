// Package config handles engine configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/taigrr/cubist/pkg/engine"
	"github.com/taigrr/cubist/pkg/render"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all engine settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Physics PhysicsConfig `yaml:"physics"`
	Display DisplayConfig `yaml:"display"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds rasterizer and background settings.
type RenderConfig struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	FOV             float64 `yaml:"fov"` // vertical, degrees
	Background      string  `yaml:"background"`
	BackgroundColor [3]int  `yaml:"background_color"`
	TintSkybox      bool    `yaml:"tint_skybox"`
	Mode            string  `yaml:"mode"`
	BackfaceCulling bool    `yaml:"backface_culling"`
	CullThreshold   float64 `yaml:"cull_threshold"`
	Sampling        string  `yaml:"sampling"`
	WireframeColor  [3]int  `yaml:"wireframe_color"`
	ShowColliders   bool    `yaml:"show_colliders"`
}

// PhysicsConfig holds the collision step settings.
type PhysicsConfig struct {
	Enabled bool    `yaml:"enabled"`
	Gravity float64 `yaml:"gravity"`
	MaxStep float64 `yaml:"max_step"` // longest dt handed to the step, seconds
}

// DisplayConfig holds terminal presentation settings.
type DisplayConfig struct {
	FPS     int  `yaml:"fps"`
	ShowHUD bool `yaml:"show_hud"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock engine settings.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:           200,
			Height:          150,
			FOV:             70,
			Background:      "solid",
			BackgroundColor: [3]int{0, 100, 200},
			Mode:            "texture",
			BackfaceCulling: true,
			CullThreshold:   0.5,
			Sampling:        "corrected",
			WireframeColor:  [3]int{255, 255, 255},
		},
		Physics: PhysicsConfig{
			Enabled: true,
			Gravity: 9.81,
			MaxStep: 0.1,
		},
		Display: DisplayConfig{
			FPS:     60,
			ShowHUD: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting that the engine cannot run with.
func (c *Config) Validate() error {
	r := c.Render
	switch {
	case r.Width <= 0 || r.Height <= 0:
		return fmt.Errorf("%w: render size %dx%d", ErrInvalid, r.Width, r.Height)
	case r.FOV <= 0 || r.FOV >= 180:
		return fmt.Errorf("%w: fov %v outside (0, 180)", ErrInvalid, r.FOV)
	case r.CullThreshold < -1 || r.CullThreshold > 1:
		return fmt.Errorf("%w: cull threshold %v outside [-1, 1]", ErrInvalid, r.CullThreshold)
	case !validRGB(r.BackgroundColor) || !validRGB(r.WireframeColor):
		return fmt.Errorf("%w: colour component outside 0-255", ErrInvalid)
	}
	if _, err := engine.ParseBackground(r.Background); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := render.ParseMode(r.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := render.ParseSampling(r.Sampling); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	p := c.Physics
	if p.Gravity < 0 || p.MaxStep <= 0 {
		return fmt.Errorf("%w: gravity %v, max step %v", ErrInvalid, p.Gravity, p.MaxStep)
	}
	if c.Display.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.Display.FPS)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}

// RenderOptions converts the render section into rasterizer options.
func (c *Config) RenderOptions() (render.Options, error) {
	mode, err := render.ParseMode(c.Render.Mode)
	if err != nil {
		return render.Options{}, err
	}
	sampling, err := render.ParseSampling(c.Render.Sampling)
	if err != nil {
		return render.Options{}, err
	}
	opts := render.DefaultOptions()
	opts.Mode = mode
	opts.Sampling = sampling
	opts.BackfaceCulling = c.Render.BackfaceCulling
	opts.CullThreshold = c.Render.CullThreshold
	wc := c.Render.WireframeColor
	opts.WireframeColor = render.RGB(uint8(wc[0]), uint8(wc[1]), uint8(wc[2]))
	return opts, nil
}

// EngineOptions converts the config into engine options.
func (c *Config) EngineOptions() (engine.Options, error) {
	ropts, err := c.RenderOptions()
	if err != nil {
		return engine.Options{}, err
	}
	mode, err := engine.ParseBackground(c.Render.Background)
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		Width:  c.Render.Width,
		Height: c.Render.Height,
		FOV:    c.Render.FOV,
		Render: ropts,
		Background: engine.Background{
			Mode:    mode,
			Color:   c.BackgroundColor(),
			Palette: render.DefaultSkyPalette,
			Tint:    c.Render.TintSkybox,
		},
		ShowColliders: c.Render.ShowColliders,
		Physics:       c.Physics.Enabled,
		Gravity:       c.Physics.Gravity,
		MaxStep:       c.Physics.MaxStep,
	}, nil
}

// BackgroundColor returns the solid background as a render colour.
func (c *Config) BackgroundColor() render.Color {
	bc := c.Render.BackgroundColor
	return render.RGB(uint8(bc[0]), uint8(bc[1]), uint8(bc[2]))
}

func validRGB(c [3]int) bool {
	for _, v := range c {
		if v < 0 || v > 255 {
			return false
		}
	}
	return true
}
