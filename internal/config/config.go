package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/galaxy/internal/galaxy"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth         = 1280
	DefaultHeight        = 720
	DefaultFPS           = 60
	DefaultMaxPixelRatio = 2.0
	DefaultFov           = 75.0
	DefaultNear          = 1.0
	DefaultFar           = 100.0
	DefaultDataDir       = ".galaxy"
	DefaultLogLevel      = "info"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

type Config struct {
	Galaxy   galaxy.Params `yaml:"galaxy"`
	Window   WindowConfig  `yaml:"window"`
	Camera   CameraConfig  `yaml:"camera"`
	DataDir  string        `yaml:"data_dir"`
	LogLevel string        `yaml:"log_level"`

	galaxy *yaml.Node
}

type WindowConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	FPS           int     `yaml:"fps"`
	MaxPixelRatio float64 `yaml:"max_pixel_ratio"`
}

type CameraConfig struct {
	Fov      float64    `yaml:"fov"`
	Near     float64    `yaml:"near"`
	Far      float64    `yaml:"far"`
	Position [3]float64 `yaml:"position,flow"`
	Damping  float64    `yaml:"damping"`
}

func DefaultConfig() *Config {
	return &Config{
		Galaxy: galaxy.DefaultParams(),
		Window: WindowConfig{
			Width:         DefaultWidth,
			Height:        DefaultHeight,
			FPS:           DefaultFPS,
			MaxPixelRatio: DefaultMaxPixelRatio,
		},
		Camera: CameraConfig{
			Fov:      DefaultFov,
			Near:     DefaultNear,
			Far:      DefaultFar,
			Position: [3]float64{3, 5, 10},
			Damping:  0.05,
		},
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.galaxy = mappingValue(&doc, "galaxy")
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// mappingValue returns the value node of key in the document's top-level
// mapping, or nil.
func mappingValue(doc *yaml.Node, key string) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// HasGalaxy reports whether the loaded file had a galaxy section.
func (c *Config) HasGalaxy() bool {
	return c.galaxy != nil
}

// ApplyGalaxy overlays the keys of the file's galaxy section onto p. Keys
// the file does not set keep their value in p.
func (c *Config) ApplyGalaxy(p *galaxy.Params) error {
	if c.galaxy == nil {
		return nil
	}
	if err := c.galaxy.Decode(p); err != nil {
		return fmt.Errorf("config: galaxy: %w", err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Galaxy.Validate(); err != nil {
		return err
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("config: camera clip range [%g, %g] is empty", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return fmt.Errorf("config: camera fov %g out of (0, 180)", c.Camera.Fov)
	}
	return nil
}

// PixelRatio caps a display's device pixel ratio.
func (w WindowConfig) PixelRatio(device float64) float64 {
	limit := w.MaxPixelRatio
	if limit <= 0 {
		limit = DefaultMaxPixelRatio
	}
	if device <= 0 {
		return 1
	}
	return min(device, limit)
}
