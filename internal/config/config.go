// Package config handles meshtool configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Faultbox/meshkit/pkg/halfedge"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Device kinds.
const (
	DeviceCPU = "cpu"
	DeviceSim = "sim"
	DeviceGL  = "gl"
)

// Config holds all meshtool settings.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Device    DeviceConfig    `yaml:"device"`
	Normals   NormalsConfig   `yaml:"normals"`
	Textures  TexturesConfig  `yaml:"textures"`
	Primitive PrimitiveConfig `yaml:"primitive"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // console or json
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DeviceConfig selects where mesh tensors live.
type DeviceConfig struct {
	Kind string `yaml:"kind"` // cpu, sim or gl
}

// NormalsConfig holds normal computation settings.
type NormalsConfig struct {
	Weighting string `yaml:"weighting"` // uniform, area or angle
}

// TexturesConfig holds texture decoding settings.
type TexturesConfig struct {
	ColorKey  bool     `yaml:"color_key"`
	Key       [3]uint8 `yaml:"key"`
	Tolerance uint8    `yaml:"tolerance"`
	MaxSize   int      `yaml:"max_size"`
	FlipY     bool     `yaml:"flip_y"`
}

// PrimitiveConfig holds defaults for generated meshes.
type PrimitiveConfig struct {
	Shape string  `yaml:"shape"`
	Size  float64 `yaml:"size"`
	Cells int     `yaml:"cells"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Device: DeviceConfig{
			Kind: DeviceCPU,
		},
		Normals: NormalsConfig{
			Weighting: "uniform",
		},
		Textures: TexturesConfig{
			ColorKey:  false,
			Key:       [3]uint8{255, 0, 255},
			Tolerance: 5,
			MaxSize:   0,
			FlipY:     false,
		},
		Primitive: PrimitiveConfig{
			Shape: "sphere",
			Size:  1,
			Cells: 64,
		},
	}
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	if !slices.Contains([]string{DeviceCPU, DeviceSim, DeviceGL}, c.Device.Kind) {
		return fmt.Errorf("%w: device.kind %q (want cpu, sim or gl)", ErrInvalid, c.Device.Kind)
	}
	if _, err := halfedge.ParseWeighting(c.Normals.Weighting); err != nil {
		return fmt.Errorf("%w: normals.weighting: %v", ErrInvalid, err)
	}
	if !slices.Contains([]string{"console", "json"}, c.Logging.Format) {
		return fmt.Errorf("%w: logging.format %q (want console or json)", ErrInvalid, c.Logging.Format)
	}
	if c.Primitive.Cells <= 0 {
		return fmt.Errorf("%w: primitive.cells %d must be positive", ErrInvalid, c.Primitive.Cells)
	}
	if c.Primitive.Size <= 0 {
		return fmt.Errorf("%w: primitive.size %g must be positive", ErrInvalid, c.Primitive.Size)
	}
	if c.Textures.MaxSize < 0 {
		return fmt.Errorf("%w: textures.max_size %d is negative", ErrInvalid, c.Textures.MaxSize)
	}
	return nil
}
