// Package config loads chat-ocr settings from YAML.
//
// Defaults reproduce the tuned detection constants, so an empty or missing
// file behaves exactly like no file at all. Values present in a file replace
// the defaults field by field.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/chat-ocr/internal/detection"
	"github.com/ironsheep/chat-ocr/internal/imaging"
	"github.com/ironsheep/chat-ocr/internal/ocr"
)

// EnvLogLevel overrides the configured log level when set.
const EnvLogLevel = "CHAT_OCR_LOG_LEVEL"

// Config is the complete runtime configuration.
type Config struct {
	Detection detection.Params      `yaml:"detection"`
	Edges     detection.EdgeOptions `yaml:"edges"`
	OCR       ocr.Options           `yaml:"ocr"`
	Overlay   Overlay               `yaml:"overlay"`
	LogLevel  string                `yaml:"log_level"`
}

// Overlay holds "#RRGGBB" outline colors per side. Empty keeps the default.
type Overlay struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	None  string `yaml:"none"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Detection: detection.DefaultParams(),
		Edges:     detection.DefaultEdgeOptions(),
		OCR:       ocr.DefaultOptions(),
		LogLevel:  "info",
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. A non-empty logLevel wins over the environment, which wins
// over the file. Validation runs after every override.
func Load(path, logLevel string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.LogLevel = ll
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Detection.Validate(); err != nil {
		return fmt.Errorf("invalid detection config: %w", err)
	}
	if c.Edges.BlurRadius < 0 {
		return fmt.Errorf("invalid edges config: blur_radius must not be negative")
	}
	if c.Edges.MinContourPixels < 1 {
		return fmt.Errorf("invalid edges config: min_contour_pixels must be at least 1")
	}
	if c.OCR.Language == "" {
		return fmt.Errorf("invalid ocr config: language is required")
	}
	if _, err := c.Palette(); err != nil {
		return fmt.Errorf("invalid overlay config: %w", err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Palette returns the overlay colors.
func (c *Config) Palette() (imaging.Palette, error) {
	return imaging.ParsePalette(c.Overlay.Left, c.Overlay.Right, c.Overlay.None)
}

// ParseLevel parses debug, info, warn or error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
