// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"astraguard-console/internal/mission"
)

// Orbit configures the orbit map geometry.
type Orbit struct {
	CenterX    float64 `yaml:"center_x" env:"CENTER_X"`
	CenterY    float64 `yaml:"center_y" env:"CENTER_Y"`
	Radius     float64 `yaml:"radius" env:"RADIUS"`
	DriftPerMs float64 `yaml:"drift_per_ms" env:"DRIFT_PER_MS"`
}

// Web configures the HTTP dashboard.
type Web struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

// Log configures the logger.
type Log struct {
	Level string `yaml:"level" env:"LEVEL"`
	File  string `yaml:"file" env:"FILE"`
}

// Config is the root dashboard configuration.
type Config struct {
	StateFile       string        `yaml:"state_file" env:"STATE_FILE"`
	FeedFile        string        `yaml:"feed_file" env:"FEED_FILE"`
	FeedSpeed       float64       `yaml:"feed_speed" env:"FEED_SPEED"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"REFRESH_INTERVAL"`
	FrameInterval   time.Duration `yaml:"frame_interval" env:"FRAME_INTERVAL"`
	Locale          string        `yaml:"locale" env:"LOCALE"`
	Timezone        string        `yaml:"timezone" env:"TIMEZONE"`
	Orbit           Orbit         `yaml:"orbit" envPrefix:"ORBIT_"`
	Web             Web           `yaml:"web" envPrefix:"WEB_"`
	Log             Log           `yaml:"log" envPrefix:"LOG_"`
}

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ASTRA_"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FeedSpeed:       1,
		RefreshInterval: 30 * time.Second,
		FrameInterval:   time.Second,
		Locale:          "en-IN",
		Timezone:        "Asia/Kolkata",
		Orbit: Orbit{
			CenterX:    400,
			CenterY:    300,
			Radius:     220,
			DriftPerMs: 0.00005,
		},
		Web: Web{Addr: ":8080"},
		Log: Log{Level: "info"},
	}
}

// Load reads the YAML config at path, validates it against the CUE schema
// and applies ASTRA_* environment overrides. An empty path yields the
// defaults with overrides applied.
func Load(path, cueSchemaPath string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := ValidateWithCue(data, ConfigDefinition, cueSchemaPath); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the schema cannot see, such as env overrides.
func (c Config) Validate() error {
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be positive, got %s", c.FrameInterval)
	}
	if c.FeedSpeed < 0 {
		return fmt.Errorf("feed_speed must not be negative, got %v", c.FeedSpeed)
	}
	if c.Orbit.Radius <= 0 {
		return fmt.Errorf("orbit.radius must be positive, got %v", c.Orbit.Radius)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured clock time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LoadState reads a mission state file (YAML or JSON), validates it against
// the CUE #State definition and checks the model invariants.
func LoadState(path, cueSchemaPath string) (*mission.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	return ParseState(data, cueSchemaPath)
}

// ParseState validates and decodes mission state data.
func ParseState(data []byte, cueSchemaPath string) (*mission.State, error) {
	if err := ValidateWithCue(data, StateDefinition, cueSchemaPath); err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}
	var st mission.State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}
	return &st, nil
}
