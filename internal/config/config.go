// Package config loads the editor's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config file location.
const EnvConfigPath = "INKBOARD_CONFIG"

type Config struct {
	Logger    LoggerConfig    `yaml:"logger"`
	Canvas    CanvasConfig    `yaml:"canvas"`
	Editor    EditorConfig    `yaml:"editor"`
	Generator GeneratorConfig `yaml:"generator"`
	Store     StoreConfig     `yaml:"store"`
	Pad       PadConfig       `yaml:"pad"`
	Export    ExportConfig    `yaml:"export"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
	Output string `yaml:"output"` // stderr, stdout, or a file path
}

type CanvasConfig struct {
	// Preset is one of default, a4, letter, square or custom.
	Preset string  `yaml:"preset"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Grid   bool    `yaml:"grid"`
}

type EditorConfig struct {
	PenColor   string  `yaml:"pen_color"`
	PenWidth   float64 `yaml:"pen_width"`
	FontSize   float64 `yaml:"font_size"`
	FontFamily string  `yaml:"font_family"`
	Tolerance  float64 `yaml:"tolerance"`
	HandleSize float64 `yaml:"handle_size"`
	MinSize    float64 `yaml:"min_size"`
}

type GeneratorConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	// Rate is requests per second; Burst the limiter bucket size.
	Rate     float64              `yaml:"rate"`
	Burst    int                  `yaml:"burst"`
	Discover bool                 `yaml:"discover"`
	Breaker  CircuitBreakerConfig `yaml:"breaker"`
	Style    int                  `yaml:"style"`
	Bias     float64              `yaml:"bias"`
}

// CircuitBreakerConfig configures the generator's circuit breaker.
type CircuitBreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type PadConfig struct {
	Enabled   bool `yaml:"enabled"`
	Port      int  `yaml:"port"`
	Advertise bool `yaml:"advertise"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// homeDir returns $HOME/.inkboard, or ".inkboard" when $HOME is unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".inkboard"
	}
	return filepath.Join(home, ".inkboard")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(homeDir(), "config.yaml")
}

func Defaults() *Config {
	dir := homeDir()
	return &Config{
		Logger: LoggerConfig{Level: "info", Format: "text", Output: "stderr"},
		Canvas: CanvasConfig{Preset: "default", Width: 800, Height: 600, Grid: true},
		Editor: EditorConfig{
			PenColor:   "#000000",
			PenWidth:   3,
			FontSize:   24,
			FontFamily: "sans-serif",
			Tolerance:  5,
			HandleSize: 8,
			MinSize:    10,
		},
		Generator: GeneratorConfig{
			Endpoint: "https://handwriting-api-j4gv.onrender.com",
			Timeout:  60 * time.Second,
			Rate:     1,
			Burst:    2,
			Breaker: CircuitBreakerConfig{
				MaxFailures: 5,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
			Style: 9,
			Bias:  0.75,
		},
		Store:  StoreConfig{Path: filepath.Join(dir, "inkboard.db")},
		Pad:    PadConfig{Enabled: true, Port: 8888, Advertise: true},
		Export: ExportConfig{Dir: filepath.Join(dir, "exports")},
	}
}

// Load reads a YAML config file over the defaults and applies env overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps INKBOARD_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("INKBOARD_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("INKBOARD_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("INKBOARD_LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("INKBOARD_CANVAS_PRESET"); v != "" {
		cfg.Canvas.Preset = v
	}
	if v := os.Getenv("INKBOARD_GENERATOR_ENDPOINT"); v != "" {
		cfg.Generator.Endpoint = v
	}
	if v := os.Getenv("INKBOARD_GENERATOR_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Generator.Timeout = d
		}
	}
	if v := os.Getenv("INKBOARD_GENERATOR_DISCOVER"); v == "true" {
		cfg.Generator.Discover = true
	}
	if v := os.Getenv("INKBOARD_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("INKBOARD_PAD_ENABLED"); v == "false" {
		cfg.Pad.Enabled = false
	}
	if v := os.Getenv("INKBOARD_PAD_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pad.Port = n
		}
	}
	if v := os.Getenv("INKBOARD_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
}
