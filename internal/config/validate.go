package config

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var presets = map[string]bool{"default": true, "a4": true, "letter": true, "square": true, "custom": true}

// Validate checks cfg and returns a *ValidationError listing every problem.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateLogger(cfg, ve)
	validateCanvas(cfg, ve)
	validateEditor(cfg, ve)
	validateGenerator(cfg, ve)
	if cfg.Store.Path == "" {
		ve.Add("store.path is required")
	}
	if cfg.Pad.Enabled && (cfg.Pad.Port <= 0 || cfg.Pad.Port > 65535) {
		ve.Add("pad.port must be between 1 and 65535")
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateLogger(cfg *Config, ve *ValidationError) {
	switch strings.ToLower(cfg.Logger.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		ve.Add("logger.level %q is not one of debug, info, warn, error", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "", "text", "json":
	default:
		ve.Add("logger.format %q is not text or json", cfg.Logger.Format)
	}
}

func validateCanvas(cfg *Config, ve *ValidationError) {
	if !presets[strings.ToLower(cfg.Canvas.Preset)] {
		ve.Add("canvas.preset %q is unknown", cfg.Canvas.Preset)
	}
	if strings.EqualFold(cfg.Canvas.Preset, "custom") && (cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0) {
		ve.Add("canvas.width and canvas.height must be > 0 for a custom canvas")
	}
}

func validateEditor(cfg *Config, ve *ValidationError) {
	e := cfg.Editor
	if !hexColor.MatchString(e.PenColor) {
		ve.Add("editor.pen_color %q is not a hex colour", e.PenColor)
	}
	if e.PenWidth < 1 || e.PenWidth > 20 {
		ve.Add("editor.pen_width must be between 1 and 20")
	}
	if e.FontSize <= 0 {
		ve.Add("editor.font_size must be > 0")
	}
	if e.Tolerance < 0 {
		ve.Add("editor.tolerance must be >= 0")
	}
	if e.HandleSize <= 0 {
		ve.Add("editor.handle_size must be > 0")
	}
	if e.MinSize <= 0 {
		ve.Add("editor.min_size must be > 0")
	}
}

func validateGenerator(cfg *Config, ve *ValidationError) {
	g := cfg.Generator
	if g.Endpoint == "" && !g.Discover {
		ve.Add("generator.endpoint is required unless generator.discover is set")
	}
	if g.Timeout <= 0 {
		ve.Add("generator.timeout must be > 0")
	}
	if g.Rate <= 0 {
		ve.Add("generator.rate must be > 0")
	}
	if g.Burst <= 0 {
		ve.Add("generator.burst must be > 0")
	}
	if g.Style < 0 || g.Style > 12 {
		ve.Add("generator.style must be between 0 and 12")
	}
	if g.Bias < 0.1 || g.Bias > 1 {
		ve.Add("generator.bias must be between 0.1 and 1.0")
	}
}
