package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dshills/pigment/internal/config/loader"
	"github.com/dshills/pigment/internal/engine/history"
	"github.com/dshills/pigment/internal/engine/session"
	"github.com/dshills/pigment/internal/engine/surface"
	"github.com/dshills/pigment/internal/engine/tool"
	"github.com/dshills/pigment/internal/logging"
	"github.com/dshills/pigment/internal/tools"
)

// EnvPrefix is the prefix of environment variables that override file
// settings, e.g. PIGMENT_TOOLS_LINE_WIDTH.
const EnvPrefix = "PIGMENT_"

// Config is the complete pigment configuration.
type Config struct {
	Canvas  CanvasConfig  `toml:"canvas" yaml:"canvas"`
	Tools   ToolsConfig   `toml:"tools" yaml:"tools"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// CanvasConfig describes the blank canvas a new session starts from.
type CanvasConfig struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
	// Background is a hex color; empty means transparent.
	Background string `toml:"background" yaml:"background"`
}

// ToolsConfig holds the initial tool settings.
type ToolsConfig struct {
	Initial       string  `toml:"initial" yaml:"initial"`
	Primary       string  `toml:"primary" yaml:"primary"`
	Secondary     string  `toml:"secondary" yaml:"secondary"`
	Operator      string  `toml:"operator" yaml:"operator"`
	LineWidth     float64 `toml:"lineWidth" yaml:"lineWidth"`
	FillShapes    bool    `toml:"fillShapes" yaml:"fillShapes"`
	Tolerance     int     `toml:"tolerance" yaml:"tolerance"`
	Interpolation string  `toml:"interpolation" yaml:"interpolation"`
}

// HistoryConfig bounds the undo history.
type HistoryConfig struct {
	MaxEntries int `toml:"maxEntries" yaml:"maxEntries"`
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	s := tool.DefaultSettings()
	return &Config{
		Canvas: CanvasConfig{
			Width:      640,
			Height:     480,
			Background: "#ffffff",
		},
		Tools: ToolsConfig{
			Initial:       string(tools.Pencil),
			Primary:       FormatColor(s.Primary),
			Secondary:     FormatColor(s.Secondary),
			Operator:      s.Operator.String(),
			LineWidth:     s.LineWidth,
			FillShapes:    s.FillShapes,
			Tolerance:     s.Tolerance,
			Interpolation: s.Interpolation,
		},
		History: HistoryConfig{
			MaxEntries: history.DefaultMaxEntries,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: string(logging.FormatText),
		},
	}
}

// Load builds the configuration from the defaults, the file at path (if
// any) and PIGMENT_ environment variables, in increasing precedence. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	return LoadFrom(loader.DefaultFS(), path, loader.NewEnvLoader(EnvPrefix))
}

// LoadFrom is Load with an explicit file system and environment source.
// Either source may be nil or empty to skip it.
func LoadFrom(fsys loader.FileSystem, path string, env loader.Loader) (*Config, error) {
	merged, err := Default().toMap()
	if err != nil {
		return nil, err
	}

	if path != "" {
		file, err := loader.NewFileLoaderWithFS(fsys, path).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, file)
	}
	if env != nil {
		vars, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, vars)
	}

	cfg, err := fromMap(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a configuration document over the defaults and validates
// it. Environment variables are not consulted.
func Parse(format loader.Format, data []byte) (*Config, error) {
	merged, err := Default().toMap()
	if err != nil {
		return nil, err
	}
	file, err := loader.Parse(format, "<input>", data)
	if err != nil {
		return nil, err
	}
	cfg, err := fromMap(loader.DeepMerge(merged, file))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode renders the configuration in the given format.
func (c *Config) Encode(format loader.Format) ([]byte, error) {
	switch format {
	case loader.FormatTOML:
		return loader.EncodeTOML(c)
	case loader.FormatYAML:
		return loader.EncodeYAML(c)
	}
	return nil, fmt.Errorf("%w: %q", loader.ErrUnsupportedFormat, format)
}

func (c *Config) toMap() (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return m, nil
}

func fromMap(m map[string]any) (*Config, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil {
		return nil, &ValidationError{Field: "config", Message: err.Error()}
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		fail("canvas", "size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.Background != "" {
		if _, err := ParseColor(c.Canvas.Background); err != nil {
			fail("canvas.background", "%v", err)
		}
	}

	if !tools.NewRegistry().Has(tool.ID(c.Tools.Initial)) {
		fail("tools.initial", "unknown tool %q", c.Tools.Initial)
	}
	if _, err := ParseColor(c.Tools.Primary); err != nil {
		fail("tools.primary", "%v", err)
	}
	if _, err := ParseColor(c.Tools.Secondary); err != nil {
		fail("tools.secondary", "%v", err)
	}
	if _, err := surface.ParseMode(c.Tools.Operator); err != nil {
		fail("tools.operator", "%v", err)
	}
	if c.Tools.LineWidth <= 0 {
		fail("tools.lineWidth", "%v must be positive", c.Tools.LineWidth)
	}
	if c.Tools.Tolerance < 0 || c.Tools.Tolerance > 255 {
		fail("tools.tolerance", "%d outside 0-255", c.Tools.Tolerance)
	}
	if !slices.Contains(tools.Interpolations(), c.Tools.Interpolation) {
		fail("tools.interpolation", "unknown interpolation %q", c.Tools.Interpolation)
	}

	if c.History.MaxEntries <= 0 {
		fail("history.maxEntries", "%d must be positive", c.History.MaxEntries)
	}

	switch logging.Format(c.Logging.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		fail("logging.format", "unknown format %q", c.Logging.Format)
	}

	return errors.Join(errs...)
}

// Settings converts the tools section into a tool settings snapshot.
func (c *Config) Settings() (tool.Settings, error) {
	primary, err := ParseColor(c.Tools.Primary)
	if err != nil {
		return tool.Settings{}, fmt.Errorf("tools.primary: %w", err)
	}
	secondary, err := ParseColor(c.Tools.Secondary)
	if err != nil {
		return tool.Settings{}, fmt.Errorf("tools.secondary: %w", err)
	}
	mode, err := surface.ParseMode(c.Tools.Operator)
	if err != nil {
		return tool.Settings{}, fmt.Errorf("tools.operator: %w", err)
	}
	return tool.Settings{
		Primary:       primary,
		Secondary:     secondary,
		Operator:      mode,
		LineWidth:     c.Tools.LineWidth,
		FillShapes:    c.Tools.FillShapes,
		Tolerance:     c.Tools.Tolerance,
		Interpolation: c.Tools.Interpolation,
	}, nil
}

// Background returns the canvas background, or nil for transparent.
func (c *Config) Background() (color.Color, error) {
	if c.Canvas.Background == "" {
		return nil, nil
	}
	bg, err := ParseColor(c.Canvas.Background)
	if err != nil {
		return nil, fmt.Errorf("canvas.background: %w", err)
	}
	return bg, nil
}

// SessionOptions returns the session options this configuration implies.
func (c *Config) SessionOptions() ([]session.Option, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}
	bg, err := c.Background()
	if err != nil {
		return nil, err
	}
	return []session.Option{
		session.WithSettings(settings),
		session.WithMaxHistory(c.History.MaxEntries),
		session.WithBackground(bg),
		session.WithInitialTool(tool.ID(c.Tools.Initial)),
	}, nil
}

// LogConfig returns the logging configuration. Output is left to the caller.
func (c *Config) LogConfig() logging.Config {
	return logging.Config{
		Level:  c.Logging.Level,
		Format: logging.Format(c.Logging.Format),
	}
}
