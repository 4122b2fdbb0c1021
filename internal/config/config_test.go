package config

import (
	"errors"
	"image/color"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dshills/pigment/internal/config/loader"
	"github.com/dshills/pigment/internal/engine/session"
	"github.com/dshills/pigment/internal/engine/surface"
	"github.com/dshills/pigment/internal/engine/tool"
	"github.com/dshills/pigment/internal/logging"
	"github.com/dshills/pigment/internal/tools"
)

func noEnv() loader.Loader {
	return loader.NewEnvLoaderWithEnviron(EnvPrefix, nil)
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}

	got, err := cfg.Settings()
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if want := tool.DefaultSettings(); got != want {
		t.Errorf("Settings() = %+v, want %+v", got, want)
	}
}

func TestLoadFrom_TOML(t *testing.T) {
	fsys := fstest.MapFS{
		"pigment.toml": {Data: []byte(`
[canvas]
width = 32
height = 16
background = ""

[tools]
initial = "fill"
primary = "#ff0000"
operator = "multiply"
lineWidth = 4
tolerance = 10

[history]
maxEntries = 5
`)},
	}

	cfg, err := LoadFrom(fsys, "pigment.toml", noEnv())
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Canvas.Width != 32 || cfg.Canvas.Height != 16 {
		t.Errorf("canvas = %dx%d, want 32x16", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.History.MaxEntries != 5 {
		t.Errorf("history.maxEntries = %d, want 5", cfg.History.MaxEntries)
	}
	// Unset keys keep their defaults.
	if cfg.Tools.Secondary != "#ffffff" {
		t.Errorf("tools.secondary = %q, want #ffffff", cfg.Tools.Secondary)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %q, want info", cfg.Logging.Level)
	}

	s, err := cfg.Settings()
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if s.Primary != (color.NRGBA{R: 0xff, A: 0xff}) {
		t.Errorf("Primary = %v, want red", s.Primary)
	}
	if s.Operator != surface.ModeMultiply {
		t.Errorf("Operator = %v, want multiply", s.Operator)
	}
	if s.LineWidth != 4 || s.Tolerance != 10 {
		t.Errorf("LineWidth, Tolerance = %v, %d, want 4, 10", s.LineWidth, s.Tolerance)
	}

	bg, err := cfg.Background()
	if err != nil || bg != nil {
		t.Errorf("Background() = %v, %v, want nil, nil", bg, err)
	}
}

func TestLoadFrom_YAMLAndEnv(t *testing.T) {
	fsys := fstest.MapFS{
		"pigment.yaml": {Data: []byte("tools:\n  lineWidth: 2\n  fillShapes: true\nlogging:\n  level: debug\n")},
	}
	env := loader.NewEnvLoaderWithEnviron(EnvPrefix, []string{
		"PIGMENT_TOOLS_LINE_WIDTH=6",
		"PIGMENT_LOG_FORMAT=json",
		"PIGMENT_COLOR=#00ff00",
	})

	cfg, err := LoadFrom(fsys, "pigment.yaml", env)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Tools.LineWidth != 6 {
		t.Errorf("tools.lineWidth = %v, want 6 (env wins over file)", cfg.Tools.LineWidth)
	}
	if !cfg.Tools.FillShapes {
		t.Error("tools.fillShapes = false, want true from file")
	}
	if cfg.Tools.Primary != "#00ff00" {
		t.Errorf("tools.primary = %q, want #00ff00", cfg.Tools.Primary)
	}

	lc := cfg.LogConfig()
	if lc.Level != "debug" || lc.Format != logging.FormatJSON {
		t.Errorf("LogConfig() = %+v, want debug/json", lc)
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(fstest.MapFS{}, "absent.toml", noEnv())
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("LoadFrom() = %+v, want defaults", cfg)
	}
}

func TestLoadFrom_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.toml":     {Data: []byte("[tools\n")},
		"unknown.yaml": {Data: []byte("tools:\n  brush: round\n")},
		"invalid.toml": {Data: []byte("[tools]\nprimary = \"chartreuse\"\nlineWidth = 0\n")},
	}

	tests := []struct {
		path  string
		check func(error) bool
	}{
		{"bad.toml", func(err error) bool {
			var perr *loader.ParseError
			return errors.As(err, &perr)
		}},
		{"unknown.yaml", func(err error) bool {
			var verr *ValidationError
			return errors.As(err, &verr)
		}},
		{"invalid.toml", func(err error) bool {
			return strings.Contains(err.Error(), "tools.primary") && strings.Contains(err.Error(), "tools.lineWidth")
		}},
		{"config.json", func(err error) bool { return errors.Is(err, loader.ErrUnsupportedFormat) }},
	}
	for _, tt := range tests {
		_, err := LoadFrom(fsys, tt.path, noEnv())
		if err == nil {
			t.Errorf("LoadFrom(%s) error = nil, want error", tt.path)
			continue
		}
		if !tt.check(err) {
			t.Errorf("LoadFrom(%s) error = %v, unexpected kind", tt.path, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"canvas size", func(c *Config) { c.Canvas.Width = 0 }, "canvas"},
		{"background", func(c *Config) { c.Canvas.Background = "#12" }, "canvas.background"},
		{"initial tool", func(c *Config) { c.Tools.Initial = "airbrush" }, "tools.initial"},
		{"operator", func(c *Config) { c.Tools.Operator = "overlay" }, "tools.operator"},
		{"tolerance", func(c *Config) { c.Tools.Tolerance = 300 }, "tools.tolerance"},
		{"interpolation", func(c *Config) { c.Tools.Interpolation = "lanczos" }, "tools.interpolation"},
		{"history", func(c *Config) { c.History.MaxEntries = 0 }, "history.maxEntries"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#ff0000", color.NRGBA{R: 0xff, A: 0xff}, false},
		{"00ff00", color.NRGBA{G: 0xff, A: 0xff}, false},
		{" #0000FF ", color.NRGBA{B: 0xff, A: 0xff}, false},
		{"#fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, false},
		{"#ff000080", color.NRGBA{R: 0xff, A: 0x80}, false},
		{"#ff0000zz", color.NRGBA{}, true},
		{"red", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrInvalidColor) {
				t.Errorf("ParseColor(%q) error = %v, want ErrInvalidColor", tt.in, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatColor(t *testing.T) {
	tests := []struct {
		in   color.NRGBA
		want string
	}{
		{color.NRGBA{R: 0xff, A: 0xff}, "#ff0000"},
		{color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}, "#123456"},
		{color.NRGBA{A: 0x80}, "#00000080"},
		{color.NRGBA{}, "#00000000"},
	}
	for _, tt := range tests {
		got := FormatColor(tt.in)
		if got != tt.want {
			t.Errorf("FormatColor(%v) = %q, want %q", tt.in, got, tt.want)
		}
		back, err := ParseColor(got)
		if err != nil || back != tt.in {
			t.Errorf("ParseColor(FormatColor(%v)) = %v, %v", tt.in, back, err)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Tools.Primary = "#336699"
	cfg.History.MaxEntries = 12

	for _, format := range []loader.Format{loader.FormatTOML, loader.FormatYAML} {
		data, err := cfg.Encode(format)
		if err != nil {
			t.Fatalf("Encode(%s) error = %v", format, err)
		}
		back, err := Parse(format, data)
		if err != nil {
			t.Fatalf("Parse(%s) error = %v\n%s", format, err, data)
		}
		if *back != *cfg {
			t.Errorf("%s round trip = %+v, want %+v", format, back, cfg)
		}
	}

	if _, err := cfg.Encode("ini"); !errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Errorf("Encode(ini) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSessionOptions(t *testing.T) {
	cfg := Default()
	cfg.Canvas.Width, cfg.Canvas.Height = 8, 8
	cfg.Canvas.Background = "#0000ff"
	cfg.Tools.Initial = string(tools.Fill)
	cfg.Tools.Primary = "#ff0000"

	opts, err := cfg.SessionOptions()
	if err != nil {
		t.Fatalf("SessionOptions() error = %v", err)
	}
	sess, err := session.New(cfg.Canvas.Width, cfg.Canvas.Height, opts...)
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}

	if got := sess.ActiveTool().ID(); got != tools.Fill {
		t.Errorf("ActiveTool = %s, want fill", got)
	}
	if got := sess.StableImage().RGBAAt(0, 0); got != (color.RGBA{B: 0xff, A: 0xff}) {
		t.Errorf("background pixel = %v, want blue", got)
	}
	if got := sess.Settings().Primary; got != (color.NRGBA{R: 0xff, A: 0xff}) {
		t.Errorf("Settings().Primary = %v, want red", got)
	}
}
