package session

import (
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/dshills/pigment/internal/engine/history"
	"github.com/dshills/pigment/internal/engine/tool"
	"github.com/dshills/pigment/internal/metrics"
	"github.com/dshills/pigment/internal/tools"
)

type options struct {
	registry    *tools.Registry
	settings    tool.Settings
	logger      logrus.FieldLogger
	metrics     *metrics.Collector
	maxHistory  int
	background  color.Color
	initialTool tool.ID
}

func defaultOptions() options {
	return options{
		settings:    tool.DefaultSettings(),
		maxHistory:  history.DefaultMaxEntries,
		background:  color.White,
		initialTool: tools.Pencil,
	}
}

// Option configures a Session.
type Option func(*options)

// WithRegistry sets the tool registry. Defaults to tools.NewRegistry().
func WithRegistry(r *tools.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithSettings sets the initial tool settings.
func WithSettings(s tool.Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metrics collector. A nil collector records nothing.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = c
	}
}

// WithMaxHistory bounds the number of operations kept for undo.
func WithMaxHistory(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxHistory = n
		}
	}
}

// WithBackground sets the fill color of a new blank canvas. A nil color
// leaves it transparent. Ignored by Open.
func WithBackground(c color.Color) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithInitialTool sets the tool that is active when the session starts.
func WithInitialTool(id tool.ID) Option {
	return func(o *options) {
		o.initialTool = id
	}
}
