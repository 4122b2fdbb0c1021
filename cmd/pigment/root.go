package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dshills/pigment/internal/config"
	"github.com/dshills/pigment/internal/engine/session"
	"github.com/dshills/pigment/internal/logging"
	"github.com/dshills/pigment/internal/metrics"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath  string
	logLevel    string
	logFormat   string
	metricsPath string

	cfg       *config.Config
	logger    *logrus.Logger
	collector *metrics.Collector
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "pigment",
		Short: "Headless driver for the pigment editing engine",
		Long: `pigment runs Lua scripts against a blank canvas and replays recorded
journals, printing the resulting history length, cursor and the SHA-256 of
the committed pixels.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return g.flushMetrics()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "settings file (.toml, .yaml or .yml)")
	flags.StringVar(&g.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&g.logFormat, "log-format", "", "log format (text, json)")
	flags.StringVar(&g.metricsPath, "metrics", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(
		newRunCmd(g),
		newReplayCmd(g),
		newWatchCmd(g),
		newConfigCmd(g),
	)
	return root
}

// setup loads the configuration and builds the logger and metrics
// collector. Flags override the file and environment.
func (g *globals) setup(logOut io.Writer) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Logging.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lc := cfg.LogConfig()
	lc.Output = logOut
	g.cfg = cfg
	g.logger = logging.New(lc)
	g.collector = metrics.New()
	return nil
}

func (g *globals) flushMetrics() error {
	if g.metricsPath == "" || g.collector == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(g.metricsPath, g.collector.Registry()); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

// newSession creates a blank session from cfg.
func (g *globals) newSession(cfg *config.Config) (*session.Session, error) {
	opts, err := cfg.SessionOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		session.WithLogger(g.logger),
		session.WithMetrics(g.collector),
	)
	return session.New(cfg.Canvas.Width, cfg.Canvas.Height, opts...)
}

// printSummary writes the final state of sess.
func printSummary(w io.Writer, sess *session.Session) {
	fmt.Fprintf(w, "history: %d\n", sess.HistoryLen())
	fmt.Fprintf(w, "cursor:  %d\n", sess.Cursor())
	fmt.Fprintf(w, "digest:  %s\n", sess.Digest())
}
