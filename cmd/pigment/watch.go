package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/pigment/internal/config"
	"github.com/dshills/pigment/internal/config/watcher"
	"github.com/dshills/pigment/internal/script"
)

func newWatchCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch SCRIPT",
		Short: "Re-run a script whenever the settings file changes",
		Long: `watch runs SCRIPT once, then again on a fresh canvas each time the file
given with --config is saved, so tool settings can be tuned live. It stops
on interrupt.`,
		Example: `  pigment watch draw.lua --config pigment.toml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.configPath == "" {
				return errors.New("watch needs --config")
			}
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			if err := g.runOnce(ctx, out, g.cfg, args[0]); err != nil {
				g.logger.WithError(err).Warn("script failed")
			}

			w, err := watcher.New(g.configPath, watcher.WithLogger(g.logger))
			if err != nil {
				return err
			}
			err = w.Run(ctx, func(r watcher.Reload) {
				if r.Err != nil {
					g.logger.WithError(r.Err).Warn("keeping previous settings")
					return
				}
				g.cfg = r.Config
				fmt.Fprintf(out, "-- %s %s\n", r.Event.Op, r.Event.Path)
				if err := g.runOnce(ctx, out, r.Config, args[0]); err != nil {
					g.logger.WithError(err).Warn("script failed")
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	return cmd
}

// runOnce runs path on a new session built from cfg and prints the summary.
func (g *globals) runOnce(ctx context.Context, out io.Writer, cfg *config.Config, path string) error {
	sess, err := g.newSession(cfg)
	if err != nil {
		return err
	}
	runner := script.NewRunner(sess, script.WithOutput(out), script.WithLogger(g.logger))
	if err := runner.RunFile(ctx, path); err != nil {
		return err
	}
	printSummary(out, sess)
	return nil
}
