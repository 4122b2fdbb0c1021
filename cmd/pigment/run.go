package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/pigment/internal/engine/operation"
	"github.com/dshills/pigment/internal/engine/session"
	"github.com/dshills/pigment/internal/script"
)

type runOptions struct {
	width   int
	height  int
	journal string
	timeout time.Duration
}

func newRunCmd(g *globals) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Run a Lua script against a blank canvas",
		Example: `  pigment run draw.lua
  pigment run draw.lua --width 64 --height 64 --journal draw.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *g.cfg
			if opts.width > 0 {
				cfg.Canvas.Width = opts.width
			}
			if opts.height > 0 {
				cfg.Canvas.Height = opts.height
			}

			sess, err := g.newSession(&cfg)
			if err != nil {
				return err
			}
			runner := script.NewRunner(sess,
				script.WithOutput(cmd.OutOrStdout()),
				script.WithLogger(g.logger),
				script.WithTimeout(opts.timeout),
			)
			if err := runner.RunFile(cmd.Context(), args[0]); err != nil {
				return err
			}

			if opts.journal != "" {
				if err := writeJournal(opts.journal, sess, cfg.Canvas.Background); err != nil {
					return err
				}
			}
			printSummary(cmd.OutOrStdout(), sess)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.width, "width", 0, "canvas width (default from config)")
	flags.IntVar(&opts.height, "height", 0, "canvas height (default from config)")
	flags.StringVar(&opts.journal, "journal", "", "write the applied operations to this YAML file")
	flags.DurationVar(&opts.timeout, "timeout", script.DefaultTimeout, "abort the script after this long")
	return cmd
}

// writeJournal records the session's applied operations so replay can
// rebuild the same pixels.
func writeJournal(path string, sess *session.Session, background string) error {
	header, ops, err := sess.Journal()
	if err != nil {
		return err
	}
	header.Background = background

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating journal: %w", err)
	}
	if err := operation.WriteJournal(f, header, ops); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing journal: %w", err)
	}
	return f.Close()
}
