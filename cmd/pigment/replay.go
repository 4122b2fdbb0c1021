package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/pigment/internal/engine/operation"
)

func newReplayCmd(g *globals) *cobra.Command {
	var to int

	cmd := &cobra.Command{
		Use:   "replay JOURNAL",
		Short: "Rebuild an image from a recorded journal",
		Example: `  pigment replay draw.yaml
  pigment replay draw.yaml --to 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening journal: %w", err)
			}
			header, ops, err := operation.ReadJournal(f)
			_ = f.Close()
			if err != nil {
				return err
			}

			cfg := *g.cfg
			cfg.Canvas.Width = header.Width
			cfg.Canvas.Height = header.Height
			cfg.Canvas.Background = header.Background
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("journal header: %w", err)
			}

			sess, err := g.newSession(&cfg)
			if err != nil {
				return err
			}
			for i, op := range ops {
				if err := sess.Commit(op); err != nil {
					return fmt.Errorf("operation %d: %w", i+1, err)
				}
			}
			if cmd.Flags().Changed("to") {
				if err := sess.JumpTo(to); err != nil {
					return err
				}
			}

			printSummary(cmd.OutOrStdout(), sess)
			return nil
		},
	}

	cmd.Flags().IntVar(&to, "to", 0, "move the history cursor to this many applied operations")
	return cmd
}
