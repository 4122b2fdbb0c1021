package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/pigment/internal/config/loader"
)

func newConfigCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := g.cfg.Encode(loader.Format(format))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", string(loader.FormatTOML), "output format (toml, yaml)")
	return cmd
}
