package main

import (
	"github.com/spf13/cobra"

	"schemagen/internal/normalize/handler"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print the detected dialect and normalized header of every source as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return classify(handler.Inspect(cmd.Context(), cfg.SourceDir, cmd.OutOrStdout()))
		},
	}
}
