package main

import (
	"github.com/spf13/cobra"

	"schemagen/internal/normalize/handler"
)

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Write standardized CSVs, schemas, table definitions, bq scripts and the dbt sources manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, closeLog := newLogger(cmd, cfg)
			defer closeLog()

			if _, err := handler.Generate(cmd.Context(), cfg, logger); err != nil {
				logger.Error().Err(err).Msg("generate failed")
				return classify(err)
			}
			return nil
		},
	}
}
