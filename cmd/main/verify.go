package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"schemagen/internal/normalize/handler"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check generated files against their sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, closeLog := newLogger(cmd, cfg)
			defer closeLog()

			rep, err := handler.Verify(cmd.Context(), cfg, logger)
			if err != nil {
				return classify(err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return withCode(exitIO, fmt.Errorf("write report: %w", err))
			}

			bad := 0
			for _, t := range rep.Tables {
				if len(t.Problems) > 0 {
					bad++
					logger.Warn().Str("table", t.Table).Strs("problems", t.Problems).Msg("verify mismatch")
				}
			}
			if bad > 0 {
				return withCode(exitVerify, fmt.Errorf("verify: %d of %d tables do not match their source", bad, len(rep.Tables)))
			}
			logger.Info().Int("tables", len(rep.Tables)).Msg("verify ok")
			return nil
		},
	}
}
