package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"schemagen/internal/config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "schemagen",
		Short:         "Standardize CSV sources and generate BigQuery external table definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addSettingFlags(cmd)
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newVerifyCmd())
	return cmd
}

// loadConfig reads env files and the environment, then applies flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(config.EnvFiles...)
	if err != nil {
		return cfg, withCode(exitConfig, err)
	}
	if err := applySettingFlags(cmd, &cfg); err != nil {
		return cfg, withCode(exitConfig, err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) (zerolog.Logger, func() error) {
	return config.SetupLogger(cfg, cmd.ErrOrStderr())
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
