package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

type rootOptions struct {
	env       string
	configDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "relay",
		Short:         "Portfolio contact form relay",
		Long:          "Serves the portfolio contact endpoint and relays each submission to the site owner by email.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.env, "env", "", "config environment (default $CONFIG_ENV or local)")
	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "", "config directory (default $CONFIG_DIR or ./config)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSendCmd(opts))
	return cmd
}
