package main

import (
	"github.com/spf13/cobra"

	"savings/internal/cli"
	"savings/internal/log"
)

// newRootCmd represents the base command when called without any subcommands
func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "savings-cli",
		Short: "Project the growth of a periodic investment.",
		Long: `savings-cli projects monthly contributions compounded at a fixed ` +
			`annual rate and prints the monthly or yearly series.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.SetupLogger(log.ComponentCLI, logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newProjectCmd())
	return root
}
