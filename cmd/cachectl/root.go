package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cachectl",
		Short:         "Inspect, purge and serve persisted caches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "path to cachectl.yaml")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newInspectCmd(),
		newPurgeCmd(),
		newServeCmd(),
	)
	return root
}
