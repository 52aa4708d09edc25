package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treepatch",
		Short: "Structural diff, three-way merge & patch for JSON and YAML documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("log-level", "warning", "log level (debug, info, warning, error)")

	cmd.AddCommand(newDiffCmd())
	cmd.AddCommand(newMergeCmd())
	cmd.AddCommand(newPatchCmd())

	return cmd
}
