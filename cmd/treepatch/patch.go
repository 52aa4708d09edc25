package main

import (
	"github.com/spf13/cobra"

	"github.com/xyzhub/treepatch"
)

func newPatchCmd() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "patch STORED PARTIAL",
		Short: "Apply a partial document to a stored one",
		Long: `Patch applies PARTIAL to STORED the way a PATCH request would: keys PARTIAL
sets are inserted or updated, keys it sets to null are removed and keys it
leaves out are kept.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			return runPatch(cmd, cfg, args[0], args[1])
		},
		SilenceUsage: true,
	}

	cmd.Flags().Bool("recursive", false, "merge nested mappings instead of replacing them")
	cmd.Flags().Bool("strip-removes", false, "never remove keys, ignore nulls in PARTIAL")
	cmd.Flags().StringSlice("ignore", nil, "keys of PARTIAL to skip (repeatable)")

	return cmd
}

func runPatch(cmd *cobra.Command, cfg *config, storedPath, partialPath string) error {
	log, err := cfg.logger(cmd)
	if err != nil {
		return err
	}

	stored, err := readMapping(storedPath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	partial, err := readMapping(partialPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	d, err := treepatch.DiffOfPartialUpdate(stored, partial, cfg.Recursive, cfg.diffOptions()...)
	if err != nil {
		return err
	}

	var change treepatch.Difference
	if d != nil {
		change = d
	}
	if cfg.StripRemoves {
		change = treepatch.WithoutRemoves(change)
	}
	log.WithField("changes", treepatch.CountChanges(change)).Debug("computed partial update")

	if err := treepatch.Patch(stored, change); err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), stored)
}
