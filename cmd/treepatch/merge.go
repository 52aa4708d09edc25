package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xyzhub/treepatch"
)

func newMergeCmd() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "merge BASE LOCAL REMOTE",
		Short: "Three-way merge the changes LOCAL & REMOTE made to BASE",
		Long: `Merge diffs LOCAL and REMOTE against BASE, merges the two differences and
prints BASE with the merged changes applied. When both sides changed a value
--resolution decides: error fails, retain keeps LOCAL, replace keeps REMOTE.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			return runMerge(cmd, cfg, args[0], args[1], args[2])
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("resolution", "error", "conflict resolution: error, retain or replace")
	cmd.Flags().StringSlice("ignore", nil, "mapping keys to leave out of the merge (repeatable)")

	return cmd
}

func runMerge(cmd *cobra.Command, cfg *config, basePath, localPath, remotePath string) error {
	log, err := cfg.logger(cmd)
	if err != nil {
		return err
	}

	docs := make([]interface{}, 3)
	for i, path := range []string{basePath, localPath, remotePath} {
		if docs[i], err = readDocument(path, cmd.InOrStdin()); err != nil {
			return err
		}
	}
	base, local, remote := docs[0], docs[1], docs[2]

	baseToLocal, err := treepatch.Diff(base, local, cfg.diffOptions()...)
	if err != nil {
		return err
	}
	baseToRemote, err := treepatch.Diff(base, remote, cfg.diffOptions()...)
	if err != nil {
		return err
	}

	merged, err := treepatch.Merge(baseToLocal, baseToRemote, cfg.Resolution)
	if err != nil {
		log.WithError(err).WithField("resolution", cfg.Resolution.String()).Debug("merge failed")
		return fmt.Errorf("merging %s and %s: %w", localPath, remotePath, err)
	}
	log.WithFields(logrus.Fields{
		"resolution": cfg.Resolution.String(),
		"changes":    treepatch.CountChanges(merged),
	}).Debug("merged differences")

	result := treepatch.Clone(base)
	if err := treepatch.Patch(&result, merged); err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}
