package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xyzhub/treepatch"
	"github.com/xyzhub/treepatch/jsonpatch"
)

func newDiffCmd() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "diff SOURCE TARGET",
		Short: "Show the changes that turn SOURCE into TARGET",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			return runDiff(cmd, cfg, args[0], args[1])
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringSlice("ignore", nil, "mapping keys to leave out of the diff (repeatable)")
	cmd.Flags().StringP("output", "o", "pretty", "output format: pretty or jsonpatch")
	cmd.Flags().Bool("color", false, "colorize pretty output")
	cmd.Flags().Bool("stats", false, "print change statistics after pretty output")

	return cmd
}

func runDiff(cmd *cobra.Command, cfg *config, sourcePath, targetPath string) error {
	log, err := cfg.logger(cmd)
	if err != nil {
		return err
	}

	source, err := readDocument(sourcePath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	target, err := readDocument(targetPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	stats := &treepatch.Stats{}
	d, err := treepatch.Diff(source, target, append(cfg.diffOptions(), treepatch.OptionSetStats(stats))...)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"inserts": stats.Inserts,
		"updates": stats.Updates,
		"removes": stats.Removes,
	}).Debug("computed diff")

	out := cmd.OutOrStdout()
	switch cfg.Output {
	case "pretty":
		if err := treepatch.FormatPretty(out, d, cfg.Color); err != nil {
			return err
		}
		if cfg.Stats {
			if cfg.Color {
				_, err = fmt.Fprint(out, treepatch.FormatPrettyStatsColor(stats))
			} else {
				_, err = fmt.Fprint(out, treepatch.FormatPrettyStats(stats))
			}
		}
		return err
	case "jsonpatch":
		ops, err := jsonpatch.Operations(d)
		if err != nil {
			return err
		}
		if ops == nil {
			ops = []jsonpatch.Operation{}
		}
		return writeJSON(out, ops)
	}
	return fmt.Errorf("unknown output format %q", cfg.Output)
}
