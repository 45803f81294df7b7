package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"videoauto/internal/fileutil"
	"videoauto/internal/subtitle"
	"videoauto/internal/timeline"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var gapFlag float64
	var inPlace bool

	cmd := &cobra.Command{
		Use:   "sync <subtitle>",
		Short: "Resynchronize subtitles onto the cut timeline",
		Long: "Sync shifts every cue left by the gaps the cut removes, using the same " +
			"merge threshold, so the rewritten subtitle lines up with the cut video.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("provide the subtitle file to resynchronize. Example: videoauto sync lecture.srt\nRun videoauto sync --help for more details")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			subtitlePath, err := resolveInputFile(args[0], "subtitle file")
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			gap := cfg.Cut.GapSeconds
			if cmd.Flags().Changed("gap") {
				gap = gapFlag
			}

			output := withSuffix(subtitlePath, "_cut")
			if inPlace {
				output = subtitlePath
			} else if output, err = resolveOutputPath(outputFlag, output); err != nil {
				return err
			}

			cues, err := subtitle.ParseFile(subtitlePath)
			if err != nil {
				return fmt.Errorf("parse subtitle: %w", err)
			}
			if len(cues) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No cues in %s; nothing to sync.\n", subtitlePath)
				return nil
			}

			gapDuration := secondsToDuration(gap)
			intervals, err := timeline.MergeCues(cues, gapDuration)
			if err != nil {
				return err
			}
			synced, stats, err := timeline.Resync(cues, gapDuration)
			if err != nil {
				return err
			}
			if err := timeline.VerifyConsistency(intervals, stats); err != nil {
				return err
			}

			if inPlace {
				backup, err := fileutil.BackupCopy(subtitlePath)
				if err != nil {
					return fmt.Errorf("back up subtitle: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backup written: %s\n", backup)
			}
			if err := subtitle.WriteFile(output, synced); err != nil {
				return fmt.Errorf("write synced subtitle: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Synced subtitle: %s (%d cues)\n", output, len(synced))
			fmt.Fprintf(out, "Timeline compressed from %s to %s (removed %s)\n",
				stats.OriginalEnd.Round(time.Millisecond), stats.NewEnd.Round(time.Millisecond),
				stats.Removed.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output subtitle path (default: input with a _cut suffix)")
	cmd.Flags().Float64Var(&gapFlag, "gap", 0, "Merge gap threshold in seconds (default: config)")
	cmd.Flags().BoolVar(&inPlace, "inplace", false, "Rewrite the input file, keeping a backup copy")

	return cmd
}
