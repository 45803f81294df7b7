package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"videoauto/internal/cutplan"
	"videoauto/internal/subtitle"
	"videoauto/internal/timeline"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var gapFlag float64
	var strategyFlag string

	cmd := &cobra.Command{
		Use:   "plan <subtitle>",
		Short: "Show the intervals a cut would keep, without touching media",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("provide the subtitle file to plan from. Example: videoauto plan lecture.srt\nRun videoauto plan --help for more details")
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
			strategyName := cfg.Cut.Strategy
			if cmd.Flags().Changed("strategy") {
				strategyName = strategyFlag
			}
			strategy, err := cutplan.ParseStrategy(strategyName)
			if err != nil {
				return err
			}

			cues, err := subtitle.ParseFile(subtitlePath)
			if err != nil {
				return fmt.Errorf("parse subtitle: %w", err)
			}
			if len(cues) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No cues in %s; nothing to cut.\n", subtitlePath)
				return nil
			}

			intervals, err := timeline.MergeCues(cues, secondsToDuration(gap))
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(intervals))
			for i, iv := range intervals {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					subtitle.FormatTimestamp(iv.Start),
					subtitle.FormatTimestamp(iv.End),
					iv.Duration().Round(time.Millisecond).String(),
				})
			}

			out := cmd.OutOrStdout()
			renderTable(out, []string{"#", "Start", "End", "Duration"}, rows, 0, 3)

			kept := timeline.TotalKept(intervals)
			originalEnd := subtitle.MaxEnd(cues)
			fmt.Fprintf(out, "Cues: %d, intervals: %d, collapsed gaps: %d\n",
				len(cues), len(intervals), len(cues)-len(intervals))
			fmt.Fprintf(out, "Kept %s of %s, removed %s (gap: %s, strategy: %s)\n",
				kept.Round(time.Millisecond), originalEnd.Round(time.Millisecond),
				(originalEnd - kept).Round(time.Millisecond), secondsToDuration(gap), strategy)
			return nil
		},
	}

	cmd.Flags().Float64Var(&gapFlag, "gap", 0, "Merge gap threshold in seconds (default: config)")
	cmd.Flags().StringVar(&strategyFlag, "strategy", "", "Filter strategy: select or trim (default: config)")

	return cmd
}
