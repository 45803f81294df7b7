package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"videoauto/internal/fileutil"
	"videoauto/internal/subtitle"
)

func newPadCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var padFlag float64
	var inPlace bool

	cmd := &cobra.Command{
		Use:   "pad <subtitle>",
		Short: "Widen cue boundaries to catch clipped sentence edges",
		Long: "Pad moves every cue start earlier and every cue end later by the pad " +
			"amount, clamped so cues never overlap and never start before zero.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("provide the subtitle file to pad. Example: videoauto pad lecture.srt\nRun videoauto pad --help for more details")
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

			pad := cfg.Pad.Seconds
			if cmd.Flags().Changed("pad") {
				pad = padFlag
			}
			if pad < 0 {
				return fmt.Errorf("pad must not be negative, got %v", pad)
			}

			output := withSuffix(subtitlePath, "_pad")
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
				fmt.Fprintf(cmd.OutOrStdout(), "No cues in %s; nothing to pad.\n", subtitlePath)
				return nil
			}
			subtitle.SortCues(cues)
			padded := subtitle.Pad(cues, secondsToDuration(pad))

			if inPlace {
				backup, err := fileutil.BackupCopy(subtitlePath)
				if err != nil {
					return fmt.Errorf("back up subtitle: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backup written: %s\n", backup)
			}
			if err := subtitle.WriteFile(output, padded); err != nil {
				return fmt.Errorf("write padded subtitle: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Padded subtitle: %s (%d cues, %s per side)\n",
				output, len(padded), secondsToDuration(pad))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output subtitle path (default: input with a _pad suffix)")
	cmd.Flags().Float64Var(&padFlag, "pad", 0, "Seconds added to each side of every cue (default: config)")
	cmd.Flags().BoolVar(&inPlace, "inplace", false, "Rewrite the input file, keeping a backup copy")

	return cmd
}
