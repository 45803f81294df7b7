package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"videoauto/internal/deps"
	"videoauto/internal/voicecache"
)

var toolVersionArgs = map[string][]string{
	"FFmpeg":   {"-version"},
	"FFprobe":  {"-version"},
	"edge-tts": {"--version"},
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check external tools, paths, and the synthesis cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			out := cmd.OutOrStdout()

			printSectionHeader(out, "Tools")
			statuses := deps.CheckBinaries(deps.Required(
				cfg.FFmpegBinary(), cfg.FFprobeBinary(), cfg.EdgeTTSBinary()))
			for _, st := range statuses {
				kind := statusOK
				detail := st.Detail
				switch {
				case st.Available:
					if version, err := deps.ToolVersion(st.Command, toolVersionArgs[st.Name]...); err == nil {
						detail = version
					}
				case st.Optional:
					kind = statusWarn
					detail += " (only needed for dub)"
				default:
					kind = statusError
				}
				printStatusLine(out, st.Name, kind, detail)
			}

			fmt.Fprintln(out)
			printSectionHeader(out, "Paths")
			configDetail := ctx.configPath
			configKind := statusOK
			if _, err := os.Stat(ctx.configPath); err != nil {
				configDetail += " (not found, using defaults)"
				configKind = statusInfo
			}
			printStatusLine(out, "Config", configKind, configDetail)
			printStatusLine(out, "Work dir", statusOK, cfg.Paths.WorkDir)
			printStatusLine(out, "Log dir", statusOK, cfg.Paths.LogDir)
			printStatusLine(out, "Cache dir", statusOK, cfg.Paths.CacheDir)

			fmt.Fprintln(out)
			printSectionHeader(out, "Synthesis cache")
			printStatusLine(out, "Enabled", statusInfo, yesNo(cfg.Dub.CacheEnabled))
			if cfg.Dub.CacheEnabled {
				retention := "keep forever"
				if cfg.Dub.CacheRetentionDays > 0 {
					retention = fmt.Sprintf("%d days", cfg.Dub.CacheRetentionDays)
				}
				printStatusLine(out, "Retention", statusInfo, retention)
				cache, err := voicecache.Open(cfg.Paths.CacheDir, nil)
				switch {
				case errors.Is(err, voicecache.ErrLocked):
					printStatusLine(out, "Clips", statusWarn, "cache locked by another run")
				case err != nil:
					printStatusLine(out, "Clips", statusWarn, err.Error())
				default:
					defer cache.Close()
					count, err := cache.Count(cmd.Context())
					if err != nil {
						printStatusLine(out, "Clips", statusWarn, err.Error())
					} else {
						printStatusLine(out, "Clips", statusOK, fmt.Sprintf("%d cached", count))
					}
				}
			}
			return nil
		},
	}
	return cmd
}
