package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"videoauto/internal/cutplan"
	"videoauto/internal/logging"
	"videoauto/internal/media/encoder"
	"videoauto/internal/media/ffprobe"
	"videoauto/internal/services"
	"videoauto/internal/subtitle"
	"videoauto/internal/timeline"
)

func newCutCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var strategyFlag string
	var gapFlag float64
	var vbrFlag bool
	var cqFlag int
	var bitrateFlag string
	var codecFlag string
	var presetFlag string
	var keepFilterScript bool

	cmd := &cobra.Command{
		Use:   "cut <video> [subtitle]",
		Short: "Cut a video down to its subtitled sections",
		Long: "Cut derives kept intervals from the subtitle cues, removes everything " +
			"between them, and writes a resynchronized subtitle beside the cut video. " +
			"The subtitle defaults to the video path with an .srt extension.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return fmt.Errorf("provide the video to cut and optionally its subtitle file. Example: videoauto cut lecture.mp4\nRun videoauto cut --help for more details")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			video, err := resolveInputFile(args[0], "video file")
			if err != nil {
				return err
			}
			subtitleArg := defaultSubtitlePath(video)
			if len(args) == 2 {
				subtitleArg = args[1]
			}
			subtitlePath, err := resolveInputFile(subtitleArg, "subtitle file")
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
			codec := cfg.Cut.VideoCodec
			if cmd.Flags().Changed("codec") {
				codec = codecFlag
			}
			preset := cfg.Cut.Preset
			if cmd.Flags().Changed("preset") {
				preset = presetFlag
			}
			vbr := cfg.Cut.VBR
			if cmd.Flags().Changed("vbr") {
				vbr = vbrFlag
			}
			var rateControl encoder.RateControl
			if vbr {
				cq := cfg.Cut.CQ
				if cmd.Flags().Changed("cq") {
					cq = cqFlag
				}
				rateControl = encoder.VBRQuality(cq)
			} else {
				bitrate := cfg.Cut.Bitrate
				if cmd.Flags().Changed("bitrate") {
					bitrate = bitrateFlag
				}
				rateControl = encoder.CBRBitrate(bitrate)
			}

			output, err := resolveOutputPath(outputFlag, withSuffix(video, "_cut"))
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

			logger, cleanup, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer cleanup()
			runCtx, runID := newRunContext(cmd)
			logger = logger.With(logging.String(logging.FieldRunID, runID))
			logger.Debug("derived kept intervals", logging.Any("intervals", intervals))

			probe, err := ffprobe.Inspect(runCtx, cfg.FFprobeBinary(), video)
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "cut", "inspect source", "", err)
			}
			if probe.VideoStreamCount() == 0 {
				return services.Wrap(services.ErrInvalidInput, "cut", "inspect source",
					fmt.Sprintf("%s has no video stream", video), nil)
			}
			if probe.AudioStreamCount() == 0 {
				return services.Wrap(services.ErrInvalidInput, "cut", "inspect source",
					fmt.Sprintf("%s has no audio stream", video), nil)
			}

			plan, err := cutplan.Build(strategy, intervals, cutplan.Options{
				FrameRate:  probe.VideoFrameRate(),
				SampleRate: cfg.Audio.SampleRate,
				Loudnorm: cutplan.LoudnormParams{
					I:   cfg.Audio.LoudnormI,
					TP:  cfg.Audio.LoudnormTP,
					LRA: cfg.Audio.LoudnormLRA,
				},
				PixelFormat: cfg.Cut.PixelFormat,
			})
			if err != nil {
				return err
			}

			req := encoder.Request{
				Input:            video,
				FilterGraph:      plan.FilterGraph,
				VideoLabel:       plan.VideoLabel,
				AudioLabel:       plan.AudioLabel,
				VideoCodec:       codec,
				Preset:           preset,
				RateControl:      rateControl,
				AudioCodec:       strategy.AudioCodec(),
				MaxMuxingQueue:   cfg.Cut.MaxMuxingQueue,
				FastStart:        true,
				KeepFilterScript: keepFilterScript,
				Output:           output,
			}
			if strategy.ForcesOutputRate() {
				req.OutputFrameRate = cfg.Cut.OutputFrameRate
			}

			attrs := []logging.Attr{
				logging.String(logging.FieldStrategy, strategy.String()),
				logging.Int("intervals", len(intervals)),
				logging.Duration(logging.FieldDuration, plan.TotalKept()),
			}
			if req.OutputFrameRate > 0 {
				attrs = append(attrs, logging.Int("output_frame_rate", req.OutputFrameRate))
			}
			logger.Info("cutting video", logging.Args(attrs...)...)

			enc := encoder.New(cfg.FFmpegBinary(), cfg.Paths.WorkDir, logger)
			result, err := enc.Encode(runCtx, req)
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "cut", "encode video", "", err)
			}

			syncedPath := replaceExt(output, ".srt")
			if err := subtitle.WriteFile(syncedPath, synced); err != nil {
				return fmt.Errorf("write synced subtitle: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cut complete: %s (%s)\n", result.Output, fileSize(result.Output))
			fmt.Fprintf(out, "Kept %s across %d intervals, removed %s (strategy: %s)\n",
				plan.TotalKept().Round(time.Millisecond), len(intervals),
				stats.Removed.Round(time.Millisecond), strategy)
			fmt.Fprintf(out, "Synced subtitle: %s\n", syncedPath)
			if result.FilterScript != "" {
				fmt.Fprintf(out, "Filter script retained: %s\n", result.FilterScript)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output video path (default: input with a _cut suffix)")
	cmd.Flags().StringVar(&strategyFlag, "strategy", "", "Filter strategy: select or trim (default: config)")
	cmd.Flags().Float64Var(&gapFlag, "gap", 0, "Merge gap threshold in seconds (default: config)")
	cmd.Flags().BoolVar(&vbrFlag, "vbr", false, "Use constrained-quality rate control instead of constant bitrate")
	cmd.Flags().IntVar(&cqFlag, "cq", 0, "Constant quality level for --vbr, 0-51 (default: config)")
	cmd.Flags().StringVar(&bitrateFlag, "bitrate", "", "Target bitrate for constant-bitrate mode, e.g. 10M (default: config)")
	cmd.Flags().StringVar(&codecFlag, "codec", "", "Video encoder, e.g. h264_nvenc or libx264 (default: config)")
	cmd.Flags().StringVar(&presetFlag, "preset", "", "Encoder preset (default: config)")
	cmd.Flags().BoolVar(&keepFilterScript, "keep-filter-script", false, "Keep the staged filter script for inspection")

	return cmd
}
