package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"videoauto/internal/audio"
	"videoauto/internal/dub"
	"videoauto/internal/logging"
	"videoauto/internal/services/edgetts"
	"videoauto/internal/subtitle"
	"videoauto/internal/voicecache"
)

func newDubCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var voiceFlag string
	var rateFlag string
	var volumeFlag string
	var workersFlag int
	var noCache bool

	cmd := &cobra.Command{
		Use:   "dub <subtitle>",
		Short: "Synthesize a dubbed audio track from subtitle cues",
		Long: "Dub renders every cue with edge-tts, fits each clip to its cue span by " +
			"trimming silence and compressing tempo or right-padding, and writes one " +
			"WAV track with silence filling the gaps between cues.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("provide the subtitle file to dub. Example: videoauto dub lecture.srt\nRun videoauto dub --help for more details")
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

			voice := cfg.Dub.Voice
			if cmd.Flags().Changed("voice") {
				voice = voiceFlag
			}
			rate := cfg.Dub.Rate
			if cmd.Flags().Changed("rate") {
				rate = rateFlag
			}
			volume := cfg.Dub.Volume
			if cmd.Flags().Changed("volume") {
				volume = volumeFlag
			}
			workers := cfg.Dub.Workers
			if cmd.Flags().Changed("workers") {
				workers = workersFlag
			}

			output, err := resolveOutputPath(outputFlag, replaceExt(subtitlePath, ".wav"))
			if err != nil {
				return err
			}

			cues, err := subtitle.ParseFile(subtitlePath)
			if err != nil {
				return fmt.Errorf("parse subtitle: %w", err)
			}

			logger, cleanup, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer cleanup()
			runCtx, runID := newRunContext(cmd)
			logger = logger.With(logging.String(logging.FieldRunID, runID))

			var cache *voicecache.Cache
			if cfg.Dub.CacheEnabled && !noCache {
				cache, err = voicecache.Open(cfg.Paths.CacheDir, logger)
				if err != nil {
					if errors.Is(err, voicecache.ErrLocked) {
						return fmt.Errorf("%w; wait for the other run to finish or pass --no-cache", err)
					}
					return fmt.Errorf("open voice cache: %w", err)
				}
				defer cache.Close()

				// Stale clips are cleaned on a best-effort basis so a
				// pruning hiccup never blocks the run.
				if days := cfg.Dub.CacheRetentionDays; days > 0 {
					age := time.Duration(days) * 24 * time.Hour
					if removed, pruneErr := cache.Prune(runCtx, age); pruneErr != nil {
						logger.Warn("voice cache prune failed", logging.Error(pruneErr))
					} else if removed > 0 {
						logger.Debug("pruned stale voice cache clips",
							logging.Int("removed", removed))
					}
				}
			}

			synth, err := dub.New(dub.Deps{
				TTS:       edgetts.NewCLI(cfg.EdgeTTSBinary(), logger),
				Decoder:   dub.NewDecoder(cfg.FFmpegBinary()),
				Stretcher: dub.NewStretcher(cfg.FFmpegBinary()),
				Cache:     cache,
				Logger:    logger,
			}, dub.Options{
				Voice:            voice,
				Rate:             rate,
				Volume:           volume,
				Workers:          workers,
				SampleRate:       cfg.Dub.SampleRate,
				SilenceThreshold: cfg.Dub.SilenceThresholdDB,
				WorkDir:          cfg.Paths.WorkDir,
			})
			if err != nil {
				return err
			}

			if len(cues) > 0 && shouldColorize(os.Stderr) {
				bar := progressbar.NewOptions(len(cues),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("dubbing"),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
				synth.SetProgress(func(done, total int) {
					_ = bar.Add(1)
				})
			}

			track, report, err := synth.DubCues(runCtx, cues)
			if err != nil {
				return err
			}

			if err := audio.WriteWAV(output, track); err != nil {
				return fmt.Errorf("write dub track: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dub track written: %s (%s)\n", output, fileSize(output))
			fmt.Fprintf(out, "Cues: %d (synthesized %d, cached %d, compressed %d, padded %d)\n",
				report.Cues, report.Synthesized, report.CacheHits, report.Stretched, report.Padded)
			fmt.Fprintf(out, "Track duration: %s (voice: %s)\n",
				report.TotalDuration.Round(time.Millisecond), voice)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output WAV path (default: subtitle with a .wav extension)")
	cmd.Flags().StringVar(&voiceFlag, "voice", "", "edge-tts voice name (default: config)")
	cmd.Flags().StringVar(&rateFlag, "rate", "", "Prosody rate modifier, e.g. +10% (default: config)")
	cmd.Flags().StringVar(&volumeFlag, "volume", "", "Prosody volume modifier, e.g. -5% (default: config)")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Concurrent synthesis workers (default: config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the synthesis cache for this run")

	return cmd
}
