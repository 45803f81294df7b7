// Package encoder runs ffmpeg filter-graph transforms. The filter graph is
// staged in a script file and passed via -filter_complex_script, which keeps
// long interval lists off the command line. Output is written to a temporary
// file in the destination directory and renamed into place on success.
package encoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"log/slog"

	"videoauto/internal/logging"
	"videoauto/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// RateControl selects how ffmpeg allocates video bitrate.
type RateControl interface {
	args() []string
	// String reports the mode for logs.
	String() string
}

type vbrQuality int

func (q vbrQuality) args() []string {
	return []string{"-rc", "vbr", "-cq", strconv.Itoa(int(q))}
}

func (q vbrQuality) String() string { return fmt.Sprintf("vbr(cq=%d)", int(q)) }

// VBRQuality returns variable-bitrate rate control at the given constant
// quality level (0-51, lower is better).
func VBRQuality(cq int) RateControl { return vbrQuality(cq) }

type cbrBitrate string

func (b cbrBitrate) args() []string { return []string{"-b:v", string(b)} }

func (b cbrBitrate) String() string { return fmt.Sprintf("cbr(bitrate=%s)", string(b)) }

// CBRBitrate returns constant-bitrate rate control at the given target
// bitrate (ffmpeg syntax, e.g. "10M").
func CBRBitrate(rate string) RateControl { return cbrBitrate(rate) }

// Request describes one filter-graph transform.
type Request struct {
	Input            string // source video file
	FilterGraph      string // complete filter_complex description
	VideoLabel       string // graph output pad for video (default "outv")
	AudioLabel       string // graph output pad for audio (default "outa")
	VideoCodec       string // e.g. h264_nvenc
	Preset           string // encoder preset, e.g. p4
	RateControl      RateControl
	OutputFrameRate  int    // force the container frame rate when > 0
	AudioCodec       string // e.g. flac or aac
	MaxMuxingQueue   int    // -max_muxing_queue_size when > 0
	FastStart        bool   // relocate the moov atom for streaming
	KeepFilterScript bool   // leave the filter script on disk for inspection
	Output           string // destination video file
}

func (r Request) validate() error {
	if strings.TrimSpace(r.Input) == "" {
		return fmt.Errorf("input path is required")
	}
	if strings.TrimSpace(r.FilterGraph) == "" {
		return fmt.Errorf("filter graph is required")
	}
	if strings.TrimSpace(r.Output) == "" {
		return fmt.Errorf("output path is required")
	}
	if strings.TrimSpace(r.VideoCodec) == "" {
		return fmt.Errorf("video codec is required")
	}
	if strings.TrimSpace(r.AudioCodec) == "" {
		return fmt.Errorf("audio codec is required")
	}
	if r.RateControl == nil {
		return fmt.Errorf("rate control is required")
	}
	return nil
}

// Result reports the outcome of a transform.
type Result struct {
	Output       string // final video path
	FilterScript string // retained filter script path, empty unless requested
}

// Encoder invokes ffmpeg to apply filter graphs to video files.
type Encoder struct {
	binary  string
	workDir string
	logger  *slog.Logger
	run     commandRunner
}

// New constructs an encoder that invokes the given ffmpeg binary and stages
// filter scripts under workDir.
func New(binary, workDir string, logger *slog.Logger) *Encoder {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Encoder{
		binary:  binary,
		workDir: workDir,
		logger:  logging.NewComponentLogger(logger, "encoder"),
		run:     defaultCommandRunner,
	}
}

// SetLogger updates the encoder's logging destination.
func (e *Encoder) SetLogger(logger *slog.Logger) {
	if e == nil {
		return
	}
	e.logger = logging.NewComponentLogger(logger, "encoder")
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (e *Encoder) WithCommandRunner(r commandRunner) {
	if e != nil && r != nil {
		e.run = r
	}
}

// Encode applies the requested transform. ffmpeg writes to a hidden
// temporary file beside the target which is renamed over it only on
// success; the staged filter script is removed unless the request asks to
// keep it.
func (e *Encoder) Encode(ctx context.Context, req Request) (Result, error) {
	if e == nil {
		return Result{}, fmt.Errorf("encoder not initialized")
	}
	if err := req.validate(); err != nil {
		return Result{}, err
	}
	if _, err := os.Stat(req.Input); err != nil {
		return Result{}, fmt.Errorf("source video not found: %w", err)
	}

	scriptPath, err := e.writeFilterScript(ctx, req.FilterGraph)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if !req.KeepFilterScript {
			_ = os.Remove(scriptPath)
		}
	}()

	dir := filepath.Dir(req.Output)
	base := filepath.Base(req.Output)
	tmpPath := filepath.Join(dir, ".cut-"+base+".tmp")

	args := buildArgs(req, scriptPath, tmpPath)

	if e.logger != nil {
		e.logger.Debug("executing ffmpeg",
			logging.String(logging.FieldPath, req.Input),
			logging.String("output", req.Output),
			logging.String("video_codec", req.VideoCodec),
			logging.String("audio_codec", req.AudioCodec),
			logging.String("rate_control", req.RateControl.String()),
			logging.String("filter_script", scriptPath),
		)
	}

	if err := e.run(ctx, e.binary, args...); err != nil {
		_ = os.Remove(tmpPath)
		return Result{}, fmt.Errorf("ffmpeg failed: %w", err)
	}

	info, err := os.Stat(tmpPath)
	if err != nil {
		return Result{}, fmt.Errorf("ffmpeg did not produce output file: %w", err)
	}
	if err := os.Rename(tmpPath, req.Output); err != nil {
		_ = os.Remove(tmpPath)
		return Result{}, fmt.Errorf("failed to move output into place: %w", err)
	}

	res := Result{Output: req.Output}
	if req.KeepFilterScript {
		res.FilterScript = scriptPath
	}
	if e.logger != nil {
		e.logger.Info("transform complete",
			logging.String(logging.FieldPath, req.Output),
			logging.Int64("bytes", info.Size()),
			logging.String("rate_control", req.RateControl.String()),
		)
	}
	return res, nil
}

// writeFilterScript stages the filter graph under the encoder's work
// directory. The run identifier, when present, makes the script easy to
// match to its log records.
func (e *Encoder) writeFilterScript(ctx context.Context, graph string) (string, error) {
	dir := e.workDir
	if strings.TrimSpace(dir) == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create filter script directory: %w", err)
	}
	pattern := "filter-*.txt"
	if runID, ok := services.RunIDFromContext(ctx); ok {
		pattern = "filter-" + runID + "-*.txt"
	}
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create filter script: %w", err)
	}
	if _, err := f.WriteString(graph); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write filter script: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close filter script: %w", err)
	}
	return f.Name(), nil
}

// buildArgs constructs the ffmpeg argument list. Argument order matters to
// ffmpeg: everything after the maps applies to the output file.
func buildArgs(req Request, scriptPath, outputPath string) []string {
	videoLabel := req.VideoLabel
	if videoLabel == "" {
		videoLabel = "outv"
	}
	audioLabel := req.AudioLabel
	if audioLabel == "" {
		audioLabel = "outa"
	}

	args := []string{
		"-y",
		"-i", req.Input,
		"-filter_complex_script", scriptPath,
		"-map", "[" + videoLabel + "]",
		"-map", "[" + audioLabel + "]",
		"-c:v", req.VideoCodec,
	}
	if req.OutputFrameRate > 0 {
		args = append(args, "-r", strconv.Itoa(req.OutputFrameRate))
	}
	if req.Preset != "" {
		args = append(args, "-preset", req.Preset)
	}
	args = append(args, req.RateControl.args()...)
	if req.MaxMuxingQueue > 0 {
		args = append(args, "-max_muxing_queue_size", strconv.Itoa(req.MaxMuxingQueue))
	}
	args = append(args, "-c:a", req.AudioCodec)
	if req.FastStart {
		args = append(args, "-movflags", "+faststart")
	}
	args = append(args, outputPath)
	return args
}

// defaultCommandRunner executes ffmpeg and folds its diagnostic output into
// the returned error.
func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
