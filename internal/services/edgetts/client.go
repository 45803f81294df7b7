package edgetts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"log/slog"

	"videoauto/internal/logging"
)

// Defaults used when a request leaves prosody fields empty.
const (
	DefaultVoice  = "zh-CN-XiaoxiaoNeural"
	DefaultRate   = "+0%"
	DefaultVolume = "+0%"

	defaultBinary = "edge-tts"
)

// Client synthesizes speech from text.
type Client interface {
	Synthesize(ctx context.Context, req Request) (Result, error)
}

// Request describes one synthesis call.
type Request struct {
	Text       string
	Voice      string
	Rate       string // prosody rate modifier, e.g. "+0%"
	Volume     string // prosody volume modifier, e.g. "+0%"
	OutputPath string // destination media file (mp3)
}

// Result reports where the synthesized media was written.
type Result struct {
	Path string
}

type commandRunner func(ctx context.Context, name string, args ...string) error

// CLI shells out to the edge-tts binary.
type CLI struct {
	binary string
	logger *slog.Logger
	run    commandRunner
}

// NewCLI constructs a client around the given edge-tts binary.
func NewCLI(binary string, logger *slog.Logger) *CLI {
	if strings.TrimSpace(binary) == "" {
		binary = defaultBinary
	}
	return &CLI{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "edgetts"),
		run:    defaultCommandRunner,
	}
}

// SetLogger updates the client's logging destination.
func (c *CLI) SetLogger(logger *slog.Logger) {
	if c == nil {
		return
	}
	c.logger = logging.NewComponentLogger(logger, "edgetts")
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (c *CLI) WithCommandRunner(r commandRunner) {
	if c != nil && r != nil {
		c.run = r
	}
}

// Synthesize renders req.Text to req.OutputPath. Rate and volume default to
// "+0%" when unset. The output file is removed when the tool fails or
// produces nothing, so callers never see half-written media.
func (c *CLI) Synthesize(ctx context.Context, req Request) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("edge-tts client not initialized")
	}
	if strings.TrimSpace(req.Text) == "" {
		return Result{}, fmt.Errorf("text is required")
	}
	if err := ValidateVoice(req.Voice); err != nil {
		return Result{}, err
	}
	rate := req.Rate
	if rate == "" {
		rate = DefaultRate
	}
	volume := req.Volume
	if volume == "" {
		volume = DefaultVolume
	}
	if err := ValidateModifier(rate); err != nil {
		return Result{}, fmt.Errorf("rate: %w", err)
	}
	if err := ValidateModifier(volume); err != nil {
		return Result{}, fmt.Errorf("volume: %w", err)
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return Result{}, fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return Result{}, fmt.Errorf("ensure output directory: %w", err)
	}

	// Negative modifiers need the --flag=value form or the CLI parses
	// them as options.
	args := []string{
		"--text", req.Text,
		"--voice", req.Voice,
		"--rate=" + rate,
		"--volume=" + volume,
		"--write-media", req.OutputPath,
	}

	if c.logger != nil {
		c.logger.Debug("executing edge-tts",
			logging.String(logging.FieldVoice, req.Voice),
			logging.String("rate", rate),
			logging.String("volume", volume),
			logging.Int("text_length", len(req.Text)),
		)
	}

	if err := c.run(ctx, c.binary, args...); err != nil {
		_ = os.Remove(req.OutputPath)
		return Result{}, fmt.Errorf("edge-tts failed: %w", err)
	}

	info, err := os.Stat(req.OutputPath)
	if err != nil {
		return Result{}, fmt.Errorf("edge-tts did not produce output file: %w", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(req.OutputPath)
		return Result{}, fmt.Errorf("edge-tts produced an empty file for voice %s", req.Voice)
	}
	return Result{Path: req.OutputPath}, nil
}

// defaultCommandRunner executes edge-tts and folds its diagnostic output
// into the returned error.
func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
