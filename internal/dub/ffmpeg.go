package dub

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Decoder converts synthesized media into PCM WAV via ffmpeg.
type Decoder struct {
	binary string
	run    commandRunner
}

// NewDecoder returns a Decoder using the given ffmpeg binary, or "ffmpeg"
// when blank.
func NewDecoder(binary string) *Decoder {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Decoder{binary: binary, run: defaultCommandRunner}
}

// WithCommandRunner overrides process execution, primarily for tests.
func (d *Decoder) WithCommandRunner(run commandRunner) {
	if run != nil {
		d.run = run
	}
}

// DecodeToWAV rewrites src into a mono WAV at the given sample rate. The
// destination is removed again when ffmpeg fails.
func (d *Decoder) DecodeToWAV(ctx context.Context, src, dest string, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	args := []string{"-y", "-i", src, "-ar", strconv.Itoa(sampleRate), "-ac", "1", dest}
	if err := d.run(ctx, d.binary, args...); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("ffmpeg decode failed: %w", err)
	}
	return nil
}

// Stretcher rescales clip tempo via ffmpeg's atempo filter.
type Stretcher struct {
	binary string
	run    commandRunner
}

// NewStretcher returns a Stretcher using the given ffmpeg binary, or
// "ffmpeg" when blank.
func NewStretcher(binary string) *Stretcher {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Stretcher{binary: binary, run: defaultCommandRunner}
}

// WithCommandRunner overrides process execution, primarily for tests.
func (s *Stretcher) WithCommandRunner(run commandRunner) {
	if run != nil {
		s.run = run
	}
}

// Stretch rewrites src into dest with its tempo scaled by ratio while
// preserving pitch. Ratios outside atempo's single-stage range are chained
// through multiple stages. The destination is removed again when ffmpeg
// fails.
func (s *Stretcher) Stretch(ctx context.Context, src, dest string, ratio float64) error {
	stages, err := DecomposeTempo(ratio)
	if err != nil {
		return err
	}
	args := []string{"-y", "-i", src, "-filter:a", filterExpression(stages), dest}
	if err := s.run(ctx, s.binary, args...); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("ffmpeg atempo failed: %w", err)
	}
	return nil
}
