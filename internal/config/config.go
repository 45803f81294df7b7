package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir  string `toml:"work_dir"`
	LogDir   string `toml:"log_dir"`
	CacheDir string `toml:"cache_dir"`
}

// Cut contains configuration for the video cutting pipeline.
type Cut struct {
	// GapSeconds is the merge threshold: cues whose gap to the previous
	// kept interval is strictly below this value join that interval.
	GapSeconds float64 `toml:"gap_seconds"`
	// Strategy selects the filter-graph builder: "select" or "trim".
	Strategy        string `toml:"strategy"`
	VideoCodec      string `toml:"video_codec"`
	Preset          string `toml:"preset"`
	OutputFrameRate int    `toml:"output_frame_rate"`
	// VBR switches rate control from constant bitrate to constrained
	// quality. CQ applies in VBR mode, Bitrate in CBR mode.
	VBR            bool   `toml:"vbr"`
	CQ             int    `toml:"cq"`
	Bitrate        string `toml:"bitrate"`
	PixelFormat    string `toml:"pixel_format"`
	MaxMuxingQueue int    `toml:"max_muxing_queue"`
}

// Audio contains configuration for the cut output audio chain.
type Audio struct {
	SampleRate  int     `toml:"sample_rate"`
	LoudnormI   float64 `toml:"loudnorm_i"`
	LoudnormTP  float64 `toml:"loudnorm_tp"`
	LoudnormLRA float64 `toml:"loudnorm_lra"`
}

// Dub contains configuration for speech synthesis.
type Dub struct {
	Voice  string `toml:"voice"`
	Rate   string `toml:"rate"`
	Volume string `toml:"volume"`
	// Workers bounds the number of cues synthesized concurrently.
	Workers    int `toml:"workers"`
	SampleRate int `toml:"sample_rate"`
	// SilenceThresholdDB is the peak level below which leading and
	// trailing audio is treated as silence before time compression.
	SilenceThresholdDB float64 `toml:"silence_threshold_db"`
	CacheEnabled       bool    `toml:"cache_enabled"`
	// CacheRetentionDays bounds the age of cached clips. Entries older
	// than this are pruned when the cache opens. Zero disables pruning.
	CacheRetentionDays int `toml:"cache_retention_days"`
}

// Pad contains configuration for subtitle boundary padding.
type Pad struct {
	Seconds float64 `toml:"seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for videoauto.
//
// Configuration sections by subsystem:
//   - Paths: work, log, and cache directories
//   - Cut: merge gap, filter strategy, and encoder settings
//   - Audio: cut output sample rate and loudness normalization
//   - Dub: voice, synthesis workers, and cache toggle
//   - Pad: subtitle padding amount
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Cut     Cut     `toml:"cut"`
	Audio   Audio   `toml:"audio"`
	Dub     Dub     `toml:"dub"`
	Pad     Pad     `toml:"pad"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/videoauto/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("videoauto.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories pipeline runs depend on. The
// cache directory is only required when the synthesis cache is enabled.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Dub.CacheEnabled && strings.TrimSpace(c.Paths.CacheDir) != "" {
		if err := os.MkdirAll(c.Paths.CacheDir, 0o755); err != nil {
			return fmt.Errorf("create cache directory %q: %w", c.Paths.CacheDir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// EdgeTTSBinary returns the edge-tts executable name used for speech synthesis.
func (c *Config) EdgeTTSBinary() string {
	return "edge-tts"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "videoauto")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/videoauto"
	}
	return filepath.Join(home, ".cache", "videoauto")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
