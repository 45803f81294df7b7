package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCut()
	c.normalizeDub()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCut() {
	c.Cut.Strategy = strings.ToLower(strings.TrimSpace(c.Cut.Strategy))
	if c.Cut.Strategy == "" {
		c.Cut.Strategy = defaultStrategy
	}
	c.Cut.VideoCodec = strings.TrimSpace(c.Cut.VideoCodec)
	if c.Cut.VideoCodec == "" {
		c.Cut.VideoCodec = defaultVideoCodec
	}
	c.Cut.Preset = strings.TrimSpace(c.Cut.Preset)
	if c.Cut.Preset == "" {
		c.Cut.Preset = defaultPreset
	}
	c.Cut.Bitrate = strings.TrimSpace(c.Cut.Bitrate)
	if c.Cut.Bitrate == "" {
		c.Cut.Bitrate = defaultBitrate
	}
	c.Cut.PixelFormat = strings.TrimSpace(c.Cut.PixelFormat)
	if c.Cut.PixelFormat == "" {
		c.Cut.PixelFormat = defaultPixelFormat
	}
	if c.Cut.MaxMuxingQueue <= 0 {
		c.Cut.MaxMuxingQueue = defaultMaxMuxingQueue
	}
	if c.Cut.OutputFrameRate <= 0 {
		c.Cut.OutputFrameRate = defaultOutputFrameRate
	}
}

func (c *Config) normalizeDub() {
	c.Dub.Voice = strings.TrimSpace(c.Dub.Voice)
	if c.Dub.Voice == "" {
		c.Dub.Voice = defaultVoice
	}
	c.Dub.Rate = strings.TrimSpace(c.Dub.Rate)
	if c.Dub.Rate == "" {
		c.Dub.Rate = defaultRate
	}
	c.Dub.Volume = strings.TrimSpace(c.Dub.Volume)
	if c.Dub.Volume == "" {
		c.Dub.Volume = defaultVolume
	}
	if c.Dub.Workers <= 0 {
		c.Dub.Workers = defaultDubWorkers
	}
	if c.Dub.SampleRate <= 0 {
		c.Dub.SampleRate = defaultDubSampleRate
	}
	if c.Dub.SilenceThresholdDB == 0 {
		c.Dub.SilenceThresholdDB = defaultSilenceDB
	}
	if c.Dub.CacheRetentionDays < 0 {
		c.Dub.CacheRetentionDays = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
