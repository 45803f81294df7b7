package config

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	bitratePattern  = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?[kKmM]?$`)
	modifierPattern = regexp.MustCompile(`^[+-][0-9]+%$`)
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCut(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateDub(); err != nil {
		return err
	}
	if err := c.validatePad(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCut() error {
	if c.Cut.GapSeconds <= 0 {
		return errors.New("cut.gap_seconds must be positive")
	}
	switch c.Cut.Strategy {
	case "select", "trim":
	default:
		return fmt.Errorf("cut.strategy must be \"select\" or \"trim\", got %q", c.Cut.Strategy)
	}
	if c.Cut.CQ < 0 || c.Cut.CQ > 51 {
		return errors.New("cut.cq must be between 0 and 51")
	}
	if !bitratePattern.MatchString(c.Cut.Bitrate) {
		return fmt.Errorf("cut.bitrate %q is not a valid bitrate (expected e.g. \"10M\" or \"800k\")", c.Cut.Bitrate)
	}
	if c.Cut.OutputFrameRate <= 0 {
		return errors.New("cut.output_frame_rate must be positive")
	}
	if c.Cut.MaxMuxingQueue <= 0 {
		return errors.New("cut.max_muxing_queue must be positive")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate <= 0 {
		return errors.New("audio.sample_rate must be positive")
	}
	// Bounds follow the ranges ffmpeg's loudnorm filter accepts.
	if c.Audio.LoudnormI < -70 || c.Audio.LoudnormI > -5 {
		return errors.New("audio.loudnorm_i must be between -70 and -5 LUFS")
	}
	if c.Audio.LoudnormTP < -9 || c.Audio.LoudnormTP > 0 {
		return errors.New("audio.loudnorm_tp must be between -9 and 0 dBTP")
	}
	if c.Audio.LoudnormLRA < 1 || c.Audio.LoudnormLRA > 50 {
		return errors.New("audio.loudnorm_lra must be between 1 and 50 LU")
	}
	return nil
}

func (c *Config) validateDub() error {
	if c.Dub.Voice == "" {
		return errors.New("dub.voice must be set")
	}
	if !modifierPattern.MatchString(c.Dub.Rate) {
		return fmt.Errorf("dub.rate %q is not a signed percentage (expected e.g. \"+0%%\" or \"-10%%\")", c.Dub.Rate)
	}
	if !modifierPattern.MatchString(c.Dub.Volume) {
		return fmt.Errorf("dub.volume %q is not a signed percentage (expected e.g. \"+0%%\")", c.Dub.Volume)
	}
	if c.Dub.Workers < 1 {
		return errors.New("dub.workers must be at least 1")
	}
	if c.Dub.SampleRate <= 0 {
		return errors.New("dub.sample_rate must be positive")
	}
	if c.Dub.SilenceThresholdDB >= 0 {
		return errors.New("dub.silence_threshold_db must be negative (dBFS)")
	}
	return nil
}

func (c *Config) validatePad() error {
	if c.Pad.Seconds < 0 {
		return errors.New("pad.seconds must be >= 0")
	}
	return nil
}
