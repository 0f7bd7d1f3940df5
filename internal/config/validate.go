package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.BatchSize < 1 {
		return errors.New("pipeline.batch_size must be at least 1")
	}
	if c.Pipeline.QueueDepth < 1 {
		return errors.New("pipeline.queue_depth must be at least 1")
	}
	if c.Pipeline.Devices < 0 {
		return errors.New("pipeline.devices must not be negative")
	}
	if c.Pipeline.SampleRate < 8000 {
		return fmt.Errorf("pipeline.sample_rate %d is below the supported minimum of 8000", c.Pipeline.SampleRate)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.MaxPeak <= 0 || c.Audio.MaxPeak > 1 {
		return errors.New("audio.max_peak must be in (0, 1]")
	}
	if c.Audio.TrimTopDB <= 0 {
		return errors.New("audio.trim_top_db must be positive")
	}
	if c.Audio.TrimFrameLength < 2 {
		return errors.New("audio.trim_frame_length must be at least 2")
	}
	if c.Audio.TrimHopLength < 1 {
		return errors.New("audio.trim_hop_length must be at least 1")
	}
	if c.Audio.TrimHopLength > c.Audio.TrimFrameLength {
		return errors.New("audio.trim_hop_length must not exceed audio.trim_frame_length")
	}
	if c.Audio.PadSeconds < 0 {
		return errors.New("audio.pad_seconds must not be negative")
	}
	if c.Audio.MelBins < 1 {
		return errors.New("audio.mel_bins must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
