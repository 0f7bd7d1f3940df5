package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRunner()
	c.normalizeOutput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DatasetDir, err = expandPath(c.Paths.DatasetDir); err != nil {
		return fmt.Errorf("paths.dataset_dir: %w", err)
	}
	if c.Paths.ModelPath, err = expandPath(c.Paths.ModelPath); err != nil {
		return fmt.Errorf("paths.model_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ManifestDir) == "" {
		c.Paths.ManifestDir = defaultManifestDir
	}
	if c.Paths.ManifestDir, err = expandPath(c.Paths.ManifestDir); err != nil {
		return fmt.Errorf("paths.manifest_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRunner() {
	if strings.TrimSpace(c.Runner.Binary) == "" {
		c.Runner.Binary = defaultRunnerBinary
	}
	if strings.TrimSpace(c.Runner.FFmpeg) == "" {
		c.Runner.FFmpeg = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Runner.FFprobe) == "" {
		c.Runner.FFprobe = defaultFFprobeBinary
	}
	if c.Runner.StartupTimeoutSeconds <= 0 {
		c.Runner.StartupTimeoutSeconds = defaultStartupTimeout
	}
}

func (c *Config) normalizeOutput() {
	c.Output.Extension = strings.TrimSpace(c.Output.Extension)
	if c.Output.Extension == "" {
		c.Output.Extension = defaultExtension
	}
	if !strings.HasPrefix(c.Output.Extension, ".") {
		c.Output.Extension = "." + c.Output.Extension
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
