// Package testsupport provides shared fixtures for package tests: a config
// seeded with per-test temp directories and a labeled dataset builder.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"semtok/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DatasetDir = filepath.Join(base, "dataset")
	cfg.Paths.ModelPath = filepath.Join(base, "model.onnx")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ManifestDir = filepath.Join(base, "manifest")

	if err := os.MkdirAll(cfg.Paths.DatasetDir, 0o755); err != nil {
		t.Fatalf("mkdir dataset dir: %v", err)
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithDevices overrides the device count on the test config.
func WithDevices(count int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.Devices = count
	}
}

// WithBatchSize overrides the batch size on the test config.
func WithBatchSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.BatchSize = size
	}
}
