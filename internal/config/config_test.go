package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"semtok/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Pipeline.BatchSize != 256 {
		t.Fatalf("unexpected batch size: %d", cfg.Pipeline.BatchSize)
	}
	if cfg.Pipeline.Devices != 0 {
		t.Fatalf("expected automatic device discovery by default, got %d", cfg.Pipeline.Devices)
	}
	if cfg.Audio.MelBins != 128 {
		t.Fatalf("unexpected mel bins: %d", cfg.Audio.MelBins)
	}
	wantLogDir := filepath.Join(tempHome, ".local", "share", "semtok", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if !filepath.IsAbs(cfg.Paths.DatasetDir) {
		t.Fatalf("dataset dir not expanded: %q", cfg.Paths.DatasetDir)
	}
	if cfg.Output.Extension != ".npy" || !cfg.Output.Overwrite {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Runner.Binary != "semtok-runner" {
		t.Fatalf("unexpected runner binary: %q", cfg.Runner.Binary)
	}
}

func TestLoadExplicitFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "semtok.toml")
	content := `
[pipeline]
batch_size = 16
devices = 2

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%q", exists, resolved)
	}
	if cfg.Pipeline.BatchSize != 16 || cfg.Pipeline.Devices != 2 {
		t.Fatalf("overrides not applied: %+v", cfg.Pipeline)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging overrides not applied: %+v", cfg.Logging)
	}
	// untouched sections keep defaults
	if cfg.Audio.TrimFrameLength != 440 {
		t.Fatalf("unexpected trim frame length: %d", cfg.Audio.TrimFrameLength)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"zero batch", "[pipeline]\nbatch_size = 0\n", "batch_size"},
		{"negative devices", "[pipeline]\ndevices = -1\n", "devices"},
		{"bad peak", "[audio]\nmax_peak = 1.5\n", "max_peak"},
		{"hop exceeds frame", "[audio]\ntrim_hop_length = 900\n", "trim_hop_length"},
		{"bad format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"bad level", "[logging]\nlevel = \"trace\"\n", "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "semtok.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSampleConfigParsesAndValidates(t *testing.T) {
	var cfg config.Config
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	path := filepath.Join(t.TempDir(), "semtok.toml")
	if err := os.WriteFile(path, []byte(config.SampleConfig()), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config fails Load: %v", err)
	}
}
