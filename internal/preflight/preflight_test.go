package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"semtok/internal/device"
	"semtok/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if result := CheckDirectoryAccess("Dataset directory", dir); !result.Passed {
		t.Fatalf("expected pass for %s, got %q", dir, result.Detail)
	}
	if result := CheckDirectoryAccess("Dataset directory", filepath.Join(dir, "missing")); result.Passed {
		t.Fatal("expected failure for missing directory")
	}

	file := filepath.Join(dir, "plain")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("Dataset directory", file); result.Passed {
		t.Fatal("expected failure for non-directory path")
	}
}

func TestCheckModelFile(t *testing.T) {
	dir := t.TempDir()

	model := filepath.Join(dir, "model.onnx")
	if err := os.WriteFile(model, []byte("weights"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckModelFile(model); !result.Passed {
		t.Fatalf("expected pass, got %q", result.Detail)
	}

	empty := filepath.Join(dir, "empty.onnx")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckModelFile(empty); result.Passed {
		t.Fatal("expected failure for empty model file")
	}
	if result := CheckModelFile(""); result.Passed {
		t.Fatal("expected failure for unconfigured model path")
	}
	if result := CheckModelFile(dir); result.Passed {
		t.Fatal("expected failure for directory model path")
	}
}

func TestCheckBinary(t *testing.T) {
	if result := CheckBinary("Shell", "sh", "required"); !result.Passed {
		t.Fatalf("expected pass for sh, got %q", result.Detail)
	}
	if result := CheckBinary("Missing", "definitely-not-a-binary-xyz", "required"); result.Passed {
		t.Fatal("expected failure for unknown binary")
	}
	if result := CheckBinary("Blank", "  ", "required"); result.Passed {
		t.Fatal("expected failure for blank command")
	}
}

func TestCheckDevices(t *testing.T) {
	if result := CheckDevices(nil); result.Passed {
		t.Fatal("expected failure with no devices")
	}
	devices := []device.Device{{ID: 0, Node: "/dev/nvidia0"}, {ID: 1, Node: "/dev/nvidia1"}}
	result := CheckDevices(devices)
	if !result.Passed {
		t.Fatalf("expected pass, got %q", result.Detail)
	}
	if result.Detail != "/dev/nvidia0, /dev/nvidia1" {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	original := statfs
	t.Cleanup(func() { statfs = original })

	statfs = func(string) (uint64, uint64, error) { return 1 << 40, 1 << 30, nil }
	if result := CheckFreeSpace("Dataset free space", "/data", 1<<29); !result.Passed {
		t.Fatalf("expected pass, got %q", result.Detail)
	}
	if result := CheckFreeSpace("Dataset free space", "/data", 1<<31); result.Passed {
		t.Fatal("expected failure when below floor")
	}

	statfs = func(string) (uint64, uint64, error) { return 0, 0, errors.New("no such filesystem") }
	if result := CheckFreeSpace("Dataset free space", "/data", 1); result.Passed {
		t.Fatal("expected failure on statfs error")
	}
}

func TestCheckSampleAudio(t *testing.T) {
	original := probeDuration
	t.Cleanup(func() { probeDuration = original })

	var probedPath string
	probeDuration = func(_ context.Context, _, path string) (float64, error) {
		probedPath = path
		return 2.5, nil
	}
	result := CheckSampleAudio(context.Background(), "ffprobe", "/data/speaker/001.wav")
	if !result.Passed {
		t.Fatalf("expected pass, got %q", result.Detail)
	}
	if probedPath != "/data/speaker/001.wav" {
		t.Fatalf("probed %q, want the sample path", probedPath)
	}
	if !strings.Contains(result.Detail, "2.5s") {
		t.Fatalf("expected duration in detail, got %q", result.Detail)
	}

	probeDuration = func(context.Context, string, string) (float64, error) {
		return 0, errors.New("ffprobe exited 1")
	}
	if result := CheckSampleAudio(context.Background(), "ffprobe", "/data/broken.wav"); result.Passed {
		t.Fatal("expected failure when the probe errors")
	}

	probeDuration = func(context.Context, string, string) (float64, error) { return 0, nil }
	if result := CheckSampleAudio(context.Background(), "ffprobe", "/data/empty.wav"); result.Passed {
		t.Fatal("expected failure for zero duration")
	}

	if result := CheckSampleAudio(context.Background(), "ffprobe", ""); !result.Passed {
		t.Fatalf("expected empty sample path to pass, got %q", result.Detail)
	}
}

func TestRunAllProbesFirstWorkItem(t *testing.T) {
	original := probeDuration
	t.Cleanup(func() { probeDuration = original })

	probed := false
	probeDuration = func(_ context.Context, binary, path string) (float64, error) {
		probed = true
		if binary != "ffprobe" {
			t.Fatalf("probe used binary %q, want configured ffprobe", binary)
		}
		return 1.0, nil
	}

	cfg := testsupport.NewConfig(t)
	results := RunAll(context.Background(), cfg, []device.Device{{ID: 0, Node: "/dev/nvidia0"}}, filepath.Join(cfg.Paths.DatasetDir, "s", "001.wav"))
	if !probed {
		t.Fatal("expected RunAll to invoke the audio probe")
	}
	found := false
	for _, result := range results {
		if result.Name == "Sample audio" {
			found = result.Passed
		}
	}
	if !found {
		t.Fatalf("expected a passing sample audio check, got %+v", results)
	}
}

func TestAllPassed(t *testing.T) {
	results := []Result{{Passed: true}, {Passed: true}}
	if !AllPassed(results) {
		t.Fatal("expected all passed")
	}
	results = append(results, Result{Passed: false})
	if AllPassed(results) {
		t.Fatal("expected failure to propagate")
	}
}
