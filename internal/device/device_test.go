package device

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanFindsAcceleratorNodes(t *testing.T) {
	devRoot := t.TempDir()
	for _, name := range []string{"nvidia0", "nvidia1", "nvidiactl", "null", "sda"} {
		if err := os.WriteFile(filepath.Join(devRoot, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(devRoot, "accel"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(devRoot, "accel", "accel2"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	devices, err := scan(devRoot)
	if err != nil {
		t.Fatalf("scan returned error: %v", err)
	}
	if len(devices) != 3 {
		t.Fatalf("got %d devices, want 3: %+v", len(devices), devices)
	}
	for i, want := range []int{0, 1, 2} {
		if devices[i].ID != want {
			t.Fatalf("device %d has ID %d, want %d", i, devices[i].ID, want)
		}
	}
	if devices[2].Node != filepath.Join(devRoot, "accel", "accel2") {
		t.Fatalf("unexpected node for accel device: %q", devices[2].Node)
	}
}

func TestScanIgnoresControlNodes(t *testing.T) {
	devRoot := t.TempDir()
	for _, name := range []string{"nvidiactl", "nvidia-uvm", "nvidia-modeset"} {
		if err := os.WriteFile(filepath.Join(devRoot, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	devices, err := scan(devRoot)
	if err != nil {
		t.Fatalf("scan returned error: %v", err)
	}
	if len(devices) != 0 {
		t.Fatalf("expected no devices, got %+v", devices)
	}
}

func TestDiscoverOverrideSkipsScan(t *testing.T) {
	devices, err := Discover(3)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(devices) != 3 {
		t.Fatalf("got %d devices, want 3", len(devices))
	}
	for i, d := range devices {
		if d.ID != i || d.Node != "" {
			t.Fatalf("unexpected synthetic device %d: %+v", i, d)
		}
	}
}
