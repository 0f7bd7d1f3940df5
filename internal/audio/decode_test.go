package audio

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func withFakeCommand(t *testing.T, factory func(ctx context.Context, name string, args ...string) *exec.Cmd) {
	t.Helper()
	original := commandContext
	commandContext = factory
	t.Cleanup(func() { commandContext = original })
}

func TestDecodeParsesFloat32Stream(t *testing.T) {
	want := []float32{0, 0.5, -0.5, 1}
	raw := make([]byte, 4*len(want))
	for i, v := range want {
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(v))
	}
	fixture := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(fixture, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	withFakeCommand(t, func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "cat", fixture)
	})

	got, err := Decode(context.Background(), "ffmpeg", fixture, 16000)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode(context.Background(), "ffmpeg", filepath.Join(t.TempDir(), "absent.wav"), 16000)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecodeRejectsTruncatedStream(t *testing.T) {
	fixture := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(fixture, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	withFakeCommand(t, func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "cat", fixture)
	})

	if _, err := Decode(context.Background(), "ffmpeg", fixture, 16000); err == nil {
		t.Fatal("expected error for truncated stream")
	}
}

func TestProbeDurationParsesOutput(t *testing.T) {
	withFakeCommand(t, func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "echo", "12.5")
	})
	got, err := ProbeDuration(context.Background(), "ffprobe", "clip.wav")
	if err != nil {
		t.Fatalf("ProbeDuration returned error: %v", err)
	}
	if got != 12.5 {
		t.Fatalf("got %v, want 12.5", got)
	}
}
