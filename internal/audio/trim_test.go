package audio

import (
	"math"
	"testing"
)

func defaultTrim() TrimConfig {
	return TrimConfig{
		TopDB:       60,
		FrameLength: 440,
		HopLength:   220,
		MaxPeak:     0.8,
		PadSeconds:  0.2,
	}
}

func toneWithSilence(t *testing.T, leadSilence, tone, tailSilence int) []float32 {
	t.Helper()
	samples := make([]float32, 0, leadSilence+tone+tailSilence)
	samples = append(samples, make([]float32, leadSilence)...)
	for i := 0; i < tone; i++ {
		samples = append(samples, float32(0.6*math.Sin(2*math.Pi*440*float64(i)/16000)))
	}
	return append(samples, make([]float32, tailSilence)...)
}

func TestTrimSilenceRemovesQuietEdges(t *testing.T) {
	samples := toneWithSilence(t, 8000, 8000, 8000)
	trimmed := TrimSilence(samples, defaultTrim())

	if len(trimmed) >= len(samples) {
		t.Fatalf("expected trimming, got %d of %d samples", len(trimmed), len(samples))
	}
	// The tone must survive: the trimmed region keeps at least the active
	// 8000 samples minus one frame of slack on each side.
	if len(trimmed) < 8000-2*440 {
		t.Fatalf("trimmed too aggressively: %d samples remain", len(trimmed))
	}
	peak := float32(0)
	for _, s := range trimmed {
		if s > peak {
			peak = s
		}
	}
	if peak < 0.5 {
		t.Fatalf("tone lost in trim, peak %v", peak)
	}
}

func TestTrimSilenceKeepsAllSilentInputIntact(t *testing.T) {
	samples := make([]float32, 4096)
	trimmed := TrimSilence(samples, defaultTrim())
	if len(trimmed) != len(samples) {
		t.Fatalf("all-silent input should be unchanged, got %d of %d", len(trimmed), len(samples))
	}
}

func TestTrimSilenceEmptyInput(t *testing.T) {
	if got := TrimSilence(nil, defaultTrim()); len(got) != 0 {
		t.Fatalf("expected empty output, got %d samples", len(got))
	}
}

func TestPeakNormalizeScalesLoudAudio(t *testing.T) {
	samples := []float32{0.1, -1.6, 0.4}
	out := PeakNormalize(samples, 0.8)
	peak := float32(0)
	for _, s := range out {
		a := s
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	if math.Abs(float64(peak)-0.8) > 1e-6 {
		t.Fatalf("peak after normalize: %v, want 0.8", peak)
	}
	// relative shape preserved
	if math.Abs(float64(out[0]/out[2])-0.25) > 1e-6 {
		t.Fatalf("normalization distorted sample ratios: %v", out)
	}
}

func TestPeakNormalizeLeavesQuietAudio(t *testing.T) {
	samples := []float32{0.1, -0.2}
	out := PeakNormalize(samples, 0.8)
	if out[0] != 0.1 || out[1] != -0.2 {
		t.Fatalf("quiet audio modified: %v", out)
	}
}

func TestPadTailAppendsSilence(t *testing.T) {
	out := PadTail([]float32{1, 2}, 0.2, 16000)
	if len(out) != 2+3200 {
		t.Fatalf("got %d samples, want %d", len(out), 2+3200)
	}
	for _, s := range out[2:] {
		if s != 0 {
			t.Fatal("padding contains non-zero samples")
		}
	}
}
