package audio

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// TrimConfig controls energy-based silence trimming and level conditioning.
type TrimConfig struct {
	// TopDB is the dynamic range below the loudest frame treated as silence.
	TopDB float64
	// FrameLength and HopLength are the analysis frame parameters in samples.
	FrameLength int
	// HopLength is the stride between analysis frames in samples.
	HopLength int
	// MaxPeak caps the absolute sample amplitude after trimming.
	MaxPeak float64
	// PadSeconds of silence are appended after trimming.
	PadSeconds float64
}

// TrimSilence removes leading and trailing low-energy regions. A frame is
// kept when its short-time energy exceeds max(energy)/10^(TopDB/10); one
// extra frame of context is retained on each side. Input with no frame above
// the threshold is returned unchanged.
func TrimSilence(samples []float32, cfg TrimConfig) []float32 {
	if len(samples) == 0 {
		return samples
	}
	x := make([]float64, len(samples))
	for i, s := range samples {
		x[i] = float64(s)
	}

	window := hann(cfg.FrameLength)
	fft := fourier.NewFFT(cfg.FrameLength)
	spec := stftPower(x, cfg.FrameLength, cfg.HopLength, window, fft)
	if len(spec) == 0 {
		return samples
	}

	energy := make([]float64, len(spec))
	maxEnergy := 0.0
	for i, row := range spec {
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		energy[i] = sum
		if sum > maxEnergy {
			maxEnergy = sum
		}
	}

	threshold := maxEnergy / math.Pow(10, cfg.TopDB/10)
	first, last := -1, -1
	for i, e := range energy {
		if e > threshold {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return samples
	}

	startFrame := first - 1
	if startFrame < 0 {
		startFrame = 0
	}
	endFrame := last + 1
	if endFrame > len(energy)-1 {
		endFrame = len(energy) - 1
	}

	startSample := startFrame * cfg.HopLength
	endSample := (endFrame + 1) * cfg.HopLength
	if endSample > len(samples) {
		endSample = len(samples)
	}
	if startSample >= endSample {
		return samples
	}
	return samples[startSample:endSample]
}

// PeakNormalize scales samples down so the absolute peak does not exceed
// maxPeak. Quieter audio is left untouched.
func PeakNormalize(samples []float32, maxPeak float64) []float32 {
	peak := 0.0
	for _, s := range samples {
		a := float64(s)
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	if peak <= maxPeak || peak == 0 {
		return samples
	}
	scale := float32(maxPeak / peak)
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = s * scale
	}
	return out
}

// PadTail appends seconds of silence at the given sample rate.
func PadTail(samples []float32, seconds float64, sampleRate int) []float32 {
	pad := int(float64(sampleRate) * seconds)
	if pad <= 0 {
		return samples
	}
	return append(samples, make([]float32, pad)...)
}
