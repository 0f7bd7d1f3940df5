package audio

import (
	"context"
	"fmt"
)

// ExtractorConfig bundles the parameters of the feature extraction pipeline.
type ExtractorConfig struct {
	FFmpegBinary string
	SampleRate   int
	MelBins      int
	Trim         TrimConfig
}

// Extractor converts an audio file into a log-mel feature tensor.
type Extractor struct {
	cfg ExtractorConfig
}

// NewExtractor constructs an extractor from the given configuration.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	if cfg.FFmpegBinary == "" {
		cfg.FFmpegBinary = "ffmpeg"
	}
	return &Extractor{cfg: cfg}
}

// Extract decodes path, conditions the waveform, and returns its log-mel
// features.
func (e *Extractor) Extract(ctx context.Context, path string) (Features, error) {
	samples, err := Decode(ctx, e.cfg.FFmpegBinary, path, e.cfg.SampleRate)
	if err != nil {
		return Features{}, err
	}
	if len(samples) == 0 {
		return Features{}, fmt.Errorf("decode %s: empty audio stream", path)
	}

	samples = TrimSilence(samples, e.cfg.Trim)
	samples = PeakNormalize(samples, e.cfg.Trim.MaxPeak)
	samples = PadTail(samples, e.cfg.Trim.PadSeconds, e.cfg.SampleRate)

	features := LogMel(samples, e.cfg.SampleRate, e.cfg.MelBins)
	if features.Frames == 0 {
		return Features{}, fmt.Errorf("extract %s: no spectrogram frames", path)
	}
	return features, nil
}
