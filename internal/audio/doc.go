// Package audio turns audio files into the log-mel feature tensors the
// tokenizer consumes.
//
// Decoding and resampling are delegated to ffmpeg; the numeric pipeline
// (silence trim, peak normalization, tail padding, 128-bin log-mel
// spectrogram) runs in-process. One Extractor is safe for repeated use from a
// single goroutine and holds no state across calls beyond its FFT plan.
package audio
