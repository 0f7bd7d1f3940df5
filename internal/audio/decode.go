package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Decode reads path with ffmpeg and returns mono float32 samples at the
// requested sample rate.
func Decode(ctx context.Context, ffmpegBinary, path string, sampleRate int) ([]float32, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	args := []string{
		"-hide_banner", "-v", "error",
		"-i", path,
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-f", "f32le",
		"pipe:1",
	}
	cmd := commandContext(ctx, ffmpegBinary, args...) //nolint:gosec
	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("ffmpeg decode %s: %w: %s", path, err, detail)
		}
		return nil, fmt.Errorf("ffmpeg decode %s: %w", path, err)
	}

	raw := out.Bytes()
	if len(raw)%4 != 0 {
		return nil, errors.New("ffmpeg produced a truncated sample stream")
	}
	samples := make([]float32, len(raw)/4)
	for i := range samples {
		bits := uint32(raw[4*i]) | uint32(raw[4*i+1])<<8 | uint32(raw[4*i+2])<<16 | uint32(raw[4*i+3])<<24
		samples[i] = math.Float32frombits(bits)
	}
	return samples, nil
}

// ProbeDuration returns the media duration in seconds via ffprobe.
func ProbeDuration(ctx context.Context, ffprobeBinary, path string) (float64, error) {
	cmd := commandContext(ctx, ffprobeBinary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &bytes.Buffer{}
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return 0, errors.New("ffprobe reported no duration")
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", text, err)
	}
	return value, nil
}
