package preflight

import (
	"context"

	"semtok/internal/config"
	"semtok/internal/device"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config and device set.
// samplePath is the first discovered work item, probed with ffprobe; pass ""
// when there is nothing to probe.
func RunAll(ctx context.Context, cfg *config.Config, devices []device.Device, samplePath string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Dataset directory", cfg.Paths.DatasetDir),
		CheckModelFile(cfg.Paths.ModelPath),
		CheckBinary("Runner", cfg.Runner.Binary, "required for token inference"),
		CheckBinary("FFmpeg", cfg.Runner.FFmpeg, "required for audio decoding"),
		CheckBinary("FFprobe", cfg.Runner.FFprobe, "required for audio inspection"),
		CheckSampleAudio(ctx, cfg.Runner.FFprobe, samplePath),
		CheckDevices(devices),
	}

	if cfg.Paths.ManifestDir != "" {
		results = append(results, CheckFreeSpace("Manifest directory", cfg.Paths.ManifestDir, minManifestBytes))
	}
	results = append(results, CheckFreeSpace("Dataset free space", cfg.Paths.DatasetDir, minDatasetBytes))

	return results
}

// AllPassed reports whether every check in results passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
