package pipeline

import (
	"context"

	"semtok/internal/audio"
	"semtok/internal/worklist"
)

// FeatureSource turns an audio file into a feature tensor. audio.Extractor is
// the production implementation.
type FeatureSource interface {
	Extract(ctx context.Context, path string) (audio.Features, error)
}

// featureRecord travels from a producer to its device's consumer. Err is
// reserved for the skip-existing sentinel; records carrying it bypass
// inference.
type featureRecord struct {
	Item     worklist.Item
	Features audio.Features
	Err      error
}

// Result is the terminal record for one work item.
type Result struct {
	Item       worklist.Item
	DeviceID   int
	TargetPath string
	Tokens     []int64
	Skipped    bool
	Err        error
}

// Summary aggregates a finished run.
type Summary struct {
	Total     int
	Completed int
	Skipped   int
	Failed    int
	Tokens    int64
}
