package inference

import (
	"context"

	"semtok/internal/audio"
)

// Session runs the quantizing tokenizer for one device. Implementations are
// not safe for concurrent use; the pipeline gives each device's consumer
// exclusive ownership of its session.
type Session interface {
	// Infer produces the flattened token sequence for one feature tensor.
	Infer(ctx context.Context, features audio.Features) ([]int64, error)
	// Close releases the device binding.
	Close() error
}

// Factory creates the session for one device ordinal. The pipeline calls it
// once per device, inside the goroutine that will own the session.
type Factory func(ctx context.Context, deviceID int) (Session, error)
