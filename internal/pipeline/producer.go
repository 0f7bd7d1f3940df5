package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"semtok/internal/logging"
	"semtok/internal/worklist"
)

// produce extracts features for one device's shard and feeds them to the
// device consumer in shard order. The channel is closed when the shard is
// exhausted so the consumer can drain and exit without sentinel values.
func (p *Pipeline) produce(ctx context.Context, deviceID int, shard []worklist.Item, out chan<- featureRecord, logger *slog.Logger) error {
	defer close(out)

	for _, item := range shard {
		record := featureRecord{Item: item}

		path := item.Path(p.cfg.DatasetDir)
		target := item.TargetPath(p.cfg.DatasetDir, p.cfg.Extension)
		if !p.cfg.Overwrite {
			if _, err := os.Stat(target); err == nil {
				record.Err = errSkipExisting
				select {
				case out <- record:
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		features, err := p.source.Extract(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("feature extraction failed",
				logging.Int(logging.FieldDevice, deviceID),
				logging.String(logging.FieldPath, path),
				logging.Error(err),
			)
			return fmt.Errorf("device %d: extract %s: %w", deviceID, path, err)
		}
		record.Features = features

		select {
		case out <- record:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
