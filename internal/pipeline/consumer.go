package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"semtok/internal/inference"
	"semtok/internal/logging"
)

// errSkipExisting marks an item whose target already exists when overwriting
// is disabled. It never escapes the package.
var errSkipExisting = errors.New("target exists")

// collectBatch blocks until it has max records or the channel closes. It
// returns more=false only when the channel is closed and empty, which is the
// consumer's exit condition. A channel that closes mid-batch yields the short
// remainder instead of blocking forever, so a shard whose size is not a
// multiple of the batch size still drains completely.
func collectBatch(ctx context.Context, in <-chan featureRecord, max int) (batch []featureRecord, more bool, err error) {
	batch = make([]featureRecord, 0, max)
	for len(batch) < max {
		select {
		case record, open := <-in:
			if !open {
				if len(batch) == 0 {
					return nil, false, nil
				}
				return batch, true, nil
			}
			batch = append(batch, record)
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
	return batch, true, nil
}

// consume drives one device's inference session over batches of feature
// records until the producer closes the channel.
func (p *Pipeline) consume(ctx context.Context, deviceID int, in <-chan featureRecord, out chan<- Result, logger *slog.Logger) error {
	session, err := p.factory(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("device %d: start session: %w", deviceID, err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Warn("session close failed",
				logging.Int(logging.FieldDevice, deviceID),
				logging.Error(closeErr),
			)
		}
	}()

	for {
		batch, more, err := collectBatch(ctx, in, p.cfg.BatchSize)
		if err != nil {
			return err
		}
		if !more && len(batch) == 0 {
			return nil
		}
		if err := p.runBatch(ctx, session, deviceID, batch, out); err != nil {
			return err
		}
	}
}

func (p *Pipeline) runBatch(ctx context.Context, session inference.Session, deviceID int, batch []featureRecord, out chan<- Result) error {
	for _, record := range batch {
		result := Result{
			Item:       record.Item,
			DeviceID:   deviceID,
			TargetPath: record.Item.TargetPath(p.cfg.DatasetDir, p.cfg.Extension),
		}
		switch {
		case errors.Is(record.Err, errSkipExisting):
			result.Skipped = true
		case record.Err != nil:
			result.Err = record.Err
		default:
			tokens, err := session.Infer(ctx, record.Features)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("device %d: infer %s: %w", deviceID, record.Item.FileName, err)
			}
			result.Tokens = tokens
		}

		select {
		case out <- result:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
