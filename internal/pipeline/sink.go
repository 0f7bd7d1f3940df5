package pipeline

import (
	"context"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"semtok/internal/logging"
	"semtok/internal/manifest"
	"semtok/internal/tokens"
)

// drain consumes results until the channel closes, writing token artifacts
// and manifest rows as they arrive. Write failures count the item as failed
// rather than aborting the run.
func (p *Pipeline) drain(ctx context.Context, in <-chan Result, total int, runID string, logger *slog.Logger) (Summary, error) {
	summary := Summary{Total: total}

	var bar *progressbar.ProgressBar
	if p.cfg.ProgressWriter != nil {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.cfg.ProgressWriter),
			progressbar.OptionSetDescription("tokenizing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for result := range in {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome := p.finishResult(ctx, result, runID, logger)
		switch {
		case outcome.Skipped:
			summary.Skipped++
		case outcome.Err != nil:
			summary.Failed++
		default:
			summary.Completed++
			summary.Tokens += int64(len(outcome.Tokens))
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return summary, nil
}

func (p *Pipeline) finishResult(ctx context.Context, result Result, runID string, logger *slog.Logger) Result {
	if result.Err == nil && !result.Skipped {
		if err := tokens.Write(result.TargetPath, result.Tokens); err != nil {
			logger.Warn("token write failed",
				logging.Int(logging.FieldDevice, result.DeviceID),
				logging.String(logging.FieldPath, result.TargetPath),
				logging.Error(err),
			)
			result.Err = err
		}
	}

	if p.store == nil || result.Skipped {
		return result
	}

	record := manifest.ItemRecord{
		RunID:      runID,
		Group:      result.Item.Group,
		FileName:   result.Item.FileName,
		TargetPath: result.TargetPath,
		DeviceID:   result.DeviceID,
		Status:     manifest.ItemCompleted,
	}
	if result.Err != nil {
		record.Status = manifest.ItemFailed
		record.Error = result.Err.Error()
	} else {
		record.TokenCount = len(result.Tokens)
	}
	if err := p.store.RecordItem(ctx, record); err != nil {
		logger.Warn("manifest record failed",
			logging.String(logging.FieldRunID, runID),
			logging.String(logging.FieldPath, result.TargetPath),
			logging.Error(err),
		)
	}
	return result
}
