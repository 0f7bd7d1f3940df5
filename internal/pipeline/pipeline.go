package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"semtok/internal/device"
	"semtok/internal/inference"
	"semtok/internal/logging"
	"semtok/internal/manifest"
	"semtok/internal/worklist"
)

// Config carries the run parameters the pipeline needs.
type Config struct {
	// DatasetDir is the root the worklist was discovered under.
	DatasetDir string
	// Extension is appended to each audio path to form the token target.
	Extension string
	// BatchSize is how many items a consumer feeds the device at once.
	BatchSize int
	// QueueDepth bounds each device's feature channel so producers cannot
	// outrun a slow device unboundedly.
	QueueDepth int
	// Overwrite rewrites existing targets; when false they are skipped.
	Overwrite bool
	// ProgressWriter receives the progress bar; nil disables it.
	ProgressWriter io.Writer
}

// Pipeline orchestrates producers, device consumers, and the result sink.
type Pipeline struct {
	cfg     Config
	source  FeatureSource
	factory inference.Factory
	store   *manifest.Store
	logger  *slog.Logger
}

// New wires a pipeline. store may be nil to skip manifest recording.
func New(cfg Config, source FeatureSource, factory inference.Factory, store *manifest.Store, logger *slog.Logger) (*Pipeline, error) {
	if cfg.BatchSize < 1 {
		return nil, errors.New("batch size must be positive")
	}
	if cfg.QueueDepth < 1 {
		return nil, errors.New("queue depth must be positive")
	}
	if source == nil {
		return nil, errors.New("feature source required")
	}
	if factory == nil {
		return nil, errors.New("session factory required")
	}
	return &Pipeline{
		cfg:     cfg,
		source:  source,
		factory: factory,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// Run shards items across the given devices and processes every item to a
// terminal outcome. It returns once all shards drain or any device fails.
func (p *Pipeline) Run(ctx context.Context, items []worklist.Item, devices []device.Device) (Summary, error) {
	if len(devices) == 0 {
		return Summary{}, errors.New("no devices available")
	}
	if len(items) == 0 {
		return Summary{}, errors.New("empty worklist")
	}

	started := time.Now()
	p.logger.Info("run starting",
		logging.Int("devices", len(devices)),
		logging.Int("items", len(items)),
		logging.Bool("overwrite", p.cfg.Overwrite),
	)

	shards := worklist.Partition(items, len(devices))
	if len(shards) < len(devices) {
		p.logger.Info("more devices than items; idle devices skipped",
			logging.Int("devices", len(devices)),
			logging.Int("items", len(items)),
		)
		devices = devices[:len(shards)]
	}

	runID := ""
	if p.store != nil {
		run, err := p.store.StartRun(ctx, len(devices), len(items))
		if err != nil {
			return Summary{}, fmt.Errorf("start run: %w", err)
		}
		runID = run.ID
	}

	// The result channel holds one batch of cushion so consumers are not
	// lockstepped with the sink's file writes.
	results := make(chan Result, p.cfg.BatchSize)

	group, groupCtx := errgroup.WithContext(ctx)
	for i, dev := range devices {
		shard := shards[i]
		deviceID := dev.ID
		features := make(chan featureRecord, p.cfg.QueueDepth)

		group.Go(func() error {
			return p.produce(groupCtx, deviceID, shard, features, p.logger)
		})
		group.Go(func() error {
			return p.consume(groupCtx, deviceID, features, results, p.logger)
		})

		p.logger.Info("device worker started",
			logging.Int(logging.FieldDevice, deviceID),
			logging.String("node", dev.Node),
			logging.Int("shard_items", len(shard)),
		)
	}

	go func() {
		// Close the result stream only after every consumer has returned;
		// the sink's range loop is the run's termination condition.
		_ = group.Wait()
		close(results)
	}()

	summary, sinkErr := p.drain(ctx, results, len(items), runID, p.logger)
	workerErr := group.Wait()

	runErr := workerErr
	if runErr == nil {
		runErr = sinkErr
	}

	if p.store != nil {
		status := manifest.RunCompleted
		if runErr != nil {
			status = manifest.RunFailed
		}
		if err := p.store.FinishRun(context.WithoutCancel(ctx), runID, status, runErr); err != nil {
			p.logger.Warn("manifest finish failed",
				logging.String(logging.FieldRunID, runID),
				logging.Error(err),
			)
		}
	}

	if runErr != nil {
		return summary, runErr
	}

	p.logger.Info("run complete",
		logging.String(logging.FieldRunID, runID),
		logging.Int("completed", summary.Completed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Int64("tokens", summary.Tokens),
		logging.Duration("elapsed", time.Since(started)),
	)
	return summary, nil
}
