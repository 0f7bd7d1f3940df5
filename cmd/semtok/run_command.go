package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"semtok/internal/audio"
	"semtok/internal/config"
	"semtok/internal/device"
	"semtok/internal/inference"
	"semtok/internal/logging"
	"semtok/internal/manifest"
	"semtok/internal/pipeline"
	"semtok/internal/preflight"
	"semtok/internal/worklist"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var datasetFlag string
	var devicesFlag int
	var quiet bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Tokenize the configured dataset across all accelerators",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if datasetFlag != "" {
				expanded, err := config.ExpandPath(datasetFlag)
				if err != nil {
					return fmt.Errorf("resolve dataset path: %w", err)
				}
				cfg.Paths.DatasetDir = expanded
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				LogDir: cfg.Paths.LogDir,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			deviceOverride := cfg.Pipeline.Devices
			if devicesFlag > 0 {
				deviceOverride = devicesFlag
			}
			devices, err := device.Discover(deviceOverride)
			if err != nil {
				return fmt.Errorf("discover devices: %w", err)
			}

			lock := flock.New(filepath.Join(cfg.Paths.DatasetDir, ".semtok.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire dataset lock: %w", err)
			}
			if !locked {
				return errors.New("another semtok run is already processing this dataset")
			}
			defer func() { _ = lock.Unlock() }()

			discovered, err := worklist.Discover(cfg.Paths.DatasetDir, logger)
			if err != nil {
				return fmt.Errorf("discover worklist: %w", err)
			}
			if len(discovered.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No work items found; nothing to do")
				return nil
			}

			if !skipPreflight {
				samplePath := discovered.Items[0].Path(cfg.Paths.DatasetDir)
				results := preflight.RunAll(signalCtx, cfg, devices, samplePath)
				printPreflight(cmd, results)
				if !preflight.AllPassed(results) {
					return errors.New("preflight checks failed")
				}
			}

			watcher := device.NewWatcher(logger)
			watcher.Start(signalCtx)
			defer watcher.Stop()

			store, err := manifest.Open(cfg.Paths.ManifestDir)
			if err != nil {
				return fmt.Errorf("open manifest: %w", err)
			}
			defer store.Close()

			extractor := audio.NewExtractor(audio.ExtractorConfig{
				FFmpegBinary: cfg.Runner.FFmpeg,
				SampleRate:   cfg.Pipeline.SampleRate,
				MelBins:      cfg.Audio.MelBins,
				Trim: audio.TrimConfig{
					TopDB:       cfg.Audio.TrimTopDB,
					FrameLength: cfg.Audio.TrimFrameLength,
					HopLength:   cfg.Audio.TrimHopLength,
					MaxPeak:     cfg.Audio.MaxPeak,
					PadSeconds:  cfg.Audio.PadSeconds,
				},
			})
			factory := inference.NewRunnerFactory(inference.RunnerConfig{
				Binary:         cfg.Runner.Binary,
				ModelPath:      cfg.Paths.ModelPath,
				StartupTimeout: time.Duration(cfg.Runner.StartupTimeoutSeconds) * time.Second,
			})

			pipelineCfg := pipeline.Config{
				DatasetDir: cfg.Paths.DatasetDir,
				Extension:  cfg.Output.Extension,
				BatchSize:  cfg.Pipeline.BatchSize,
				QueueDepth: cfg.Pipeline.QueueDepth,
				Overwrite:  cfg.Output.Overwrite,
			}
			if !quiet && stdoutIsTerminal() {
				pipelineCfg.ProgressWriter = cmd.OutOrStdout()
			}

			p, err := pipeline.New(pipelineCfg, extractor, factory, store, logger)
			if err != nil {
				return fmt.Errorf("build pipeline: %w", err)
			}

			started := time.Now()
			summary, err := p.Run(signalCtx, discovered.Items, devices)
			if err != nil {
				return fmt.Errorf("run pipeline: %w", err)
			}

			printSummary(cmd, summary, len(devices), time.Since(started))
			if summary.Failed > 0 {
				return fmt.Errorf("%d items failed; see the manifest for details", summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetFlag, "dataset", "", "Dataset directory (overrides paths.dataset_dir)")
	cmd.Flags().IntVar(&devicesFlag, "devices", 0, "Number of devices to use (overrides discovery)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the progress bar")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip readiness checks")
	return cmd
}

func printPreflight(cmd *cobra.Command, results []preflight.Result) {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		status := "ok"
		if !result.Passed {
			status = "FAIL"
		}
		rows = append(rows, []string{result.Name, status, result.Detail})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Check", "Status", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	))
}

func printSummary(cmd *cobra.Command, summary pipeline.Summary, devices int, elapsed time.Duration) {
	rows := [][]string{
		{"Items", strconv.Itoa(summary.Total)},
		{"Completed", strconv.Itoa(summary.Completed)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Tokens", strconv.FormatInt(summary.Tokens, 10)},
		{"Devices", strconv.Itoa(devices)},
		{"Elapsed", elapsed.Round(time.Second).String()},
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Metric", "Value"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
}
