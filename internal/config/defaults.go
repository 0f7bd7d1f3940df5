package config

const (
	defaultDatasetDir     = "./dataset"
	defaultModelPath      = "./pretrained_models/speech_tokenizer_v1.onnx"
	defaultLogDir         = "~/.local/share/semtok/logs"
	defaultManifestDir    = "~/.local/share/semtok/manifest"
	defaultBatchSize      = 256
	defaultQueueDepth     = 512
	defaultSampleRate     = 16000
	defaultMaxPeak        = 0.8
	defaultTrimTopDB      = 60
	defaultTrimFrame      = 440
	defaultTrimHop        = 220
	defaultPadSeconds     = 0.2
	defaultMelBins        = 128
	defaultRunnerBinary   = "semtok-runner"
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultStartupTimeout = 60
	defaultExtension      = ".npy"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatasetDir:  defaultDatasetDir,
			ModelPath:   defaultModelPath,
			LogDir:      defaultLogDir,
			ManifestDir: defaultManifestDir,
		},
		Pipeline: Pipeline{
			BatchSize:  defaultBatchSize,
			QueueDepth: defaultQueueDepth,
			SampleRate: defaultSampleRate,
		},
		Audio: Audio{
			MaxPeak:         defaultMaxPeak,
			TrimTopDB:       defaultTrimTopDB,
			TrimFrameLength: defaultTrimFrame,
			TrimHopLength:   defaultTrimHop,
			PadSeconds:      defaultPadSeconds,
			MelBins:         defaultMelBins,
		},
		Runner: Runner{
			Binary:                defaultRunnerBinary,
			FFmpeg:                defaultFFmpegBinary,
			FFprobe:               defaultFFprobeBinary,
			StartupTimeoutSeconds: defaultStartupTimeout,
		},
		Output: Output{
			Extension: defaultExtension,
			Overwrite: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
