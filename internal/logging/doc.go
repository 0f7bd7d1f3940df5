// Package logging constructs the application's slog logger and provides the
// standardized attribute helpers used across the pipeline.
//
// Two output formats are supported: a human-oriented console format for
// interactive runs and line-delimited JSON for log capture. Worker goroutines
// tag their records with a component attribute (producer-0, device-1, sink)
// via NewComponentLogger.
package logging
