// Package config loads and validates semtok's TOML configuration.
//
// Values resolve in three layers: compiled defaults, then the config file
// (explicit --config path, ./semtok.toml, or ~/.config/semtok/config.toml),
// then normalization (path expansion, fallbacks). Validation rejects
// configurations the pipeline cannot run with.
package config
