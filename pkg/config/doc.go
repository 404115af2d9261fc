// Package config handles configuration management for leakrules.
// It layers embedded defaults, an optional TOML file, LEAKRULES_*
// environment variables and command-line overrides.
package config
