// Package config provides configuration loading and validation for the
// object store engine and its tooling.
package config

import "time"

// Config holds the complete engine configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Logging LogConfig     `toml:"logging"`
	Index   IndexConfig   `toml:"index"`
}

// StorageConfig selects and configures the kv.Backend implementation.
type StorageConfig struct {
	// Driver selects the backend: "memory" or "sqlite".
	Driver string `toml:"driver"`
	// Path is the backend's file path; unused by the memory driver.
	Path string `toml:"path"`
	// SyncInterval is decoded and checked to be non-negative; no code in
	// this module reads it, so it does not schedule any Backend.Sync call.
	SyncInterval time.Duration `toml:"syncInterval"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// IndexConfig holds secondary-index maintenance configuration.
type IndexConfig struct {
	// RebuildOnStart is decoded from the config file; no code in this
	// module reads it, so it does not trigger an index rebuild.
	RebuildOnStart bool `toml:"rebuildOnStart"`
	// KeywordMinLength is decoded and checked to be non-negative; no code
	// in this module passes it to the Keywords indexer, which uses 3 when
	// given a minLen of 0 or less.
	KeywordMinLength int `toml:"keywordMinLength"`
}
