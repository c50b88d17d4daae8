package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate validates the configuration and returns a list of validation
// errors. An empty slice indicates the configuration is valid.
func Validate(cfg *Config) []error {
	var errs []error
	errs = append(errs, validateStorageConfig(&cfg.Storage)...)
	errs = append(errs, validateLogConfig(&cfg.Logging)...)
	errs = append(errs, validateIndexConfig(&cfg.Index)...)
	return errs
}

func validateStorageConfig(config *StorageConfig) []error {
	var errs []error

	validDrivers := map[string]bool{"memory": true, "sqlite": true}
	if !validDrivers[strings.ToLower(config.Driver)] {
		errs = append(errs, ValidationError{
			Field:   "storage.driver",
			Message: "must be memory or sqlite",
		})
	}

	if strings.EqualFold(config.Driver, "sqlite") {
		if config.Path == "" {
			errs = append(errs, ValidationError{
				Field:   "storage.path",
				Message: "path is required for the sqlite driver",
			})
		}
	}

	if config.SyncInterval < 0 {
		errs = append(errs, ValidationError{
			Field:   "storage.syncInterval",
			Message: "must be non-negative",
		})
	}

	return errs
}

func validateLogConfig(config *LogConfig) []error {
	var errs []error

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if config.Level != "" && !validLevels[strings.ToLower(config.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: "must be debug, info, warn, or error",
		})
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if config.Format != "" && !validFormats[strings.ToLower(config.Format)] {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: "must be text or json",
		})
	}

	if config.Output != "" && config.Output != "stdout" && config.Output != "stderr" {
		dir := filepath.Dir(config.Output)
		if !filepath.IsAbs(config.Output) {
			errs = append(errs, ValidationError{
				Field:   "logging.output",
				Message: "must be stdout, stderr, or an absolute file path",
			})
		} else if _, err := os.Stat(dir); os.IsNotExist(err) {
			errs = append(errs, ValidationError{
				Field:   "logging.output",
				Message: fmt.Sprintf("directory %s does not exist", dir),
			})
		}
	}

	return errs
}

func validateIndexConfig(config *IndexConfig) []error {
	var errs []error

	if config.KeywordMinLength < 0 {
		errs = append(errs, ValidationError{
			Field:   "index.keywordMinLength",
			Message: "must be non-negative",
		})
	}

	return errs
}
