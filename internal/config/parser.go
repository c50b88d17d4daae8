package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
)

// ErrFileNotFound is returned by Load when the given path does not exist.
var ErrFileNotFound = errors.New("configuration file not found")

// Load reads and decodes a TOML configuration file at path, starting from
// Default() so unset sections keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
