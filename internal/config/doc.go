// Package config provides configuration loading and validation for the
// object store engine and its tooling.
//
// # Overview
//
// The config package loads the engine's configuration from a TOML file and
// validates it. It supports:
//
//   - TOML configuration files
//   - Default values for all settings
//   - Configuration validation
//
// # Configuration Structure
//
//	type Config struct {
//	    Storage StorageConfig // backend driver selection
//	    Logging LogConfig     // logging settings
//	    Index   IndexConfig   // index maintenance settings
//	}
//
// # Loading Configuration
//
//	cfg, err := config.Load("/etc/gobj/config.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or use defaults:
//
//	cfg := config.Default()
//
// # Example Configuration
//
//	[storage]
//	driver = "sqlite"
//	path = "/var/lib/gobj/store.db"
//	syncInterval = "5s"
//
//	[logging]
//	level = "info"
//	format = "json"
//	output = "/var/log/gobj/gobj.log"
//
//	[index]
//	rebuildOnStart = false
//	keywordMinLength = 3
package config
