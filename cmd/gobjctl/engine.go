package main

import (
	"fmt"

	"github.com/oba-ldap/gobj/backend/memkv"
	"github.com/oba-ldap/gobj/backend/sqlitekv"
	"github.com/oba-ldap/gobj/indexmanager"
	"github.com/oba-ldap/gobj/internal/config"
	"github.com/oba-ldap/gobj/internal/logging"
	"github.com/oba-ldap/gobj/kv"
	"github.com/oba-ldap/gobj/objectstore"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	schemaPath string
}

func openBackend(cfg *config.Config) (kv.Backend, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return memkv.New(), nil
	case "sqlite":
		return sqlitekv.Open(cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// engine is the opened store, index manager, and class handles a subcommand
// operates against.
type engine struct {
	backend kv.Backend
	store   *objectstore.Store
	manager *indexmanager.Manager
	classes map[string]*objectstore.Class
	logger  logging.Logger
}

func openEngine(flags globalFlags) (*engine, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %v", errs[0])
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}

	manager := indexmanager.New(backend)
	store := objectstore.New("gobjctl", backend, manager).WithLogger(logger)

	classes := map[string]*objectstore.Class{}
	if flags.schemaPath != "" {
		schema, err := loadSchema(flags.schemaPath)
		if err != nil {
			return nil, err
		}
		for _, cs := range schema.Class {
			class, err := cs.register(store)
			if err != nil {
				return nil, err
			}
			manager.Track(class)
			classes[cs.Name] = class
		}
	}

	return &engine{
		backend: backend,
		store:   store,
		manager: manager,
		classes: classes,
		logger:  logger,
	}, nil
}

func (e *engine) class(name string) (*objectstore.Class, error) {
	class, ok := e.classes[name]
	if !ok {
		return nil, fmt.Errorf("class %q is not declared in the schema file (pass --schema)", name)
	}
	return class, nil
}
