package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/oba-ldap/gobj/indexmanager"
	"github.com/oba-ldap/gobj/objectstore"
	"github.com/oba-ldap/gobj/types"
)

// classSchema describes one class for the purposes of this CLI: enough to
// register a ClassDescriptor and its indexes without a compiled-in Go type.
// A real embedding application registers its own descriptors in code; this
// file exists only so gobjctl can drive rebuild/stats/get against an
// arbitrary store directory from the command line.
type classSchema struct {
	Name       string            `toml:"name"`
	Collection string            `toml:"collection"`
	Properties map[string]string `toml:"properties"`
	Indexes    map[string]string `toml:"indexes"`
}

type storeSchema struct {
	Class []classSchema `toml:"class"`
}

func loadSchema(path string) (*storeSchema, error) {
	var s storeSchema
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	return &s, nil
}

func propertyType(kind string) (*types.Type, error) {
	switch kind {
	case "string":
		return types.NewString(), nil
	case "line":
		return types.NewLine(), nil
	case "integer":
		return types.NewInteger(), nil
	case "positive":
		return types.NewPositive(), nil
	case "float":
		return types.NewFloat(), nil
	case "bool":
		return types.NewBool(), nil
	case "datetime":
		return types.NewDateTime(), nil
	case "any":
		return types.NewAny(), nil
	default:
		return nil, fmt.Errorf("unknown property kind %q", kind)
	}
}

// indexerFor builds an indexer from a "kind:property" spec string, e.g.
// "keyword:title". The updatetime kind takes no property.
func indexerFor(spec string) (objectstore.IndexerFunc, error) {
	kind, propName, _ := strings.Cut(spec, ":")
	switch kind {
	case "value":
		return indexmanager.Value(propName), nil
	case "normalize":
		return indexmanager.Normalize(propName), nil
	case "noaccents":
		return indexmanager.NoAccents(propName), nil
	case "keyword":
		return indexmanager.Keyword(propName), nil
	case "updatetime":
		return indexmanager.UpdateTime(), nil
	default:
		return nil, fmt.Errorf("unknown indexer kind %q in spec %q", kind, spec)
	}
}

// register builds a ClassDescriptor from schema and registers it with store.
func (cs classSchema) register(store *objectstore.Store) (*objectstore.Class, error) {
	desc := objectstore.NewClassDescriptor(cs.Name)
	if cs.Collection != "" {
		desc.WithCollection(cs.Collection)
	}
	for name, kind := range cs.Properties {
		t, err := propertyType(kind)
		if err != nil {
			return nil, fmt.Errorf("class %s: property %s: %w", cs.Name, name, err)
		}
		desc.Property(name, t)
	}
	for name, spec := range cs.Indexes {
		fn, err := indexerFor(spec)
		if err != nil {
			return nil, fmt.Errorf("class %s: index %s: %w", cs.Name, name, err)
		}
		desc.Index(name, fn)
	}
	return store.Register(desc), nil
}
