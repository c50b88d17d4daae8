package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oba-ldap/gobj/backend/memkv"
	"github.com/oba-ldap/gobj/objectstore"
)

func TestLoadSchemaAndRegister(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.toml")
	contents := `
[[class]]
name = "article"
collection = "article"

[class.properties]
title = "string"

[class.indexes]
by_title = "keyword:title"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	schema, err := loadSchema(path)
	require.NoError(t, err)
	require.Len(t, schema.Class, 1)

	store := objectstore.New("test", memkv.New(), nil)
	class, err := schema.Class[0].register(store)
	require.NoError(t, err)
	require.Equal(t, "article", class.Descriptor().Name)
	require.Contains(t, class.Descriptor().IndexBy, "by_title")
}

func TestIndexerForRejectsUnknownKind(t *testing.T) {
	_, err := indexerFor("bogus:title")
	require.Error(t, err)
}

func TestPropertyTypeRejectsUnknownKind(t *testing.T) {
	_, err := propertyType("bogus")
	require.Error(t, err)
}
