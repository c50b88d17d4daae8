package objectstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oba-ldap/gobj/objectstore"
)

func TestDoFlushesObjectsTouchedInsideScope(t *testing.T) {
	store := newTestStore(t)
	class := store.Register(personDescriptor())

	var obj *objectstore.Object
	err := store.Do(context.Background(), func(ctx context.Context) error {
		obj = class.New()
		return obj.Set("name", "Scoped")
	})
	require.NoError(t, err)
	require.False(t, obj.IsDirty())
	require.NotEmpty(t, obj.OID())

	again, err := class.Get(obj.OID())
	require.NoError(t, err)
	require.Equal(t, obj.OID(), again.OID())
}

func TestDoPropagatesCallbackError(t *testing.T) {
	store := newTestStore(t)
	class := store.Register(personDescriptor())

	sentinel := errorString("boom")
	err := store.Do(context.Background(), func(ctx context.Context) error {
		obj := class.New()
		_ = obj.Set("name", "Unsaved")
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
}

type errorString string

func (e errorString) Error() string { return string(e) }
