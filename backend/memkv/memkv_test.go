package memkv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oba-ldap/gobj/errs"
)

func TestAddRejectsDuplicate(t *testing.T) {
	b := New()
	ctx := context.Background()
	require.NoError(t, b.Add(ctx, "a", []byte("1")))
	err := b.Add(ctx, "a", []byte("2"))
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.AlreadyExists))
}

func TestUpdateAndGet(t *testing.T) {
	b := New()
	ctx := context.Background()
	require.NoError(t, b.Update(ctx, "a", []byte("1")))
	v, ok, err := b.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("1"), v)

	_, ok, err = b.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKeysUnderPrefix(t *testing.T) {
	b := New()
	ctx := context.Background()
	require.NoError(t, b.Update(ctx, "users/1", []byte("x")))
	require.NoError(t, b.Update(ctx, "users/2", []byte("y")))
	require.NoError(t, b.Update(ctx, "posts/1", []byte("z")))

	keys, err := b.Keys(ctx, "users/")
	require.NoError(t, err)
	require.Equal(t, []string{"users/1", "users/2"}, keys)
}

func TestRemoveAbsentIsNotError(t *testing.T) {
	b := New()
	require.NoError(t, b.Remove(context.Background(), "nope"))
}

func TestClear(t *testing.T) {
	b := New()
	ctx := context.Background()
	require.NoError(t, b.Update(ctx, "a", []byte("1")))
	require.NoError(t, b.Clear(ctx))
	ok, err := b.Has(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)
}
