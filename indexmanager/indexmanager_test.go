package indexmanager_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oba-ldap/gobj/backend/memkv"
	"github.com/oba-ldap/gobj/indexmanager"
	"github.com/oba-ldap/gobj/objectstore"
	"github.com/oba-ldap/gobj/types"
)

func newArticleStore(t *testing.T) (*objectstore.Class, *indexmanager.Manager) {
	t.Helper()
	be := memkv.New()
	mgr := indexmanager.New(be)

	desc := objectstore.NewClassDescriptor("article").
		Property("title", types.NewString()).
		Property("tag", types.NewString()).
		Index("by_tag", indexmanager.Value("tag")).
		Index("by_title", indexmanager.Keyword("title")).
		Index("by_words", indexmanager.Keywords([]string{"title"}, 3))

	store := objectstore.New("test", be, mgr)
	class := store.Register(desc)
	mgr.Track(class)
	return class, mgr
}

func TestValueIndexRoundTrip(t *testing.T) {
	class, mgr := newArticleStore(t)

	obj := class.New()
	require.NoError(t, obj.Set("title", "Hello World"))
	require.NoError(t, obj.Set("tag", "go"))
	require.NoError(t, obj.Save(context.Background()))

	bucket := mgr.Bucket("article", "by_tag")
	has, err := bucket.Has("go")
	require.NoError(t, err)
	require.True(t, has)

	it, err := bucket.Get("go", true)
	require.NoError(t, err)
	got, _, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, obj.OID(), got.OID())
}

func TestIndexUpdatesOnChange(t *testing.T) {
	class, mgr := newArticleStore(t)

	obj := class.New()
	require.NoError(t, obj.Set("title", "First"))
	require.NoError(t, obj.Set("tag", "alpha"))
	require.NoError(t, obj.Save(context.Background()))

	bucket := mgr.Bucket("article", "by_tag")
	count, err := bucket.Count("alpha")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, obj.Set("tag", "beta"))
	require.NoError(t, obj.Save(context.Background()))

	count, err = bucket.Count("alpha")
	require.NoError(t, err)
	require.Equal(t, 0, count)

	count, err = bucket.Count("beta")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestIndexRemovedOnObjectRemove(t *testing.T) {
	class, mgr := newArticleStore(t)

	obj := class.New()
	require.NoError(t, obj.Set("title", "Gone Soon"))
	require.NoError(t, obj.Set("tag", "temp"))
	require.NoError(t, obj.Save(context.Background()))

	require.NoError(t, obj.Remove(context.Background()))

	bucket := mgr.Bucket("article", "by_tag")
	has, err := bucket.Has("temp")
	require.NoError(t, err)
	require.False(t, has)
}

func TestKeywordsIndexTokenizesAndFiltersShortWords(t *testing.T) {
	class, mgr := newArticleStore(t)

	obj := class.New()
	require.NoError(t, obj.Set("title", "A Tale of Two Cities"))
	require.NoError(t, obj.Set("tag", "lit"))
	require.NoError(t, obj.Save(context.Background()))

	bucket := mgr.Bucket("article", "by_words")
	keys, err := bucket.Keys()
	require.NoError(t, err)
	require.Contains(t, keys, "tale")
	require.Contains(t, keys, "two")
	require.Contains(t, keys, "cities")
	require.NotContains(t, keys, "a")
	require.NotContains(t, keys, "of")
}

func TestRebuildRepopulatesFromScratch(t *testing.T) {
	class, mgr := newArticleStore(t)

	obj := class.New()
	require.NoError(t, obj.Set("title", "Rebuild Me"))
	require.NoError(t, obj.Set("tag", "gamma"))
	require.NoError(t, obj.Save(context.Background()))

	require.NoError(t, mgr.Rebuild(false))

	bucket := mgr.Bucket("article", "by_tag")
	has, err := bucket.Has("gamma")
	require.NoError(t, err)
	require.True(t, has)
}
