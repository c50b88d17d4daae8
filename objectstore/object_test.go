package objectstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oba-ldap/gobj/backend/memkv"
	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/objectstore"
	"github.com/oba-ldap/gobj/types"
)

func newTestStore(t *testing.T) *objectstore.Store {
	t.Helper()
	return objectstore.New("test", memkv.New(), nil)
}

func personDescriptor() *objectstore.ClassDescriptor {
	return objectstore.NewClassDescriptor("person").
		Property("name", types.NewString()).
		Property("age", types.NewInteger()).
		Relation("friend", objectstore.Plural, "person")
}

func TestSetRejectsUnknownAndReservedProperty(t *testing.T) {
	store := newTestStore(t)
	class := store.Register(personDescriptor())
	obj := class.New()

	err := obj.Set("nickname", "x")
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.UnknownProperty))

	err = obj.Set("oid", "x")
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.ReservedProperty))
}

func TestSetValidatesTypeAndStampsUpdate(t *testing.T) {
	store := newTestStore(t)
	class := store.Register(personDescriptor())
	obj := class.New()

	require.NoError(t, obj.Set("age", 30))
	_, ok := obj.UpdatedAt("age")
	require.True(t, ok)

	err := obj.Set("age", "not a number")
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.InvalidValue))
}

func TestSaveAllocatesOIDAndIsIdempotentWhenClean(t *testing.T) {
	store := newTestStore(t)
	class := store.Register(personDescriptor())
	obj := class.New()
	require.NoError(t, obj.Set("name", "Ada"))

	require.Empty(t, obj.OID())
	require.NoError(t, obj.Save(context.Background()))
	require.NotEmpty(t, obj.OID())
	require.False(t, obj.IsDirty())

	require.NoError(t, obj.Save(context.Background()))
}

func TestGetReturnsSameIdentityWhileStronglyReferenced(t *testing.T) {
	store := newTestStore(t)
	class := store.Register(personDescriptor())
	obj := class.New()
	require.NoError(t, obj.Set("name", "Grace"))
	require.NoError(t, obj.Save(context.Background()))

	again, err := class.Get(obj.OID())
	require.NoError(t, err)
	require.Same(t, obj, again)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store := newTestStore(t)
	class := store.Register(personDescriptor())
	_, err := class.Get("does-not-exist")
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.NotFound))
}

func TestRelationEnforcesTargetClassAndDedupes(t *testing.T) {
	store := newTestStore(t)
	class := store.Register(personDescriptor())
	otherDesc := objectstore.NewClassDescriptor("company")
	store.Register(otherDesc)

	a := class.New()
	require.NoError(t, a.Set("name", "A"))
	require.NoError(t, a.Save(context.Background()))

	b := class.New()
	require.NoError(t, b.Set("name", "B"))
	require.NoError(t, b.Save(context.Background()))

	rel, err := a.Relation("friend")
	require.NoError(t, err)
	require.NoError(t, rel.Add(types.Reference{Class: "person", OID: b.OID()}))
	require.NoError(t, rel.Add(types.Reference{Class: "person", OID: b.OID()}))
	require.Equal(t, 1, rel.Len())

	err = rel.Add(types.Reference{Class: "company", OID: "1"})
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.RelationTypeMismatch))
}

func TestRemovePurgesBackendRecord(t *testing.T) {
	store := newTestStore(t)
	class := store.Register(personDescriptor())
	obj := class.New()
	require.NoError(t, obj.Set("name", "Temp"))
	require.NoError(t, obj.Save(context.Background()))
	oid := obj.OID()

	require.NoError(t, obj.Remove(context.Background()))

	_, err := class.Get(oid)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.NotFound))
}

func TestExportDepth(t *testing.T) {
	store := newTestStore(t)
	class := store.Register(personDescriptor())
	obj := class.New()
	require.NoError(t, obj.Set("name", "Linus"))
	require.NoError(t, obj.Save(context.Background()))

	shallow, err := obj.Export(0)
	require.NoError(t, err)
	require.Equal(t, obj.OID(), shallow["oid"])
	require.NotContains(t, shallow, "properties")

	full, err := obj.Export(1)
	require.NoError(t, err)
	require.Contains(t, full, "properties")
}
