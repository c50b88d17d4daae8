package rawstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oba-ldap/gobj/backend/memkv"
	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/rawstore"
)

func newAttachmentClass(t *testing.T) *rawstore.Class {
	t.Helper()
	store := rawstore.New(memkv.New())
	return store.Class(rawstore.NewClassDescriptor("attachment"))
}

func TestSaveAndGetRoundTripsDataAndMeta(t *testing.T) {
	class := newAttachmentClass(t)
	obj := class.New()
	obj.SetMeta("filename", "report.pdf")
	obj.SetData([]byte("binary content"))

	require.NoError(t, obj.Save(context.Background()))
	require.NotEmpty(t, obj.OID())

	got, err := class.Get(obj.OID())
	require.NoError(t, err)
	name, ok := got.Meta("filename")
	require.True(t, ok)
	require.Equal(t, "report.pdf", name)

	data, err := got.LoadData()
	require.NoError(t, err)
	require.Equal(t, []byte("binary content"), data)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	class := newAttachmentClass(t)
	_, err := class.Get("nope")
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.NotFound))
}

func TestSaveSkipsRewritingDataWhenUntouched(t *testing.T) {
	class := newAttachmentClass(t)
	obj := class.New()
	obj.SetData([]byte("original"))
	require.NoError(t, obj.Save(context.Background()))

	reloaded, err := class.Get(obj.OID())
	require.NoError(t, err)
	reloaded.SetMeta("touched", true)
	require.NoError(t, reloaded.Save(context.Background()))

	data, err := reloaded.LoadData()
	require.NoError(t, err)
	require.Equal(t, []byte("original"), data)
}

func TestRemoveDeletesBothSiblingRecords(t *testing.T) {
	class := newAttachmentClass(t)
	obj := class.New()
	obj.SetData([]byte("x"))
	require.NoError(t, obj.Save(context.Background()))
	oid := obj.OID()

	require.NoError(t, obj.Remove(context.Background()))

	has, err := class.Has(oid)
	require.NoError(t, err)
	require.False(t, has)
}

func TestChunkIterCoversWholeBlobAndStopsAtEnd(t *testing.T) {
	class := newAttachmentClass(t)
	obj := class.New()
	obj.SetData([]byte("abcdefghij"))
	require.NoError(t, obj.Save(context.Background()))

	it, err := obj.Data(4)
	require.NoError(t, err)

	var chunks [][]byte
	for {
		chunk, ok := it.Next()
		if !ok {
			break
		}
		chunks = append(chunks, chunk)
	}
	require.Equal(t, [][]byte{[]byte("abcd"), []byte("efgh"), []byte("ij")}, chunks)
}

func TestPathFailsWithoutFilesystemCapability(t *testing.T) {
	class := newAttachmentClass(t)
	obj := class.New()
	obj.SetData([]byte("x"))
	require.NoError(t, obj.Save(context.Background()))

	_, err := obj.Path()
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.Unsupported))
}
