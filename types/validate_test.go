package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/types"
)

func TestPositiveRejectsNegative(t *testing.T) {
	ty := types.NewPositive()
	_, err := ty.Validate("count", -1)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.InvalidValue))

	v, err := ty.Validate("count", 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), v)
}

func TestLineRejectsNewlines(t *testing.T) {
	ty := types.NewLine()
	_, err := ty.Validate("title", "one\ntwo")
	require.Error(t, err)

	v, err := ty.Validate("title", "single line")
	require.NoError(t, err)
	require.Equal(t, "single line", v)
}

func TestEmailValidatesSyntaxOnly(t *testing.T) {
	ty := types.NewEmail()
	_, err := ty.Validate("email", "not-an-email")
	require.Error(t, err)

	_, err = ty.Validate("email", "user@example.com")
	require.NoError(t, err)
}

func TestEnumIsCaseSensitive(t *testing.T) {
	ty := types.NewEnum("Red", "Green", "Blue")
	_, err := ty.Validate("color", "red")
	require.Error(t, err)

	v, err := ty.Validate("color", "Red")
	require.NoError(t, err)
	require.Equal(t, "Red", v)
}

func TestRangeEnforcesInclusiveBounds(t *testing.T) {
	ty := types.NewRange(int64(1), int64(10), types.NewInteger())
	_, err := ty.Validate("n", 11)
	require.Error(t, err)

	v, err := ty.Validate("n", 10)
	require.NoError(t, err)
	require.Equal(t, int64(10), v)
}

func TestReferenceValidatesShapeNotExistence(t *testing.T) {
	ty := types.NewReference("person")
	_, err := ty.Validate("owner", map[string]any{"type": "person"})
	require.Error(t, err, "missing oid")

	v, err := ty.Validate("owner", map[string]any{"type": "person", "oid": "abc"})
	require.NoError(t, err)
	ref := v.(types.Reference)
	require.Equal(t, "abc", ref.OID)

	_, err = ty.Validate("owner", map[string]any{"type": "company", "oid": "abc"})
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.RelationTypeMismatch))
}

func TestListValidatesEachElementWithIndexedPath(t *testing.T) {
	ty := types.NewList(types.NewInteger())
	_, err := ty.Validate("tags", []any{1, 2, "oops"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tags[2]")

	v, err := ty.Validate("tags", []any{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), int64(2), int64(3)}, v)
}

func TestSerializeDeserializeRoundTripsDateTime(t *testing.T) {
	ty := types.NewDateTime()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	ser, err := ty.Serialize(now)
	require.NoError(t, err)

	deser, err := ty.Deserialize(ser)
	require.NoError(t, err)
	require.True(t, now.Equal(deser.(time.Time)))
}

func TestAnyRejectsNonPrimitiveTree(t *testing.T) {
	ty := types.NewAny()
	_, err := ty.Validate("payload", map[string]any{"ok": true, "n": 1.5})
	require.NoError(t, err)

	_, err = ty.Validate("payload", make(chan int))
	require.Error(t, err)
}
