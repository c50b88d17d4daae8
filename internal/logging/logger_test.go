package logging_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oba-ldap/gobj/internal/logging"
)

func TestNopDoesNotPanic(t *testing.T) {
	l := logging.Nop()
	l.Info("hello", "key", "value")
	l.Debug("hidden")
	l.Warn("careful")
	l.Error("boom", "err", "oops")
	require.NoError(t, l.Sync())
}

func TestWithRequestIDAndWithAreIndependentChildren(t *testing.T) {
	base := logging.Nop()
	withID := base.WithRequestID("req-1")
	withField := base.With("class", "article")

	// Neither derived logger mutates the other; both remain usable.
	withID.Info("scoped flush")
	withField.Info("rebuild started")
}

func TestGenerateRequestIDIsUnique(t *testing.T) {
	a := logging.GenerateRequestID()
	b := logging.GenerateRequestID()
	require.NotEqual(t, a, b)
	require.NotEmpty(t, a)
}
