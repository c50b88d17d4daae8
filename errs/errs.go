// Package errs defines the error kinds raised across the object store, raw
// store, and index manager. Every kind carries a message and the context
// named in its constructor (offending key, path, OID) rather than mutating
// caller state, mirroring the sentinel-error style of internal/backend in
// the teacher package this module grew out of, upgraded with stack traces
// and structured wrapping via cockroachdb/errors.
package errs

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind identifies the category of an Error so callers can branch on it with
// Is without string matching.
type Kind int

const (
	// InvalidValue is returned when a value fails type validation.
	InvalidValue Kind = iota
	// UnknownProperty is returned when setting an undeclared property.
	UnknownProperty
	// ReservedProperty is returned when setting one of {type, oid, updates}.
	ReservedProperty
	// NotFound is returned on an OID lookup or index one() miss.
	NotFound
	// AlreadyExists is returned when add() targets a duplicate key.
	AlreadyExists
	// RelationTypeMismatch is returned relating to an object of the wrong class.
	RelationTypeMismatch
	// BackendFailure wraps any lower-layer error with the offending key.
	BackendFailure
	// Unsupported is returned when a capability is missing.
	Unsupported
	// NotRegistered is returned when a class method runs without a bound store.
	NotRegistered
)

func (k Kind) String() string {
	switch k {
	case InvalidValue:
		return "InvalidValue"
	case UnknownProperty:
		return "UnknownProperty"
	case ReservedProperty:
		return "ReservedProperty"
	case NotFound:
		return "NotFound"
	case AlreadyExists:
		return "AlreadyExists"
	case RelationTypeMismatch:
		return "RelationTypeMismatch"
	case BackendFailure:
		return "BackendFailure"
	case Unsupported:
		return "Unsupported"
	case NotRegistered:
		return "NotRegistered"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type every layer of the engine returns for
// contract violations. Context is kept as plain fields instead of a free-form
// map so callers can pattern-match without type-asserting into a map.
type Error struct {
	Kind    Kind
	Path    string // attribute path, key, or OID the error concerns
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Message)
}

// Unwrap exposes the wrapped cause so errors.Is/As keep working through
// cockroachdb/errors' stack-trace wrapping.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

func newErr(kind Kind, path, msg string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Message: msg, Cause: cause}
}

// NewInvalidValue reports a validation failure for value at path, for reason.
func NewInvalidValue(path, reason string) *Error {
	return newErr(InvalidValue, path, reason, nil)
}

// NewUnknownProperty reports an attempt to set an undeclared attribute.
func NewUnknownProperty(class, name string) *Error {
	return newErr(UnknownProperty, name, fmt.Sprintf("%q has no property %q", class, name), nil)
}

// NewReservedProperty reports an attempt to set a reserved attribute name.
func NewReservedProperty(name string) *Error {
	return newErr(ReservedProperty, name, "property name is reserved", nil)
}

// NewNotFound reports a missing OID or index key.
func NewNotFound(class, oid string) *Error {
	return newErr(NotFound, class+"/"+oid, "not found", nil)
}

// NewAlreadyExists reports add() on a duplicate OID.
func NewAlreadyExists(class, oid string) *Error {
	return newErr(AlreadyExists, class+"/"+oid, "already exists", nil)
}

// NewRelationTypeMismatch reports relating to an object of an unexpected class.
func NewRelationTypeMismatch(attr, want, got string) *Error {
	return newErr(RelationTypeMismatch, attr, fmt.Sprintf("expected class %q, got %q", want, got), nil)
}

// NewBackendFailure wraps a lower-layer error with the offending key,
// preserving cause's stack trace via cockroachdb/errors.
func NewBackendFailure(key string, cause error) *Error {
	return newErr(BackendFailure, key, "backend operation failed", errors.Wrapf(cause, "key=%s", key))
}

// NewUnsupported reports a missing capability.
func NewUnsupported(capability string) *Error {
	return newErr(Unsupported, capability, "capability not supported by backend", nil)
}

// NewNotRegistered reports a class method invoked without a bound store.
func NewNotRegistered(class string) *Error {
	return newErr(NotRegistered, class, "class has no bound store", nil)
}
