// Package kv defines the narrow key-value contract the rest of this module
// depends on and never reaches past (§6). Concrete backends — memory,
// filesystem directory, DBM — are out of scope for the core; backend/memkv
// and backend/sqlitekv in this module are example implementations of the
// interface, not part of it.
package kv

import "context"

// Capability is a flag a Backend advertises to declare an optional extension.
type Capability string

const (
	// CapFiles means the backend can store arbitrarily large values efficiently.
	CapFiles Capability = "Files"
	// CapFilesystem means path-based access is available (StoredRaw.Path()).
	CapFilesystem Capability = "Filesystem"
	// CapObjectsOpt means the backend has object-store-aware optimizations.
	CapObjectsOpt Capability = "ObjectsOpt"
	// CapMetricsOpt means the backend can report operation metrics.
	CapMetricsOpt Capability = "MetricsOpt"
	// CapRawOpt means the backend has raw-blob-aware optimizations.
	CapRawOpt Capability = "RawOpt"
	// CapIndexOpt means the backend has index-bucket-aware optimizations.
	CapIndexOpt Capability = "IndexOpt"
	// CapIndex means the backend natively supports secondary indexing.
	CapIndex Capability = "Index"
)

// Backend is the abstract key-value contract. Implementations must make
// Add/Update/Get/Has/Remove/Sync/Clear safe for concurrent use; Keys may
// return a snapshot taken at call time.
type Backend interface {
	// Add creates key with value; fails with an AlreadyExists-kind error if
	// key already exists.
	Add(ctx context.Context, key string, value []byte) error
	// Update overwrites key with value, creating it if missing.
	Update(ctx context.Context, key string, value []byte) error
	// Get reads key. ok is false when the key is absent (not an error).
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Has probes existence without reading the value.
	Has(ctx context.Context, key string) (bool, error)
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Keys enumerates keys under prefix in lexicographic order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Sync flushes durable state.
	Sync(ctx context.Context) error
	// Clear removes everything the backend holds.
	Clear(ctx context.Context) error
	// Capabilities returns the subset of optional extensions this backend
	// advertises.
	Capabilities() map[Capability]bool
}

// PathProbe is implemented by backends that advertise CapFilesystem; Path
// returns the on-disk location backing key, used by StoredRaw.Path().
type PathProbe interface {
	Path(ctx context.Context, key string) (string, error)
}

// HasCapability is a small helper so callers don't repeat the map-lookup
// idiom at every call site.
func HasCapability(b Backend, c Capability) bool {
	caps := b.Capabilities()
	return caps != nil && caps[c]
}
