// Package rawstore hosts StoredRaw classes: binary blobs split into a data
// stream and a JSON-like metadata record under sibling backend keys, with
// chunked reads and an optional filesystem-path capability probe (§4.3).
// This is the ~15% Raw Store component of the engine.
package rawstore

import (
	"context"
	"encoding/json"

	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/kv"
)

// ClassDescriptor is the schema for one StoredRaw class: its storage name
// and key prefix.
type ClassDescriptor struct {
	Name       string
	Collection string
}

// NewClassDescriptor builds a descriptor with Collection defaulting to name.
func NewClassDescriptor(name string) *ClassDescriptor {
	return &ClassDescriptor{Name: name, Collection: name}
}

// WithCollection overrides the storage key prefix.
func (d *ClassDescriptor) WithCollection(collection string) *ClassDescriptor {
	d.Collection = collection
	return d
}

// Store binds ClassDescriptors to a backend.
type Store struct {
	backend kv.Backend
}

// New constructs a raw store over backend.
func New(backend kv.Backend) *Store {
	return &Store{backend: backend}
}

// Class returns the handle for desc, registering it implicitly — raw
// classes carry no identity cache or relation bookkeeping, so there is
// nothing to bind at registration time beyond the descriptor itself.
func (s *Store) Class(desc *ClassDescriptor) *Class {
	return &Class{store: s, desc: desc}
}

// Class is the per-class handle for StoredRaw objects.
type Class struct {
	store *Store
	desc  *ClassDescriptor
}

// New returns a new unsaved RawObject with no OID assigned yet.
func (c *Class) New() *RawObject {
	return &RawObject{store: c.store, class: c, meta: map[string]any{}}
}

// Get loads the meta record for oid (data is read lazily via Data/LoadData).
func (c *Class) Get(oid string) (*RawObject, error) {
	ctx := context.Background()
	metaKey := kv.RawMetaKey(c.desc.Collection, oid)
	payload, ok, err := c.store.backend.Get(ctx, metaKey)
	if err != nil {
		return nil, errs.NewBackendFailure(metaKey, err)
	}
	if !ok {
		return nil, errs.NewNotFound(c.desc.Name, oid)
	}
	var meta map[string]any
	if err := json.Unmarshal(payload, &meta); err != nil {
		return nil, err
	}
	return &RawObject{store: c.store, class: c, oid: oid, meta: meta, metaLoaded: true}, nil
}

// Has reports whether oid's meta record exists.
func (c *Class) Has(oid string) (bool, error) {
	ok, err := c.store.backend.Has(context.Background(), kv.RawMetaKey(c.desc.Collection, oid))
	if err != nil {
		return false, errs.NewBackendFailure(c.desc.Name, err)
	}
	return ok, nil
}

// Count returns the number of raw objects in this class.
func (c *Class) Count() (int, error) {
	keys, err := c.store.backend.Keys(context.Background(), c.desc.Collection+"/")
	if err != nil {
		return 0, errs.NewBackendFailure(c.desc.Collection, err)
	}
	n := 0
	for _, k := range keys {
		if len(k) > 5 && k[len(k)-5:] == ".meta" {
			n++
		}
	}
	return n, nil
}
