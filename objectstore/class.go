package objectstore

import (
	"context"
	"sort"
	"strings"

	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/kv"
)

// Class is the per-class handle exposing the public contract of §4.2:
// Get/Has/Ensure/All/List/Count/Import.
type Class struct {
	store *Store
	desc  *ClassDescriptor
}

// Descriptor returns the class's schema.
func (c *Class) Descriptor() *ClassDescriptor { return c.desc }

// Get returns the live object for oid: a cache hit if a strong reference
// still exists, else a backend read followed by deserialization and cache
// install (§4.2 "Data flow on Get").
func (c *Class) Get(oid string) (*Object, error) {
	return c.get(context.Background(), oid)
}

// GetContext is Get with an explicit context for the backend read.
func (c *Class) GetContext(ctx context.Context, oid string) (*Object, error) {
	return c.get(ctx, oid)
}

func (c *Class) get(ctx context.Context, oid string) (*Object, error) {
	if obj, ok := c.store.lookup(c.desc.Name, oid); ok {
		return obj, nil
	}
	key := kv.ObjectKey(c.desc.Collection, oid)
	payload, ok, err := c.store.loadBytes(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.NewNotFound(c.desc.Name, oid)
	}
	obj, err := c.store.decode(c.desc, payload)
	if err != nil {
		return nil, err
	}
	c.store.install(obj)
	return obj, nil
}

// Has reports whether oid exists, without installing it into the cache.
func (c *Class) Has(oid string) (bool, error) {
	if _, ok := c.store.lookup(c.desc.Name, oid); ok {
		return true, nil
	}
	ok, err := c.store.backend.Has(context.Background(), kv.ObjectKey(c.desc.Collection, oid))
	if err != nil {
		return false, errs.NewBackendFailure(kv.ObjectKey(c.desc.Collection, oid), err)
	}
	return ok, nil
}

// Ensure returns the live object for oid, creating an unsaved instance if
// missing. Calling Ensure on an existing oid returns the same identity as
// Get would (§8 boundary behavior).
func (c *Class) Ensure(oid string) *Object {
	if obj, err := c.Get(oid); err == nil {
		return obj
	}
	obj := newObject(c.store, c.desc, oid)
	c.store.install(obj)
	return obj
}

// New returns a new unsaved instance with no OID assigned yet; one is
// allocated on first Save.
func (c *Class) New() *Object {
	return newObject(c.store, c.desc, "")
}

// Import validates primitive into a new unsaved instance without saving it.
// Both "properties" and a "relations" key shaped like Export's own output
// (§4.2) are honored, so a primitive round-tripped through Export then
// Import reconstructs the same relation stubs, via the same asStub parsing
// decode uses for a loaded record.
func (c *Class) Import(primitive map[string]any) (*Object, error) {
	obj := c.New()
	if props, ok := primitive["properties"].(map[string]any); ok {
		for name, raw := range props {
			if err := obj.Set(name, raw); err != nil {
				return nil, err
			}
		}
	}
	if rels, ok := primitive["relations"].(map[string]any); ok {
		for name, raw := range rels {
			rel, err := obj.Relation(name)
			if err != nil {
				return nil, err
			}
			if rel.desc.Arity == Singular {
				if raw == nil {
					continue
				}
				stub, ok := asStub(raw)
				if !ok {
					return nil, errs.NewInvalidValue(name, "expected a (type, oid) relation stub")
				}
				if err := rel.Add(stub); err != nil {
					return nil, err
				}
				continue
			}
			list, ok := raw.([]any)
			if !ok {
				return nil, errs.NewInvalidValue(name, "expected a list of (type, oid) relation stubs")
			}
			for _, item := range list {
				stub, ok := asStub(item)
				if !ok {
					return nil, errs.NewInvalidValue(name, "expected a (type, oid) relation stub")
				}
				if err := rel.Add(stub); err != nil {
					return nil, err
				}
			}
		}
	}
	return obj, nil
}

// ObjectIter is a lazy, finite sequence of objects pulled from the backend
// one key at a time; each Next call is a potential suspension point (§5).
type ObjectIter struct {
	class *Class
	ctx   context.Context
	keys  []string
	pos   int
	err   error
}

// Next advances the iterator. It returns (nil, false, nil) once exhausted.
func (it *ObjectIter) Next() (*Object, bool, error) {
	if it.err != nil {
		return nil, false, it.err
	}
	if it.pos >= len(it.keys) {
		return nil, false, nil
	}
	oid := it.keys[it.pos]
	it.pos++
	obj, err := it.class.get(it.ctx, oid)
	if err != nil {
		it.err = err
		return nil, false, err
	}
	return obj, true, nil
}

// All returns a lazy sequence over every object of this class, ordered by
// the backend's key-sort.
func (c *Class) All() (*ObjectIter, error) {
	ctx := context.Background()
	prefix := c.desc.Collection + "/"
	keys, err := c.store.backend.Keys(ctx, prefix)
	if err != nil {
		return nil, errs.NewBackendFailure(prefix, err)
	}
	oids := make([]string, 0, len(keys))
	for _, k := range keys {
		oid := strings.TrimPrefix(k, prefix)
		if strings.Contains(oid, "/") {
			continue // an index bucket key sharing this backend, not an object
		}
		oids = append(oids, oid)
	}
	sort.Strings(oids)
	return &ObjectIter{class: c, ctx: ctx, keys: oids}, nil
}

// List returns up to count objects with OIDs in [start, end] (either bound
// may be empty for "unbounded"), ordered by the backend's key-sort (§4.2).
func (c *Class) List(count int, start, end string) ([]*Object, error) {
	it, err := c.All()
	if err != nil {
		return nil, err
	}
	var out []*Object
	for {
		obj, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		oid := obj.OID()
		if start != "" && oid < start {
			continue
		}
		if end != "" && oid > end {
			break
		}
		out = append(out, obj)
		if count > 0 && len(out) >= count {
			break
		}
	}
	return out, nil
}

// Count returns the number of objects in this class. This may be an O(n)
// scan of the collection prefix (§4.2).
func (c *Class) Count() (int, error) {
	keys, err := c.store.backend.Keys(context.Background(), c.desc.Collection+"/")
	if err != nil {
		return 0, errs.NewBackendFailure(c.desc.Collection, err)
	}
	n := 0
	for _, k := range keys {
		if !strings.Contains(strings.TrimPrefix(k, c.desc.Collection+"/"), "/") {
			n++
		}
	}
	return n, nil
}
