// Package objectstore hosts StoredObject classes: OIDs, the weak-valued
// identity cache, (de)serialization through package types, per-class
// iteration/count, and the dirty-save lifecycle. Relations resolve lazily
// (§4.2). This is the ~35% core component of the engine.
package objectstore

import (
	"context"
	"encoding/json"
	"sync"
	"weak"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"

	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/internal/logging"
	"github.com/oba-ldap/gobj/kv"
	"github.com/oba-ldap/gobj/types"
)

// Store binds ClassDescriptors to a backend and hosts the identity cache.
// One reentrant-by-convention lock (mu) covers the cache and class registry;
// see the exported/unexported method split used throughout this file for how
// that reentrancy is achieved without a true recursive mutex (§5).
type Store struct {
	Name    string
	backend kv.Backend
	hook    IndexHook
	clock   *clock

	mu      sync.Mutex
	classes map[string]*ClassDescriptor
	cache   map[string]map[string]weak.Pointer[Object]

	// rawCache is a bounded hint cache of raw serialized bytes keyed by
	// backend key, fronting backend.Get so a weak-cache miss for an object
	// that is still warm doesn't necessarily cost a round trip. It never
	// participates in identity: a hit is only ever used to skip the
	// backend read before deserializing into a *fresh* Object, which the
	// weak map then becomes the identity source of truth for.
	rawCache *ristretto.Cache[string, []byte]

	scopeMu     sync.Mutex
	activeScope *Scope

	logger logging.Logger
}

// New constructs a Store named name over backend. The index hook is
// optional; pass nil to run without secondary indexing. Logging defaults to
// a no-op logger; set one with WithLogger.
func New(name string, backend kv.Backend, hook IndexHook) *Store {
	cache, _ := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 10_000,
		MaxCost:     4 << 20, // 4 MiB of hinted raw records
		BufferItems: 64,
	})
	return &Store{
		Name:     name,
		backend:  backend,
		hook:     hook,
		clock:    newClock(),
		classes:  map[string]*ClassDescriptor{},
		cache:    map[string]map[string]weak.Pointer[Object]{},
		rawCache: cache,
		logger:   logging.Nop(),
	}
}

// WithLogger attaches logger to the store, returning s for chaining.
func (s *Store) WithLogger(logger logging.Logger) *Store {
	s.logger = logger.With("store", s.Name)
	return s
}

// Register binds a ClassDescriptor to this store, returning its Class handle.
func (s *Store) Register(desc *ClassDescriptor) *Class {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[desc.Name] = desc
	if _, ok := s.cache[desc.Name]; !ok {
		s.cache[desc.Name] = map[string]weak.Pointer[Object]{}
	}
	return &Class{store: s, desc: desc}
}

// Class returns the handle for a previously-registered class name.
func (s *Store) Class(name string) (*Class, error) {
	s.mu.Lock()
	desc, ok := s.classes[name]
	s.mu.Unlock()
	if !ok {
		return nil, errs.NewNotRegistered(name)
	}
	return &Class{store: s, desc: desc}, nil
}

func (s *Store) newOID() string { return uuid.NewString() }

// lookup returns the live instance for (class, oid) if a strong reference to
// it still exists anywhere, else ("", false).
func (s *Store) lookup(class, oid string) (*Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.cache[class]
	if bucket == nil {
		return nil, false
	}
	wp, ok := bucket[oid]
	if !ok {
		return nil, false
	}
	obj := wp.Value()
	if obj == nil {
		delete(bucket, oid) // dead weak ref; sweep it now
		return nil, false
	}
	return obj, true
}

func (s *Store) install(obj *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.cache[obj.class.Name]
	if bucket == nil {
		bucket = map[string]weak.Pointer[Object]{}
		s.cache[obj.class.Name] = bucket
	}
	bucket[obj.oid] = weak.Make(obj)
}

func (s *Store) evict(class, oid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache[class], oid)
}

func (s *Store) trackDirty(obj *Object) {
	s.scopeMu.Lock()
	scope := s.activeScope
	s.scopeMu.Unlock()
	if scope != nil {
		scope.add(obj)
	}
}

// persist writes rec under the object's backend key and flips its save-state
// (dirty/loaded/updates["oid"]). The caller must hold obj.mu for the whole
// call (§5) — persist touches obj's fields directly rather than through
// OID()/markSaved() precisely so it never tries to re-acquire that lock.
// Backend failures leave the object dirty so the caller can retry (§7). The
// index hook is not invoked here; the caller fires it after releasing obj.mu.
func (s *Store) persist(ctx context.Context, obj *Object, rec map[string]any) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	key := kv.ObjectKey(obj.class.Collection, obj.oid)
	if err := s.backend.Update(ctx, key, payload); err != nil {
		s.logger.Error("save failed", "class", obj.class.Name, "oid", obj.oid, "err", err)
		return errs.NewBackendFailure(key, err)
	}
	s.rawCache.Set(key, payload, int64(len(payload)))
	s.install(obj)
	obj.dirty = false
	obj.loaded = true
	obj.updates["oid"] = s.clock.Now()
	s.logger.Debug("saved", "class", obj.class.Name, "oid", obj.oid)
	return nil
}

// removeObject deletes the backend record and evicts the cache entry. Like
// persist, the caller must hold obj.mu for the whole call and fires the
// index hook itself after releasing it.
func (s *Store) removeObject(ctx context.Context, obj *Object) error {
	key := kv.ObjectKey(obj.class.Collection, obj.oid)
	if err := s.backend.Remove(ctx, key); err != nil {
		s.logger.Error("remove failed", "class", obj.class.Name, "oid", obj.oid, "err", err)
		return errs.NewBackendFailure(key, err)
	}
	s.rawCache.Del(key)
	s.evict(obj.class.Name, obj.oid)
	s.logger.Debug("removed", "class", obj.class.Name, "oid", obj.oid)
	return nil
}

func (s *Store) loadBytes(ctx context.Context, key string) ([]byte, bool, error) {
	if cached, ok := s.rawCache.Get(key); ok {
		return cached, true, nil
	}
	payload, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, false, errs.NewBackendFailure(key, err)
	}
	if ok {
		s.rawCache.Set(key, payload, int64(len(payload)))
	}
	return payload, ok, nil
}

// decode deserializes a raw record payload into a fresh, loaded Object of
// class desc. Relations are installed as unresolved stubs (§4.2).
func (s *Store) decode(desc *ClassDescriptor, payload []byte) (*Object, error) {
	var rec map[string]any
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, err
	}
	oid, _ := rec["oid"].(string)
	obj := newObject(s, desc, oid)

	if props, ok := rec["properties"].(map[string]any); ok {
		for name, raw := range props {
			t, declared := desc.Properties[name]
			if !declared {
				continue
			}
			v, err := t.Deserialize(raw)
			if err != nil {
				return nil, err
			}
			obj.properties[name] = v
		}
	}
	if rels, ok := rec["relations"].(map[string]any); ok {
		for name, raw := range rels {
			relDesc, declared := desc.Relations[name]
			if !declared {
				continue
			}
			rel := obj.relations[name]
			rel.desc = relDesc
			switch relDesc.Arity {
			case Singular:
				if stub, ok := asStub(raw); ok {
					rel.stubs = []types.Reference{stub}
				}
			default:
				if list, ok := raw.([]any); ok {
					for _, item := range list {
						if stub, ok := asStub(item); ok {
							rel.stubs = append(rel.stubs, stub)
						}
					}
				}
			}
		}
	}
	if upd, ok := rec["updates"].(map[string]any); ok {
		for attr, raw := range upd {
			if s, ok := raw.(string); ok {
				if ts, err := parseRFC3339Nano(s); err == nil {
					obj.updates[attr] = ts
				}
			}
		}
	}
	obj.loaded = true
	obj.dirty = false
	return obj, nil
}

func asStub(v any) (types.Reference, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return types.Reference{}, false
	}
	class, _ := m["type"].(string)
	oid, _ := m["oid"].(string)
	if class == "" && oid == "" {
		return types.Reference{}, false
	}
	return types.Reference{Class: class, OID: oid}, true
}
