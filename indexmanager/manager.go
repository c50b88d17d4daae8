// Package indexmanager maintains derived key->{OID} reverse mappings per
// declared index (§4.4). It hooks Store.Save/Remove through
// objectstore.IndexHook to update incrementally, and supports full rebuild.
// Each logical (class, index) bucket is itself persisted through the one
// kv.Backend passed to New, which may be the same one the object store runs
// on.
package indexmanager

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/kv"
	"github.com/oba-ldap/gobj/objectstore"
)

type tracked struct {
	class *objectstore.Class
}

// Manager coordinates every declared index across the classes it tracks.
// mu guards classes: Track writes it, Bucket lookups and Rebuild read it,
// and nothing may observe a concurrent write as a plain map read. OnSave and
// OnRemove hold mu for their whole bucket read-modify-write (§5 "index
// updates acquire the index manager's own mutex after the object store
// mutex").
type Manager struct {
	backend kv.Backend

	mu      sync.RWMutex
	classes map[string]tracked
}

// New constructs a Manager persisting index buckets through backend.
func New(backend kv.Backend) *Manager {
	return &Manager{backend: backend, classes: map[string]tracked{}}
}

// Track registers class so its declared indexes are maintained. The class's
// Store must have been constructed with this Manager as its IndexHook for
// incremental updates to fire; Rebuild works regardless.
func (m *Manager) Track(class *objectstore.Class) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes[class.Descriptor().Name] = tracked{class: class}
}

// trackedClass looks up a tracked class by name under the read lock.
func (m *Manager) trackedClass(name string) (tracked, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.classes[name]
	return t, ok
}

// Bucket returns the query handle for one (class, index) pair.
func (m *Manager) Bucket(class, indexName string) *Bucket {
	return &Bucket{mgr: m, class: class, index: indexName}
}

// OnSave implements objectstore.IndexHook: it diffs the keys obj now
// produces for each declared index of its class against what was last
// recorded for its OID, patching only the difference (§4.4 "Incremental
// update").
func (m *Manager) OnSave(obj *objectstore.Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	desc := obj.Descriptor()
	ctx := context.Background()
	for name, indexerFn := range desc.IndexBy {
		newKeys, err := indexerFn(name, obj)
		if err != nil {
			return err
		}
		newKeys = dedupe(newKeys)
		oldKeys, err := m.loadReverse(ctx, desc.Name, name, obj.OID())
		if err != nil {
			return err
		}
		toAdd, toRemove := diff(oldKeys, newKeys)
		for _, key := range toRemove {
			if err := m.removeFromBucket(ctx, desc.Name, name, key, obj.OID()); err != nil {
				return err
			}
		}
		for _, key := range toAdd {
			if err := m.addToBucket(ctx, desc.Name, name, key, obj.OID()); err != nil {
				return err
			}
		}
		if err := m.storeReverse(ctx, desc.Name, name, obj.OID(), newKeys); err != nil {
			return err
		}
	}
	return nil
}

// OnRemove implements objectstore.IndexHook: it removes obj's OID from
// every key it appeared under, across every declared index of its class.
func (m *Manager) OnRemove(obj *objectstore.Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	desc := obj.Descriptor()
	ctx := context.Background()
	for name := range desc.IndexBy {
		oldKeys, err := m.loadReverse(ctx, desc.Name, name, obj.OID())
		if err != nil {
			return err
		}
		for _, key := range oldKeys {
			if err := m.removeFromBucket(ctx, desc.Name, name, key, obj.OID()); err != nil {
				return err
			}
		}
		if err := m.deleteReverse(ctx, desc.Name, name, obj.OID()); err != nil {
			return err
		}
	}
	return nil
}

// Rebuild drops every index bucket for tracked classes, then replays
// indexing by scanning each class's All(). Not concurrent-safe with
// writers; callers must quiesce (§4.4).
func (m *Manager) Rebuild(sync bool) error {
	ctx := context.Background()
	m.mu.RLock()
	snapshot := make(map[string]tracked, len(m.classes))
	for name, t := range m.classes {
		snapshot[name] = t
	}
	m.mu.RUnlock()

	for className, t := range snapshot {
		for indexName := range t.class.Descriptor().IndexBy {
			if err := m.dropBucket(ctx, className, indexName); err != nil {
				return err
			}
		}
		it, err := t.class.All()
		if err != nil {
			return err
		}
		for {
			obj, ok, err := it.Next()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			if err := m.OnSave(obj); err != nil {
				return err
			}
		}
	}
	if sync {
		return m.backend.Sync(ctx)
	}
	return nil
}

func (m *Manager) dropBucket(ctx context.Context, class, indexName string) error {
	prefix := kv.IndexPrefix(class, indexName)
	keys, err := m.backend.Keys(ctx, prefix)
	if err != nil {
		return errs.NewBackendFailure(prefix, err)
	}
	for _, k := range keys {
		if err := m.backend.Remove(ctx, k); err != nil {
			return errs.NewBackendFailure(k, err)
		}
	}
	revPrefix := reversePrefix(class, indexName)
	revKeys, err := m.backend.Keys(ctx, revPrefix)
	if err != nil {
		return errs.NewBackendFailure(revPrefix, err)
	}
	for _, k := range revKeys {
		if err := m.backend.Remove(ctx, k); err != nil {
			return errs.NewBackendFailure(k, err)
		}
	}
	return nil
}

func (m *Manager) loadBucketOIDs(ctx context.Context, class, indexName, key string) ([]string, error) {
	bucketKey := kv.IndexKey(class, indexName, key)
	payload, ok, err := m.backend.Get(ctx, bucketKey)
	if err != nil {
		return nil, errs.NewBackendFailure(bucketKey, err)
	}
	if !ok {
		return nil, nil
	}
	var oids []string
	if err := json.Unmarshal(payload, &oids); err != nil {
		return nil, err
	}
	return oids, nil
}

func (m *Manager) addToBucket(ctx context.Context, class, indexName, key, oid string) error {
	oids, err := m.loadBucketOIDs(ctx, class, indexName, key)
	if err != nil {
		return err
	}
	for _, existing := range oids {
		if existing == oid {
			return nil // insertion order preserved, duplicates suppressed
		}
	}
	oids = append(oids, oid)
	return m.saveBucket(ctx, class, indexName, key, oids)
}

func (m *Manager) removeFromBucket(ctx context.Context, class, indexName, key, oid string) error {
	oids, err := m.loadBucketOIDs(ctx, class, indexName, key)
	if err != nil {
		return err
	}
	out := oids[:0]
	for _, existing := range oids {
		if existing != oid {
			out = append(out, existing)
		}
	}
	if len(out) == 0 {
		bucketKey := kv.IndexKey(class, indexName, key)
		if err := m.backend.Remove(ctx, bucketKey); err != nil {
			return errs.NewBackendFailure(bucketKey, err)
		}
		return nil
	}
	return m.saveBucket(ctx, class, indexName, key, out)
}

func (m *Manager) saveBucket(ctx context.Context, class, indexName, key string, oids []string) error {
	payload, err := json.Marshal(oids)
	if err != nil {
		return err
	}
	bucketKey := kv.IndexKey(class, indexName, key)
	if err := m.backend.Update(ctx, bucketKey, payload); err != nil {
		return errs.NewBackendFailure(bucketKey, err)
	}
	return nil
}

func reversePrefix(class, indexName string) string {
	return class + "/" + indexName + "/__rev__/"
}

func (m *Manager) loadReverse(ctx context.Context, class, indexName, oid string) ([]string, error) {
	key := reversePrefix(class, indexName) + oid
	payload, ok, err := m.backend.Get(ctx, key)
	if err != nil {
		return nil, errs.NewBackendFailure(key, err)
	}
	if !ok {
		return nil, nil
	}
	var keys []string
	if err := json.Unmarshal(payload, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (m *Manager) storeReverse(ctx context.Context, class, indexName, oid string, keys []string) error {
	key := reversePrefix(class, indexName) + oid
	if len(keys) == 0 {
		return m.deleteReverse(ctx, class, indexName, oid)
	}
	payload, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	if err := m.backend.Update(ctx, key, payload); err != nil {
		return errs.NewBackendFailure(key, err)
	}
	return nil
}

func (m *Manager) deleteReverse(ctx context.Context, class, indexName, oid string) error {
	key := reversePrefix(class, indexName) + oid
	if err := m.backend.Remove(ctx, key); err != nil {
		return errs.NewBackendFailure(key, err)
	}
	return nil
}

func dedupe(keys []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func diff(old, new_ []string) (toAdd, toRemove []string) {
	oldSet := map[string]bool{}
	for _, k := range old {
		oldSet[k] = true
	}
	newSet := map[string]bool{}
	for _, k := range new_ {
		newSet[k] = true
	}
	for _, k := range new_ {
		if !oldSet[k] {
			toAdd = append(toAdd, k)
		}
	}
	for _, k := range old {
		if !newSet[k] {
			toRemove = append(toRemove, k)
		}
	}
	sort.Strings(toAdd)
	sort.Strings(toRemove)
	return
}
