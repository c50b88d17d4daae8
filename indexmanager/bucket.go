package indexmanager

import (
	"context"
	"sort"
	"strings"

	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/kv"
	"github.com/oba-ldap/gobj/objectstore"
)

// Bucket is the query handle for one (class, index) pair — indexes.Class.by
// .index_name in the spec's notation (§4.4).
type Bucket struct {
	mgr   *Manager
	class string
	index string
}

// ResultIter lazily yields live objects (or raw OIDs) in insertion order.
type ResultIter struct {
	bucket  *Bucket
	oids    []string
	pos     int
	restore bool
}

// Next advances the iterator. When restore is true it resolves each OID
// through the tracked class's Get; a dangling OID surfaces its NotFound
// error rather than aborting the sequence's earlier items (§7).
func (it *ResultIter) Next() (obj *objectstore.Object, oid string, ok bool, err error) {
	if it.pos >= len(it.oids) {
		return nil, "", false, nil
	}
	oid = it.oids[it.pos]
	it.pos++
	if !it.restore {
		return nil, oid, true, nil
	}
	t, ok := it.bucket.mgr.trackedClass(it.bucket.class)
	if !ok {
		return nil, oid, false, errs.NewNotRegistered(it.bucket.class)
	}
	obj, err = t.class.Get(oid)
	if err != nil {
		return nil, oid, false, err
	}
	return obj, oid, true, nil
}

// Get returns a lazy sequence over key's members, live objects unless
// restore is false (§4.4).
func (b *Bucket) Get(key string, restore bool) (*ResultIter, error) {
	oids, err := b.mgr.loadBucketOIDs(context.Background(), b.class, b.index, key)
	if err != nil {
		return nil, err
	}
	return &ResultIter{bucket: b, oids: oids, restore: restore}, nil
}

// One returns the nth (0-based) member under key, or NotFound.
func (b *Bucket) One(key string, index int) (*objectstore.Object, error) {
	oids, err := b.mgr.loadBucketOIDs(context.Background(), b.class, b.index, key)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(oids) {
		return nil, errs.NewNotFound(b.class, key)
	}
	t, ok := b.mgr.trackedClass(b.class)
	if !ok {
		return nil, errs.NewNotRegistered(b.class)
	}
	return t.class.Get(oids[index])
}

// Has reports whether key has any members.
func (b *Bucket) Has(key string) (bool, error) {
	oids, err := b.mgr.loadBucketOIDs(context.Background(), b.class, b.index, key)
	if err != nil {
		return false, err
	}
	return len(oids) > 0, nil
}

// Count returns the number of members under key.
func (b *Bucket) Count(key string) (int, error) {
	oids, err := b.mgr.loadBucketOIDs(context.Background(), b.class, b.index, key)
	if err != nil {
		return 0, err
	}
	return len(oids), nil
}

// Keys returns every index key currently populated in this bucket.
func (b *Bucket) Keys() ([]string, error) {
	prefix := kv.IndexPrefix(b.class, b.index)
	rawKeys, err := b.mgr.backend.Keys(context.Background(), prefix)
	if err != nil {
		return nil, errs.NewBackendFailure(prefix, err)
	}
	var keys []string
	for _, k := range rawKeys {
		rest := strings.TrimPrefix(k, prefix)
		if strings.HasPrefix(rest, "__rev__/") {
			continue
		}
		keys = append(keys, kv.UnescapeIndexValue(rest))
	}
	return keys, nil
}

// List returns a page of index keys in [start, end], ascending or
// descending (§4.4).
func (b *Bucket) List(start, end string, count int, order string) ([]string, error) {
	keys, err := b.Keys()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	if order == "desc" {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}
	var out []string
	for _, k := range keys {
		if start != "" {
			if order == "desc" {
				if k > start {
					continue
				}
			} else if k < start {
				continue
			}
		}
		if end != "" {
			if order == "desc" {
				if k < end {
					break
				}
			} else if k > end {
				break
			}
		}
		out = append(out, k)
		if count > 0 && len(out) >= count {
			break
		}
	}
	return out, nil
}
