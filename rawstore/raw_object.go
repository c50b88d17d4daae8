package rawstore

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/kv"
)

// RawObject is a live StoredRaw instance: a data blob and a sibling JSON-like
// metadata record, always created and removed together (§3).
type RawObject struct {
	store *Store
	class *Class
	oid   string

	meta       map[string]any
	metaLoaded bool
	metaDirty  bool

	data       []byte
	dataLoaded bool
	dataDirty  bool
}

// OID returns the object's identifier; empty until the first Save.
func (r *RawObject) OID() string { return r.oid }

// Meta reads a metadata field, or all of them when name is empty.
func (r *RawObject) Meta(name string) (any, bool) {
	if name == "" {
		return r.meta, r.meta != nil
	}
	v, ok := r.meta[name]
	return v, ok
}

// SetMeta writes one metadata field and marks the object dirty.
func (r *RawObject) SetMeta(name string, value any) {
	if r.meta == nil {
		r.meta = map[string]any{}
	}
	r.meta[name] = value
	r.metaDirty = true
}

// SetMetaFields bulk-writes metadata fields and marks the object dirty.
func (r *RawObject) SetMetaFields(fields map[string]any) {
	if r.meta == nil {
		r.meta = map[string]any{}
	}
	for k, v := range fields {
		r.meta[k] = v
	}
	r.metaDirty = true
}

// SetData replaces the blob in full; it is written on the next Save.
func (r *RawObject) SetData(data []byte) {
	r.data = data
	r.dataLoaded = true
	r.dataDirty = true
}

// LoadData materializes the full blob. Intended only for small blobs (§4.3);
// use Data for large ones.
func (r *RawObject) LoadData() ([]byte, error) {
	if r.dataLoaded {
		return r.data, nil
	}
	key := kv.RawDataKey(r.class.desc.Collection, r.oid)
	payload, ok, err := r.store.backend.Get(context.Background(), key)
	if err != nil {
		return nil, errs.NewBackendFailure(key, err)
	}
	if !ok {
		payload = nil
	}
	r.data = payload
	r.dataLoaded = true
	return r.data, nil
}

// ChunkIter yields fixed-size chunks of a blob that has already been read
// into memory; each chunk is a slice of that buffer, not a copy (§4.3, §8
// "data(chunk_size)").
type ChunkIter struct {
	data      []byte
	chunkSize int
	pos       int
}

// Next returns the next chunk, or (nil, false) once exhausted. An empty blob
// yields zero chunks (§8 boundary behavior).
func (it *ChunkIter) Next() ([]byte, bool) {
	if it.pos >= len(it.data) {
		return nil, false
	}
	end := it.pos + it.chunkSize
	if end > len(it.data) {
		end = len(it.data)
	}
	chunk := it.data[it.pos:end]
	it.pos = end
	return chunk, true
}

// Data returns a lazy finite sequence of chunkSize byte buffers covering the
// blob. The current implementation reads the blob into memory once (the
// backend interface has no range-read primitive) and slices it lazily; a
// backend that exposed chunked reads natively could stream instead without
// changing this method's signature.
func (r *RawObject) Data(chunkSize int) (*ChunkIter, error) {
	if chunkSize <= 0 {
		chunkSize = 64 * 1024
	}
	data, err := r.LoadData()
	if err != nil {
		return nil, err
	}
	return &ChunkIter{data: data, chunkSize: chunkSize}, nil
}

// Path delegates to the backend's capability probe, succeeding only when
// the backend advertises Filesystem (§4.3, §6).
func (r *RawObject) Path() (string, error) {
	probe, ok := r.store.backend.(kv.PathProbe)
	if !ok || !kv.HasCapability(r.store.backend, kv.CapFilesystem) {
		return "", errs.NewUnsupported(string(kv.CapFilesystem))
	}
	key := kv.RawDataKey(r.class.desc.Collection, r.oid)
	path, err := probe.Path(context.Background(), key)
	if err != nil {
		return "", errs.NewBackendFailure(key, err)
	}
	return path, nil
}

// Save writes or overwrites both sibling records. If data was not touched
// since load, it is not rewritten (§4.3). The first save of a new object
// always writes the data record, empty if no data was set.
func (r *RawObject) Save(ctx context.Context) error {
	isNew := !r.metaLoaded
	if r.oid == "" {
		r.oid = uuid.NewString()
	}
	if r.meta == nil {
		r.meta = map[string]any{}
	}
	metaPayload, err := json.Marshal(r.meta)
	if err != nil {
		return err
	}
	metaKey := kv.RawMetaKey(r.class.desc.Collection, r.oid)
	if err := r.store.backend.Update(ctx, metaKey, metaPayload); err != nil {
		return errs.NewBackendFailure(metaKey, err)
	}
	r.metaDirty = false
	r.metaLoaded = true

	if r.dataDirty || isNew {
		dataKey := kv.RawDataKey(r.class.desc.Collection, r.oid)
		data := r.data
		if data == nil {
			data = []byte{}
		}
		if err := r.store.backend.Update(ctx, dataKey, data); err != nil {
			return errs.NewBackendFailure(dataKey, err)
		}
		r.dataDirty = false
	}
	return nil
}

// Remove deletes both sibling records together (§3, §4.3).
func (r *RawObject) Remove(ctx context.Context) error {
	dataKey := kv.RawDataKey(r.class.desc.Collection, r.oid)
	metaKey := kv.RawMetaKey(r.class.desc.Collection, r.oid)
	if err := r.store.backend.Remove(ctx, dataKey); err != nil {
		return errs.NewBackendFailure(dataKey, err)
	}
	if err := r.store.backend.Remove(ctx, metaKey); err != nil {
		return errs.NewBackendFailure(metaKey, err)
	}
	return nil
}
