// Package memkv is an in-memory kv.Backend: a map guarded by a mutex, whose
// Keys are returned in sorted order.
// It advertises no optional capabilities and holds nothing across process
// restarts — useful for tests and for scratch stores that are rebuilt on
// every start.
package memkv

import (
	"context"
	"sort"
	"sync"

	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/kv"
)

// Backend is a process-local kv.Backend backed by a Go map.
type Backend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New constructs an empty Backend.
func New() *Backend {
	return &Backend{data: map[string][]byte{}}
}

var _ kv.Backend = (*Backend)(nil)

// Add implements kv.Backend.
func (b *Backend) Add(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.data[key]; exists {
		return errs.NewAlreadyExists("", key)
	}
	b.data[key] = append([]byte(nil), value...)
	return nil
}

// Update implements kv.Backend.
func (b *Backend) Update(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]byte(nil), value...)
	return nil
}

// Get implements kv.Backend.
func (b *Backend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Has implements kv.Backend.
func (b *Backend) Has(_ context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.data[key]
	return ok, nil
}

// Remove implements kv.Backend.
func (b *Backend) Remove(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

// Keys implements kv.Backend, returning a sorted snapshot under prefix.
func (b *Backend) Keys(_ context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []string
	for k := range b.data {
		if len(prefix) == 0 || (len(k) >= len(prefix) && k[:len(prefix)] == prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Sync is a no-op; there is nothing durable to flush.
func (b *Backend) Sync(_ context.Context) error { return nil }

// Clear implements kv.Backend.
func (b *Backend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = map[string][]byte{}
	return nil
}

// Capabilities implements kv.Backend; memkv advertises nothing optional.
func (b *Backend) Capabilities() map[kv.Capability]bool { return nil }
