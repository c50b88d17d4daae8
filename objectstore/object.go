package objectstore

import (
	"context"
	"sync"
	"time"

	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/types"
)

// Object is a live StoredObject instance: identity (class, oid), typed
// properties, relation handles, per-attribute update timestamps, and the
// dirty/loaded flags that drive the save lifecycle (§3).
type Object struct {
	store *Store
	class *ClassDescriptor

	mu         sync.Mutex
	oid        string
	properties map[string]any
	relations  map[string]*Relation
	updates    map[string]time.Time
	dirty      bool
	loaded     bool
}

func newObject(store *Store, class *ClassDescriptor, oid string) *Object {
	o := &Object{
		store:      store,
		class:      class,
		oid:        oid,
		properties: map[string]any{},
		relations:  map[string]*Relation{},
		updates:    map[string]time.Time{},
	}
	for name, desc := range class.Relations {
		o.relations[name] = &Relation{owner: o, name: name, desc: desc}
	}
	return o
}

// OID returns the object's identifier; empty until the first Save.
func (o *Object) OID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.oid
}

// ClassName returns the owning class's storage name.
func (o *Object) ClassName() string { return o.class.Name }

// Descriptor returns the owning class's schema, used by indexmanager to
// look up declared indexers without objectstore depending on it.
func (o *Object) Descriptor() *ClassDescriptor { return o.class }

// IsDirty reports whether the object has unsaved mutations.
func (o *Object) IsDirty() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dirty
}

// Get returns the current value of a declared property.
func (o *Object) Get(name string) (any, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, declared := o.class.Properties[name]; !declared {
		return nil, errs.NewUnknownProperty(o.class.Name, name)
	}
	return o.properties[name], nil
}

// Set validates value against the declared property type, stores the
// canonical form, stamps updates[name], and marks the object dirty.
func (o *Object) Set(name string, value any) error {
	if IsReserved(name) {
		return errs.NewReservedProperty(name)
	}
	t, declared := o.class.Properties[name]
	if !declared {
		return errs.NewUnknownProperty(o.class.Name, name)
	}
	v, err := t.Validate(name, value)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.properties[name] = v
	o.stampLocked(name)
	return nil
}

// Relation returns the live handle for a declared relation attribute.
func (o *Object) Relation(name string) (*Relation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	r, ok := o.relations[name]
	if !ok {
		return nil, errs.NewUnknownProperty(o.class.Name, name)
	}
	return r, nil
}

// Update applies multiple property and/or relation assignments in one call
// (each stamps updates[attr]); it does not save (§4.2). Assignments are
// applied one at a time in map iteration order: if one fails, Update returns
// its error and the assignments already applied stay applied.
func (o *Object) Update(fields map[string]any) error {
	for name, value := range fields {
		if _, isProp := o.class.Properties[name]; isProp {
			if err := o.Set(name, value); err != nil {
				return err
			}
			continue
		}
		if desc, isRel := o.class.Relations[name]; isRel {
			rel, _ := o.Relation(name)
			refs, ok := value.([]types.Reference)
			if !ok {
				if single, ok := value.(types.Reference); ok {
					refs = []types.Reference{single}
				} else {
					return errs.NewInvalidValue(name, "expected types.Reference or []types.Reference")
				}
			}
			if desc.Arity == Singular && len(refs) > 1 {
				return errs.NewInvalidValue(name, "singular relation accepts at most one reference")
			}
			rel.Clear()
			for _, ref := range refs {
				if err := rel.Add(ref); err != nil {
					return err
				}
			}
			continue
		}
		return errs.NewUnknownProperty(o.class.Name, name)
	}
	return nil
}

func (o *Object) stampLocked(attr string) {
	o.dirty = true
	o.updates[attr] = o.store.clock.Now()
	o.store.trackDirty(o)
}

// UpdatedAt returns the timestamp of the most recent mutation of attr.
func (o *Object) UpdatedAt(attr string) (time.Time, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	t, ok := o.updates[attr]
	return t, ok
}

// Save is idempotent if clean. It allocates an OID on first save, writes the
// full serialized record, and notifies the store's index hook (§4.2). The
// dirty-check, serialize, and backend write are one atomic section under
// o.mu, so two concurrent Saves of the same object are totally ordered (§5)
// rather than racing their backend.Update calls. The index hook fires after
// o.mu is released — it resolves objects through Class.Get/OID, which would
// deadlock against a lock its own caller still held.
func (o *Object) Save(ctx context.Context) error {
	o.mu.Lock()
	if !o.dirty && o.loaded {
		o.mu.Unlock()
		return nil
	}
	if o.oid == "" {
		o.oid = o.store.newOID()
	}
	rec, err := o.serializeLocked()
	if err != nil {
		o.mu.Unlock()
		return err
	}
	err = o.store.persist(ctx, o, rec)
	o.mu.Unlock()
	if err != nil {
		return err
	}

	if o.store.hook != nil {
		return o.store.hook.OnSave(o)
	}
	return nil
}

// Remove deletes the backend record and invalidates the identity cache entry
// under o.mu, the same lock Save uses, so a Save and a Remove racing on the
// same object are totally ordered (§5). The in-memory object is left intact
// on backend failure so the caller can retry (§7). The index hook fires
// after o.mu is released, for the same reentrancy reason as Save.
func (o *Object) Remove(ctx context.Context) error {
	o.mu.Lock()
	err := o.store.removeObject(ctx, o)
	o.mu.Unlock()
	if err != nil {
		return err
	}

	if o.store.hook != nil {
		return o.store.hook.OnRemove(o)
	}
	return nil
}

// serializeLocked produces the serialized object record (§6); caller must
// hold o.mu.
func (o *Object) serializeLocked() (map[string]any, error) {
	props := make(map[string]any, len(o.properties))
	for name, v := range o.properties {
		t := o.class.Properties[name]
		sv, err := t.Serialize(v)
		if err != nil {
			return nil, err
		}
		props[name] = sv
	}
	rels := make(map[string]any, len(o.relations))
	for name, r := range o.relations {
		switch r.desc.Arity {
		case Singular:
			if len(r.stubs) == 0 {
				rels[name] = nil
			} else {
				rels[name] = map[string]any{"type": r.stubs[0].Class, "oid": r.stubs[0].OID}
			}
		default:
			stubs := make([]any, len(r.stubs))
			for i, s := range r.stubs {
				stubs[i] = map[string]any{"type": s.Class, "oid": s.OID}
			}
			rels[name] = stubs
		}
	}
	updates := make(map[string]any, len(o.updates))
	for attr, ts := range o.updates {
		updates[attr] = ts.UTC().Format(time.RFC3339Nano)
	}
	return map[string]any{
		"type":       o.class.Name,
		"oid":        o.oid,
		"properties": props,
		"relations":  rels,
		"updates":    updates,
	}, nil
}

// Export returns a primitive snapshot of the object at the given depth
// (§4.2): 0 is {oid,type}; 1 adds properties and relation stubs; 2 replaces
// relation stubs with their own depth-1 exports, cycles broken by visited.
func (o *Object) Export(depth int) (map[string]any, error) {
	return o.export(depth, map[string]bool{})
}

func (o *Object) export(depth int, visited map[string]bool) (map[string]any, error) {
	o.mu.Lock()
	oid, className := o.oid, o.class.Name
	out := map[string]any{"oid": oid, "type": className}
	if depth == 0 {
		o.mu.Unlock()
		return out, nil
	}

	props := make(map[string]any, len(o.properties))
	for k, v := range o.properties {
		sv, err := o.class.Properties[k].Serialize(v)
		if err != nil {
			o.mu.Unlock()
			return nil, err
		}
		props[k] = sv
	}
	out["properties"] = props

	relOut := make(map[string]any, len(o.relations))
	key := className + "/" + oid
	visited[key] = true
	relSnapshot := make(map[string]*Relation, len(o.relations))
	for name, r := range o.relations {
		relSnapshot[name] = r
	}
	o.mu.Unlock()

	for name, r := range relSnapshot {
		stubs := r.Stubs()
		if depth == 1 || len(stubs) == 0 {
			rendered := make([]any, len(stubs))
			for i, s := range stubs {
				rendered[i] = map[string]any{"type": s.Class, "oid": s.OID}
			}
			if r.desc.Arity == Singular {
				if len(rendered) == 0 {
					relOut[name] = nil
				} else {
					relOut[name] = rendered[0]
				}
			} else {
				relOut[name] = rendered
			}
			continue
		}

		rendered := make([]any, 0, len(stubs))
		for _, s := range stubs {
			childKey := s.Class + "/" + s.OID
			if visited[childKey] {
				rendered = append(rendered, map[string]any{"oid": s.OID, "type": s.Class})
				continue
			}
			cls, err := o.store.Class(s.Class)
			if err != nil {
				rendered = append(rendered, map[string]any{"oid": s.OID, "type": s.Class})
				continue
			}
			child, err := cls.Get(s.OID)
			if err != nil {
				rendered = append(rendered, map[string]any{"oid": s.OID, "type": s.Class})
				continue
			}
			childExport, err := child.export(1, visited)
			if err != nil {
				return nil, err
			}
			rendered = append(rendered, childExport)
		}
		if r.desc.Arity == Singular {
			if len(rendered) == 0 {
				relOut[name] = nil
			} else {
				relOut[name] = rendered[0]
			}
		} else {
			relOut[name] = rendered
		}
	}
	out["relations"] = relOut
	return out, nil
}
