package objectstore

import (
	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/types"
)

// Relation is a live handle onto one relation attribute. Only (class, oid)
// stubs are held at rest (§4.2 "Lazy relations") — resolving a stub to a
// live *Object goes back through the owning Store's Class(target).Get.
type Relation struct {
	owner *Object
	name  string
	desc  RelationDescriptor
	stubs []types.Reference
}

// Stubs returns the relation's current (class, oid) pairs in insertion
// order. Locks the owner, the same as Add/Remove/Clear, so it never
// observes a half-appended slice.
func (r *Relation) Stubs() []types.Reference {
	r.owner.mu.Lock()
	defer r.owner.mu.Unlock()
	out := make([]types.Reference, len(r.stubs))
	copy(out, r.stubs)
	return out
}

// Len returns the number of targets currently held.
func (r *Relation) Len() int {
	r.owner.mu.Lock()
	defer r.owner.mu.Unlock()
	return len(r.stubs)
}

// Add appends ref to a plural relation, or replaces the single target of a
// singular one. Duplicates are suppressed for plural relations (§3, §8
// scenario 3). The whole read-modify-write is done under the owner's lock
// (§5), not just the timestamp stamp, so concurrent Add/Remove calls on the
// same relation can't race on the duplicate-check-then-append.
func (r *Relation) Add(ref types.Reference) error {
	if r.desc.Target != "" && ref.Class != r.desc.Target {
		return errs.NewRelationTypeMismatch(r.name, r.desc.Target, ref.Class)
	}
	r.owner.mu.Lock()
	defer r.owner.mu.Unlock()
	if r.desc.Arity == Singular {
		r.stubs = []types.Reference{ref}
	} else {
		for _, existing := range r.stubs {
			if existing == ref {
				return nil // duplicate add is a no-op, not an error
			}
		}
		r.stubs = append(r.stubs, ref)
	}
	r.owner.stampLocked(r.name)
	return nil
}

// Remove drops ref from the relation, if present.
func (r *Relation) Remove(ref types.Reference) {
	r.owner.mu.Lock()
	defer r.owner.mu.Unlock()
	out := r.stubs[:0]
	for _, existing := range r.stubs {
		if existing != ref {
			out = append(out, existing)
		}
	}
	r.stubs = out
	r.owner.stampLocked(r.name)
}

// Clear empties the relation.
func (r *Relation) Clear() {
	r.owner.mu.Lock()
	defer r.owner.mu.Unlock()
	r.stubs = nil
	r.owner.stampLocked(r.name)
}

// Resolve materializes every stub into a live *Object by calling Get on the
// target class through the owner's store. A dangling stub fails with
// NotFound rather than aborting the whole resolution (§9 open question:
// back-links are not maintained, so stubs may dangle).
func (r *Relation) Resolve() ([]*Object, []error) {
	objs := make([]*Object, 0, len(r.stubs))
	var errs []error
	for _, stub := range r.stubs {
		cls, err := r.owner.store.Class(stub.Class)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		obj, err := cls.Get(stub.OID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		objs = append(objs, obj)
	}
	return objs, errs
}
