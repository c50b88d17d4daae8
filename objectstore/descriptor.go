package objectstore

import "github.com/oba-ldap/gobj/types"

// RelationArity distinguishes a singular relation (at most one target) from
// a plural one (an ordered, duplicate-free sequence of targets), §3.
type RelationArity int

const (
	Singular RelationArity = iota
	Plural
)

// RelationDescriptor declares one relation attribute: its arity and the
// class its targets must belong to.
type RelationDescriptor struct {
	Arity  RelationArity
	Target string
}

// IndexerFunc produces the set of index keys an object should be found
// under for one named index, or nil for "no key" (§4.4). It is defined here,
// not in package indexmanager, so ClassDescriptor can reference it without a
// package cycle — indexmanager imports objectstore to supply built-in
// indexer implementations, never the reverse.
type IndexerFunc func(indexName string, obj *Object) ([]string, error)

// IndexHook is notified by Store.Save/Remove so an index manager can keep
// derived lookup tables current without objectstore importing indexmanager.
type IndexHook interface {
	OnSave(obj *Object) error
	OnRemove(obj *Object) error
}

// reserved holds the attribute names every class is forbidden to declare as
// a property or relation (§3).
var reserved = map[string]bool{"type": true, "oid": true, "updates": true}

// IsReserved reports whether name is one of the reserved attribute names.
func IsReserved(name string) bool { return reserved[name] }

// ClassDescriptor is the compile-/load-time schema for one StoredObject
// class: its storage name, key prefix, typed properties, relations, and
// declared indexes (§3).
type ClassDescriptor struct {
	Name       string
	Collection string
	Properties map[string]*types.Type
	Relations  map[string]RelationDescriptor
	IndexBy    map[string]IndexerFunc
}

// NewClassDescriptor builds a descriptor named name, with Collection
// defaulting to name per §3.
func NewClassDescriptor(name string) *ClassDescriptor {
	return &ClassDescriptor{
		Name:       name,
		Collection: name,
		Properties: map[string]*types.Type{},
		Relations:  map[string]RelationDescriptor{},
		IndexBy:    map[string]IndexerFunc{},
	}
}

// WithCollection overrides the storage key prefix.
func (d *ClassDescriptor) WithCollection(collection string) *ClassDescriptor {
	d.Collection = collection
	return d
}

// Property declares a typed property. Panics on a reserved or duplicate
// name — descriptors are built once at registration time, not at request
// time, so failing fast beats threading a build-time error return.
func (d *ClassDescriptor) Property(name string, t *types.Type) *ClassDescriptor {
	if IsReserved(name) {
		panic("objectstore: property name " + name + " is reserved")
	}
	if _, dup := d.Properties[name]; dup {
		panic("objectstore: property " + name + " is declared twice")
	}
	d.Properties[name] = t
	return d
}

// Relation declares a relation attribute of the given arity and target class.
func (d *ClassDescriptor) Relation(name string, arity RelationArity, target string) *ClassDescriptor {
	if IsReserved(name) {
		panic("objectstore: relation name " + name + " is reserved")
	}
	d.Relations[name] = RelationDescriptor{Arity: arity, Target: target}
	return d
}

// Index declares a named index maintained by indexerFn.
func (d *ClassDescriptor) Index(name string, indexerFn IndexerFunc) *ClassDescriptor {
	d.IndexBy[name] = indexerFn
	return d
}
