package rawstore

import (
	"context"
	"sort"
	"strings"
)

// Iter is a lazy, finite sequence of raw objects, mirroring
// objectstore.ObjectIter: each Next pulls one meta record from the backend.
type Iter struct {
	class *Class
	oids  []string
	pos   int
	err   error
}

// All returns a lazy sequence over every raw object of this class.
func (c *Class) All() (*Iter, error) {
	prefix := c.desc.Collection + "/"
	keys, err := c.store.backend.Keys(context.Background(), prefix)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var oids []string
	for _, k := range keys {
		rest := strings.TrimPrefix(k, prefix)
		rest = strings.TrimSuffix(strings.TrimSuffix(rest, ".meta"), ".data")
		if !seen[rest] {
			seen[rest] = true
			oids = append(oids, rest)
		}
	}
	sort.Strings(oids)
	return &Iter{class: c, oids: oids}, nil
}

// Next advances the iterator, returning (nil, false, nil) once exhausted.
func (it *Iter) Next() (*RawObject, bool, error) {
	if it.err != nil {
		return nil, false, it.err
	}
	if it.pos >= len(it.oids) {
		return nil, false, nil
	}
	oid := it.oids[it.pos]
	it.pos++
	obj, err := it.class.Get(oid)
	if err != nil {
		it.err = err
		return nil, false, err
	}
	return obj, true, nil
}
