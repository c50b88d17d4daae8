package objectstore

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
)

// Scope is a scoped save block (§4.2): entering it captures the dirty
// objects touched while it is active; leaving it saves them each exactly
// once, in unspecified order. Only one scope may be active on a Store at a
// time — nesting is not supported, matching the spec's single-block model.
type Scope struct {
	store *Store

	mu      sync.Mutex
	touched map[*Object]struct{}
}

func (sc *Scope) add(obj *Object) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.touched == nil {
		sc.touched = map[*Object]struct{}{}
	}
	sc.touched[obj] = struct{}{}
}

func (sc *Scope) flush(ctx context.Context) error {
	sc.mu.Lock()
	objs := make([]*Object, 0, len(sc.touched))
	for obj := range sc.touched {
		objs = append(objs, obj)
	}
	sc.mu.Unlock()

	for _, obj := range objs {
		if err := obj.Save(ctx); err != nil {
			return errors.Wrapf(err, "objectstore: scoped save failed for %s/%s", obj.ClassName(), obj.OID())
		}
	}
	return nil
}

// Do runs fn inside a new scope on s, then flushes every object mutated
// during fn. If a save fails partway through, objects already saved stay
// saved (§4.2); the returned error names the offending object.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	scope := &Scope{store: s}

	s.scopeMu.Lock()
	prev := s.activeScope
	s.activeScope = scope
	s.scopeMu.Unlock()
	defer func() {
		s.scopeMu.Lock()
		s.activeScope = prev
		s.scopeMu.Unlock()
	}()

	if err := fn(ctx); err != nil {
		return err
	}
	return scope.flush(ctx)
}
