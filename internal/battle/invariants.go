package battle

import (
	"errors"
	"fmt"
)

// CheckInvariants verifies the queue, room table and index agree with each
// other. A non-nil result wraps ErrInvariant and means a bug.
func (e *Engine) CheckInvariants() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...))
	}

	for _, id := range e.queue.Snapshot() {
		if _, ok := e.conns[id]; !ok {
			fail("queued connection %s is not registered", id)
		}
		if roomID, ok := e.registry.roomOf[id]; ok {
			fail("connection %s is both queued and in room %s", id, roomID)
		}
	}

	seen := make(map[string]string)
	e.registry.each(func(r *Room) {
		if len(r.Members) > 2 {
			fail("room %s has %d members", r.ID, len(r.Members))
		}
		for id := range r.ready {
			if !r.Has(id) {
				fail("room %s has ready non-member %s", r.ID, id)
			}
		}
		if r.Started && len(r.ready) != len(r.Members) {
			fail("room %s started with %d of %d ready", r.ID, len(r.ready), len(r.Members))
		}
		for _, m := range r.Members {
			if other, dup := seen[m]; dup {
				fail("connection %s in rooms %s and %s", m, other, r.ID)
			}
			seen[m] = r.ID
			if e.registry.roomOf[m] != r.ID {
				fail("index for %s points to %q, want %s", m, e.registry.roomOf[m], r.ID)
			}
			if _, ok := e.conns[m]; !ok {
				fail("room %s keeps closed connection %s", r.ID, m)
			}
		}
	})
	for connID, roomID := range e.registry.roomOf {
		if seen[connID] != roomID {
			fail("stale index entry %s -> %s", connID, roomID)
		}
	}

	return errors.Join(errs...)
}
