// Package process tracks live component handles and implements
// stop-by-class-identity teardown.
//
// Every stop is best-effort: a component that fails to stop cleanly never
// prevents the remaining handles from being stopped.
package process

import (
	"errors"
	"sync"

	"cadenza/internal/component"
)

// Tracker records live component handles by class identity.
type Tracker struct {
	mu      sync.Mutex
	handles []*component.Handle
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Track registers a started component handle.
func (t *Tracker) Track(handle *component.Handle) {
	if handle == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handles = append(t.handles, handle)
}

// Live returns the number of tracked handles.
func (t *Tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handles)
}

// StopByClass stops and forgets every live handle of the given class. Absent
// classes are a no-op. Stop failures are collected, never fatal.
func (t *Tracker) StopByClass(class string) error {
	return t.stopMatching(func(h *component.Handle) bool {
		return h.Class == class
	})
}

// StopByKind stops and forgets every live handle of the given kind.
func (t *Tracker) StopByKind(kind component.Kind) error {
	return t.stopMatching(func(h *component.Handle) bool {
		return h.Kind == kind
	})
}

// StopRemaining sweeps every handle still alive, in reverse start order.
func (t *Tracker) StopRemaining() error {
	return t.stopMatching(func(*component.Handle) bool { return true })
}

func (t *Tracker) stopMatching(match func(*component.Handle) bool) error {
	t.mu.Lock()
	var victims []*component.Handle
	kept := t.handles[:0]
	for _, handle := range t.handles {
		if match(handle) {
			victims = append(victims, handle)
		} else {
			kept = append(kept, handle)
		}
	}
	t.handles = kept
	t.mu.Unlock()

	var errs []error
	for i := len(victims) - 1; i >= 0; i-- {
		if err := victims[i].Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
