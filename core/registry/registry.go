package registry

import (
	"fmt"
	"sync"
)

// Handle addresses one slot of a Registry. The generation makes a handle to
// a detached slot invalid even after the slot is reused.
type Handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h was never issued by a registry.
func (h Handle) IsZero() bool {
	return h.generation == 0
}

// String formats the handle for logs.
func (h Handle) String() string {
	return fmt.Sprintf("%d@%d", h.index, h.generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Registry owns values in an arena of slots. Attach and Detach are O(1);
// a stale handle is reported instead of aliasing a newer value.
type Registry[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	free  []uint32
	count int
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Attach stores v and returns its handle.
func (r *Registry[T]) Attach(v T) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.slots = append(r.slots, slot[T]{})
		idx = uint32(len(r.slots) - 1)
	}

	s := &r.slots[idx]
	s.generation++
	if s.generation == 0 {
		// Zero is reserved for the zero Handle.
		s.generation = 1
	}
	s.value = v
	s.occupied = true
	r.count++
	return Handle{index: idx, generation: s.generation}
}

// Detach removes the value addressed by h. It is safe to call with a stale or
// zero handle, in which case it returns false.
func (r *Registry[T]) Detach(h Handle) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	s, ok := r.lookup(h)
	if !ok {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.occupied = false
	r.free = append(r.free, h.index)
	r.count--
	return v, true
}

// Get returns the value addressed by h.
func (r *Registry[T]) Get(h Handle) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.lookup(h)
	if !ok {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Contains reports whether h addresses a live value.
func (r *Registry[T]) Contains(h Handle) bool {
	_, ok := r.Get(h)
	return ok
}

// Len returns the number of live values.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// ForEach calls visit for every live value until visit returns false. It
// works on a snapshot, so visit may attach or detach.
func (r *Registry[T]) ForEach(visit func(Handle, T) bool) {
	type entry struct {
		h Handle
		v T
	}

	r.mu.RLock()
	snapshot := make([]entry, 0, r.count)
	for i := range r.slots {
		s := &r.slots[i]
		if s.occupied {
			snapshot = append(snapshot, entry{h: Handle{index: uint32(i), generation: s.generation}, v: s.value})
		}
	}
	r.mu.RUnlock()

	for _, e := range snapshot {
		if !visit(e.h, e.v) {
			return
		}
	}
}

func (r *Registry[T]) lookup(h Handle) (*slot[T], bool) {
	if h.IsZero() || int(h.index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return nil, false
	}
	return s, true
}
