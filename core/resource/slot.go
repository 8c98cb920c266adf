package resource

import (
	"audio-loader/core/cooked"
	"audio-loader/core/future"
)

// Slot owns at most one pending or loaded handle, such as the current init
// bank. The value is only read and written on the manager's queue.
type Slot[R cooked.Record] struct {
	m       *Manager
	current *future.Future[*Handle[R]]
}

// NewSlot creates an empty slot.
func NewSlot[R cooked.Record](m *Manager) *Slot[R] {
	return &Slot[R]{m: m}
}

// Swap stores next and resolves with the previous value, which the caller
// now owns. next may be nil to empty the slot.
func (s *Slot[R]) Swap(next *future.Future[*Handle[R]]) *future.Future[*future.Future[*Handle[R]]] {
	p := future.NewPromise[*future.Future[*Handle[R]]]()
	accepted := s.m.q.Async(func() {
		prev := s.current
		s.current = next
		p.Resolve(prev)
	})
	if !accepted {
		p.Resolve(nil)
	}
	return p.Future()
}

// Take empties the slot and resolves with what it held.
func (s *Slot[R]) Take() *future.Future[*future.Future[*Handle[R]]] {
	return s.Swap(nil)
}

// Replace stores next and unloads the previous value. The future resolves
// once the previous value is unloaded.
func (s *Slot[R]) Replace(next *future.Future[*Handle[R]]) *future.Future[struct{}] {
	p := future.NewPromise[struct{}]()
	s.Swap(next).Then(func(prev *future.Future[*Handle[R]]) {
		if prev == nil {
			p.Resolve(struct{}{})
			return
		}
		unload(s.m, prev).Then(func(struct{}) { p.Resolve(struct{}{}) })
	})
	return p.Future()
}
