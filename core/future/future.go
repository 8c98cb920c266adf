package future

import (
	"context"
	"errors"
	"sync"
)

// ErrAborted is returned by Wait when the abort channel closes before the
// future resolves.
var ErrAborted = errors.New("future: wait aborted")

// Future is the read side of a one-shot result.
type Future[T any] struct {
	mu    sync.Mutex
	ready bool
	value T
	conts []func(T)
	done  chan struct{}
}

// Promise is the write side of a one-shot result. It must be resolved exactly
// once; later calls to Resolve are ignored.
type Promise[T any] struct {
	f *Future[T]
}

// NewPromise creates an unresolved promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{f: &Future[T]{done: make(chan struct{})}}
}

// Resolved returns a future that is already resolved with v.
func Resolved[T any](v T) *Future[T] {
	p := NewPromise[T]()
	p.Resolve(v)
	return p.Future()
}

// Future returns the future bound to this promise.
func (p *Promise[T]) Future() *Future[T] {
	return p.f
}

// Resolve stores v and runs every registered continuation on the calling
// goroutine. It returns false if the promise was already resolved.
func (p *Promise[T]) Resolve(v T) bool {
	f := p.f
	f.mu.Lock()
	if f.ready {
		f.mu.Unlock()
		return false
	}
	f.ready = true
	f.value = v
	conts := f.conts
	f.conts = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range conts {
		fn(v)
	}
	return true
}

// IsReady reports whether the future has been resolved.
func (f *Future[T]) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

// Then registers fn to run once with the resolved value. If the future is
// already resolved fn runs inline before Then returns.
func (f *Future[T]) Then(fn func(T)) {
	f.mu.Lock()
	if f.ready {
		v := f.value
		f.mu.Unlock()
		fn(v)
		return
	}
	f.conts = append(f.conts, fn)
	f.mu.Unlock()
}

// ThenAsync is Then with fn started on its own goroutine. Continuations
// that block, or wait on work owned by the resolving goroutine, go here.
func (f *Future[T]) ThenAsync(fn func(T)) {
	f.Then(func(v T) { go fn(v) })
}

// Get blocks until the future resolves and returns its value.
func (f *Future[T]) Get() T {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Done returns a channel closed on resolution.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves, ctx is cancelled or abort closes.
// A nil abort channel is never selected.
func (f *Future[T]) Wait(ctx context.Context, abort <-chan struct{}) (T, error) {
	select {
	case <-f.done:
		return f.Get(), nil
	default:
	}

	var zero T
	select {
	case <-f.done:
		return f.Get(), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-abort:
		// Resolution and shutdown can race; prefer the value.
		if f.IsReady() {
			return f.Get(), nil
		}
		return zero, ErrAborted
	}
}

// Map returns a future resolved with fn applied to f's value.
func Map[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	p := NewPromise[U]()
	f.Then(func(v T) { p.Resolve(fn(v)) })
	return p.Future()
}
