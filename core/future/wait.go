package future

// WaitForAll calls cont once every future in futures has resolved.
//
// Futures are scanned in order. A resolved head is skipped in the same loop
// iteration, so a list of already-completed dependencies finishes without
// registering a single continuation. Only a pending head suspends the scan,
// which resumes from the next element when it resolves.
func WaitForAll[T any](futures []*Future[T], cont func()) {
	waitFrom(futures, 0, cont)
}

func waitFrom[T any](futures []*Future[T], i int, cont func()) {
	for ; i < len(futures); i++ {
		f := futures[i]
		if f.IsReady() {
			continue
		}
		next := i + 1
		f.Then(func(T) { waitFrom(futures, next, cont) })
		return
	}
	cont()
}

// All resolves with the values of futures, in order, once all have resolved.
func All[T any](futures []*Future[T]) *Future[[]T] {
	p := NewPromise[[]T]()
	WaitForAll(futures, func() {
		values := make([]T, len(futures))
		for i, f := range futures {
			values[i] = f.Get()
		}
		p.Resolve(values)
	})
	return p.Future()
}

// Void resolves once all futures have resolved, discarding their values.
func Void[T any](futures []*Future[T]) *Future[struct{}] {
	p := NewPromise[struct{}]()
	WaitForAll(futures, func() { p.Resolve(struct{}{}) })
	return p.Future()
}
