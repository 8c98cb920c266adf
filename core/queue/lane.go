package queue

// Lane serializes operations on one piece of state (a loaded node, a leaf)
// without blocking the queue. An operation entering a busy lane is parked on
// the lane's wait-list and resumed, in order, when the current holder leaves.
//
// A Lane is not safe for concurrent use: every method must be called from a
// task running on the owning Queue.
type Lane struct {
	busy    bool
	waiting []func()
}

// Enter runs op now if the lane is free, otherwise parks it. The operation
// owns the lane until it calls Leave.
func (l *Lane) Enter(op func()) {
	if l.busy {
		l.waiting = append(l.waiting, op)
		return
	}
	l.busy = true
	op()
}

// Leave releases the lane. The next parked operation, if any, inherits the
// lane and is scheduled as a fresh task on q so that completion chains do not
// nest.
func (l *Lane) Leave(q *Queue) {
	if len(l.waiting) == 0 {
		l.busy = false
		return
	}
	next := l.waiting[0]
	l.waiting[0] = nil
	l.waiting = l.waiting[1:]
	if !q.Async(next) {
		// Closing queue: finish the hand-off in place.
		next()
	}
}

// Busy reports whether an operation currently holds the lane.
func (l *Lane) Busy() bool {
	return l.busy
}

// Pending returns the number of parked operations.
func (l *Lane) Pending() int {
	return len(l.waiting)
}
