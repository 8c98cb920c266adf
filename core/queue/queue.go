package queue

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrQueueClosed is reported when a task is submitted after Close.
var ErrQueueClosed = errors.New("execution queue has been closed")

// Queue runs submitted tasks one at a time, in submission order, on a single
// goroutine. Tasks may submit further tasks; those run after everything that
// was already queued.
type Queue struct {
	name   string
	logger *zap.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []func()
	closed  bool
	running bool

	done    chan struct{}
	stopped chan struct{}
}

// New creates a queue and starts its worker goroutine.
func New(name string, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &Queue{
		name:    name,
		logger:  logger.With(zap.String("queue", name)),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Name returns the queue name used in logs.
func (q *Queue) Name() string {
	return q.name
}

// Async enqueues task. It returns false when the queue no longer accepts
// work; the task is not run in that case.
func (q *Queue) Async(task func()) bool {
	if task == nil {
		return false
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Debug("Rejected task on closed queue")
		return false
	}
	q.tasks = append(q.tasks, task)
	q.cond.Signal()
	q.mu.Unlock()
	return true
}

// Idle reports whether no task is queued or running.
func (q *Queue) Idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks) == 0 && !q.running
}

// Len returns the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Done is closed as soon as Close is called. Code waiting on work that is
// scheduled on this queue should treat it as the shutdown signal.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// IsClosed reports whether Close was called.
func (q *Queue) IsClosed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

// Close stops accepting new tasks, lets the tasks already queued finish and
// waits for the worker goroutine to exit. It must not be called from a task.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.stopped
		return
	}
	q.closed = true
	close(q.done)
	q.cond.Broadcast()
	q.mu.Unlock()
	<-q.stopped
}

func (q *Queue) run() {
	defer close(q.stopped)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 && q.closed {
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.running = true
		q.mu.Unlock()

		q.execute(task)

		q.mu.Lock()
		q.running = false
		q.mu.Unlock()
	}
}

func (q *Queue) execute(task func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("Task panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()
	task()
}
