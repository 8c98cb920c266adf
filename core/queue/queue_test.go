package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for queue")
	}
}

func TestQueue_RunsInOrder(t *testing.T) {
	q := New("test", zap.NewNop())
	defer q.Close()

	var got []int
	done := make(chan struct{})
	for i := 0; i < 100; i++ {
		i := i
		require.True(t, q.Async(func() { got = append(got, i) }))
	}
	q.Async(func() { close(done) })
	waitDone(t, done)

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestQueue_NoOverlap(t *testing.T) {
	q := New("overlap", zap.NewNop())
	defer q.Close()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.Async(func() {
					mu.Lock()
					active++
					if active > maxSeen {
						maxSeen = active
					}
					mu.Unlock()
					time.Sleep(10 * time.Microsecond)
					mu.Lock()
					active--
					mu.Unlock()
				})
			}
		}()
	}
	wg.Wait()

	done := make(chan struct{})
	q.Async(func() { close(done) })
	waitDone(t, done)
	assert.Equal(t, 1, maxSeen)
}

func TestQueue_Reentrant(t *testing.T) {
	q := New("reentrant", zap.NewNop())
	defer q.Close()

	var order []string
	done := make(chan struct{})
	q.Async(func() {
		order = append(order, "outer")
		q.Async(func() {
			order = append(order, "inner")
			close(done)
		})
		order = append(order, "outer-end")
	})
	waitDone(t, done)
	assert.Equal(t, []string{"outer", "outer-end", "inner"}, order)
}

func TestQueue_CloseDrainsAndRejects(t *testing.T) {
	q := New("close", zap.NewNop())

	ran := 0
	for i := 0; i < 10; i++ {
		q.Async(func() { ran++ })
	}
	q.Close()

	assert.Equal(t, 10, ran)
	assert.True(t, q.IsClosed())
	assert.False(t, q.Async(func() { ran++ }))
	waitDone(t, q.Done())

	// Second close is a no-op.
	q.Close()
}

func TestQueue_PanicDoesNotStopWorker(t *testing.T) {
	q := New("panic", zap.NewNop())
	defer q.Close()

	done := make(chan struct{})
	q.Async(func() { panic("boom") })
	q.Async(func() { close(done) })
	waitDone(t, done)
}

func TestLane_ParksAndResumes(t *testing.T) {
	q := New("lane", zap.NewNop())
	defer q.Close()

	var (
		lane  Lane
		order []string
	)
	done := make(chan struct{})

	q.Async(func() {
		lane.Enter(func() { order = append(order, "first") })
		assert.True(t, lane.Busy())

		lane.Enter(func() {
			order = append(order, "second")
			lane.Leave(q)
			close(done)
		})
		assert.Equal(t, 1, lane.Pending())

		// The first operation finishes later, from another task.
		q.Async(func() {
			order = append(order, "first-leave")
			lane.Leave(q)
		})
	})
	waitDone(t, done)

	finished := make(chan struct{})
	q.Async(func() {
		assert.False(t, lane.Busy())
		close(finished)
	})
	waitDone(t, finished)
	assert.Equal(t, []string{"first", "first-leave", "second"}, order)
}
