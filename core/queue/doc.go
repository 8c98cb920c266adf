// Package queue provides the execution queue that serializes every mutation
// of the loader's bookkeeping tables.
//
// A Queue is one logical lane: tasks run in submission order and never
// overlap, whichever goroutine submitted them. Blocking I/O is never run on
// the queue; I/O completions re-enter it through Async.
//
// # Lanes
//
// Lane is a per-object wait-list used when two operations on the same node
// or leaf overlap. The second operation is parked and resumed when the first
// leaves, which bounds queue growth under contention (no busy requeueing).
//
// # Shutdown
//
// Close rejects new tasks and drains the ones already queued. Done is closed
// immediately so that synchronous waiters can give up instead of hanging.
package queue
