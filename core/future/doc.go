// Package future provides the one-shot completion primitive used by the
// resource loader to signal that a named operation finished.
//
// A Promise is written exactly once. Its Future can be polled with IsReady,
// given continuations with Then, or waited on from a synchronous caller with
// Wait, which also observes a shutdown channel so that callers never block
// forever on a result that will not arrive.
//
// # Fan-in
//
// WaitForAll walks an ordered list of futures and collapses the ones that are
// already resolved into a single loop instead of one continuation per item.
// This is the common case when a dependency is already loaded.
//
// # Usage
//
//	p := future.NewPromise[bool]()
//	go func() { p.Resolve(load()) }()
//	p.Future().Then(func(ok bool) { ... })
//
// Failure is never expressed by the fabric itself: it travels in the value.
package future
