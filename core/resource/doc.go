// Package resource loads cooked sound engine objects and the physical files
// behind them.
//
// A Manager owns one registry per object kind, a reference counted table of
// physical files shared between objects, and the switch container leaf
// table. Every mutation of that state runs as a task on a single execution
// queue; file I/O is delegated to the backends and only its completion
// re-enters the queue. Callers get futures, with blocking wrappers for
// synchronous code. Futures resolve on the queue goroutine, so a
// continuation that blocks must be registered with ThenAsync.
//
// A load either pins every file an object declares or none of them: when a
// single dependency fails, the ones that succeeded are released before the
// load resolves with a nil handle.
package resource
