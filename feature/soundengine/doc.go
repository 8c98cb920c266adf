// Package soundengine is the physical side of the loader: it reads cooked
// bank, media and external source files from object storage and keeps them
// in an in-process resident table until they are unloaded.
//
// Reads run on their own goroutines, bounded by a weighted semaphore, and
// report through futures so the resource manager's queue is never blocked.
// A ticker drives the frame clock that NextFrame waits on.
package soundengine
