package resource

import "errors"

var (
	// ErrLoadFailed is returned by synchronous loads that resolved with an
	// empty handle.
	ErrLoadFailed = errors.New("resource load failed")
	// ErrShutdown is returned when a synchronous wait gives up because the
	// manager is closing.
	ErrShutdown = errors.New("resource manager is shutting down")
	// ErrHandleConsumed is returned when a handle is unloaded twice.
	ErrHandleConsumed = errors.New("handle already unloaded")
)
