package resource

import (
	"sync/atomic"

	"audio-loader/core/cooked"
	"audio-loader/core/registry"
)

// Handle is the caller's proof that an object is loaded. It is consumed by
// exactly one Unload; any later Unload of the same handle is ignored.
type Handle[R cooked.Record] struct {
	node     *node
	consumed atomic.Bool
}

// Record returns the cooked record the handle was loaded from.
func (h *Handle[R]) Record() R {
	return h.node.record.(R)
}

// Kind returns the object kind.
func (h *Handle[R]) Kind() cooked.Kind {
	return h.node.kind
}

// Slot returns the registry slot the object lives in.
func (h *Handle[R]) Slot() registry.Handle {
	return h.node.slot
}

// Consumed reports whether the handle was already passed to Unload.
func (h *Handle[R]) Consumed() bool {
	return h.consumed.Load()
}

type (
	AuxBusHandle         = Handle[*cooked.AuxBus]
	EventHandle          = Handle[*cooked.Event]
	ExternalSourceHandle = Handle[*cooked.ExternalSource]
	GroupValueHandle     = Handle[*cooked.GroupValue]
	InitBankHandle       = Handle[*cooked.InitBank]
	MediaHandle          = Handle[*cooked.Media]
	ShareSetHandle       = Handle[*cooked.ShareSet]
	SoundBankHandle      = Handle[*cooked.LocalizedSoundBank]
	// RecordHandle is a handle whose kind is only known at run time.
	RecordHandle = Handle[cooked.Record]
)
