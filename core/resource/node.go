package resource

import (
	"audio-loader/core/cooked"
	"audio-loader/core/queue"
	"audio-loader/core/registry"
)

// dependency is one item of a node's dependency set. Category is the record
// list the item was declared in; the physical resource it pins may differ
// (media embedded in another bank pins that bank).
type dependency struct {
	category cooked.Kind
	bank     *cooked.SoundBank
	media    *cooked.Media
	source   *cooked.ExternalSource
	// noop items are satisfied by a bank of the same record and pin nothing.
	noop bool
}

// physical returns the kind and record of the resource the item pins.
func (d dependency) physical() (cooked.Kind, *cooked.SoundBank, *cooked.Media, *cooked.ExternalSource) {
	switch d.category {
	case cooked.KindMedia:
		if d.bank != nil {
			return cooked.KindSoundBank, d.bank, nil, nil
		}
		return cooked.KindMedia, nil, d.media, nil
	case cooked.KindExternalSource:
		return cooked.KindExternalSource, nil, nil, d.source
	default:
		return cooked.KindSoundBank, d.bank, nil, nil
	}
}

func (d dependency) name() string {
	switch d.category {
	case cooked.KindMedia:
		return d.media.DebugName
	case cooked.KindExternalSource:
		return d.source.DebugName
	default:
		return d.bank.DebugName
	}
}

// loadedData is the private bookkeeping block of a node or leaf. It is only
// touched from queue tasks.
type loadedData struct {
	deps   []dependency
	loaded bool
	lane   queue.Lane
}

// IsLoaded reports whether anything is held for the owner.
func (d *loadedData) IsLoaded() bool {
	return len(d.deps) > 0 || d.loaded
}

func (d *loadedData) count(category cooked.Kind) int {
	n := 0
	for _, dep := range d.deps {
		if dep.category == category {
			n++
		}
	}
	return n
}

// node is a loaded object. Exactly one registry owns it while attached.
type node struct {
	kind     cooked.Kind
	record   cooked.Record
	override *cooked.Language

	// language is the binding used to resolve the record; resolved is the
	// payload actually picked, which may be the SFX fallback.
	language     cooked.Language
	resolved     cooked.Language
	requirements *cooked.Requirements
	data         loadedData
	slot         registry.Handle

	// Event bookkeeping: group values noticed on its behalf and the leaves
	// it borrows.
	noticed []cooked.GroupValueID
	leaves  []cooked.LeafKey
}

// localized reports whether the node follows the manager's language.
func (n *node) localized() bool {
	return n.override == nil && n.record.Localized()
}

func newNode(record cooked.Record, override *cooked.Language) *node {
	n := &node{kind: record.Kind(), record: record}
	if override != nil {
		l := *override
		n.override = &l
	}
	return n
}
