package resource

import (
	"slices"

	"audio-loader/core/cooked"
	"audio-loader/core/future"

	"go.uber.org/zap"
)

// usageCount is the bookkeeping of one switch container leaf key. It is
// shared by every event referencing the key; the leaf's files are loaded iff
// at least one event uses it and every group value of the key is active.
type usageCount struct {
	key         cooked.LeafKey
	leaf        cooked.SwitchContainerLeaf
	groupValues []cooked.GroupValueID

	users map[*node]struct{}
	data  loadedData

	// busy is set while a load or unload of the leaf's files is in flight.
	// The completion re-evaluates the leaf, so later changes are never lost.
	busy bool
	// failed suppresses load retries until the next change touching the leaf.
	failed  bool
	settled []*future.Promise[struct{}]
}

func (u *usageCount) name() string {
	return "leaf[" + string(u.key) + "]"
}

// leafRegistry is the sole owner of every usageCount. All methods must run
// on the queue.
type leafRegistry struct {
	m *Manager

	// active counts activations per group value: loaded GroupValue objects
	// plus loaded events requiring the value.
	active       map[cooked.GroupValueID]int
	usages       map[cooked.LeafKey]*usageCount
	byGroupValue map[cooked.GroupValueID]map[cooked.LeafKey]struct{}
}

func newLeafRegistry(m *Manager) *leafRegistry {
	return &leafRegistry{
		m:            m,
		active:       make(map[cooked.GroupValueID]int),
		usages:       make(map[cooked.LeafKey]*usageCount),
		byGroupValue: make(map[cooked.GroupValueID]map[cooked.LeafKey]struct{}),
	}
}

// noticeGroupValueLoaded activates gv. The future resolves once every leaf
// the activation completed has settled.
func (r *leafRegistry) noticeGroupValueLoaded(gv cooked.GroupValueID) *future.Future[struct{}] {
	r.active[gv]++
	if r.active[gv] > 1 {
		return future.Resolved(struct{}{})
	}
	return r.settleAll(r.leavesOf(gv))
}

// noticeGroupValueUnloaded deactivates gv.
func (r *leafRegistry) noticeGroupValueUnloaded(gv cooked.GroupValueID) *future.Future[struct{}] {
	count, ok := r.active[gv]
	if !ok || count == 0 {
		r.m.logger.Error("Group value unloaded more often than loaded", zap.Stringer("group_value", gv))
		return future.Resolved(struct{}{})
	}
	if count > 1 {
		r.active[gv] = count - 1
		return future.Resolved(struct{}{})
	}
	delete(r.active, gv)
	return r.settleAll(r.leavesOf(gv))
}

// registerEventUsage records that n uses every leaf of its requirements.
func (r *leafRegistry) registerEventUsage(n *node) *future.Future[struct{}] {
	var touched []*usageCount
	for _, declared := range n.requirements.SwitchContainerLeaves {
		leaf := bindLeaf(declared, n.requirements)
		key := leaf.Key()
		u, ok := r.usages[key]
		if !ok {
			u = &usageCount{
				key:         key,
				leaf:        leaf,
				groupValues: cooked.UniqueGroupValues(leaf.GroupValues),
				users:       make(map[*node]struct{}),
			}
			r.usages[key] = u
			for _, gv := range u.groupValues {
				keys, ok := r.byGroupValue[gv]
				if !ok {
					keys = make(map[cooked.LeafKey]struct{})
					r.byGroupValue[gv] = keys
				}
				keys[key] = struct{}{}
			}
		}
		if _, dup := u.users[n]; dup {
			continue
		}
		u.users[n] = struct{}{}
		n.leaves = append(n.leaves, key)
		touched = append(touched, u)
	}
	return r.settleAll(touched)
}

// bindLeaf points leaf media embedded in one of the owner's banks at that
// bank, so the leaf pins the bank itself instead of failing for lack of a
// containing bank. The declared leaf is not modified.
func bindLeaf(leaf cooked.SwitchContainerLeaf, owner *cooked.Requirements) cooked.SwitchContainerLeaf {
	own := make(map[cooked.ShortID]struct{}, len(leaf.SoundBanks))
	for _, b := range leaf.SoundBanks {
		own[b.ID] = struct{}{}
	}

	var media []cooked.Media
	for i, m := range leaf.Media {
		if m.Location != cooked.MediaInSoundBank || m.ContainingBank != nil {
			continue
		}
		if _, ok := own[m.SoundBankID]; ok {
			continue
		}
		for _, b := range owner.SoundBanks {
			if b.ID != m.SoundBankID {
				continue
			}
			if media == nil {
				media = slices.Clone(leaf.Media)
			}
			bank := b
			media[i].ContainingBank = &bank
			break
		}
	}
	if media != nil {
		leaf.Media = media
	}
	return leaf
}

// unregisterEventUsage drops every leaf borrow of n.
func (r *leafRegistry) unregisterEventUsage(n *node) *future.Future[struct{}] {
	touched := make([]*usageCount, 0, len(n.leaves))
	for _, key := range n.leaves {
		u, ok := r.usages[key]
		if !ok {
			r.m.logger.Error("No usage count for leaf",
				zap.String("leaf", string(key)),
				zap.String("event", n.record.Name()))
			continue
		}
		if _, ok := u.users[n]; !ok {
			r.m.logger.Error("Event is not a user of leaf",
				zap.String("leaf", string(key)),
				zap.String("event", n.record.Name()))
			continue
		}
		delete(u.users, n)
		touched = append(touched, u)
	}
	n.leaves = nil
	return r.settleAll(touched)
}

func (r *leafRegistry) leavesOf(gv cooked.GroupValueID) []*usageCount {
	keys := r.byGroupValue[gv]
	out := make([]*usageCount, 0, len(keys))
	for key := range keys {
		if u, ok := r.usages[key]; ok {
			out = append(out, u)
		}
	}
	return out
}

func (r *leafRegistry) settleAll(usages []*usageCount) *future.Future[struct{}] {
	futures := make([]*future.Future[struct{}], 0, len(usages))
	for _, u := range usages {
		p := future.NewPromise[struct{}]()
		u.settled = append(u.settled, p)
		u.failed = false
		futures = append(futures, p.Future())
		r.step(u)
	}
	return future.Void(futures)
}

func (r *leafRegistry) fullyActive(u *usageCount) bool {
	for _, gv := range u.groupValues {
		if r.active[gv] == 0 {
			return false
		}
	}
	return true
}

// step moves u one transition towards its wanted state. It is level
// triggered: whatever changed while a transition was in flight is picked up
// when that transition completes.
func (r *leafRegistry) step(u *usageCount) {
	if u.busy {
		return
	}
	want := len(u.users) > 0 && r.fullyActive(u)

	switch {
	case want && !u.data.IsLoaded() && !u.failed:
		u.busy = true
		r.m.loadRequirements(u.name(), u.leaf.Requirements(), &u.data, r.m.BasePath()).Then(func(ok bool) {
			u.busy = false
			if ok {
				u.data.loaded = true
			} else {
				u.failed = true
				r.m.logger.Warn("Failed to load switch container leaf", zap.String("leaf", string(u.key)))
			}
			r.step(u)
		})
	case !want && u.data.IsLoaded():
		u.busy = true
		r.m.unloadDependencies(&u.data).Then(func(struct{}) {
			u.busy = false
			u.data.loaded = false
			r.step(u)
		})
	default:
		waiters := u.settled
		u.settled = nil
		if len(u.users) == 0 && !u.data.IsLoaded() {
			r.remove(u)
		}
		for _, p := range waiters {
			p.Resolve(struct{}{})
		}
	}
}

func (r *leafRegistry) remove(u *usageCount) {
	if r.usages[u.key] != u {
		return
	}
	delete(r.usages, u.key)
	for _, gv := range u.groupValues {
		keys := r.byGroupValue[gv]
		delete(keys, u.key)
		if len(keys) == 0 {
			delete(r.byGroupValue, gv)
		}
	}
}

// loadedLeaves counts leaves whose files are currently loaded.
func (r *leafRegistry) loadedLeaves() int {
	n := 0
	for _, u := range r.usages {
		if u.data.IsLoaded() {
			n++
		}
	}
	return n
}
