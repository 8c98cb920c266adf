package resource

import (
	"audio-loader/core/cooked"
	"audio-loader/core/future"
	"audio-loader/core/metrics"
	"audio-loader/core/queue"

	"go.uber.org/zap"
)

type physicalState int

const (
	stateUnloaded physicalState = iota
	stateLoading
	stateLoaded
	stateUnloading
)

func (s physicalState) String() string {
	switch s {
	case stateLoading:
		return "loading"
	case stateLoaded:
		return "loaded"
	case stateUnloading:
		return "unloading"
	default:
		return "unloaded"
	}
}

// physicalKey identifies one file as the backend sees it.
type physicalKey struct {
	kind     cooked.Kind
	id       cooked.ShortID
	bank     cooked.ShortID
	language cooked.ShortID
}

type physicalEntry struct {
	key      physicalKey
	bank     *cooked.SoundBank
	media    *cooked.Media
	source   *cooked.ExternalSource
	basePath string

	refs          int
	state         physicalState
	loadWaiters   []*future.Promise[bool]
	unloadWaiters []*future.Promise[struct{}]
}

func (e *physicalEntry) name() string {
	switch e.key.kind {
	case cooked.KindMedia:
		return e.media.DebugName
	case cooked.KindExternalSource:
		return e.source.DebugName
	default:
		return e.bank.DebugName
	}
}

// PhysicalStats counts backend activity for one resource kind.
type PhysicalStats struct {
	Loads    int `json:"loads"`
	Unloads  int `json:"unloads"`
	Failures int `json:"failures"`
	Resident int `json:"resident"`
}

// physicalTable shares physical files between every node that needs them.
// The backend is asked to load a key on its 0→1 transition and to unload it
// on 1→0; every other acquire or release is bookkeeping only. All methods
// must run on the queue.
type physicalTable struct {
	q        *queue.Queue
	logger   *zap.Logger
	metrics  *metrics.Metrics
	backends Backends

	entries map[physicalKey]*physicalEntry
	stats   map[cooked.Kind]*PhysicalStats
}

func newPhysicalTable(q *queue.Queue, backends Backends, logger *zap.Logger, m *metrics.Metrics) *physicalTable {
	return &physicalTable{
		q:        q,
		logger:   logger,
		metrics:  m,
		backends: backends,
		entries:  make(map[physicalKey]*physicalEntry),
		stats: map[cooked.Kind]*PhysicalStats{
			cooked.KindSoundBank:      {},
			cooked.KindMedia:          {},
			cooked.KindExternalSource: {},
		},
	}
}

func keyOf(dep dependency) (physicalKey, *cooked.SoundBank, *cooked.Media, *cooked.ExternalSource) {
	kind, bank, media, source := dep.physical()
	switch kind {
	case cooked.KindMedia:
		return physicalKey{kind: kind, id: media.ID, bank: media.SoundBankID, language: media.Language.ID}, nil, media, nil
	case cooked.KindExternalSource:
		return physicalKey{kind: kind, id: source.Cookie}, nil, nil, source
	default:
		return physicalKey{kind: cooked.KindSoundBank, id: bank.ID, language: bank.Language.ID}, bank, nil, nil
	}
}

// acquire takes a reference on the file behind dep. The future resolves true
// once the file is loaded; on false no reference is held.
func (t *physicalTable) acquire(dep dependency, basePath string) *future.Future[bool] {
	key, bank, media, source := keyOf(dep)
	e, ok := t.entries[key]
	if !ok {
		e = &physicalEntry{key: key, bank: bank, media: media, source: source, basePath: basePath}
		t.entries[key] = e
	}
	e.refs++
	if e.state == stateLoaded {
		return future.Resolved(true)
	}
	if e.state == stateUnloaded {
		// Files are read from where the first user asked for them.
		e.basePath = basePath
	}
	p := future.NewPromise[bool]()
	e.loadWaiters = append(e.loadWaiters, p)
	t.reconcile(e)
	return p.Future()
}

// release drops a reference taken by a successful acquire.
func (t *physicalTable) release(dep dependency) *future.Future[struct{}] {
	key, _, _, _ := keyOf(dep)
	e, ok := t.entries[key]
	if !ok || e.refs == 0 {
		t.logger.Error("Released a physical resource that holds no reference",
			zap.String("kind", key.kind.String()),
			zap.Stringer("id", key.id))
		return future.Resolved(struct{}{})
	}
	e.refs--
	if e.refs > 0 {
		return future.Resolved(struct{}{})
	}
	p := future.NewPromise[struct{}]()
	e.unloadWaiters = append(e.unloadWaiters, p)
	t.reconcile(e)
	return p.Future()
}

func (t *physicalTable) reconcile(e *physicalEntry) {
	switch e.state {
	case stateLoading, stateUnloading:
		// The completion task reconciles again.
	case stateUnloaded:
		if e.refs > 0 {
			t.startLoad(e)
			return
		}
		if t.entries[e.key] == e {
			delete(t.entries, e.key)
		}
	case stateLoaded:
		if e.refs == 0 {
			t.startUnload(e)
		}
	}
}

func (t *physicalTable) startLoad(e *physicalEntry) {
	e.state = stateLoading
	t.stats[e.key.kind].Loads++

	var f *future.Future[bool]
	switch e.key.kind {
	case cooked.KindSoundBank:
		if t.backends.SoundBanks != nil {
			f = t.backends.SoundBanks.LoadSoundBank(e.bank, e.basePath)
		}
	case cooked.KindMedia:
		if t.backends.Media != nil {
			f = t.backends.Media.LoadMedia(e.media, e.basePath)
		}
	case cooked.KindExternalSource:
		if t.backends.ExternalSources != nil {
			f = t.backends.ExternalSources.LoadExternalSource(e.source, e.basePath)
		}
	}
	if f == nil {
		t.logger.Error("No backend registered for resource kind", zap.String("kind", e.key.kind.String()))
		f = future.Resolved(false)
	}

	f.Then(func(ok bool) {
		if !t.q.Async(func() { t.loadDone(e, ok) }) {
			t.logger.Warn("Dropped load completion, queue is closed",
				zap.String("kind", e.key.kind.String()),
				zap.String("name", e.name()))
		}
	})
}

func (t *physicalTable) loadDone(e *physicalEntry, ok bool) {
	t.metrics.ObservePhysical(e.key.kind.String(), "load", ok)
	waiters := e.loadWaiters
	e.loadWaiters = nil

	if ok {
		e.state = stateLoaded
		t.stats[e.key.kind].Resident++
	} else {
		e.state = stateUnloaded
		t.stats[e.key.kind].Failures++
		e.refs -= len(waiters)
		if e.refs < 0 {
			t.logger.Error("Physical resource reference count went negative",
				zap.String("kind", e.key.kind.String()),
				zap.String("name", e.name()),
				zap.Int("refs", e.refs))
			e.refs = 0
		}
		t.logger.Warn("Failed to load physical resource",
			zap.String("kind", e.key.kind.String()),
			zap.String("name", e.name()),
			zap.String("base_path", e.basePath))
	}

	for _, p := range waiters {
		p.Resolve(ok)
	}
	t.reconcile(e)
}

func (t *physicalTable) startUnload(e *physicalEntry) {
	e.state = stateUnloading
	t.stats[e.key.kind].Unloads++

	var f *future.Future[struct{}]
	switch e.key.kind {
	case cooked.KindSoundBank:
		if t.backends.SoundBanks != nil {
			f = t.backends.SoundBanks.UnloadSoundBank(e.bank, e.basePath)
		}
	case cooked.KindMedia:
		if t.backends.Media != nil {
			f = t.backends.Media.UnloadMedia(e.media, e.basePath)
		}
	case cooked.KindExternalSource:
		if t.backends.ExternalSources != nil {
			f = t.backends.ExternalSources.UnloadExternalSource(e.source, e.basePath)
		}
	}
	if f == nil {
		t.logger.Error("No backend registered for resource kind", zap.String("kind", e.key.kind.String()))
		f = future.Resolved(struct{}{})
	}

	f.Then(func(struct{}) {
		if !t.q.Async(func() { t.unloadDone(e) }) {
			t.logger.Warn("Dropped unload completion, queue is closed",
				zap.String("kind", e.key.kind.String()),
				zap.String("name", e.name()))
		}
	})
}

func (t *physicalTable) unloadDone(e *physicalEntry) {
	t.metrics.ObservePhysical(e.key.kind.String(), "unload", true)
	e.state = stateUnloaded
	t.stats[e.key.kind].Resident--

	waiters := e.unloadWaiters
	e.unloadWaiters = nil
	for _, p := range waiters {
		p.Resolve(struct{}{})
	}
	t.reconcile(e)
}

// snapshot copies the per-kind counters.
func (t *physicalTable) snapshot() map[string]PhysicalStats {
	out := make(map[string]PhysicalStats, len(t.stats))
	for kind, s := range t.stats {
		out[kind.String()] = *s
	}
	return out
}

// refs returns the reference count of the file behind dep, for tests.
func (t *physicalTable) refs(dep dependency) int {
	key, _, _, _ := keyOf(dep)
	if e, ok := t.entries[key]; ok {
		return e.refs
	}
	return 0
}
