package resource

import (
	"context"
	"errors"
	"path"
	"reflect"
	"sync"

	"audio-loader/core/cooked"
	"audio-loader/core/future"
	"audio-loader/core/metrics"
	"audio-loader/core/queue"
	"audio-loader/core/registry"

	"go.uber.org/zap"
)

// Options configures a Manager.
type Options struct {
	// BasePath is the root every platform directory lives under.
	BasePath string
	// Platform is the initial platform directory.
	Platform string
	// Language is the initial language. The zero value is SFX.
	Language cooked.Language
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	// Queue is the execution queue to use. When nil the manager creates one
	// and closes it in Close.
	Queue *queue.Queue
}

// Manager loads cooked objects and the physical files they need. Every
// mutation of its tables runs on one execution queue; callers on any
// goroutine receive futures.
type Manager struct {
	q         *queue.Queue
	ownsQueue bool
	logger    *zap.Logger
	metrics   *metrics.Metrics
	backends  Backends

	physical   *physicalTable
	leaves     *leafRegistry
	registries map[cooked.Kind]*registry.Registry[*node]

	mu       sync.RWMutex
	base     string
	platform string
	language cooked.Language
}

// NewManager creates a manager on top of backends.
func NewManager(backends Backends, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	q := opts.Queue
	owns := false
	if q == nil {
		q = queue.New("resources", logger)
		owns = true
	}

	m := &Manager{
		q:          q,
		ownsQueue:  owns,
		logger:     logger,
		metrics:    opts.Metrics,
		backends:   backends,
		registries: make(map[cooked.Kind]*registry.Registry[*node], len(cooked.Kinds)),
		base:       opts.BasePath,
		platform:   opts.Platform,
		language:   opts.Language,
	}
	for _, kind := range cooked.Kinds {
		m.registries[kind] = registry.New[*node]()
	}
	m.physical = newPhysicalTable(q, backends, logger, opts.Metrics)
	m.leaves = newLeafRegistry(m)
	return m
}

// Language returns the current language.
func (m *Manager) Language() cooked.Language {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.language
}

// Platform returns the current platform directory.
func (m *Manager) Platform() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.platform
}

// SetPlatform changes the platform directory for subsequent loads. Files
// already loaded keep the path they were loaded from.
func (m *Manager) SetPlatform(platform string) {
	m.mu.Lock()
	m.platform = platform
	m.mu.Unlock()
	m.logger.Info("Platform changed", zap.String("platform", platform))
}

// BasePath returns the directory new loads read from.
func (m *Manager) BasePath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return path.Join(m.base, m.platform)
}

// Close stops the execution queue if the manager owns it. Pending
// synchronous waits give up with ErrShutdown.
func (m *Manager) Close() {
	if m.ownsQueue {
		m.q.Close()
	}
}

// Done is closed once the manager starts shutting down.
func (m *Manager) Done() <-chan struct{} {
	return m.q.Done()
}

func isNilRecord(r cooked.Record) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func load[R cooked.Record](m *Manager, record R, override *cooked.Language) *future.Future[*Handle[R]] {
	if isNilRecord(record) {
		m.logger.Error("Load called without a cooked record")
		return future.Resolved[*Handle[R]](nil)
	}

	p := future.NewPromise[*Handle[R]]()
	n := newNode(record, override)
	accepted := m.q.Async(func() {
		n.data.lane.Enter(func() {
			m.loadNode(n).Then(func(ok bool) {
				m.metrics.ObserveNodeLoad(n.kind.String(), ok)
				if !ok {
					n.data.lane.Leave(m.q)
					p.Resolve(nil)
					return
				}
				m.attach(n)
				n.data.lane.Leave(m.q)
				p.Resolve(&Handle[R]{node: n})
				m.rebindIfStale(n)
			})
		})
	})
	if !accepted {
		m.logger.Error("Execution queue unavailable, load dropped",
			zap.String("kind", n.kind.String()),
			zap.String("name", record.Name()))
		p.Resolve(nil)
	}
	return p.Future()
}

func unload[R cooked.Record](m *Manager, f *future.Future[*Handle[R]]) *future.Future[struct{}] {
	p := future.NewPromise[struct{}]()
	f.Then(func(h *Handle[R]) {
		if h == nil {
			p.Resolve(struct{}{})
			return
		}
		if !h.consumed.CompareAndSwap(false, true) {
			m.logger.Warn("Handle already unloaded",
				zap.String("kind", h.node.kind.String()),
				zap.String("name", h.node.record.Name()))
			p.Resolve(struct{}{})
			return
		}

		n := h.node
		accepted := m.q.Async(func() {
			n.data.lane.Enter(func() {
				m.unloadNode(n).Then(func(struct{}) {
					m.detach(n)
					n.data.lane.Leave(m.q)
					p.Resolve(struct{}{})
				})
			})
		})
		if !accepted {
			m.logger.Error("Execution queue unavailable, unload dropped",
				zap.String("kind", n.kind.String()),
				zap.String("name", n.record.Name()))
			p.Resolve(struct{}{})
		}
	})
	return p.Future()
}

func (m *Manager) attach(n *node) {
	n.slot = m.registries[n.kind].Attach(n)
	m.metrics.NodeAttached(n.kind.String())
}

func (m *Manager) detach(n *node) {
	if _, ok := m.registries[n.kind].Detach(n.slot); !ok {
		m.logger.Error("Detached an object that was not attached",
			zap.String("kind", n.kind.String()),
			zap.String("name", n.record.Name()),
			zap.Stringer("slot", n.slot))
		return
	}
	m.metrics.NodeDetached(n.kind.String())
}

func (m *Manager) attached(n *node) bool {
	h, ok := m.registries[n.kind].Get(n.slot)
	return ok && h == n
}

func (m *Manager) bindingFor(n *node) cooked.Language {
	if n.override != nil {
		return *n.override
	}
	if !n.record.Localized() {
		return cooked.SFX
	}
	return m.Language()
}

// loadNode resolves n against its binding and loads everything it needs.
// The caller holds n's lane.
func (m *Manager) loadNode(n *node) *future.Future[bool] {
	n.language = m.bindingFor(n)
	req, resolved, ok := n.record.Resolve(n.language)
	if !ok {
		m.logger.Warn("No cooked data for language",
			zap.String("kind", n.kind.String()),
			zap.String("name", n.record.Name()),
			zap.Stringer("language", n.language))
		return future.Resolved(false)
	}
	n.resolved = resolved
	n.requirements = req

	switch n.kind {
	case cooked.KindGroupValue:
		gv := n.record.(*cooked.GroupValue)
		n.data.loaded = true
		return future.Map(m.leaves.noticeGroupValueLoaded(gv.GroupValueID), func(struct{}) bool { return true })

	case cooked.KindEvent:
		p := future.NewPromise[bool]()
		m.loadRequirements(n.record.Name(), req, &n.data, m.BasePath()).Then(func(ok bool) {
			if !ok {
				p.Resolve(false)
				return
			}
			n.data.loaded = true
			n.noticed = cooked.UniqueGroupValues(req.RequiredGroupValues)
			settles := make([]*future.Future[struct{}], 0, len(n.noticed)+1)
			for _, gv := range n.noticed {
				settles = append(settles, m.leaves.noticeGroupValueLoaded(gv))
			}
			settles = append(settles, m.leaves.registerEventUsage(n))
			future.WaitForAll(settles, func() { p.Resolve(true) })
		})
		return p.Future()

	default:
		return future.Map(m.loadRequirements(n.record.Name(), req, &n.data, m.BasePath()), func(ok bool) bool {
			n.data.loaded = ok
			return ok
		})
	}
}

// unloadNode releases everything n holds. It never fails. The caller holds
// n's lane.
func (m *Manager) unloadNode(n *node) *future.Future[struct{}] {
	switch n.kind {
	case cooked.KindGroupValue:
		if !n.data.loaded {
			return future.Resolved(struct{}{})
		}
		n.data.loaded = false
		return m.leaves.noticeGroupValueUnloaded(n.record.(*cooked.GroupValue).GroupValueID)

	case cooked.KindEvent:
		settles := make([]*future.Future[struct{}], 0, len(n.noticed)+1)
		settles = append(settles, m.leaves.unregisterEventUsage(n))
		for _, gv := range n.noticed {
			settles = append(settles, m.leaves.noticeGroupValueUnloaded(gv))
		}
		n.noticed = nil

		p := future.NewPromise[struct{}]()
		future.WaitForAll(settles, func() {
			m.unloadDependencies(&n.data).Then(func(struct{}) {
				n.data.loaded = false
				p.Resolve(struct{}{})
			})
		})
		return p.Future()

	default:
		return future.Map(m.unloadDependencies(&n.data), func(struct{}) struct{} {
			n.data.loaded = false
			return struct{}{}
		})
	}
}

// waitHandle blocks on a load for the synchronous wrappers.
func waitHandle[R cooked.Record](ctx context.Context, m *Manager, f *future.Future[*Handle[R]]) (*Handle[R], error) {
	h, err := f.Wait(ctx, m.q.Done())
	switch {
	case errors.Is(err, future.ErrAborted):
		m.logger.Warn("Giving up waiting for load, manager is shutting down")
		return nil, ErrShutdown
	case err != nil:
		// Nobody will receive the handle; unload it when it arrives.
		unload(m, f)
		return nil, err
	case h == nil:
		return nil, ErrLoadFailed
	}
	return h, nil
}

func waitUnload[R cooked.Record](ctx context.Context, m *Manager, h *Handle[R]) error {
	if h == nil {
		return nil
	}
	if h.Consumed() {
		return ErrHandleConsumed
	}
	_, err := unload(m, future.Resolved(h)).Wait(ctx, m.q.Done())
	if errors.Is(err, future.ErrAborted) {
		m.logger.Warn("Giving up waiting for unload, manager is shutting down")
		return ErrShutdown
	}
	return err
}

// NodeInfo describes one loaded object.
type NodeInfo struct {
	Slot         string   `json:"slot"`
	Kind         string   `json:"kind"`
	ID           uint32   `json:"id"`
	Name         string   `json:"name"`
	Language     string   `json:"language"`
	Resolved     string   `json:"resolved_language"`
	Override     bool     `json:"override"`
	Loaded       bool     `json:"loaded"`
	Dependencies int      `json:"dependencies"`
	Leaves       []string `json:"leaves,omitempty"`
}

// Snapshot lists every attached object.
func (m *Manager) Snapshot() *future.Future[[]NodeInfo] {
	p := future.NewPromise[[]NodeInfo]()
	if !m.q.Async(func() { p.Resolve(m.snapshot()) }) {
		p.Resolve(nil)
	}
	return p.Future()
}

func (m *Manager) snapshot() []NodeInfo {
	var out []NodeInfo
	for _, kind := range cooked.Kinds {
		m.registries[kind].ForEach(func(h registry.Handle, n *node) bool {
			info := NodeInfo{
				Slot:         h.String(),
				Kind:         kind.String(),
				ID:           uint32(n.record.ShortID()),
				Name:         n.record.Name(),
				Language:     n.language.String(),
				Resolved:     n.resolved.String(),
				Override:     n.override != nil,
				Loaded:       n.data.IsLoaded(),
				Dependencies: len(n.data.deps),
			}
			for _, key := range n.leaves {
				info.Leaves = append(info.Leaves, string(key))
			}
			out = append(out, info)
			return true
		})
	}
	return out
}

// Stats summarizes the manager's tables.
type Stats struct {
	Language          string                   `json:"language"`
	Platform          string                   `json:"platform"`
	Nodes             map[string]int           `json:"nodes"`
	Physical          map[string]PhysicalStats `json:"physical"`
	Leaves            int                      `json:"leaves"`
	LoadedLeaves      int                      `json:"loaded_leaves"`
	ActiveGroupValues int                      `json:"active_group_values"`
	QueueLength       int                      `json:"queue_length"`
}

// Stats collects counters on the queue.
func (m *Manager) Stats() *future.Future[Stats] {
	p := future.NewPromise[Stats]()
	accepted := m.q.Async(func() {
		s := Stats{
			Language:          m.Language().String(),
			Platform:          m.Platform(),
			Nodes:             make(map[string]int, len(m.registries)),
			Physical:          m.physical.snapshot(),
			Leaves:            len(m.leaves.usages),
			LoadedLeaves:      m.leaves.loadedLeaves(),
			ActiveGroupValues: len(m.leaves.active),
			QueueLength:       m.q.Len(),
		}
		for kind, r := range m.registries {
			s.Nodes[kind.String()] = r.Len()
		}
		p.Resolve(s)
	})
	if !accepted {
		p.Resolve(Stats{Language: m.Language().String(), Platform: m.Platform()})
	}
	return p.Future()
}

// StatsSync blocks on Stats.
func (m *Manager) StatsSync(ctx context.Context) (Stats, error) {
	s, err := m.Stats().Wait(ctx, m.q.Done())
	if errors.Is(err, future.ErrAborted) {
		return s, ErrShutdown
	}
	return s, err
}

// SnapshotSync blocks on Snapshot.
func (m *Manager) SnapshotSync(ctx context.Context) ([]NodeInfo, error) {
	s, err := m.Snapshot().Wait(ctx, m.q.Done())
	if errors.Is(err, future.ErrAborted) {
		return nil, ErrShutdown
	}
	return s, err
}
