package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"audio-loader/core/cooked"
	"audio-loader/core/future"
	"audio-loader/core/registry"

	"go.uber.org/zap"
)

// LanguagePolicy selects what SetLanguage does with objects bound to the
// previous language.
type LanguagePolicy int

const (
	// LanguageManual only changes the language. Loaded objects keep their
	// binding until ReloadLanguage is called.
	LanguageManual LanguagePolicy = iota
	// LanguageImmediate reloads localized objects right away, even while
	// they are playing.
	LanguageImmediate
	// LanguageSafe stops all playback, waits two engine frames and then
	// reloads localized objects.
	LanguageSafe
)

func (p LanguagePolicy) String() string {
	switch p {
	case LanguageImmediate:
		return "immediate"
	case LanguageSafe:
		return "safe"
	default:
		return "manual"
	}
}

// ParseLanguagePolicy parses the name produced by LanguagePolicy.String.
func ParseLanguagePolicy(s string) (LanguagePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manual", "":
		return LanguageManual, nil
	case "immediate":
		return LanguageImmediate, nil
	case "safe":
		return LanguageSafe, nil
	default:
		return LanguageManual, fmt.Errorf("unknown language policy %q", s)
	}
}

// SetLanguage makes lang the current language and applies policy to every
// localized object bound to the previous one. The future resolves once all
// reloads finished, whatever their outcome.
func (m *Manager) SetLanguage(lang cooked.Language, policy LanguagePolicy) *future.Future[struct{}] {
	m.mu.Lock()
	old := m.language
	m.language = lang
	m.mu.Unlock()

	if old.Equal(lang) {
		return future.Resolved(struct{}{})
	}
	m.logger.Info("Language changed",
		zap.Stringer("from", old),
		zap.Stringer("to", lang),
		zap.Stringer("policy", policy))

	switch policy {
	case LanguageManual:
		return future.Resolved(struct{}{})
	case LanguageSafe:
		return m.safeReload(old)
	default:
		return m.ReloadLanguage(old)
	}
}

// SetLanguageSync blocks on SetLanguage.
func (m *Manager) SetLanguageSync(ctx context.Context, lang cooked.Language, policy LanguagePolicy) error {
	_, err := m.SetLanguage(lang, policy).Wait(ctx, m.q.Done())
	if errors.Is(err, future.ErrAborted) {
		m.logger.Warn("Giving up waiting for language swap, manager is shutting down")
		return ErrShutdown
	}
	return err
}

func (m *Manager) safeReload(old cooked.Language) *future.Future[struct{}] {
	engine := m.backends.Engine
	if engine == nil {
		m.logger.Warn("No engine registered, reloading without stopping playback")
		return m.ReloadLanguage(old)
	}

	engine.StopAll()
	p := future.NewPromise[struct{}]()
	engine.NextFrame().Then(func(struct{}) {
		engine.NextFrame().Then(func(struct{}) {
			m.ReloadLanguage(old).Then(func(struct{}) { p.Resolve(struct{}{}) })
		})
	})
	return p.Future()
}

// ReloadLanguage unloads every localized object bound to old and loads it
// again against the current language.
func (m *Manager) ReloadLanguage(old cooked.Language) *future.Future[struct{}] {
	p := future.NewPromise[struct{}]()
	accepted := m.q.Async(func() {
		var targets []*node
		for _, kind := range cooked.Kinds {
			m.registries[kind].ForEach(func(_ registry.Handle, n *node) bool {
				if n.localized() && n.language.Equal(old) {
					targets = append(targets, n)
				}
				return true
			})
		}
		m.logger.Debug("Reloading localized objects",
			zap.Stringer("language", old),
			zap.Int("objects", len(targets)))

		m.reloadNodes(targets, func(n *node) bool { return n.language.Equal(old) }).Then(func(struct{}) {
			m.metrics.LanguageSwapped()
			p.Resolve(struct{}{})
		})
	})
	if !accepted {
		m.logger.Error("Execution queue unavailable, language reload dropped")
		p.Resolve(struct{}{})
	}
	return p.Future()
}

// rebindIfStale reloads n when the language changed while n was loading.
func (m *Manager) rebindIfStale(n *node) {
	if !n.localized() || n.language.Equal(m.Language()) {
		return
	}
	bound := n.language
	m.logger.Debug("Language changed during load, rebinding",
		zap.String("kind", n.kind.String()),
		zap.String("name", n.record.Name()))
	m.reloadNodes([]*node{n}, func(n *node) bool { return n.language.Equal(bound) })
}

// reloadNodes takes the lane of every node, unloads all of them, then loads
// each against the current language. Nodes detached or rebound before their
// lane was free are skipped. Must run on the queue.
func (m *Manager) reloadNodes(nodes []*node, still func(*node) bool) *future.Future[struct{}] {
	if len(nodes) == 0 {
		return future.Resolved(struct{}{})
	}

	p := future.NewPromise[struct{}]()
	held := make([]*node, 0, len(nodes))
	remaining := len(nodes)
	for _, n := range nodes {
		n.data.lane.Enter(func() {
			if m.attached(n) && still(n) {
				held = append(held, n)
			} else {
				n.data.lane.Leave(m.q)
			}
			remaining--
			if remaining == 0 {
				m.swapHeld(held).Then(func(struct{}) { p.Resolve(struct{}{}) })
			}
		})
	}
	return p.Future()
}

func (m *Manager) swapHeld(held []*node) *future.Future[struct{}] {
	unloads := make([]*future.Future[struct{}], 0, len(held))
	for _, n := range held {
		unloads = append(unloads, m.unloadNode(n))
	}

	p := future.NewPromise[struct{}]()
	future.WaitForAll(unloads, func() {
		reloads := make([]*future.Future[bool], 0, len(held))
		for _, n := range held {
			reloads = append(reloads, future.Map(m.loadNode(n), func(ok bool) bool {
				m.metrics.ObserveNodeLoad(n.kind.String(), ok)
				if !ok {
					m.logger.Warn("Could not reload object in new language",
						zap.String("kind", n.kind.String()),
						zap.String("name", n.record.Name()),
						zap.Stringer("language", n.language))
				}
				return ok
			}))
		}
		future.WaitForAll(reloads, func() {
			for _, n := range held {
				n.data.lane.Leave(m.q)
			}
			p.Resolve(struct{}{})
		})
	})
	return p.Future()
}
