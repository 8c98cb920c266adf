package resource

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"audio-loader/core/cooked"
	"audio-loader/core/future"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type call struct {
	Op   string
	Kind string
	ID   cooked.ShortID
}

func loadCall(kind string, id cooked.ShortID) call   { return call{Op: "load", Kind: kind, ID: id} }
func unloadCall(kind string, id cooked.ShortID) call { return call{Op: "unload", Kind: kind, ID: id} }

// fakeIO records every backend call. Completions resolve inline unless hold
// is set, in which case they wait for flush.
type fakeIO struct {
	mu      sync.Mutex
	log     []call
	failing map[cooked.ShortID]bool
	hold    bool
	held    []func()
}

func newFakeIO() *fakeIO {
	return &fakeIO{failing: make(map[cooked.ShortID]bool)}
}

func (f *fakeIO) backends() Backends {
	return Backends{SoundBanks: f, Media: f, ExternalSources: f}
}

func (f *fakeIO) fail(id cooked.ShortID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[id] = true
}

func (f *fakeIO) holdCompletions() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hold = true
}

// flush resolves held completions and stops holding.
func (f *fakeIO) flush() {
	f.mu.Lock()
	held := f.held
	f.held = nil
	f.hold = false
	f.mu.Unlock()
	for _, fn := range held {
		fn()
	}
}

func (f *fakeIO) calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.log...)
}

func (f *fakeIO) count(c call) int {
	n := 0
	for _, got := range f.calls() {
		if got == c {
			n++
		}
	}
	return n
}

func (f *fakeIO) load(kind string, id cooked.ShortID) *future.Future[bool] {
	p := future.NewPromise[bool]()
	f.mu.Lock()
	f.log = append(f.log, loadCall(kind, id))
	ok := !f.failing[id]
	if f.hold {
		f.held = append(f.held, func() { p.Resolve(ok) })
		f.mu.Unlock()
		return p.Future()
	}
	f.mu.Unlock()
	p.Resolve(ok)
	return p.Future()
}

func (f *fakeIO) unload(kind string, id cooked.ShortID) *future.Future[struct{}] {
	p := future.NewPromise[struct{}]()
	f.mu.Lock()
	f.log = append(f.log, unloadCall(kind, id))
	if f.hold {
		f.held = append(f.held, func() { p.Resolve(struct{}{}) })
		f.mu.Unlock()
		return p.Future()
	}
	f.mu.Unlock()
	p.Resolve(struct{}{})
	return p.Future()
}

func (f *fakeIO) LoadSoundBank(bank *cooked.SoundBank, _ string) *future.Future[bool] {
	return f.load("soundbank", bank.ID)
}

func (f *fakeIO) UnloadSoundBank(bank *cooked.SoundBank, _ string) *future.Future[struct{}] {
	return f.unload("soundbank", bank.ID)
}

func (f *fakeIO) LoadMedia(media *cooked.Media, _ string) *future.Future[bool] {
	return f.load("media", media.ID)
}

func (f *fakeIO) UnloadMedia(media *cooked.Media, _ string) *future.Future[struct{}] {
	return f.unload("media", media.ID)
}

func (f *fakeIO) LoadExternalSource(source *cooked.ExternalSource, _ string) *future.Future[bool] {
	return f.load("externalsource", source.Cookie)
}

func (f *fakeIO) UnloadExternalSource(source *cooked.ExternalSource, _ string) *future.Future[struct{}] {
	return f.unload("externalsource", source.Cookie)
}

type fakeEngine struct {
	stops  atomic.Int32
	frames atomic.Int32
}

func (e *fakeEngine) StopAll() {
	e.stops.Add(1)
}

func (e *fakeEngine) NextFrame() *future.Future[struct{}] {
	e.frames.Add(1)
	return future.Resolved(struct{}{})
}

var (
	english = cooked.Language{ID: 1, Name: "English"}
	french  = cooked.Language{ID: 2, Name: "French"}
)

func newTestManager(t *testing.T, backends Backends, lang cooked.Language) *Manager {
	t.Helper()
	m := NewManager(backends, Options{
		BasePath: "/cooked",
		Platform: "Windows",
		Language: lang,
		Logger:   zaptest.NewLogger(t),
	})
	t.Cleanup(m.Close)
	return m
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func wait[T any](t *testing.T, f *future.Future[T]) T {
	t.Helper()
	v, err := f.Wait(testContext(t), nil)
	require.NoError(t, err)
	return v
}

func bank(id cooked.ShortID) cooked.SoundBank {
	return cooked.SoundBank{ID: id, DebugName: fmt.Sprintf("bank_%d", id), Path: fmt.Sprintf("%d.bnk", id)}
}

func localizedBank(id cooked.ShortID, lang cooked.Language) cooked.SoundBank {
	b := bank(id)
	b.Language = lang
	b.Path = lang.Name + "/" + b.Path
	return b
}

func streamed(id cooked.ShortID) cooked.Media {
	return cooked.Media{ID: id, DebugName: fmt.Sprintf("media_%d", id), Location: cooked.MediaStreamed, Path: fmt.Sprintf("Media/%d.wem", id)}
}

func gv(group, value cooked.ShortID) cooked.GroupValueID {
	return cooked.GroupValueID{Type: cooked.GroupValueSwitch, GroupID: group, ID: value}
}

func groupValue(group, value cooked.ShortID) *cooked.GroupValue {
	return &cooked.GroupValue{GroupValueID: gv(group, value), DebugName: fmt.Sprintf("gv_%d_%d", group, value)}
}

func event(id cooked.ShortID, req cooked.Requirements) *cooked.Event {
	return &cooked.Event{
		ID:        id,
		DebugName: fmt.Sprintf("event_%d", id),
		Languages: []cooked.LocalizedRequirements{{Language: cooked.SFX, Requirements: req}},
	}
}

func bankEvent(id cooked.ShortID, banks ...cooked.ShortID) *cooked.Event {
	req := cooked.Requirements{}
	for _, b := range banks {
		req.SoundBanks = append(req.SoundBanks, bank(b))
	}
	return event(id, req)
}
