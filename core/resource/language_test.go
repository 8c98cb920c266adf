package resource

import (
	"testing"
	"time"

	"audio-loader/core/cooked"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voiceEvent(id cooked.ShortID) *cooked.Event {
	return &cooked.Event{
		ID:        id,
		DebugName: "voice_line",
		Languages: []cooked.LocalizedRequirements{
			{Language: english, Requirements: cooked.Requirements{SoundBanks: []cooked.SoundBank{localizedBank(100, english)}}},
			{Language: french, Requirements: cooked.Requirements{SoundBanks: []cooked.SoundBank{localizedBank(200, french)}}},
		},
	}
}

func TestParseLanguagePolicy(t *testing.T) {
	for _, p := range []LanguagePolicy{LanguageManual, LanguageImmediate, LanguageSafe} {
		got, err := ParseLanguagePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParseLanguagePolicy("eventually")
	assert.Error(t, err)
}

func TestSetLanguage_Immediate(t *testing.T) {
	io := newFakeIO()
	m := newTestManager(t, io.backends(), english)
	ctx := testContext(t)

	h, err := m.LoadEventSync(ctx, voiceEvent(1), nil)
	require.NoError(t, err)
	sfx, err := m.LoadEventSync(ctx, bankEvent(2, 10), nil)
	require.NoError(t, err)

	require.NoError(t, m.SetLanguageSync(ctx, french, LanguageImmediate))
	assert.Equal(t, french, m.Language())
	assert.Equal(t, []call{
		loadCall("soundbank", 100),
		loadCall("soundbank", 10),
		unloadCall("soundbank", 100),
		loadCall("soundbank", 200),
	}, io.calls())

	nodes, err := m.SnapshotSync(ctx)
	require.NoError(t, err)
	for _, n := range nodes {
		assert.NotEqual(t, english.Name, n.Language, n.Name)
	}

	require.NoError(t, m.UnloadEventSync(ctx, h))
	require.NoError(t, m.UnloadEventSync(ctx, sfx))
	assert.Equal(t, 1, io.count(unloadCall("soundbank", 200)))
}

func TestSetLanguage_SameLanguageIsNoop(t *testing.T) {
	io := newFakeIO()
	m := newTestManager(t, io.backends(), english)
	ctx := testContext(t)

	_, err := m.LoadEventSync(ctx, voiceEvent(1), nil)
	require.NoError(t, err)
	require.NoError(t, m.SetLanguageSync(ctx, english, LanguageImmediate))
	assert.Len(t, io.calls(), 1)
}

func TestSetLanguage_ManualThenReload(t *testing.T) {
	io := newFakeIO()
	m := newTestManager(t, io.backends(), english)
	ctx := testContext(t)

	_, err := m.LoadEventSync(ctx, voiceEvent(1), nil)
	require.NoError(t, err)

	require.NoError(t, m.SetLanguageSync(ctx, french, LanguageManual))
	assert.Len(t, io.calls(), 1)
	nodes, err := m.SnapshotSync(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, english.Name, nodes[0].Language)

	wait(t, m.ReloadLanguage(english))
	assert.Equal(t, 1, io.count(loadCall("soundbank", 200)))
	nodes, err = m.SnapshotSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, french.Name, nodes[0].Language)
}

func TestSetLanguage_SafeStopsPlayback(t *testing.T) {
	io := newFakeIO()
	engine := &fakeEngine{}
	backends := io.backends()
	backends.Engine = engine
	m := newTestManager(t, backends, english)
	ctx := testContext(t)

	_, err := m.LoadEventSync(ctx, voiceEvent(1), nil)
	require.NoError(t, err)
	require.NoError(t, m.SetLanguageSync(ctx, french, LanguageSafe))

	assert.EqualValues(t, 1, engine.stops.Load())
	assert.EqualValues(t, 2, engine.frames.Load())
	assert.Equal(t, 1, io.count(loadCall("soundbank", 200)))
}

func TestSetLanguage_OverrideIsKept(t *testing.T) {
	io := newFakeIO()
	m := newTestManager(t, io.backends(), english)
	ctx := testContext(t)

	lang := english
	_, err := m.LoadEventSync(ctx, voiceEvent(1), &lang)
	require.NoError(t, err)
	require.NoError(t, m.SetLanguageSync(ctx, french, LanguageImmediate))

	assert.Len(t, io.calls(), 1)
	nodes, err := m.SnapshotSync(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].Override)
	assert.Equal(t, english.Name, nodes[0].Language)
}

func TestSetLanguage_MissingVariantIsSkipped(t *testing.T) {
	io := newFakeIO()
	m := newTestManager(t, io.backends(), english)
	ctx := testContext(t)

	englishOnly := &cooked.Event{
		ID:        1,
		DebugName: "english_only",
		Languages: []cooked.LocalizedRequirements{
			{Language: english, Requirements: cooked.Requirements{SoundBanks: []cooked.SoundBank{localizedBank(100, english)}}},
		},
	}
	h, err := m.LoadEventSync(ctx, englishOnly, nil)
	require.NoError(t, err)
	require.NoError(t, m.SetLanguageSync(ctx, french, LanguageImmediate))

	nodes, err := m.SnapshotSync(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, french.Name, nodes[0].Language)
	assert.False(t, nodes[0].Loaded)

	require.NoError(t, m.UnloadEventSync(ctx, h))
	assert.Equal(t, []call{
		loadCall("soundbank", 100),
		unloadCall("soundbank", 100),
	}, io.calls())
}

func TestSetLanguage_DuringLoadRebinds(t *testing.T) {
	io := newFakeIO()
	io.holdCompletions()
	m := newTestManager(t, io.backends(), english)
	ctx := testContext(t)

	loading := m.LoadEvent(voiceEvent(1), nil)
	require.Eventually(t, func() bool {
		return io.count(loadCall("soundbank", 100)) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, m.SetLanguageSync(ctx, french, LanguageImmediate))
	io.flush()
	require.NotNil(t, wait(t, loading))

	require.Eventually(t, func() bool {
		nodes, err := m.SnapshotSync(ctx)
		return err == nil && len(nodes) == 1 && nodes[0].Language == french.Name && nodes[0].Loaded
	}, time.Second, time.Millisecond)
	assert.Equal(t, 1, io.count(unloadCall("soundbank", 100)))
	assert.Equal(t, 1, io.count(loadCall("soundbank", 200)))
}
