package resource

import (
	"testing"

	"audio-loader/core/cooked"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leafEvent(id cooked.ShortID, media cooked.ShortID, values ...cooked.GroupValueID) *cooked.Event {
	return event(id, cooked.Requirements{
		SwitchContainerLeaves: []cooked.SwitchContainerLeaf{{
			GroupValues: values,
			Media:       []cooked.Media{streamed(media)},
		}},
	})
}

func TestLeaf_LoadsOnlyWhenEveryGroupValueIsActive(t *testing.T) {
	io := newFakeIO()
	m := newTestManager(t, io.backends(), cooked.SFX)
	ctx := testContext(t)
	m1 := loadCall("media", 501)

	e, err := m.LoadEventSync(ctx, leafEvent(1, 501, gv(1, 5), gv(2, 9)), nil)
	require.NoError(t, err)
	assert.Zero(t, io.count(m1))

	first, err := m.LoadGroupValueSync(ctx, groupValue(1, 5), nil)
	require.NoError(t, err)
	assert.Zero(t, io.count(m1), "one of two group values is active")

	second, err := m.LoadGroupValueSync(ctx, groupValue(2, 9), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, io.count(m1))

	require.NoError(t, m.UnloadGroupValueSync(ctx, first))
	assert.Equal(t, 1, io.count(unloadCall("media", 501)))

	stats, err := m.StatsSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Leaves)
	assert.Zero(t, stats.LoadedLeaves)

	require.NoError(t, m.UnloadGroupValueSync(ctx, second))
	require.NoError(t, m.UnloadEventSync(ctx, e))

	stats, err = m.StatsSync(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Leaves)
	assert.Zero(t, stats.ActiveGroupValues)
	assert.Equal(t, 1, io.count(m1))
	assert.Equal(t, 1, io.count(unloadCall("media", 501)))
}

func TestLeaf_EventRegisteredAfterGroupValues(t *testing.T) {
	io := newFakeIO()
	m := newTestManager(t, io.backends(), cooked.SFX)
	ctx := testContext(t)

	_, err := m.LoadGroupValueSync(ctx, groupValue(1, 5), nil)
	require.NoError(t, err)
	_, err = m.LoadGroupValueSync(ctx, groupValue(2, 9), nil)
	require.NoError(t, err)
	assert.Empty(t, io.calls(), "no event uses the leaf yet")

	e, err := m.LoadEventSync(ctx, leafEvent(1, 501, gv(2, 9), gv(1, 5)), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, io.count(loadCall("media", 501)))

	require.NoError(t, m.UnloadEventSync(ctx, e))
	assert.Equal(t, 1, io.count(unloadCall("media", 501)))
}

func TestLeaf_SharedBetweenEvents(t *testing.T) {
	for _, order := range []string{"fifo", "lifo"} {
		t.Run(order, func(t *testing.T) {
			io := newFakeIO()
			m := newTestManager(t, io.backends(), cooked.SFX)
			ctx := testContext(t)

			_, err := m.LoadGroupValueSync(ctx, groupValue(1, 5), nil)
			require.NoError(t, err)

			e1, err := m.LoadEventSync(ctx, leafEvent(1, 501, gv(1, 5)), nil)
			require.NoError(t, err)
			e2, err := m.LoadEventSync(ctx, leafEvent(2, 501, gv(1, 5)), nil)
			require.NoError(t, err)
			assert.Equal(t, 1, io.count(loadCall("media", 501)))

			if order == "lifo" {
				e1, e2 = e2, e1
			}
			require.NoError(t, m.UnloadEventSync(ctx, e1))
			assert.Zero(t, io.count(unloadCall("media", 501)))
			require.NoError(t, m.UnloadEventSync(ctx, e2))
			assert.Equal(t, 1, io.count(unloadCall("media", 501)))
		})
	}
}

func TestLeaf_RequiredGroupValuesActivateLeaves(t *testing.T) {
	io := newFakeIO()
	m := newTestManager(t, io.backends(), cooked.SFX)
	ctx := testContext(t)

	e, err := m.LoadEventSync(ctx, leafEvent(1, 501, gv(1, 5), gv(2, 9)), nil)
	require.NoError(t, err)
	_, err = m.LoadGroupValueSync(ctx, groupValue(1, 5), nil)
	require.NoError(t, err)

	requiring, err := m.LoadEventSync(ctx, event(2, cooked.Requirements{RequiredGroupValues: []cooked.GroupValueID{gv(2, 9)}}), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, io.count(loadCall("media", 501)))

	require.NoError(t, m.UnloadEventSync(ctx, requiring))
	assert.Equal(t, 1, io.count(unloadCall("media", 501)))
	require.NoError(t, m.UnloadEventSync(ctx, e))
}

func TestLeaf_FailureDoesNotFailEvent(t *testing.T) {
	io := newFakeIO()
	io.fail(501)
	m := newTestManager(t, io.backends(), cooked.SFX)
	ctx := testContext(t)

	_, err := m.LoadGroupValueSync(ctx, groupValue(1, 5), nil)
	require.NoError(t, err)
	e, err := m.LoadEventSync(ctx, leafEvent(1, 501, gv(1, 5)), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, io.count(loadCall("media", 501)))

	// A second group value change retries the failed leaf.
	io.mu.Lock()
	delete(io.failing, 501)
	io.mu.Unlock()
	other, err := m.LoadGroupValueSync(ctx, groupValue(1, 5), nil)
	require.NoError(t, err)
	require.NoError(t, m.UnloadGroupValueSync(ctx, other))
	assert.Equal(t, 1, io.count(loadCall("media", 501)), "reactivating an active value is not a change")

	require.NoError(t, m.UnloadEventSync(ctx, e))
	e, err = m.LoadEventSync(ctx, leafEvent(1, 501, gv(1, 5)), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, io.count(loadCall("media", 501)))
	require.NoError(t, m.UnloadEventSync(ctx, e))
	assert.Equal(t, 1, io.count(unloadCall("media", 501)))
}

func TestLeafRegistry_UnbalancedNoticeIsTolerated(t *testing.T) {
	m := newTestManager(t, newFakeIO().backends(), cooked.SFX)

	done := make(chan struct{})
	require.True(t, m.q.Async(func() {
		m.leaves.noticeGroupValueUnloaded(gv(3, 3)).Then(func(struct{}) { close(done) })
	}))
	<-done

	stats := wait(t, m.Stats())
	assert.Zero(t, stats.ActiveGroupValues)
}

func TestLeaf_SameGroupValuesDifferentMediaAreSeparateLeaves(t *testing.T) {
	io := newFakeIO()
	m := newTestManager(t, io.backends(), cooked.SFX)
	ctx := testContext(t)

	_, err := m.LoadGroupValueSync(ctx, groupValue(1, 5), nil)
	require.NoError(t, err)

	footstep, err := m.LoadEventSync(ctx, leafEvent(1, 501, gv(1, 5)), nil)
	require.NoError(t, err)
	jump, err := m.LoadEventSync(ctx, leafEvent(2, 777, gv(1, 5)), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, io.count(loadCall("media", 501)))
	assert.Equal(t, 1, io.count(loadCall("media", 777)))
	stats, err := m.StatsSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Leaves)
	assert.Equal(t, 2, stats.LoadedLeaves)

	require.NoError(t, m.UnloadEventSync(ctx, footstep))
	assert.Equal(t, 1, io.count(unloadCall("media", 501)))
	assert.Zero(t, io.count(unloadCall("media", 777)))

	require.NoError(t, m.UnloadEventSync(ctx, jump))
	assert.Equal(t, 1, io.count(unloadCall("media", 777)))
}

func TestLeaf_MediaEmbeddedInEventBank(t *testing.T) {
	io := newFakeIO()
	m := newTestManager(t, io.backends(), cooked.SFX)
	ctx := testContext(t)

	embedded := cooked.Media{ID: 900, DebugName: "media_900", Location: cooked.MediaInSoundBank, SoundBankID: 10}
	e, err := m.LoadEventSync(ctx, event(1, cooked.Requirements{
		SoundBanks: []cooked.SoundBank{bank(10)},
		SwitchContainerLeaves: []cooked.SwitchContainerLeaf{{
			GroupValues: []cooked.GroupValueID{gv(1, 5)},
			Media:       []cooked.Media{embedded},
		}},
	}), nil)
	require.NoError(t, err)

	v, err := m.LoadGroupValueSync(ctx, groupValue(1, 5), nil)
	require.NoError(t, err)

	stats, err := m.StatsSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Leaves)
	assert.Equal(t, 1, stats.LoadedLeaves)
	assert.Equal(t, []call{loadCall("soundbank", 10)}, io.calls(), "the leaf shares the event's bank")

	require.NoError(t, m.UnloadGroupValueSync(ctx, v))
	assert.Zero(t, io.count(unloadCall("soundbank", 10)), "the event still holds the bank")

	require.NoError(t, m.UnloadEventSync(ctx, e))
	assert.Equal(t, 1, io.count(unloadCall("soundbank", 10)))
}
