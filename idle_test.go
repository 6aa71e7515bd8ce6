package pagetrack_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagetrack"
	"github.com/dmitrymomot/pagetrack/pkg/dom"
)

func TestIdleTimeout(t *testing.T) {
	t.Parallel()

	t.Run("inactivity sends idle and resets", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.init(t, pageConfig())
		require.Equal(t, []string{"PAGE_VIEW(INIT)"}, f.rec.trace())

		f.clock.Advance(59 * time.Second)
		assert.Equal(t, []string{"PAGE_VIEW(INIT)"}, f.rec.trace())

		f.clock.Advance(time.Second)
		assert.Equal(t, []string{"PAGE_VIEW(INIT)", "IDLE", "PAGE_VIEW(RESET)"}, f.rec.trace())

		idle := f.rec.ofType(pagetrack.EventIdle)[0]
		assert.Equal(t, "s1", idle.SessionID)
		require.NotNil(t, idle.Value)
		assert.InDelta(t, 60000, *idle.Value, 0)
		assert.Equal(t, "s2", f.rec.ofType(pagetrack.EventPageView)[1].SessionID)
	})

	t.Run("keeps resetting while nobody is around", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.init(t, pageConfig())

		f.clock.Advance(2 * time.Minute)
		assert.Equal(t, []string{
			"PAGE_VIEW(INIT)", "IDLE", "PAGE_VIEW(RESET)", "IDLE", "PAGE_VIEW(RESET)",
		}, f.rec.trace())
		s, _ := f.tr.Session()
		assert.Equal(t, "s3", s.ID)
	})

	t.Run("activity postpones idle", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.init(t, pageConfig())

		f.clock.Advance(30 * time.Second)
		f.page.Activity(dom.MouseMove)
		f.clock.Advance(59 * time.Second)
		assert.Empty(t, f.rec.ofType(pagetrack.EventIdle))

		f.clock.Advance(time.Second)
		assert.Len(t, f.rec.ofType(pagetrack.EventIdle), 1)
	})

	t.Run("reset invalidates the pending timer", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.init(t, pageConfig())

		f.clock.Advance(30 * time.Second)
		require.NoError(t, f.tr.ResetSession())
		f.clock.Advance(40 * time.Second)
		assert.Empty(t, f.rec.ofType(pagetrack.EventIdle))

		f.clock.Advance(20 * time.Second)
		idle := f.rec.ofType(pagetrack.EventIdle)
		require.Len(t, idle, 1)
		assert.Equal(t, "s2", idle[0].SessionID)
	})

	t.Run("idle time is clamped", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		cfg := pageConfig()
		cfg.IdleTime = time.Second
		f.init(t, cfg)

		f.clock.Advance(59 * time.Second)
		assert.Empty(t, f.rec.ofType(pagetrack.EventIdle))
		f.clock.Advance(time.Second)
		assert.Len(t, f.rec.ofType(pagetrack.EventIdle), 1)
	})
}

func TestTabSwitch(t *testing.T) {
	t.Parallel()

	t.Run("short absence sends exit and return", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.init(t, pageConfig())

		f.page.SetVisible(false)
		f.clock.Advance(59 * time.Second)
		f.page.SetVisible(true)

		assert.Equal(t, []string{"PAGE_VIEW(INIT)", "TAB_SWITCH(EXIT)", "TAB_SWITCH(RETURN)"}, f.rec.trace())
		s, _ := f.tr.Session()
		assert.Equal(t, "s1", s.ID)
	})

	t.Run("return restarts the idle countdown", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.init(t, pageConfig())

		f.clock.Advance(50 * time.Second)
		f.page.SetVisible(false)
		f.clock.Advance(30 * time.Second)
		f.page.SetVisible(true)

		f.clock.Advance(59 * time.Second)
		assert.Empty(t, f.rec.ofType(pagetrack.EventIdle))
		f.clock.Advance(time.Second)
		assert.Len(t, f.rec.ofType(pagetrack.EventIdle), 1)
	})

	t.Run("long absence resets without return", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.init(t, pageConfig())

		f.page.SetVisible(false)
		f.clock.Advance(time.Minute)
		f.page.SetVisible(true)

		assert.Equal(t, []string{"PAGE_VIEW(INIT)", "TAB_SWITCH(EXIT)", "PAGE_VIEW(RESET)"}, f.rec.trace())
		s, _ := f.tr.Session()
		assert.Equal(t, "s2", s.ID)
	})

	t.Run("no idle while hidden", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.init(t, pageConfig())

		f.page.SetVisible(false)
		f.clock.Advance(10 * time.Minute)
		assert.Empty(t, f.rec.ofType(pagetrack.EventIdle))
		assert.Zero(t, f.clock.Pending())

		f.page.SetVisible(true)
		assert.Len(t, f.rec.ofType(pagetrack.EventPageView), 2)
		assert.Empty(t, f.rec.ofType(pagetrack.EventIdle))
	})

	t.Run("first reveal of a hidden start sends init then return", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.page.SetVisible(false)
		f.init(t, pageConfig())

		f.clock.Advance(10 * time.Minute)
		f.page.SetVisible(true)

		assert.Equal(t, []string{"PAGE_VIEW(INIT)", "TAB_SWITCH(RETURN)"}, f.rec.trace())
		s, _ := f.tr.Session()
		assert.Equal(t, "s1", s.ID, "time spent hidden before the first reveal never resets")

		f.clock.Advance(time.Minute)
		assert.Len(t, f.rec.ofType(pagetrack.EventIdle), 1, "idle countdown starts at the reveal")
	})

	t.Run("hiding flushes pending clicks", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		el := f.page.AddElement("#buy")
		f.init(t, pageConfig())
		require.NoError(t, f.tr.BindClicks(pagetrack.Binding{Label: "BUY", Selector: "#buy"}))

		f.page.Click(el)
		f.page.SetVisible(false)

		assert.Equal(t, []string{"PAGE_VIEW(INIT)", "TAB_SWITCH(EXIT)", "CLICK(BUY)"}, f.rec.trace())
	})
}
