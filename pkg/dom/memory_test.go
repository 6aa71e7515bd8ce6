package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagetrack/pkg/dom"
)

type recordingListener struct {
	activity   []string
	visibility []bool
	unloads    int
}

func (r *recordingListener) Activity(signal string)   { r.activity = append(r.activity, signal) }
func (r *recordingListener) VisibilityChanged(v bool) { r.visibility = append(r.visibility, v) }
func (r *recordingListener) Unload()                  { r.unloads++ }

func TestInfo_Markers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url      string
		fragment string
		marker   bool
	}{
		{"https://shop.example/p/1", "", false},
		{"https://shop.example/p/1#no-pagetrack", "no-pagetrack", true},
		{"https://shop.example/p/1#section&no-pagetrack", "section&no-pagetrack", true},
		{"https://shop.example/p/1#other", "other", false},
	}
	for _, tt := range tests {
		info := dom.Info{URL: tt.url}
		assert.Equal(t, tt.fragment, info.Fragment(), tt.url)
		assert.Equal(t, tt.marker, info.HasMarker("no-pagetrack"), tt.url)
	}
	assert.False(t, dom.Info{URL: "https://x#abc"}.HasMarker(""))
}

func TestMemory_Query(t *testing.T) {
	t.Parallel()

	page := dom.NewMemory(dom.Info{})
	a := page.AddElement(".item")
	b := page.AddElement(".item")
	page.Match("#first", a)

	els, err := page.Query(".item")
	require.NoError(t, err)
	assert.Equal(t, []dom.Element{a, b}, els)

	els, err = page.Query("#first")
	require.NoError(t, err)
	assert.Equal(t, []dom.Element{a}, els)

	els, err = page.Query(".missing")
	require.NoError(t, err)
	assert.Empty(t, els)

	_, err = page.Query("")
	assert.ErrorIs(t, err, dom.ErrEmptySelector)

	page.RemoveSelector(".item")
	els, err = page.Query(".item")
	require.NoError(t, err)
	assert.Empty(t, els)
}

func TestMemory_Click(t *testing.T) {
	t.Parallel()

	page := dom.NewMemory(dom.Info{})
	l := &recordingListener{}
	page.Subscribe(l)

	btn := page.AddElement("#buy")
	clicks := 0
	require.NoError(t, page.OnClick(btn, func() { clicks++ }))
	assert.Equal(t, 1, page.ClickHandlers(btn))

	page.Click(btn)
	page.Click(btn)
	assert.Equal(t, 2, clicks)
	assert.Equal(t, []string{dom.Click, dom.Click}, l.activity)

	err := page.OnClick(dom.Element{ID: "ghost"}, func() {})
	assert.ErrorIs(t, err, dom.ErrUnknownElement)
}

func TestMemory_Intersection(t *testing.T) {
	t.Parallel()

	page := dom.NewMemory(dom.Info{})
	el := page.AddElement("#reviews")

	hits := 0
	var w dom.Watch
	w, err := page.ObserveIntersection(el, 0.5, func() {
		hits++
		w.Stop()
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.ActiveWatches(el))

	page.ScrollIntoView(el, 0.3)
	assert.Equal(t, 0, hits)

	page.ScrollIntoView(el, 0.5)
	page.ScrollIntoView(el, 1)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 0, page.ActiveWatches(el))

	_, err = page.ObserveIntersection(el, 0, func() {})
	assert.ErrorIs(t, err, dom.ErrInvalidRatio)
	_, err = page.ObserveIntersection(dom.Element{ID: "ghost"}, 0.5, func() {})
	assert.ErrorIs(t, err, dom.ErrUnknownElement)
}

func TestMemory_VisibilityAndUnload(t *testing.T) {
	t.Parallel()

	page := dom.NewMemory(dom.Info{})
	l := &recordingListener{}
	cancel := page.Subscribe(l)
	assert.True(t, page.Visible())
	assert.Equal(t, 1, page.Listeners())

	page.SetVisible(true)
	page.SetVisible(false)
	page.SetVisible(false)
	page.SetVisible(true)
	assert.Equal(t, []bool{false, true}, l.visibility)

	page.Unload()
	assert.Equal(t, 1, l.unloads)

	cancel()
	assert.Equal(t, 0, page.Listeners())
	page.Activity(dom.KeyPress)
	assert.Empty(t, l.activity)
}

func TestMemory_CallbackMayReenter(t *testing.T) {
	t.Parallel()

	page := dom.NewMemory(dom.Info{})
	btn := page.AddElement("#buy")
	require.NoError(t, page.OnClick(btn, func() {
		_, _ = page.Query("#buy")
		page.AddElement("#added")
	}))

	page.Click(btn)
	els, err := page.Query("#added")
	require.NoError(t, err)
	assert.Len(t, els, 1)
}
