package pagetrack_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagetrack"
	"github.com/dmitrymomot/pagetrack/pkg/content"
)

const contentBody = `{
	"analyticsEndpoint": "https://collector.test/events",
	"projectId": "p-7",
	"websiteId": "w-7",
	"contentServingId": "cs-1",
	"contentId": "c-1",
	"contentStatus": "LIVE",
	"productId": "sku-7",
	"isPdp": true,
	"idleTime": 120000,
	"rawContentSelectors": [
		{"path": "#title", "value": "<b>New title</b>"},
		{"path": "#cta", "value": "Buy now"}
	]
}`

func contentServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func withContentEndpoint(url string) pagetrack.Option {
	s := pagetrack.DefaultSettings()
	s.ContentEndpoint = url
	return pagetrack.WithSettings(s)
}

func TestFetchContent(t *testing.T) {
	t.Parallel()

	t.Run("success feeds the session config", func(t *testing.T) {
		t.Parallel()
		srv := contentServer(t, http.StatusOK, contentBody)
		f := newFixture(t, withContentEndpoint(srv.URL))

		c, err := f.tr.FetchContent(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", c.DeviceID)
		assert.Equal(t, map[string]string{"#title": "<b>New title</b>", "#cta": "Buy now"}, f.tr.ContentSelectors())
		assert.Len(t, f.tr.RawContentSelectors(), 2)

		cfg := pagetrack.ConfigFromContent(c)
		f.init(t, cfg)
		assert.Equal(t, 2*time.Minute, f.tr.Config().IdleTime)
		assert.Equal(t, []string{"PAGE_VIEW(INIT)", "CONTENT_SERVED"}, f.rec.trace())
		assert.Equal(t, "LIVE", f.rec.all()[1].ContentStatus)
	})

	t.Run("server error leaves state untouched", func(t *testing.T) {
		t.Parallel()
		srv := contentServer(t, http.StatusInternalServerError, "")
		f := newFixture(t, withContentEndpoint(srv.URL))
		f.init(t, pageConfig())
		before := f.tr.Config()

		c, err := f.tr.FetchContent(context.Background(), "abc")
		require.Nil(t, c)
		require.ErrorIs(t, err, pagetrack.ErrContentFetchFailed)
		var fetchErr *content.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)

		assert.Equal(t, before, f.tr.Config())
		assert.Nil(t, f.tr.ContentSelectors())
		assert.Equal(t, []string{"PAGE_VIEW(INIT)"}, f.rec.trace())
	})

	t.Run("missing device id", func(t *testing.T) {
		t.Parallel()
		srv := contentServer(t, http.StatusOK, contentBody)
		f := newFixture(t, withContentEndpoint(srv.URL))

		_, err := f.tr.FetchContent(context.Background(), "")
		require.ErrorIs(t, err, pagetrack.ErrMissingDeviceID)
	})

	t.Run("opted out", func(t *testing.T) {
		t.Parallel()
		srv := contentServer(t, http.StatusOK, contentBody)
		f := newFixture(t, withContentEndpoint(srv.URL))
		info := f.page.Info()
		info.URL += "#no-pagetrack"
		f.page.SetInfo(info)

		_, err := f.tr.FetchContent(context.Background(), "abc")
		require.ErrorIs(t, err, pagetrack.ErrOptedOut)
	})

	t.Run("no loader configured", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.tr.FetchContent(context.Background(), "abc")
		require.ErrorIs(t, err, pagetrack.ErrNoContentLoader)
	})

	t.Run("custom loader", func(t *testing.T) {
		t.Parallel()
		srv := contentServer(t, http.StatusOK, contentBody)
		loader := content.NewLoader(srv.URL, content.WithSanitizer(bluemonday.StrictPolicy()))
		f := newFixture(t, pagetrack.WithContentLoader(loader))

		_, err := f.tr.FetchContent(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "New title", f.tr.ContentSelectors()["#title"])
	})

	t.Run("selector values are kept as served", func(t *testing.T) {
		t.Parallel()
		srv := contentServer(t, http.StatusOK, `{"rawContentSelectors": [
			{"path": "h1", "value": "Tom & Jerry's <i>deal</i> < 10$"}
		]}`)
		f := newFixture(t, withContentEndpoint(srv.URL))

		_, err := f.tr.FetchContent(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "Tom & Jerry's <i>deal</i> < 10$", f.tr.ContentSelectors()["h1"])
	})

	t.Run("sanitizing is opt-in through settings", func(t *testing.T) {
		t.Parallel()
		srv := contentServer(t, http.StatusOK, `{"rawContentSelectors": [
			{"path": "#title", "value": "<b>New title</b><script>alert(1)</script>"}
		]}`)
		s := pagetrack.DefaultSettings()
		s.ContentEndpoint = srv.URL
		s.SanitizeContent = true
		f := newFixture(t, pagetrack.WithSettings(s))

		_, err := f.tr.FetchContent(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "<b>New title</b>", f.tr.ContentSelectors()["#title"])
		assert.Equal(t, "<b>New title</b><script>alert(1)</script>", f.tr.RawContentSelectors()[0].Value)
	})
}
