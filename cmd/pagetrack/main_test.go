package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagetrack/pkg/beacon"
)

func TestMetricsRouter(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := beacon.NewMetrics(reg)
	require.NotNil(t, m)
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(collector.Close)

	sender := beacon.NewSender(beacon.WithMetrics(m))
	require.NoError(t, sender.Send(collector.URL, []byte(`{}`), "PAGE_VIEW"))
	require.NoError(t, sender.Close(t.Context()))

	srv := httptest.NewServer(metricsRouter(reg))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pagetrack_beacon_deliveries_total{kind="PAGE_VIEW"`)

	post, err := http.Post(srv.URL+"/metrics", "text/plain", nil)
	require.NoError(t, err)
	_ = post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)

	missing, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	_ = missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
