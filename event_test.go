package pagetrack_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagetrack"
)

func TestEventMarshal(t *testing.T) {
	t.Parallel()

	t.Run("collector layout", func(t *testing.T) {
		t.Parallel()
		ev := pagetrack.Event{
			Timestamp:        time.UnixMilli(1714564800123),
			SessionID:        "s1",
			PageURL:          "https://shop.test/p",
			UserAgent:        "ua",
			Referrer:         "https://ref.test/",
			DeviceID:         "abc",
			ProjectID:        "p-1",
			WebsiteID:        "w-1",
			ContentServingID: "cs-1",
			ContentID:        "c-1",
			ContentStatus:    "LIVE",
			ProductID:        "sku",
			IsProductPage:    true,
			Type:             pagetrack.EventClick,
			Label:            ptr("BUY"),
			DOMPath:          ptr("#buy"),
		}
		payload, err := ev.Marshal()
		require.NoError(t, err)

		var got map[string]map[string]any
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, map[string]any{
			"ts":     float64(1714564800123),
			"pid":    "s1",
			"u":      "https://shop.test/p",
			"ua":     "ua",
			"r":      "https://ref.test/",
			"p":      "p-1",
			"wid":    "w-1",
			"csrvid": "cs-1",
			"cid":    "c-1",
			"cs":     "LIVE",
			"prid":   "sku",
			"uid":    "abc",
			"npdp":   false,
			"t":      "CLICK",
			"v":      nil,
			"l":      "BUY",
			"edp":    "#buy",
		}, got["event"])
	})

	t.Run("absent optionals are null", func(t *testing.T) {
		t.Parallel()
		payload, err := pagetrack.Event{Type: pagetrack.EventPageExit}.Marshal()
		require.NoError(t, err)
		assert.Contains(t, string(payload), `"v":null`)
		assert.Contains(t, string(payload), `"l":null`)
		assert.Contains(t, string(payload), `"edp":null`)
		assert.Contains(t, string(payload), `"npdp":true`)
	})

	t.Run("decode restores the event", func(t *testing.T) {
		t.Parallel()
		ev := pagetrack.Event{
			Timestamp: time.UnixMilli(1714564800000),
			SessionID: "s1",
			DeviceID:  "abc",
			Type:      pagetrack.EventIdle,
			Value:     ptr(60000.0),
		}
		payload, err := ev.Marshal()
		require.NoError(t, err)

		got, err := pagetrack.DecodeEvent(payload)
		require.NoError(t, err)
		assert.True(t, ev.Timestamp.Equal(got.Timestamp))
		assert.Equal(t, ev.Type, got.Type)
		assert.Equal(t, ev.Value, got.Value)
		assert.False(t, got.IsProductPage)
	})

	t.Run("decode rejects garbage", func(t *testing.T) {
		t.Parallel()
		_, err := pagetrack.DecodeEvent([]byte("not json"))
		require.Error(t, err)
	})
}
