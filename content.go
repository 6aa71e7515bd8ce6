package pagetrack

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/dmitrymomot/pagetrack/pkg/content"
	"github.com/dmitrymomot/pagetrack/pkg/logger"
)

// FetchContent retrieves the content for the current page on behalf of
// deviceID. The request runs without holding the tracker, so page events keep
// flowing meanwhile. On success the selectors are kept for ContentSelectors;
// on failure nothing is changed.
//
// The answer is usually passed on with InitPageSession(ConfigFromContent(c)).
func (t *Tracker) FetchContent(ctx context.Context, deviceID string) (*content.Content, error) {
	if t.loader == nil {
		return nil, ErrNoContentLoader
	}

	c, err := t.loader.Fetch(ctx, deviceID, t.page.Info())
	if err != nil {
		t.log.Warn("content fetch failed", logger.DeviceID(deviceID), logger.Error(err))
		return nil, err
	}
	if c.Selectors == nil {
		c.Selectors = content.SelectorMap(c.RawSelectors, nil)
	}

	t.mu.Lock()
	t.rawSelectors = slices.Clone(c.RawSelectors)
	t.selectors = maps.Clone(c.Selectors)
	t.mu.Unlock()

	t.log.Debug("content fetched",
		logger.DeviceID(deviceID),
		slog.String("content_id", c.ContentID),
	)
	return c, nil
}

// ContentSelectors returns a copy of the selector → value map from the last
// successful FetchContent. It is nil before the first one.
func (t *Tracker) ContentSelectors() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.selectors)
}

// RawContentSelectors returns the selector entries from the last successful
// FetchContent in the order the service sent them.
func (t *Tracker) RawContentSelectors() []content.Selector {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.rawSelectors)
}
