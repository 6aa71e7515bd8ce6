package pagetrack_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagetrack"
	"github.com/dmitrymomot/pagetrack/pkg/clock"
	"github.com/dmitrymomot/pagetrack/pkg/dom"
	"github.com/dmitrymomot/pagetrack/pkg/logger"
)

const collectorURL = "https://collector.test/events"

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// recorder is a Transport that keeps every decoded event.
type recorder struct {
	mu        sync.Mutex
	events    []pagetrack.Event
	endpoints []string
	fail      error
}

func (r *recorder) Send(endpoint string, payload []byte, kind string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	ev, err := pagetrack.DecodeEvent(payload)
	if err != nil {
		return err
	}
	if string(ev.Type) != kind {
		return fmt.Errorf("kind %q does not match event type %q", kind, ev.Type)
	}
	r.events = append(r.events, ev)
	r.endpoints = append(r.endpoints, endpoint)
	return nil
}

func (r *recorder) all() []pagetrack.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pagetrack.Event(nil), r.events...)
}

func (r *recorder) ofType(typ pagetrack.EventType) []pagetrack.Event {
	var out []pagetrack.Event
	for _, ev := range r.all() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

// trace renders events as TYPE or TYPE(label).
func (r *recorder) trace() []string {
	var out []string
	for _, ev := range r.all() {
		if ev.Label != nil {
			out = append(out, fmt.Sprintf("%s(%s)", ev.Type, *ev.Label))
		} else {
			out = append(out, string(ev.Type))
		}
	}
	return out
}

func (r *recorder) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.endpoints = nil
}

func (r *recorder) failWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

var errTransportDown = errors.New("transport down")

type fixture struct {
	page  *dom.Memory
	clock *clock.Manual
	rec   *recorder
	tr    *pagetrack.Tracker
}

func newFixture(t *testing.T, opts ...pagetrack.Option) *fixture {
	t.Helper()
	f := &fixture{
		page: dom.NewMemory(dom.Info{
			URL:       "https://shop.test/products/42",
			Referrer:  "https://search.test/",
			UserAgent: "pagetrack-test/1.0",
			Locale:    "en-US",
			Lang:      "en",
			Timezone:  "UTC",
		}),
		clock: clock.NewManual(epoch),
		rec:   &recorder{},
	}
	var seq int
	base := []pagetrack.Option{
		pagetrack.WithClock(f.clock),
		pagetrack.WithLogger(logger.Discard()),
		pagetrack.WithSessionIDGenerator(func() string {
			seq++
			return fmt.Sprintf("s%d", seq)
		}),
	}
	f.tr = pagetrack.New(f.page, f.rec, append(base, opts...)...)
	return f
}

func pageConfig() pagetrack.PageConfig {
	return pagetrack.PageConfig{
		DeviceID:          "abc",
		AnalyticsEndpoint: collectorURL,
		ProjectID:         "p-1",
		WebsiteID:         "w-1",
		IdleTime:          time.Minute,
	}
}

func productConfig() pagetrack.PageConfig {
	cfg := pageConfig()
	cfg.IsProductPage = true
	cfg.ContentServingID = "cs-9"
	cfg.ContentID = "c-3"
	cfg.ProductID = "sku-1"
	return cfg
}

func (f *fixture) init(t *testing.T, cfg pagetrack.PageConfig) {
	t.Helper()
	require.NoError(t, f.tr.InitPageSession(cfg))
}

func ptr[T any](v T) *T { return &v }
