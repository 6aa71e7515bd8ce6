package pagetrack

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/pagetrack/pkg/clock"
	"github.com/dmitrymomot/pagetrack/pkg/content"
	"github.com/dmitrymomot/pagetrack/pkg/dom"
)

// ContentLoader fetches page content. *content.Loader implements it.
type ContentLoader interface {
	Fetch(ctx context.Context, deviceID string, page dom.Info) (*content.Content, error)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithSettings replaces DefaultSettings.
func WithSettings(s Settings) Option {
	return func(t *Tracker) {
		t.settings = s.normalized()
	}
}

// WithClock sets the time source for timestamps, idle and debounce timers.
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) {
		if c != nil {
			t.baseClock = c
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// WithSessionIDGenerator replaces ident.NewSessionID.
func WithSessionIDGenerator(fn func() string) Option {
	return func(t *Tracker) {
		if fn != nil {
			t.newSessionID = fn
		}
	}
}

// WithContentLoader sets the loader used by FetchContent. Without it a
// content.Loader is built from Settings.ContentEndpoint when that is set.
func WithContentLoader(l ContentLoader) Option {
	return func(t *Tracker) {
		t.loader = l
	}
}
