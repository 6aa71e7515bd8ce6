package debounce

import "github.com/dmitrymomot/pagetrack/pkg/clock"

type options struct {
	clock    clock.Clock
	registry *Registry
}

// Option configures a Debouncer.
type Option func(*options)

// WithClock sets the clock used for delay timers. Nil is ignored.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithRegistry registers the debouncer with r while it has a pending action.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}
