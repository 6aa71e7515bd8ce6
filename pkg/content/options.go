package content

import (
	"log/slog"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
)

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the default client. Nil is ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithOptOutMarker sets the URL fragment marker that disables fetching.
func WithOptOutMarker(marker string) Option {
	return func(l *Loader) {
		l.optOutMarker = marker
	}
}

// WithSanitizer passes every selector value through policy before it lands
// in Content.Selectors. A nil policy means bluemonday's UGC policy. Without
// this option values are kept exactly as served.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(l *Loader) {
		if policy == nil {
			policy = bluemonday.UGCPolicy()
		}
		l.sanitize = policy.Sanitize
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}
