package rodpage

import "log/slog"

// Option configures a Page.
type Option func(*Page)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(p *Page) {
		if l != nil {
			p.log = l
		}
	}
}
