package beacon

import (
	"log/slog"
	"net/http"
	"time"
)

// Outcome classifies a finished delivery.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeFailed  Outcome = "failed"
	OutcomeDropped Outcome = "dropped"
)

// DeliveryResult describes one delivery.
type DeliveryResult struct {
	Endpoint   string
	Kind       string
	Outcome    Outcome
	StatusCode int
	Duration   time.Duration
	Error      error
}

// DeliveryHook is called once per delivery from the delivering goroutine.
type DeliveryHook func(result DeliveryResult)

// Option configures a Sender.
type Option func(*Sender)

// WithHTTPClient replaces the default client. Nil is ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Sender) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout bounds each request. Default is 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(s *Sender) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Sender) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithLogger sets the logger for delivery failures. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records deliveries in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Sender) {
		s.metrics = m
	}
}

// WithOnDelivery sets a hook invoked after every delivery.
func WithOnDelivery(hook DeliveryHook) Option {
	return func(s *Sender) {
		s.onDelivery = hook
	}
}

// WithCircuitBreaker drops deliveries for cooldown after failures consecutive
// failed deliveries. One probe is let through when the cooldown ends.
func WithCircuitBreaker(failures uint32, cooldown time.Duration) Option {
	return func(s *Sender) {
		if failures == 0 {
			return
		}
		s.breaker = newBreaker(failures, cooldown, func() *slog.Logger { return s.log })
	}
}
