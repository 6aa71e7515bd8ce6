// Package beacon delivers analytics payloads the way navigator.sendBeacon
// does: the caller hands over a body and moves on, delivery happens in the
// background at most once, and nobody waits for the answer.
//
// # Architecture
//
// Send validates its input synchronously (http or https URL with a host,
// non-empty body) and returns. A goroutine per payload POSTs it with
// Content-Type "text/plain;charset=UTF-8" and a per-request timeout. Close
// stops intake and waits for in-flight requests.
//
// Optional collaborators observe each delivery:
//
//   - WithCircuitBreaker wraps delivery in a github.com/sony/gobreaker/v2
//     breaker. While it is open payloads are dropped instead of piling up
//     against a failing collector.
//   - WithMetrics counts outcomes and round-trip time with Prometheus.
//   - WithOnDelivery receives a DeliveryResult per payload.
//
// # Usage
//
//	reg := prometheus.NewRegistry()
//	s := beacon.NewSender(
//	    beacon.WithTimeout(5*time.Second),
//	    beacon.WithCircuitBreaker(5, 30*time.Second),
//	    beacon.WithMetrics(beacon.NewMetrics(reg)),
//	)
//	defer s.Close(context.Background())
//
//	if err := s.Send("https://collector.example/events", body, "PAGE_VIEW"); err != nil {
//	    // invalid URL or payload, or the sender is closed
//	}
//
// # Error Handling
//
// Send returns ErrInvalidURL, ErrInvalidPayload or ErrClosed. Delivery
// failures never reach the caller; DeliveryResult.Error wraps
// ErrDeliveryFailed or ErrCircuitOpen.
package beacon
