package beacon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the beacon collectors.
type Metrics struct {
	// Deliveries counts finished deliveries by kind and outcome.
	Deliveries *prometheus.CounterVec
	// Duration observes the HTTP round trip of attempted deliveries by kind.
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pagetrack",
			Subsystem: "beacon",
			Name:      "deliveries_total",
			Help:      "Analytics beacons by event kind and outcome.",
		}, []string{"kind", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pagetrack",
			Subsystem: "beacon",
			Name:      "delivery_duration_seconds",
			Help:      "Round trip time of beacon POST requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}

func (m *Metrics) observe(r DeliveryResult) {
	if m == nil {
		return
	}
	m.Deliveries.WithLabelValues(r.Kind, string(r.Outcome)).Inc()
	if r.Outcome != OutcomeDropped {
		m.Duration.WithLabelValues(r.Kind).Observe(r.Duration.Seconds())
	}
}
