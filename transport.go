package pagetrack

// Transport hands serialized events to the network. Send must return without
// waiting for delivery; kind is the event type, for metrics.
// *beacon.Sender implements Transport.
type Transport interface {
	Send(endpoint string, payload []byte, kind string) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(endpoint string, payload []byte, kind string) error

func (f TransportFunc) Send(endpoint string, payload []byte, kind string) error {
	return f(endpoint, payload, kind)
}
