package beacon

import "errors"

var (
	ErrInvalidURL     = errors.New("invalid beacon URL")
	ErrInvalidPayload = errors.New("invalid beacon payload")
	ErrClosed         = errors.New("beacon sender is closed")
	ErrDeliveryFailed = errors.New("beacon delivery failed")
	ErrCircuitOpen    = errors.New("beacon circuit breaker is open")
)
