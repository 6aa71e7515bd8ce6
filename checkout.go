package pagetrack

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
)

// SendCheckoutEvent reports a completed checkout of value in the ISO 4217
// currency code. The event carries the value and the normalized code as its
// label. Unlike bindings it is never queued: without an active session it
// fails with ErrNoSession.
func (t *Tracker) SendCheckoutEvent(code string, value float64) error {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidValue, value)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.live() {
		return ErrNoSession
	}
	return t.emit(EventCheckout, &value, unit.String(), "")
}
