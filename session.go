package pagetrack

import "time"

// Session is a snapshot of the current tracking session.
type Session struct {
	ID            string
	StartedAt     time.Time
	PageViewSent  bool
	ContentServed bool
	PageExitSent  bool
	LastEventType EventType
}
