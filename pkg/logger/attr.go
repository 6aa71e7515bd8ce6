package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". A nil error yields an empty Attr, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// SessionID records the tracking session id under "session_id".
func SessionID(id string) slog.Attr {
	return slog.String("session_id", id)
}

// DeviceID records the device id under "device_id".
func DeviceID(id string) slog.Attr {
	return slog.String("device_id", id)
}

// EventType records the analytics event type under "event_type".
func EventType(t string) slog.Attr {
	return slog.String("event_type", t)
}

// Label records an interaction label under "label".
func Label(label string) slog.Attr {
	return slog.String("label", label)
}

// Selector records a CSS selector under "selector".
func Selector(sel string) slog.Attr {
	return slog.String("selector", sel)
}

// Phase records a session lifecycle phase under "phase".
func Phase(p string) slog.Attr {
	return slog.String("phase", p)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records d under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// StatusCode records an HTTP status under "status_code".
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// Group creates a group attribute.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}
