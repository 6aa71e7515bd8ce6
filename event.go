package pagetrack

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/dmitrymomot/pagetrack/pkg/logger"
)

// EventType names an analytics event.
type EventType string

const (
	EventPageView      EventType = "PAGE_VIEW"
	EventContentServed EventType = "CONTENT_SERVED"
	EventClick         EventType = "CLICK"
	EventScroll        EventType = "SCROLL"
	EventIdle          EventType = "IDLE"
	EventTabSwitch     EventType = "TAB_SWITCH"
	EventPageExit      EventType = "PAGE_EXIT"
	EventCheckout      EventType = "CHECKOUT"
)

// Labels attached to lifecycle events.
const (
	LabelInit   = "INIT"
	LabelReset  = "RESET"
	LabelExit   = "EXIT"
	LabelReturn = "RETURN"
)

// Event is one analytics record. It is built and handed to the Transport in
// one step and never kept afterwards.
type Event struct {
	Timestamp        time.Time
	SessionID        string
	PageURL          string
	UserAgent        string
	Referrer         string
	DeviceID         string
	ProjectID        string
	WebsiteID        string
	ContentServingID string
	ContentID        string
	ContentStatus    string
	ProductID        string
	IsProductPage    bool
	Type             EventType
	Value            *float64
	Label            *string
	DOMPath          *string
}

// wireEvent is the collector's field layout.
type wireEvent struct {
	Timestamp        int64    `json:"ts"`
	SessionID        string   `json:"pid"`
	PageURL          string   `json:"u"`
	UserAgent        string   `json:"ua"`
	Referrer         string   `json:"r"`
	ProjectID        string   `json:"p"`
	WebsiteID        string   `json:"wid"`
	ContentServingID string   `json:"csrvid"`
	ContentID        string   `json:"cid"`
	ContentStatus    string   `json:"cs"`
	ProductID        string   `json:"prid"`
	DeviceID         string   `json:"uid"`
	NotProductPage   bool     `json:"npdp"`
	Type             string   `json:"t"`
	Value            *float64 `json:"v"`
	Label            *string  `json:"l"`
	DOMPath          *string  `json:"edp"`
}

type envelope struct {
	Event wireEvent `json:"event"`
}

// Marshal encodes e as the {"event": {...}} payload the collector accepts.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(envelope{Event: wireEvent{
		Timestamp:        e.Timestamp.UnixMilli(),
		SessionID:        e.SessionID,
		PageURL:          e.PageURL,
		UserAgent:        e.UserAgent,
		Referrer:         e.Referrer,
		ProjectID:        e.ProjectID,
		WebsiteID:        e.WebsiteID,
		ContentServingID: e.ContentServingID,
		ContentID:        e.ContentID,
		ContentStatus:    e.ContentStatus,
		ProductID:        e.ProductID,
		DeviceID:         e.DeviceID,
		NotProductPage:   !e.IsProductPage,
		Type:             string(e.Type),
		Value:            e.Value,
		Label:            e.Label,
		DOMPath:          e.DOMPath,
	}})
}

// DecodeEvent parses a payload produced by Event.Marshal.
func DecodeEvent(payload []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	w := env.Event
	return Event{
		Timestamp:        time.UnixMilli(w.Timestamp),
		SessionID:        w.SessionID,
		PageURL:          w.PageURL,
		UserAgent:        w.UserAgent,
		Referrer:         w.Referrer,
		DeviceID:         w.DeviceID,
		ProjectID:        w.ProjectID,
		WebsiteID:        w.WebsiteID,
		ContentServingID: w.ContentServingID,
		ContentID:        w.ContentID,
		ContentStatus:    w.ContentStatus,
		ProductID:        w.ProductID,
		IsProductPage:    !w.NotProductPage,
		Type:             EventType(w.Type),
		Value:            w.Value,
		Label:            w.Label,
		DOMPath:          w.DOMPath,
	}, nil
}

// emit builds an event from the current session and page and transmits it.
// Empty label or domPath are sent as null. Caller must hold t.mu.
func (t *Tracker) emit(typ EventType, value *float64, label, domPath string) error {
	if t.cfg.AnalyticsEndpoint == "" {
		return ErrMissingEndpoint
	}
	if t.cfg.DeviceID == "" {
		return ErrMissingDeviceID
	}
	if !t.live() {
		return ErrNoSession
	}

	info := t.page.Info()
	ev := Event{
		Timestamp:        t.clock.Now(),
		SessionID:        t.session.ID,
		PageURL:          info.URL,
		UserAgent:        info.UserAgent,
		Referrer:         info.Referrer,
		DeviceID:         t.cfg.DeviceID,
		ProjectID:        t.cfg.ProjectID,
		WebsiteID:        t.cfg.WebsiteID,
		ContentServingID: t.cfg.ContentServingID,
		ContentID:        t.cfg.ContentID,
		ContentStatus:    t.cfg.ContentStatus,
		ProductID:        t.cfg.ProductID,
		IsProductPage:    t.cfg.IsProductPage,
		Type:             typ,
		Value:            value,
		Label:            optional(label),
		DOMPath:          optional(domPath),
	}

	payload, err := ev.Marshal()
	if err != nil {
		return fmt.Errorf("encode %s event: %w", typ, err)
	}
	if err := t.transport.Send(t.cfg.AnalyticsEndpoint, payload, string(typ)); err != nil {
		return fmt.Errorf("send %s event: %w", typ, err)
	}
	t.session.LastEventType = typ

	level := slog.LevelDebug
	if t.devMode {
		level = slog.LevelInfo
	}
	t.log.Log(context.Background(), level, "analytics event sent",
		logger.SessionID(ev.SessionID),
		logger.EventType(string(typ)),
		logger.Label(label),
		logger.Selector(domPath),
		slog.String("payload", string(payload)),
	)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
