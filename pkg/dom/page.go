package dom

import (
	"net/url"
	"strings"
)

// Activity signal names delivered to Listener.Activity.
const (
	MouseMove        = "mousemove"
	KeyPress         = "keypress"
	TouchMove        = "touchmove"
	Scroll           = "scroll"
	Click            = "click"
	KeyUp            = "keyup"
	TouchStart       = "touchstart"
	TouchEnd         = "touchend"
	VisibilityChange = "visibilitychange"
)

// ActivitySignals lists every signal that counts as user activity.
var ActivitySignals = []string{
	MouseMove, KeyPress, TouchMove, Scroll, Click, KeyUp, TouchStart, TouchEnd, VisibilityChange,
}

// Element identifies a node on the page. IDs are stable for the node's
// lifetime and unique within a page.
type Element struct {
	ID string
}

// Info is page metadata.
type Info struct {
	URL       string
	Referrer  string
	UserAgent string
	// Locale is the browser locale, e.g. "en-US".
	Locale string
	// Lang is the document language attribute, possibly empty.
	Lang     string
	Timezone string
}

// Fragment returns the decoded URL fragment without the leading '#'.
func (i Info) Fragment() string {
	u, err := url.Parse(i.URL)
	if err != nil {
		if idx := strings.IndexByte(i.URL, '#'); idx != -1 {
			return i.URL[idx+1:]
		}
		return ""
	}
	return u.Fragment
}

// HasMarker reports whether the URL fragment contains marker.
func (i Info) HasMarker(marker string) bool {
	return marker != "" && strings.Contains(i.Fragment(), marker)
}

// Listener receives page-global notifications.
type Listener interface {
	// Activity reports a user-activity signal, one of ActivitySignals.
	Activity(signal string)
	// VisibilityChanged reports a document visibility transition.
	VisibilityChanged(visible bool)
	// Unload reports that the page is being torn down.
	Unload()
}

// Watch is an active intersection observation.
type Watch interface {
	Stop()
}

// Page is the page a tracker instruments.
type Page interface {
	Info() Info
	Visible() bool
	// Query returns the elements currently matching selector, in document order.
	Query(selector string) ([]Element, error)
	// OnClick calls fn on every click on el until the page goes away.
	OnClick(el Element, fn func()) error
	// ObserveIntersection calls fn whenever at least threshold of el's area
	// becomes visible in the viewport, until the returned Watch is stopped.
	ObserveIntersection(el Element, threshold float64, fn func()) (Watch, error)
	// Subscribe registers l for page-global notifications.
	Subscribe(l Listener) (cancel func())
}
