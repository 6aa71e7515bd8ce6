// Package pagetrack tracks how a visitor interacts with a web page and
// reports every interaction as an analytics event.
//
// A Tracker watches one page through the dom.Page contract. It opens a
// session, announces it with PAGE_VIEW (and CONTENT_SERVED on product pages
// serving content), reports CLICK and SCROLL on bound elements, ends the
// session on inactivity or a long absence from the tab, and sends PAGE_EXIT
// when the page goes away. Each event is serialized to the collector's JSON
// layout and handed to a Transport; pkg/beacon provides the HTTP one.
//
// # Architecture
//
// The page is single-threaded from the tracker's point of view: public
// methods, page callbacks and timer callbacks all run under one lock. The
// session lifecycle is a pkg/lifecycle machine:
//
//	Uninitialized --Init--> Active --Reset--> Resetting --Resume--> Active
//	Active --Terminate--> Terminated --Init--> Active
//
// Clicks are coalesced per element by pkg/debounce. Every debouncer joins the
// tracker's registry, which is flushed before a reset, when the tab is hidden
// and on termination, so no interaction is lost.
//
// The idle monitor arms a timer for the configured idle time (60s to 599s,
// 300s by default) and re-arms it on user activity. When it fires without
// activity the tracker sends IDLE and starts a new session. Hiding the tab
// sends TAB_SWITCH("EXIT"); returning within the idle time sends
// TAB_SWITCH("RETURN"), returning later resets the session instead.
//
// # Usage
//
//	sender := beacon.NewSender()
//	defer sender.Close(context.Background())
//
//	tr := pagetrack.New(page, sender, pagetrack.WithLogger(log))
//	defer tr.Close()
//
//	c, err := tr.FetchContent(ctx, deviceID)
//	if err != nil {
//	    return err
//	}
//	if err := tr.InitPageSession(pagetrack.ConfigFromContent(c)); err != nil {
//	    return err
//	}
//	_ = tr.BindClicks(pagetrack.Binding{Label: "ADD_TO_CART", Selector: "#add"})
//	_ = tr.BindScrolls(pagetrack.Binding{Label: "REVIEWS", Selector: "#reviews"})
//
// Bindings requested before InitPageSession are queued and applied when the
// session starts.
//
// # Error Handling
//
// Preconditions fail fast: ErrMissingDeviceID, ErrMissingEndpoint,
// ErrInvalidInteractionBinding, ErrInvalidCurrency, ErrInvalidValue and
// ErrNoSession are returned to the caller. A page whose URL fragment carries
// the opt-out marker yields ErrOptedOut. Content failures match
// ErrContentFetchFailed. Failures inside page or timer callbacks cannot reach
// a caller and are logged instead. Nothing is retried.
package pagetrack
