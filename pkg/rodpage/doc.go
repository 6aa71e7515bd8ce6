// Package rodpage implements dom.Page on top of a go-rod browser tab.
//
// Attach injects a small bridge script into the tab and registers a CDP
// binding. The bridge assigns stable ids to queried elements, installs click
// listeners and IntersectionObservers on request, and reports user activity,
// visibility changes and page unload back through the binding. Activity
// signals are throttled to one per second and type in the page.
//
// Page metadata and visibility are cached on the Go side and refreshed when
// the bridge reports a navigation, so Info and Visible never round-trip to
// the browser.
//
// Usage:
//
//	page := stealth.MustPage(browser)
//	page.MustNavigate(url).MustWaitLoad()
//
//	p, err := rodpage.Attach(ctx, page)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	tr := pagetrack.New(p, sender)
package rodpage
