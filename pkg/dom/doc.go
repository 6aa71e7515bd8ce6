// Package dom defines the slice of a web page the tracker needs: element
// lookup by CSS selector, click and intersection callbacks, page metadata,
// visibility state and page-global activity notifications.
//
// Page is implemented by Memory, a scriptable in-memory page used in tests
// and simulations, and by pkg/rodpage for a real browser tab.
//
// # Callback contract
//
// Implementations deliver callbacks (click handlers, intersection callbacks
// and Listener methods) from their own dispatch, never synchronously from
// inside a Page method call, and never while holding internal locks. Callers
// may therefore call back into the Page from a callback.
//
// # Usage
//
//	page := dom.NewMemory(dom.Info{URL: "https://shop.example/p/1"})
//	btn := page.AddElement("#buy")
//	_ = page.OnClick(btn, func() { fmt.Println("clicked") })
//	page.Click(btn)
package dom
