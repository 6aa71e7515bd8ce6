// Package content fetches page-specific configuration and content
// substitutions from the content service.
//
// A request is a single GET carrying the page URL, device id, referrer,
// locale, language code and timezone as query parameters. The JSON answer
// holds the analytics endpoint, project and content identifiers, the
// product-page flag, an idle-time suggestion and a list of {path, value}
// selector entries. Fetch turns the entries into a path → value map.
//
// Selector values are kept exactly as served. A loader built with
// WithSanitizer passes them through a bluemonday policy instead, which
// escapes plain text such as "&" or "<" as HTML entities.
//
// # Usage
//
//	l := content.NewLoader("https://content.example/v1/content")
//	c, err := l.Fetch(ctx, deviceID, page.Info())
//	if err != nil {
//	    // proceed without personalization
//	}
//
// # Error Handling
//
// Fetch fails fast with ErrMissingDeviceID, ErrOptedOut or
// ErrMissingEndpoint before any request. Network and decoding failures wrap
// ErrFetchFailed. A non-2xx answer returns *FetchError, which also matches
// ErrFetchFailed:
//
//	var fe *content.FetchError
//	if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound { /* ... */ }
//
// Nothing is retried.
package content
