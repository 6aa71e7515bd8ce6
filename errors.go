package pagetrack

import (
	"errors"

	"github.com/dmitrymomot/pagetrack/pkg/content"
)

var (
	// ErrMissingDeviceID is returned when no device identifier is configured.
	ErrMissingDeviceID = content.ErrMissingDeviceID

	// ErrMissingEndpoint is returned when no analytics endpoint is configured.
	ErrMissingEndpoint = errors.New("analytics endpoint is not configured")

	// ErrInvalidInteractionBinding is returned for a binding without label or selector.
	ErrInvalidInteractionBinding = errors.New("interaction binding requires a label and a selector")

	// ErrContentFetchFailed is matched by every content fetch failure,
	// including *content.FetchError.
	ErrContentFetchFailed = content.ErrFetchFailed

	// ErrOptedOut is returned when the page URL carries the opt-out marker.
	// Nothing is tracked for such a page.
	ErrOptedOut = content.ErrOptedOut

	ErrInvalidCurrency = errors.New("invalid ISO 4217 currency code")
	ErrInvalidValue    = errors.New("value must be a finite non-negative number")

	// ErrNoSession is returned by operations that need an active session.
	ErrNoSession = errors.New("no active session")

	// ErrInvalidSettings is returned by LoadSettings for malformed values.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrNoContentLoader is returned by FetchContent when no content endpoint is configured.
	ErrNoContentLoader = errors.New("content loader is not configured")
)
