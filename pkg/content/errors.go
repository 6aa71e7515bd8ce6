package content

import (
	"errors"
	"fmt"
)

var (
	ErrMissingDeviceID = errors.New("device id is required")
	ErrMissingEndpoint = errors.New("content endpoint is not configured")
	ErrOptedOut        = errors.New("tracking disabled by opt-out marker")
	ErrFetchFailed     = errors.New("content fetch failed")
)

// FetchError is returned when the content service answers with a non-2xx
// status. It matches ErrFetchFailed.
type FetchError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("content: fetch %s: unexpected status %d %s", e.URL, e.StatusCode, e.Status)
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
