package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/pagetrack/pkg/dom"
	"github.com/dmitrymomot/pagetrack/pkg/logger"
)

// DefaultOptOutMarker disables fetching when present in the page URL fragment.
const DefaultOptOutMarker = "no-pagetrack"

const maxBodySize = 1 << 20

// Loader fetches page content from the content service. It never retries.
type Loader struct {
	endpoint     string
	client       *http.Client
	optOutMarker string
	// sanitize is nil unless WithSanitizer was given.
	sanitize func(string) string
	log      *slog.Logger
}

// NewLoader creates a loader for the content service at endpoint.
func NewLoader(endpoint string, opts ...Option) *Loader {
	l := &Loader{
		endpoint:     endpoint,
		client:       &http.Client{Timeout: 10 * time.Second},
		optOutMarker: DefaultOptOutMarker,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fetch requests the content for page on behalf of deviceID.
func (l *Loader) Fetch(ctx context.Context, deviceID string, page dom.Info) (*Content, error) {
	if deviceID == "" {
		return nil, ErrMissingDeviceID
	}
	if page.HasMarker(l.optOutMarker) {
		return nil, ErrOptedOut
	}
	if l.endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	reqURL, err := l.requestURL(deviceID, page)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		l.log.WarnContext(ctx, "content service returned an error",
			logger.Component("content"),
			logger.StatusCode(resp.StatusCode),
			logger.Duration(time.Since(start)),
		)
		return nil, &FetchError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode), URL: reqURL}
	}

	var c Content
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrFetchFailed, err)
	}
	c.DeviceID = deviceID
	c.Selectors = SelectorMap(c.RawSelectors, l.sanitize)

	l.log.DebugContext(ctx, "content fetched",
		logger.Component("content"),
		logger.DeviceID(deviceID),
		slog.Int("selectors", len(c.Selectors)),
		logger.Duration(time.Since(start)),
	)
	return &c, nil
}

func (l *Loader) requestURL(deviceID string, page dom.Info) (string, error) {
	u, err := url.Parse(l.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: invalid endpoint: %w", ErrFetchFailed, err)
	}
	q := u.Query()
	q.Set("pageUrl", page.URL)
	q.Set("deviceId", deviceID)
	q.Set("referrerUrl", page.Referrer)
	q.Set("locale", Locale(page.Locale))
	q.Set("languageCode", LanguageCode(page.Lang))
	q.Set("timezone", page.Timezone)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Locale returns the canonical BCP 47 form of locale, or "en-US" when it
// cannot be parsed.
func Locale(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil || tag == language.Und {
		return "en-US"
	}
	return tag.String()
}

// LanguageCode returns the base language of a document lang attribute, or
// "en" when it is empty or invalid.
func LanguageCode(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil || tag == language.Und {
		return "en"
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "en"
	}
	return base.String()
}
