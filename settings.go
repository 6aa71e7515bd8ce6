package pagetrack

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/pagetrack/pkg/config"
)

// EnvPrefix prefixes every environment variable read by LoadSettings.
const EnvPrefix = "PAGETRACK_"

// Settings are per-deployment knobs, independent of the page being tracked.
type Settings struct {
	// ContentEndpoint is the content service URL used by FetchContent.
	ContentEndpoint string `env:"CONTENT_ENDPOINT" validate:"omitempty,http_url"`
	// AnalyticsEndpoint is used when a PageConfig does not name one.
	AnalyticsEndpoint string        `env:"ANALYTICS_ENDPOINT" validate:"omitempty,http_url"`
	DebounceDelay     time.Duration `env:"DEBOUNCE_DELAY" envDefault:"500ms"`
	// ScrollThreshold is the visible fraction of an element that counts as scrolled into view.
	ScrollThreshold float64 `env:"SCROLL_THRESHOLD" envDefault:"0.5"`
	// OptOutMarker in the page URL fragment disables tracking. Empty disables the check.
	OptOutMarker string `env:"OPT_OUT_MARKER" envDefault:"no-pagetrack"`
	// DevMarker in the page URL fragment logs every event at info level.
	DevMarker     string        `env:"DEV_MARKER" envDefault:"pagetrack-dev"`
	BeaconTimeout time.Duration `env:"BEACON_TIMEOUT" envDefault:"5s"`
	// SanitizeContent passes content selector values through bluemonday's
	// UGC policy. Off by default: values are kept as the service sent them.
	SanitizeContent bool `env:"SANITIZE_CONTENT"`
}

// DefaultSettings returns the settings used when none are given.
func DefaultSettings() Settings {
	return Settings{
		DebounceDelay:   500 * time.Millisecond,
		ScrollThreshold: 0.5,
		OptOutMarker:    "no-pagetrack",
		DevMarker:       "pagetrack-dev",
		BeaconTimeout:   5 * time.Second,
	}
}

// LoadSettings reads Settings from PAGETRACK_* environment variables.
func LoadSettings(opts ...config.Option) (Settings, error) {
	var s Settings
	opts = append([]config.Option{config.WithPrefix(EnvPrefix)}, opts...)
	if err := config.Load(&s, opts...); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s.normalized(), nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports ErrInvalidSettings when an endpoint is not an http(s) URL.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(fields, ", "))
}

func (s Settings) normalized() Settings {
	def := DefaultSettings()
	if s.DebounceDelay < 0 {
		s.DebounceDelay = 0
	}
	if s.ScrollThreshold <= 0 || s.ScrollThreshold > 1 {
		s.ScrollThreshold = def.ScrollThreshold
	}
	if s.BeaconTimeout <= 0 {
		s.BeaconTimeout = def.BeaconTimeout
	}
	return s
}
