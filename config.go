package pagetrack

import (
	"time"

	"github.com/dmitrymomot/pagetrack/pkg/content"
)

const (
	DefaultIdleTime = 300 * time.Second
	MinIdleTime     = 60 * time.Second
	MaxIdleTime     = 599 * time.Second

	DefaultProjectID        = "0"
	DefaultContentServingID = "0"
	DefaultContentID        = "-"
)

// PageConfig is the configuration of one page session.
type PageConfig struct {
	DeviceID          string
	AnalyticsEndpoint string
	ProjectID         string
	WebsiteID         string
	ContentServingID  string
	ContentID         string
	ContentStatus     string
	ProductID         string
	IsProductPage     bool
	// IdleTime is clamped to [MinIdleTime, MaxIdleTime]; zero means DefaultIdleTime.
	IdleTime time.Duration
}

// ConfigFromContent builds a PageConfig from a content service answer.
func ConfigFromContent(c *content.Content) PageConfig {
	if c == nil {
		return PageConfig{}
	}
	return PageConfig{
		DeviceID:          c.DeviceID,
		AnalyticsEndpoint: c.AnalyticsEndpoint,
		ProjectID:         c.ProjectID,
		WebsiteID:         c.WebsiteID,
		ContentServingID:  c.ContentServingID,
		ContentID:         c.ContentID,
		ContentStatus:     c.ContentStatus,
		ProductID:         c.ProductID,
		IsProductPage:     c.IsPDP,
		IdleTime:          time.Duration(c.IdleTimeMillis) * time.Millisecond,
	}
}

// ClampIdleTime bounds d to [MinIdleTime, MaxIdleTime]. Non-positive values
// yield DefaultIdleTime.
func ClampIdleTime(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultIdleTime
	case d < MinIdleTime:
		return MinIdleTime
	case d > MaxIdleTime:
		return MaxIdleTime
	default:
		return d
	}
}

func (c PageConfig) normalized(fallbackEndpoint string) PageConfig {
	if c.AnalyticsEndpoint == "" {
		c.AnalyticsEndpoint = fallbackEndpoint
	}
	if c.ProjectID == "" {
		c.ProjectID = DefaultProjectID
	}
	if c.ContentServingID == "" {
		c.ContentServingID = DefaultContentServingID
	}
	if c.ContentID == "" {
		c.ContentID = DefaultContentID
	}
	c.IdleTime = ClampIdleTime(c.IdleTime)
	return c
}

// servesContent reports whether sessions on this page announce CONTENT_SERVED.
func (c PageConfig) servesContent() bool {
	return c.IsProductPage && c.ContentServingID != DefaultContentServingID
}
