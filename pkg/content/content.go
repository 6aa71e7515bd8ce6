package content

// Selector is one content substitution: HTML for the element at Path.
type Selector struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// Content is the page configuration returned by the content service.
type Content struct {
	DeviceID          string     `json:"deviceId"`
	RequestURL        string     `json:"requestUrl,omitempty"`
	AnalyticsEndpoint string     `json:"analyticsEndpoint"`
	ProjectID         string     `json:"projectId"`
	WebsiteID         string     `json:"websiteId"`
	ContentServingID  string     `json:"contentServingId"`
	ContentID         string     `json:"contentId"`
	ContentStatus     string     `json:"contentStatus"`
	ProductID         string     `json:"productId"`
	IsPDP             bool       `json:"isPdp"`
	IdleTimeMillis    int64      `json:"idleTime"`
	RawSelectors      []Selector `json:"rawContentSelectors"`

	// Selectors maps selector path to value, built from RawSelectors.
	Selectors map[string]string `json:"-"`
}

// SelectorMap converts raw entries into a path → value map. Later entries
// win for repeated paths; entries without a path are skipped.
func SelectorMap(raw []Selector, sanitize func(string) string) map[string]string {
	m := make(map[string]string, len(raw))
	for _, s := range raw {
		if s.Path == "" {
			continue
		}
		v := s.Value
		if sanitize != nil {
			v = sanitize(v)
		}
		m[s.Path] = v
	}
	return m
}
