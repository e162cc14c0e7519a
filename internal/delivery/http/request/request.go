package request

type UpdateConsentRequest struct {
	VisitorID string `json:"visitor_id"`
	Consent   string `json:"consent"` // "granted" or "denied"
}

// TrackRequest carries one tracking call from the browser.
// Type selects which of the optional fields are read.
type TrackRequest struct {
	VisitorID string `json:"visitor_id"`
	Location  string `json:"location"`
	Type      string `json:"type"` // "event", "page_view", "conversion", "user_properties"

	// event
	Action   string   `json:"action,omitempty"`
	Category string   `json:"category,omitempty"`
	Label    string   `json:"label,omitempty"`
	Value    *float64 `json:"value,omitempty"`

	// page_view
	Title        string `json:"title,omitempty"`
	ContentGroup string `json:"content_group,omitempty"`

	// conversion
	EventName string `json:"event_name,omitempty"`
	Currency  string `json:"currency,omitempty"`

	// user_properties
	Properties map[string]any `json:"properties,omitempty"`

	Params map[string]any `json:"params,omitempty"`
}
