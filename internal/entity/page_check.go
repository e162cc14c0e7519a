package entity

import "time"

// PageCheck mirrors the `page_checks` PostgreSQL table schema.
type PageCheck struct {
	URL            string
	Title          string
	Description    string
	Canonical      string
	H1Tags         []string
	Hreflangs      []string
	HTTPStatusCode int
	ResponseTimeMS int
	FailureReason  string
	Issues         []string // Derived, not stored
	CheckedAt      time.Time
}

// OK reports whether the page rendered and no issue was found.
func (p *PageCheck) OK() bool {
	return p.FailureReason == "" && len(p.Issues) == 0
}

// RenderedPage is the raw result of loading a URL in a browser.
type RenderedPage struct {
	URL            string
	HTML           string
	HTTPStatusCode int
	ResponseTimeMS int
}
