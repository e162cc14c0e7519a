package entity

// RobotsRule is the crawl policy for a single user agent.
type RobotsRule struct {
	UserAgent string
	Allow     []string
	Disallow  []string
}

// RobotsPolicy is the full robots.txt document.
type RobotsPolicy struct {
	Rules   []RobotsRule
	Sitemap string
	Host    string
}
