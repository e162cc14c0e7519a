package response

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/user/sitemeta-service/internal/entity"
)

type ConsentResponse struct {
	VisitorID string `json:"visitor_id"`
	Consent   string `json:"consent"`
}

type TrackResponse struct {
	Status  string `json:"status"`
	Outcome string `json:"outcome"`
}

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLSet is the sitemap XML document.
type URLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

type SitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// NewURLSet maps sitemap entries to their XML form.
func NewURLSet(entries []entity.SitemapEntry) URLSet {
	set := URLSet{Xmlns: sitemapNamespace, URLs: make([]SitemapURL, 0, len(entries))}
	for _, e := range entries {
		u := SitemapURL{
			Loc:        e.URL,
			ChangeFreq: string(e.ChangeFrequency),
			Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
		}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format(time.RFC3339)
		}
		set.URLs = append(set.URLs, u)
	}
	return set
}

// WriteSitemap encodes the sitemap with an XML declaration.
func WriteSitemap(w io.Writer, entries []entity.SitemapEntry) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(NewURLSet(entries)); err != nil {
		return err
	}
	return enc.Close()
}

// WriteRobots renders the policy as robots.txt directives.
func WriteRobots(w io.Writer, policy entity.RobotsPolicy) error {
	for i, rule := range policy.Rules {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "User-agent: %s\n", rule.UserAgent); err != nil {
			return err
		}
		for _, p := range rule.Allow {
			if _, err := fmt.Fprintf(w, "Allow: %s\n", p); err != nil {
				return err
			}
		}
		for _, p := range rule.Disallow {
			if _, err := fmt.Fprintf(w, "Disallow: %s\n", p); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "\nSitemap: %s\nHost: %s\n", policy.Sitemap, policy.Host)
	return err
}
