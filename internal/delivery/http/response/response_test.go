package response

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/sitemeta-service/internal/entity"
)

func TestWriteSitemap(t *testing.T) {
	modified := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []entity.SitemapEntry{
		{URL: "https://example.com", LastModified: modified, ChangeFrequency: entity.ChangeDaily, Priority: 1.0},
		{URL: "https://example.com/privacy-policy", LastModified: modified, ChangeFrequency: entity.ChangeMonthly, Priority: 0.3},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSitemap(&buf, entries))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, out, "<lastmod>2025-06-01T12:00:00Z</lastmod>")
	assert.Contains(t, out, "<priority>1.0</priority>")
	assert.Contains(t, out, "<changefreq>monthly</changefreq>")

	var parsed URLSet
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed.URLs, 2)
	assert.Equal(t, "0.3", parsed.URLs[1].Priority)
}

func TestWriteRobots(t *testing.T) {
	policy := entity.RobotsPolicy{
		Rules: []entity.RobotsRule{
			{UserAgent: "*", Allow: []string{"/"}, Disallow: []string{"/api/", "/_next/"}},
			{UserAgent: "Googlebot", Allow: []string{"/"}, Disallow: []string{"/api/"}},
		},
		Sitemap: "https://example.com/sitemap.xml",
		Host:    "https://example.com",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRobots(&buf, policy))

	want := "User-agent: *\nAllow: /\nDisallow: /api/\nDisallow: /_next/\n" +
		"\nUser-agent: Googlebot\nAllow: /\nDisallow: /api/\n" +
		"\nSitemap: https://example.com/sitemap.xml\nHost: https://example.com\n"
	assert.Equal(t, want, buf.String())
}
