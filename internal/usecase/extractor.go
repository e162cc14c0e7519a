package usecase

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/sitemeta-service/internal/entity"
)

// ExtractPageCheck parses rendered HTML and pulls out the SEO metadata we audit.
func ExtractPageCheck(page *entity.RenderedPage) (*entity.PageCheck, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, err
	}

	check := &entity.PageCheck{
		URL:            page.URL,
		Title:          strings.TrimSpace(doc.Find("title").First().Text()),
		HTTPStatusCode: page.HTTPStatusCode,
		ResponseTimeMS: page.ResponseTimeMS,
		H1Tags:         []string{},
		Hreflangs:      []string{},
	}

	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		check.Description = strings.TrimSpace(content)
	}
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		check.Canonical = strings.TrimSpace(href)
	}

	doc.Find("h1").Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			check.H1Tags = append(check.H1Tags, text)
		}
	})

	doc.Find(`link[rel="alternate"][hreflang]`).Each(func(i int, s *goquery.Selection) {
		lang, _ := s.Attr("hreflang")
		check.Hreflangs = append(check.Hreflangs, lang)
	})

	return check, nil
}
