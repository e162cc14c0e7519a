package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/user/sitemeta-service/internal/entity"
	"github.com/user/sitemeta-service/pkg/metrics"
	"github.com/user/sitemeta-service/pkg/utils"
)

var ErrInvalidManifest = errors.New("invalid manifest input")

// ManifestInput lists every publicly reachable page of the site.
type ManifestInput struct {
	BaseURL       string
	Locales       []string // First entry is the default locale.
	StaticPages   []string // "" is the home page.
	TutorialPages []string // English only.
	LegalPages    []string
}

// DefaultManifestInput returns the site's fixed page catalog for baseURL.
func DefaultManifestInput(baseURL string) ManifestInput {
	return ManifestInput{
		BaseURL:     baseURL,
		Locales:     []string{"en", "zh", "ja", "ko", "es", "fr"},
		StaticPages: []string{"", "/pricing", "/gallery", "/create", "/faq"},
		TutorialPages: []string{
			"/tutorials/how-to-make-ai-action-figure",
			"/tutorials/action-figure-prompt-guide",
			"/tutorials/photo-to-action-figure",
			"/tutorials/custom-packaging-design",
			"/tutorials/action-figure-video",
		},
		LegalPages: []string{"/privacy-policy", "/terms-of-service"},
	}
}

// Validate rejects inputs that could not produce a well-formed manifest.
// It runs once at startup; a failure is a deployment defect.
func (in ManifestInput) Validate() error {
	if strings.TrimRight(in.BaseURL, "/") == "" {
		return fmt.Errorf("%w: base URL is empty", ErrInvalidManifest)
	}
	if len(in.Locales) == 0 {
		return fmt.Errorf("%w: no locales", ErrInvalidManifest)
	}
	for _, l := range in.Locales {
		if l == "" || strings.Contains(l, "/") {
			return fmt.Errorf("%w: bad locale %q", ErrInvalidManifest, l)
		}
	}
	seen := make(map[string]struct{})
	for _, e := range buildSitemap(in.normalized(), time.Time{}) {
		if _, dup := seen[e.URL]; dup {
			return fmt.Errorf("%w: duplicate url %s", ErrInvalidManifest, e.URL)
		}
		seen[e.URL] = struct{}{}
	}
	return nil
}

func (in ManifestInput) normalized() ManifestInput {
	in.BaseURL = strings.TrimRight(in.BaseURL, "/")
	return in
}

// ManifestGenerator produces the sitemap and robots policy of the site.
type ManifestGenerator interface {
	Sitemap() []entity.SitemapEntry
	Robots() entity.RobotsPolicy
}

type manifestUseCase struct {
	input ManifestInput
	now   func() time.Time
}

// NewManifestGenerator validates input and returns a generator.
// now may be nil, in which case time.Now is used.
func NewManifestGenerator(input ManifestInput, now func() time.Time) (ManifestGenerator, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	metrics.Init()
	return &manifestUseCase{input: input.normalized(), now: now}, nil
}

// Sitemap lists entries locale-major, page-minor, then tutorials, then legal pages.
func (uc *manifestUseCase) Sitemap() []entity.SitemapEntry {
	metrics.ManifestDocumentsTotal.WithLabelValues("sitemap").Inc()
	return buildSitemap(uc.input, uc.now())
}

func buildSitemap(in ManifestInput, lastModified time.Time) []entity.SitemapEntry {
	entries := make([]entity.SitemapEntry, 0, len(in.Locales)*len(in.StaticPages)+len(in.TutorialPages)+len(in.LegalPages))
	defaultLocale := in.Locales[0]

	for _, locale := range in.Locales {
		for _, page := range in.StaticPages {
			url := utils.JoinURL(in.BaseURL, page)
			if locale != defaultLocale {
				url = utils.JoinURL(in.BaseURL, "/"+locale+page)
			}
			entry := entity.SitemapEntry{
				URL:             url,
				LastModified:    lastModified,
				ChangeFrequency: entity.ChangeWeekly,
				Priority:        entity.PriorityStatic,
			}
			if page == "" {
				entry.ChangeFrequency = entity.ChangeDaily
				entry.Priority = entity.PriorityHome
			}
			entries = append(entries, entry)
		}
	}

	for _, page := range in.TutorialPages {
		entries = append(entries, entity.SitemapEntry{
			URL:             utils.JoinURL(in.BaseURL, page),
			LastModified:    lastModified,
			ChangeFrequency: entity.ChangeWeekly,
			Priority:        entity.PriorityTutorial,
		})
	}

	for _, page := range in.LegalPages {
		entries = append(entries, entity.SitemapEntry{
			URL:             utils.JoinURL(in.BaseURL, page),
			LastModified:    lastModified,
			ChangeFrequency: entity.ChangeMonthly,
			Priority:        entity.PriorityLegal,
		})
	}

	return entries
}

var (
	// Paths no crawler may visit.
	sensitivePaths = []string{"/api/", "/admin/", "/auth/", "/private/", "/console/", "/user/", "/api-keys/"}
	// Framework internals and assets; named search bots may fetch them to render pages.
	internalPaths = []string{"/_next/", "/static/"}
	namedBots     = []string{"Googlebot", "Bingbot"}
)

// Robots returns the wildcard block followed by one block per named search bot.
func (uc *manifestUseCase) Robots() entity.RobotsPolicy {
	metrics.ManifestDocumentsTotal.WithLabelValues("robots").Inc()

	wildcard := entity.RobotsRule{
		UserAgent: "*",
		Allow:     []string{"/"},
		Disallow:  append(append([]string{}, sensitivePaths...), internalPaths...),
	}
	rules := []entity.RobotsRule{wildcard}
	for _, bot := range namedBots {
		rules = append(rules, entity.RobotsRule{
			UserAgent: bot,
			Allow:     []string{"/"},
			Disallow:  append([]string{}, sensitivePaths...),
		})
	}

	return entity.RobotsPolicy{
		Rules:   rules,
		Sitemap: utils.JoinURL(uc.input.BaseURL, "/sitemap.xml"),
		Host:    uc.input.BaseURL,
	}
}
