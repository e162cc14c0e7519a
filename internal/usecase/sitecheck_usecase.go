package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/user/sitemeta-service/internal/entity"
	"github.com/user/sitemeta-service/internal/repository"
	"github.com/user/sitemeta-service/pkg/metrics"
	"github.com/user/sitemeta-service/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// SiteCheckReport summarizes one run over the sitemap.
type SiteCheckReport struct {
	Checked int
	Failed  []*entity.PageCheck // pages with issues or render failures
	// Regressed lists pages that passed on the previous run and fail now.
	Regressed []string
}

// SiteChecker renders every sitemap URL and audits its SEO metadata.
type SiteChecker interface {
	Run(ctx context.Context) (*SiteCheckReport, error)
}

type siteCheckUseCase struct {
	manifest    ManifestGenerator
	renderer    repository.PageRenderer
	checkRepo   repository.PageCheckRepository
	concurrency int
	now         func() time.Time
}

// NewSiteChecker creates a new site check use case.
func NewSiteChecker(
	manifest ManifestGenerator,
	renderer repository.PageRenderer,
	checkRepo repository.PageCheckRepository,
	concurrency int,
) SiteChecker {
	if concurrency < 1 {
		concurrency = 1
	}
	metrics.Init()
	return &siteCheckUseCase{
		manifest:    manifest,
		renderer:    renderer,
		checkRepo:   checkRepo,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Run checks all pages. It only returns an error when a result cannot be
// stored or the context is cancelled; page problems end up in the report.
func (uc *siteCheckUseCase) Run(ctx context.Context) (*SiteCheckReport, error) {
	entries := uc.manifest.Sitemap()
	report := &SiteCheckReport{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			check := uc.checkPage(gctx, entry.URL)
			previous := uc.previousCheck(gctx, entry.URL)
			if err := uc.checkRepo.Save(gctx, check); err != nil {
				return fmt.Errorf("failed to save check for %s: %w", entry.URL, err)
			}

			mu.Lock()
			defer mu.Unlock()
			report.Checked++
			if !check.OK() {
				report.Failed = append(report.Failed, check)
				if previous != nil && previous.OK() {
					report.Regressed = append(report.Regressed, check.URL)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

// previousCheck returns the stored check for pageURL, or nil when there is none
// or it cannot be read. Previous results are informational only.
func (uc *siteCheckUseCase) previousCheck(ctx context.Context, pageURL string) *entity.PageCheck {
	previous, err := uc.checkRepo.FindByURL(ctx, pageURL)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Warn("Failed to load previous page check", "url", pageURL, "error", err)
		}
		return nil
	}
	// Issues are not stored.
	if previous.FailureReason == "" {
		previous.Issues = auditPage(previous)
	}
	return previous
}

func (uc *siteCheckUseCase) checkPage(ctx context.Context, pageURL string) *entity.PageCheck {
	start := time.Now()
	page, err := uc.renderer.Render(ctx, pageURL)
	metrics.SiteCheckDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		slog.Error("Failed to render page", "url", pageURL, "error", err)
		metrics.SiteCheckPagesTotal.WithLabelValues("failed").Inc()
		return &entity.PageCheck{URL: pageURL, FailureReason: err.Error(), CheckedAt: uc.now()}
	}

	check, err := ExtractPageCheck(page)
	if err != nil {
		slog.Error("Failed to parse rendered page", "url", pageURL, "error", err)
		metrics.SiteCheckPagesTotal.WithLabelValues("failed").Inc()
		return &entity.PageCheck{URL: pageURL, HTTPStatusCode: page.HTTPStatusCode, FailureReason: err.Error(), CheckedAt: uc.now()}
	}
	check.CheckedAt = uc.now()
	check.Issues = auditPage(check)

	if len(check.Issues) > 0 {
		slog.Warn("Page has SEO issues", "url", pageURL, "issues", check.Issues)
		metrics.SiteCheckPagesTotal.WithLabelValues("issues").Inc()
	} else {
		metrics.SiteCheckPagesTotal.WithLabelValues("ok").Inc()
	}
	return check
}

func auditPage(check *entity.PageCheck) []string {
	var issues []string
	if check.HTTPStatusCode < 200 || check.HTTPStatusCode >= 300 {
		issues = append(issues, fmt.Sprintf("unexpected status %d", check.HTTPStatusCode))
	}
	if check.Title == "" {
		issues = append(issues, "missing title")
	}
	if check.Description == "" {
		issues = append(issues, "missing meta description")
	}
	if check.Canonical != "" {
		canonical := check.Canonical
		// Relative canonicals resolve against the page itself.
		if base, err := url.Parse(check.URL); err == nil {
			if abs, err := utils.ToAbsoluteURL(base, canonical); err == nil {
				canonical = abs
			}
		}
		if !utils.SameURL(canonical, check.URL) {
			issues = append(issues, fmt.Sprintf("canonical points to %s", check.Canonical))
		}
	}
	return issues
}
