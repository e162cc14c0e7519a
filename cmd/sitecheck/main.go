// Command sitecheck renders every sitemap URL in headless Chrome and records
// an SEO metadata check per page.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/sitemeta-service/internal/adapter/chromedp_renderer"
	"github.com/user/sitemeta-service/internal/adapter/postgres"
	"github.com/user/sitemeta-service/internal/usecase"
	"github.com/user/sitemeta-service/pkg/config"
	"github.com/user/sitemeta-service/pkg/logger"
	"github.com/user/sitemeta-service/pkg/metrics"
)

func main() {
	baseURL := flag.String("base-url", "", "site to check (defaults to SITE_BASE_URL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Unable to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Init(os.Stderr, logger.ParseLevel(cfg.LogLevel))
	metrics.Init()

	site := cfg.SiteBaseURL
	if *baseURL != "" {
		site = *baseURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manifest, err := usecase.NewManifestGenerator(usecase.DefaultManifestInput(site), nil)
	if err != nil {
		slog.Error("Invalid site manifest", "error", err)
		os.Exit(1)
	}

	dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	renderer, err := chromedp_renderer.NewChromedpRenderer(cfg.PageLoadTimeout())
	if err != nil {
		slog.Error("Unable to start browser", "error", err)
		os.Exit(1)
	}
	defer renderer.Close()

	checker := usecase.NewSiteChecker(manifest, renderer, postgres.NewPageCheckRepo(dbpool), cfg.MaxConcurrency)

	slog.Info("Starting site check", "site", site, "concurrency", cfg.MaxConcurrency)
	report, err := checker.Run(ctx)
	if err != nil {
		slog.Error("Site check aborted", "error", err)
		os.Exit(1)
	}

	for _, check := range report.Failed {
		slog.Warn("Page failed check", "url", check.URL, "failure", check.FailureReason, "issues", check.Issues)
	}
	for _, url := range report.Regressed {
		slog.Warn("Page regressed since last check", "url", url)
	}
	slog.Info("Site check finished", "checked", report.Checked, "failed", len(report.Failed), "regressed", len(report.Regressed))
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}
