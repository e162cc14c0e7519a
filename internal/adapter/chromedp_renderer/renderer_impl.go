package chromedp_renderer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/user/sitemeta-service/internal/entity"
	"github.com/user/sitemeta-service/internal/repository"
)

const userAgent = `Mozilla/5.0 (compatible; SitemetaCheck/1.0; +https://github.com/user/sitemeta-service)`

// ChromedpRenderer renders pages as tabs of one headless Chrome process.
type ChromedpRenderer struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	timeout       time.Duration
}

// NewChromedpRenderer launches a headless browser. Call Close when done.
func NewChromedpRenderer(pageLoadTimeout time.Duration) (*ChromedpRenderer, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		slog.Debug(fmt.Sprintf(format, args...))
	}))

	// Running with no actions starts the browser, so tabs opened from
	// browserCtx share it instead of each launching their own.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start headless browser: %w", err)
	}

	return &ChromedpRenderer{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		timeout:       pageLoadTimeout,
	}, nil
}

// Close shuts the browser down.
func (r *ChromedpRenderer) Close() {
	r.cancelBrowser()
	r.cancelAlloc()
}

// Render navigates to url in a new tab and returns the rendered HTML.
func (r *ChromedpRenderer) Render(ctx context.Context, url string) (*entity.RenderedPage, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()

	// Stop the tab when the caller gives up, too.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	taskCtx, cancel := context.WithTimeout(tabCtx, r.timeout)
	defer cancel()

	startTime := time.Now()

	var resp *network.Response
	resp, err := chromedp.RunResponse(taskCtx, chromedp.Navigate(url))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", repository.ErrRenderTimeout, url)
		}
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrNavigationFailed, url, err)
	}

	var html string
	if err := chromedp.Run(taskCtx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", repository.ErrRenderTimeout, url)
		}
		return nil, fmt.Errorf("failed to read DOM of %s: %w", url, err)
	}

	statusCode := 0
	if resp != nil {
		statusCode = int(resp.Status)
	}

	slog.Debug("Rendered page", "url", url, "status", statusCode)

	return &entity.RenderedPage{
		URL:            url,
		HTML:           html,
		HTTPStatusCode: statusCode,
		ResponseTimeMS: int(time.Since(startTime).Milliseconds()),
	}, nil
}
