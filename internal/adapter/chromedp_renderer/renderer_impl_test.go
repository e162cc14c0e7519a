package chromedp_renderer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *ChromedpRenderer {
	t.Helper()
	r, err := NewChromedpRenderer(10 * time.Second)
	if err != nil {
		t.Skipf("headless chrome not available: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func TestRenderOpensTabsInOneBrowser(t *testing.T) {
	r := newTestRenderer(t)
	browser := chromedp.FromContext(r.browserCtx).Browser
	require.NotNil(t, browser)

	tabCtx, cancel := chromedp.NewContext(r.browserCtx)
	defer cancel()
	assert.Same(t, browser, chromedp.FromContext(tabCtx).Browser)
}

func TestRenderReturnsStatusAndDOM(t *testing.T) {
	r := newTestRenderer(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
		w.Write([]byte(`<html><head><title>Hello</title></head><body><h1>Hi</h1></body></html>`))
	}))
	defer srv.Close()

	page, err := r.Render(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.HTTPStatusCode)
	assert.Contains(t, page.HTML, "<title>Hello</title>")

	page, err = r.Render(context.Background(), srv.URL+"/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, page.HTTPStatusCode)
}
