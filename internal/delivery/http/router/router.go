package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/sitemeta-service/internal/delivery/http/handler"
	"github.com/user/sitemeta-service/internal/delivery/http/middleware"
	"github.com/user/sitemeta-service/pkg/metrics"
)

func New(h *handler.Handler) http.Handler {
	metrics.Init()

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/sitemap.xml", h.HandleSitemap)
	r.Get("/robots.txt", h.HandleRobots)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Get("/consent", h.HandleGetConsent)
		r.Put("/consent", h.HandleUpdateConsent)
		r.Get("/analytics/bootstrap", h.HandleBootstrap)
		r.Post("/events", h.HandleTrack)
	})

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
