package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/user/sitemeta-service/internal/delivery/http/response"
)

func (h *Handler) HandleSitemap(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := response.WriteSitemap(&buf, h.manifest.Sitemap()); err != nil {
		slog.Error("Failed to encode sitemap", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) HandleRobots(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := response.WriteRobots(&buf, h.manifest.Robots()); err != nil {
		slog.Error("Failed to render robots policy", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
