package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/user/sitemeta-service/internal/entity"
	"github.com/user/sitemeta-service/internal/usecase"
)

// TelemetryService is the part of usecase.Telemetry the handlers call.
type TelemetryService interface {
	Init(ctx context.Context, visitorID, location string) (*usecase.Tracker, usecase.InitOutcome)
	Snippet(ctx context.Context, visitorID, location string) (string, usecase.InitOutcome)
	Consent(ctx context.Context, visitorID string) (entity.ConsentState, error)
	SetConsent(ctx context.Context, visitorID string, state entity.ConsentState) error
}

type Handler struct {
	manifest  usecase.ManifestGenerator
	telemetry TelemetryService
	newID     func() string
}

func NewHandler(manifest usecase.ManifestGenerator, telemetry TelemetryService, newID func() string) *Handler {
	return &Handler{
		manifest:  manifest,
		telemetry: telemetry,
		newID:     newID,
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
