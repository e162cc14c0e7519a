package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/user/sitemeta-service/internal/delivery/http/request"
	"github.com/user/sitemeta-service/internal/delivery/http/response"
	"github.com/user/sitemeta-service/internal/entity"
)

const maxTrackBodyBytes = 64 << 10

// HandleGetConsent returns the stored consent. A visitor without an id gets a new one.
func (h *Handler) HandleGetConsent(w http.ResponseWriter, r *http.Request) {
	visitorID := r.URL.Query().Get("visitor_id")
	if visitorID == "" {
		h.writeJSON(w, http.StatusOK, response.ConsentResponse{
			VisitorID: h.newID(),
			Consent:   string(entity.ConsentUnknown),
		})
		return
	}

	state, err := h.telemetry.Consent(r.Context(), visitorID)
	if err != nil {
		slog.Error("Failed to get consent", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.ConsentResponse{VisitorID: visitorID, Consent: string(state)})
}

func (h *Handler) HandleUpdateConsent(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateConsentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTrackBodyBytes)).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.VisitorID == "" {
		h.writeJSONError(w, "visitor_id is required", http.StatusBadRequest)
		return
	}
	state, err := entity.ParseConsentState(req.Consent)
	if err != nil {
		h.writeJSONError(w, "consent must be granted or denied", http.StatusBadRequest)
		return
	}

	if err := h.telemetry.SetConsent(r.Context(), req.VisitorID, state); err != nil {
		slog.Error("Failed to update consent", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.ConsentResponse{VisitorID: req.VisitorID, Consent: string(state)})
}

// HandleBootstrap serves the analytics script, or 204 when analytics must not load.
func (h *Handler) HandleBootstrap(w http.ResponseWriter, r *http.Request) {
	visitorID := r.URL.Query().Get("visitor_id")
	if visitorID == "" {
		h.writeJSONError(w, "visitor_id query parameter is required", http.StatusBadRequest)
		return
	}

	snippet, outcome := h.telemetry.Snippet(r.Context(), visitorID, r.URL.Query().Get("location"))
	w.Header().Set("X-Analytics-Outcome", string(outcome))
	if snippet == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(snippet))
}

// HandleTrack forwards one tracking call. Once the body parses the answer is
// always 202: tracking problems never reach the page.
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	var req request.TrackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTrackBodyBytes)).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.VisitorID == "" {
		h.writeJSONError(w, "visitor_id is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tracker, outcome := h.telemetry.Init(ctx, req.VisitorID, req.Location)

	switch req.Type {
	case "event":
		tracker.TrackEvent(ctx, entity.CustomEvent{
			Action:   req.Action,
			Category: req.Category,
			Label:    req.Label,
			Value:    req.Value,
			Params:   req.Params,
		})
	case "page_view":
		tracker.TrackPageView(ctx, entity.PageViewEvent{
			Title:        req.Title,
			Location:     req.Location,
			ContentGroup: req.ContentGroup,
			Params:       req.Params,
		})
	case "conversion":
		tracker.TrackConversion(ctx, entity.ConversionEvent{
			Name:     entity.ConversionName(req.EventName),
			Value:    req.Value,
			Currency: req.Currency,
			Params:   req.Params,
		})
	case "user_properties":
		tracker.SetUserProperties(ctx, req.Properties)
	default:
		slog.Warn("Dropping tracking call of unknown type", "type", req.Type)
	}

	h.writeJSON(w, http.StatusAccepted, response.TrackResponse{Status: "accepted", Outcome: string(outcome)})
}
