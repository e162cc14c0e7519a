package usecase

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/user/sitemeta-service/internal/entity"
	"github.com/user/sitemeta-service/internal/repository"
	"github.com/user/sitemeta-service/pkg/metrics"
)

const defaultCurrency = "USD"

// Tracker emits analytics commands for one visitor.
//
// A Tracker only exists once telemetry was initialized for the visitor, so a
// nil *Tracker stands for "analytics not ready": every method on it logs a
// warning and returns. No method returns an error or panics; a failed command
// is logged and lost.
type Tracker struct {
	emitter       repository.Emitter
	measurementID string
	visitorID     string
	location      string
	now           func() time.Time
}

func newTracker(emitter repository.Emitter, measurementID, visitorID, location string, now func() time.Time) *Tracker {
	return &Tracker{
		emitter:       emitter,
		measurementID: measurementID,
		visitorID:     visitorID,
		location:      location,
		now:           now,
	}
}

// TrackEvent sends gtag('event', action, {event_category, event_label, value, ...params}).
func (t *Tracker) TrackEvent(ctx context.Context, e entity.CustomEvent) {
	if !t.ready("track_event") {
		return
	}
	if e.Action == "" {
		slog.Warn("Dropping analytics event without action", "category", e.Category)
		metrics.TelemetryCommandsTotal.WithLabelValues(string(entity.CommandEvent), "dropped").Inc()
		return
	}

	params := map[string]any{"event_category": e.Category}
	if e.Label != "" {
		params["event_label"] = e.Label
	}
	if e.Value != nil {
		params["value"] = *e.Value
	}
	maps.Copy(params, e.Params)

	t.emit(ctx, entity.Command{Kind: entity.CommandEvent, Target: e.Action, Params: params})
}

// TrackPageView sends gtag('config', measurementID, {page_title, page_location, content_group}).
// The location defaults to the visitor's current page.
func (t *Tracker) TrackPageView(ctx context.Context, e entity.PageViewEvent) {
	if !t.ready("track_page_view") {
		return
	}
	if t.measurementID == "" {
		slog.Warn("Dropping page view, measurement ID is not configured")
		metrics.TelemetryCommandsTotal.WithLabelValues(string(entity.CommandConfig), "dropped").Inc()
		return
	}

	location := e.Location
	if location == "" {
		location = t.location
	}
	params := map[string]any{}
	if location != "" {
		params["page_location"] = location
	}
	if e.Title != "" {
		params["page_title"] = e.Title
	}
	if e.ContentGroup != "" {
		params["content_group"] = e.ContentGroup
	}
	maps.Copy(params, e.Params)

	t.emit(ctx, entity.Command{Kind: entity.CommandConfig, Target: t.measurementID, Params: params})
}

// TrackConversion sends gtag('event', name, {value, currency, ...params}).
func (t *Tracker) TrackConversion(ctx context.Context, e entity.ConversionEvent) {
	if !t.ready("track_conversion") {
		return
	}
	if !e.Name.Valid() {
		slog.Warn("Dropping unknown conversion event", "event_name", e.Name)
		metrics.TelemetryCommandsTotal.WithLabelValues(string(entity.CommandEvent), "dropped").Inc()
		return
	}

	currency := e.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	params := map[string]any{"currency": currency}
	if e.Value != nil {
		params["value"] = *e.Value
	}
	maps.Copy(params, e.Params)

	t.emit(ctx, entity.Command{Kind: entity.CommandEvent, Target: string(e.Name), Params: params})
}

// SetUserProperties sends gtag('set', 'user_properties', props).
func (t *Tracker) SetUserProperties(ctx context.Context, props entity.UserProperties) {
	if !t.ready("set_user_properties") {
		return
	}
	if len(props) == 0 {
		return
	}

	t.emit(ctx, entity.Command{
		Kind:   entity.CommandSet,
		Target: "user_properties",
		Params: map[string]any{"user_properties": maps.Clone(map[string]any(props))},
	})
}

// AIGeneration records a finished image or video generation.
func (t *Tracker) AIGeneration(ctx context.Context, generationType string) {
	name := entity.ConversionGenerateCharacter
	if generationType == "video" {
		name = entity.ConversionVideoGenerate
	}
	t.TrackConversion(ctx, entity.ConversionEvent{
		Name:   name,
		Params: map[string]any{"generation_type": generationType},
	})
}

func (t *Tracker) UserSignup(ctx context.Context, method string) {
	t.TrackConversion(ctx, entity.ConversionEvent{
		Name:   entity.ConversionUserSignup,
		Params: map[string]any{"method": method},
	})
}

func (t *Tracker) Purchase(ctx context.Context, value float64, currency string) {
	t.TrackConversion(ctx, entity.ConversionEvent{
		Name:     entity.ConversionPurchaseCredits,
		Value:    &value,
		Currency: currency,
	})
}

func (t *Tracker) ButtonClick(ctx context.Context, buttonName, location string) {
	t.TrackEvent(ctx, entity.CustomEvent{
		Action:   "button_click",
		Category: "engagement",
		Label:    buttonName,
		Params:   map[string]any{"button_location": location},
	})
}

// Error reports a non-fatal client error.
func (t *Tracker) Error(ctx context.Context, message, location string) {
	t.TrackEvent(ctx, entity.CustomEvent{
		Action:   "exception",
		Category: "error",
		Label:    message,
		Params:   map[string]any{"error_location": location, "fatal": false},
	})
}

func (t *Tracker) ready(call string) bool {
	if t == nil || t.emitter == nil {
		slog.Warn("Analytics not initialized, dropping call", "call", call)
		metrics.TelemetryCommandsTotal.WithLabelValues("unknown", "dropped").Inc()
		return false
	}
	return true
}

func (t *Tracker) emit(ctx context.Context, cmd entity.Command) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Analytics emitter panicked", "kind", cmd.Kind, "target", cmd.Target, "panic", r)
			metrics.TelemetryCommandsTotal.WithLabelValues(string(cmd.Kind), "failed").Inc()
		}
	}()

	cmd.VisitorID = t.visitorID
	cmd.IssuedAt = t.now()

	if err := t.emitter.Emit(ctx, cmd); err != nil {
		slog.Error("Failed to emit analytics command", "kind", cmd.Kind, "target", cmd.Target, "error", err)
		metrics.TelemetryCommandsTotal.WithLabelValues(string(cmd.Kind), "failed").Inc()
		return
	}
	metrics.TelemetryCommandsTotal.WithLabelValues(string(cmd.Kind), "sent").Inc()
}
