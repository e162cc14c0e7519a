package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/user/sitemeta-service/internal/entity"
	"github.com/user/sitemeta-service/internal/repository"
	"github.com/user/sitemeta-service/pkg/metrics"
)

// InitOutcome explains why a visitor did or did not get a Tracker.
type InitOutcome string

const (
	OutcomeEnabled             InitOutcome = "enabled"
	OutcomeAlreadyInitialized  InitOutcome = "already_initialized"
	OutcomeDisabledEnvironment InitOutcome = "disabled_environment"
	OutcomeMissingConfig       InitOutcome = "missing_config"
	OutcomeConsentDenied       InitOutcome = "consent_denied"
)

// Active reports whether the outcome produced a Tracker.
func (o InitOutcome) Active() bool {
	return o == OutcomeEnabled || o == OutcomeAlreadyInitialized
}

// TelemetryConfig is the slice of the process configuration telemetry depends on.
type TelemetryConfig struct {
	Production     bool
	MeasurementID  string
	ConsentDefault entity.ConsentState
	SessionTTL     time.Duration
}

// BootstrapConfig is the privacy-preserving configuration sent with the first
// config call of a session.
func BootstrapConfig() map[string]any {
	return map[string]any{
		"anonymize_ip":                     true,
		"allow_google_signals":             false,
		"allow_ad_personalization_signals": false,
		"send_page_view":                   true,
		"enhanced_measurement": map[string]any{
			"scrolls":         true,
			"outbound_clicks": true,
			"site_search":     true,
		},
	}
}

var snippetTemplate = template.Must(template.New("gtag").Parse(
	`<script async src="https://www.googletagmanager.com/gtag/js?id={{.MeasurementID}}"></script>
<script>
window.dataLayer = window.dataLayer || [];
function gtag(){dataLayer.push(arguments);}
gtag('js', new Date());
gtag('config', {{.MeasurementID}}, {{.Config}});
</script>
`))

// Telemetry decides per visitor whether analytics may run and hands out Trackers.
type Telemetry struct {
	cfg         TelemetryConfig
	consentRepo repository.ConsentRepository
	sessionRepo repository.SessionRepository
	emitter     repository.Emitter
	now         func() time.Time
}

// NewTelemetry creates the telemetry use case.
func NewTelemetry(
	cfg TelemetryConfig,
	consentRepo repository.ConsentRepository,
	sessionRepo repository.SessionRepository,
	emitter repository.Emitter,
) *Telemetry {
	if cfg.ConsentDefault != entity.ConsentDenied {
		cfg.ConsentDefault = entity.ConsentGranted
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	metrics.Init()
	return &Telemetry{
		cfg:         cfg,
		consentRepo: consentRepo,
		sessionRepo: sessionRepo,
		emitter:     emitter,
		now:         time.Now,
	}
}

// Init runs the initialization gates for a visitor currently at location.
// It returns a nil Tracker unless the outcome is active.
func (s *Telemetry) Init(ctx context.Context, visitorID, location string) (*Tracker, InitOutcome) {
	outcome := s.gate(ctx, visitorID)
	metrics.TelemetryInitTotal.WithLabelValues(string(outcome)).Inc()
	if !outcome.Active() {
		return nil, outcome
	}

	tracker := newTracker(s.emitter, s.cfg.MeasurementID, visitorID, location, s.now)

	started, err := s.sessionRepo.MarkStarted(ctx, visitorID, s.cfg.SessionTTL)
	if err != nil {
		// Without the marker we cannot tell; a duplicate config call is harmless.
		slog.Warn("Failed to mark analytics session", "error", err)
		started = true
	}
	if !started {
		return tracker, OutcomeAlreadyInitialized
	}

	tracker.emit(ctx, entity.Command{
		Kind:   entity.CommandConfig,
		Target: s.cfg.MeasurementID,
		Params: BootstrapConfig(),
	})
	return tracker, OutcomeEnabled
}

func (s *Telemetry) gate(ctx context.Context, visitorID string) InitOutcome {
	if !s.cfg.Production {
		return OutcomeDisabledEnvironment
	}
	if s.cfg.MeasurementID == "" {
		slog.Warn("GA_MEASUREMENT_ID is not set, analytics disabled")
		return OutcomeMissingConfig
	}

	state, err := s.consentRepo.Get(ctx, visitorID)
	if err != nil {
		// A stored denial cannot be ruled out, so stay off.
		slog.Warn("Failed to read analytics consent, analytics disabled", "error", err)
		return OutcomeConsentDenied
	}
	if state == entity.ConsentUnknown {
		state = s.cfg.ConsentDefault
		if err := s.consentRepo.Set(ctx, visitorID, state); err != nil {
			slog.Warn("Failed to persist default analytics consent", "error", err)
		}
	}

	if state != entity.ConsentGranted {
		return OutcomeConsentDenied
	}
	return OutcomeEnabled
}

// Snippet returns the analytics bootstrap script for the visitor, or "" when
// analytics must not load.
func (s *Telemetry) Snippet(ctx context.Context, visitorID, location string) (string, InitOutcome) {
	tracker, outcome := s.Init(ctx, visitorID, location)
	if tracker == nil {
		return "", outcome
	}

	var buf bytes.Buffer
	err := snippetTemplate.Execute(&buf, struct {
		MeasurementID string
		Config        map[string]any
	}{s.cfg.MeasurementID, BootstrapConfig()})
	if err != nil {
		slog.Error("Failed to render analytics snippet", "error", err)
		return "", outcome
	}
	return buf.String(), outcome
}

// Consent returns the stored consent of a visitor without applying the default.
func (s *Telemetry) Consent(ctx context.Context, visitorID string) (entity.ConsentState, error) {
	state, err := s.consentRepo.Get(ctx, visitorID)
	if err != nil {
		return entity.ConsentUnknown, fmt.Errorf("failed to get consent: %w", err)
	}
	return state, nil
}

// SetConsent records an explicit visitor decision.
func (s *Telemetry) SetConsent(ctx context.Context, visitorID string, state entity.ConsentState) error {
	if state != entity.ConsentGranted && state != entity.ConsentDenied {
		return fmt.Errorf("cannot store consent state %q", state)
	}
	if err := s.consentRepo.Set(ctx, visitorID, state); err != nil {
		return fmt.Errorf("failed to set consent: %w", err)
	}
	return nil
}
