package repository

import (
	"context"
	"time"

	"github.com/user/sitemeta-service/internal/entity"
)

// ConsentRepository persists each visitor's analytics consent decision.
type ConsentRepository interface {
	// Get returns the stored decision, or entity.ConsentUnknown if none was stored.
	Get(ctx context.Context, visitorID string) (entity.ConsentState, error)
	// Set stores a decision. It never expires.
	Set(ctx context.Context, visitorID string, state entity.ConsentState) error
}

// SessionRepository tracks which visitors already received the bootstrap config call.
type SessionRepository interface {
	// MarkStarted records the session start and reports whether this call created it.
	MarkStarted(ctx context.Context, visitorID string, ttl time.Duration) (bool, error)
}
