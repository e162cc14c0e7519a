package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/sitemeta-service/internal/entity"
	"github.com/user/sitemeta-service/pkg/utils"
)

const (
	consentKeyPrefix = "analytics_consent:"
	sessionKeyPrefix = "analytics_session:"
)

// ConsentRepoImpl provides a concrete implementation for the ConsentRepository interface using Redis.
type ConsentRepoImpl struct {
	client redis.Cmdable
}

// NewConsentRepo creates a new instance of ConsentRepoImpl.
func NewConsentRepo(client redis.Cmdable) *ConsentRepoImpl {
	return &ConsentRepoImpl{client: client}
}

func consentKey(visitorID string) string {
	return fmt.Sprintf("%s%s", consentKeyPrefix, utils.HashKey(visitorID))
}

// Get returns the stored consent, or unknown when the key is absent.
func (r *ConsentRepoImpl) Get(ctx context.Context, visitorID string) (entity.ConsentState, error) {
	val, err := r.client.Get(ctx, consentKey(visitorID)).Result()
	if errors.Is(err, redis.Nil) {
		return entity.ConsentUnknown, nil
	}
	if err != nil {
		return entity.ConsentUnknown, fmt.Errorf("failed to read consent: %w", err)
	}
	state, err := entity.ParseConsentState(val)
	if err != nil {
		// A corrupt value counts as no decision.
		return entity.ConsentUnknown, nil
	}
	return state, nil
}

// Set stores the consent without expiry.
func (r *ConsentRepoImpl) Set(ctx context.Context, visitorID string, state entity.ConsentState) error {
	if err := r.client.Set(ctx, consentKey(visitorID), string(state), 0).Err(); err != nil {
		return fmt.Errorf("failed to store consent: %w", err)
	}
	return nil
}

// SessionRepoImpl marks visitor sessions that were already bootstrapped.
type SessionRepoImpl struct {
	client redis.Cmdable
}

// NewSessionRepo creates a new instance of SessionRepoImpl.
func NewSessionRepo(client redis.Cmdable) *SessionRepoImpl {
	return &SessionRepoImpl{client: client}
}

// MarkStarted sets the session key only if it does not exist yet.
// SETNX makes concurrent first requests agree on a single winner.
func (r *SessionRepoImpl) MarkStarted(ctx context.Context, visitorID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("%s%s", sessionKeyPrefix, utils.HashKey(visitorID))
	created, err := r.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark session: %w", err)
	}
	return created, nil
}
