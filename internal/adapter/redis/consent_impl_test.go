package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/sitemeta-service/internal/entity"
)

// unreachableClient points at a closed port so every command fails fast.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestConsentKeyHidesVisitorID(t *testing.T) {
	key := consentKey("visitor-42")
	assert.Contains(t, key, consentKeyPrefix)
	assert.NotContains(t, key, "visitor-42")
	assert.Equal(t, key, consentKey("visitor-42"))
}

func TestConsentRepoReportsUnknownOnError(t *testing.T) {
	repo := NewConsentRepo(unreachableClient(t))

	state, err := repo.Get(context.Background(), "visitor-42")
	require.Error(t, err)
	assert.Equal(t, entity.ConsentUnknown, state)

	err = repo.Set(context.Background(), "visitor-42", entity.ConsentDenied)
	assert.ErrorContains(t, err, "failed to store consent")
}

func TestSessionRepoWrapsErrors(t *testing.T) {
	repo := NewSessionRepo(unreachableClient(t))

	created, err := repo.MarkStarted(context.Background(), "visitor-42", time.Minute)
	assert.False(t, created)
	assert.ErrorContains(t, err, "failed to mark session")
}
