package measurement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/sitemeta-service/internal/entity"
)

func newCollectServer(t *testing.T, status int, got *payload, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "G-TEST", r.URL.Query().Get("measurement_id"))
		assert.Equal(t, "secret", r.URL.Query().Get("api_secret"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEmitEventPostsPayload(t *testing.T) {
	var got payload
	var hits int32
	srv := newCollectServer(t, http.StatusNoContent, &got, &hits)
	emitter := NewProtocolEmitter(srv.URL, "G-TEST", "secret", srv.Client())

	err := emitter.Emit(context.Background(), entity.Command{
		VisitorID: "client-1",
		Kind:      entity.CommandEvent,
		Target:    "generate_character",
		Params:    map[string]any{"currency": "USD"},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, hits)
	assert.Equal(t, "client-1", got.ClientID)
	assert.True(t, got.NonPersonalizedAds)
	require.Len(t, got.Events, 1)
	assert.Equal(t, "generate_character", got.Events[0].Name)
	assert.Equal(t, "USD", got.Events[0].Params["currency"])
}

func TestEmitPageViewConfigBecomesPageViewEvent(t *testing.T) {
	var got payload
	var hits int32
	srv := newCollectServer(t, http.StatusOK, &got, &hits)
	emitter := NewProtocolEmitter(srv.URL, "G-TEST", "secret", srv.Client())

	err := emitter.Emit(context.Background(), entity.Command{
		VisitorID: "client-1",
		Kind:      entity.CommandConfig,
		Target:    "G-TEST",
		Params:    map[string]any{"page_location": "https://example.com/pricing"},
	})
	require.NoError(t, err)

	require.Len(t, got.Events, 1)
	assert.Equal(t, "page_view", got.Events[0].Name)
}

func TestEmitSkipsBootstrapConfig(t *testing.T) {
	var hits int32
	srv := newCollectServer(t, http.StatusOK, nil, &hits)
	emitter := NewProtocolEmitter(srv.URL, "G-TEST", "secret", srv.Client())

	err := emitter.Emit(context.Background(), entity.Command{
		Kind:   entity.CommandConfig,
		Target: "G-TEST",
		Params: map[string]any{"send_page_view": true},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, hits)
}

func TestEmitSkipsConfigWithEmptyLocation(t *testing.T) {
	var hits int32
	srv := newCollectServer(t, http.StatusOK, nil, &hits)
	emitter := NewProtocolEmitter(srv.URL, "G-TEST", "secret", srv.Client())

	err := emitter.Emit(context.Background(), entity.Command{
		Kind:   entity.CommandConfig,
		Target: "G-TEST",
		Params: map[string]any{"page_location": "", "page_title": "Home"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, hits)
}

func TestEmitUserProperties(t *testing.T) {
	var got payload
	var hits int32
	srv := newCollectServer(t, http.StatusOK, &got, &hits)
	emitter := NewProtocolEmitter(srv.URL, "G-TEST", "secret", srv.Client())

	err := emitter.Emit(context.Background(), entity.Command{
		VisitorID: "client-1",
		Kind:      entity.CommandSet,
		Target:    "user_properties",
		Params:    map[string]any{"user_properties": map[string]any{"plan": "pro"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "pro", got.UserProperties["plan"].Value)
}

func TestEmitReportsBadStatus(t *testing.T) {
	var hits int32
	srv := newCollectServer(t, http.StatusBadRequest, nil, &hits)
	emitter := NewProtocolEmitter(srv.URL, "G-TEST", "secret", srv.Client())

	err := emitter.Emit(context.Background(), entity.Command{Kind: entity.CommandEvent, Target: "x"})
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}
