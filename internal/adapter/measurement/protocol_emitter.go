// Package measurement sends tagging commands to the GA4 Measurement Protocol.
package measurement

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/user/sitemeta-service/internal/entity"
)

var ErrUnexpectedStatus = errors.New("measurement protocol returned unexpected status")

type payload struct {
	ClientID           string                  `json:"client_id"`
	NonPersonalizedAds bool                    `json:"non_personalized_ads"`
	UserProperties     map[string]propertyWrap `json:"user_properties,omitempty"`
	Events             []event                 `json:"events"`
}

type propertyWrap struct {
	Value any `json:"value"`
}

type event struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// ProtocolEmitter implements repository.Emitter on top of the Measurement Protocol.
type ProtocolEmitter struct {
	endpoint      string
	measurementID string
	apiSecret     string
	client        *http.Client
}

// NewProtocolEmitter creates an emitter posting to endpoint (the /mp/collect URL).
func NewProtocolEmitter(endpoint, measurementID, apiSecret string, client *http.Client) *ProtocolEmitter {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &ProtocolEmitter{
		endpoint:      endpoint,
		measurementID: measurementID,
		apiSecret:     apiSecret,
		client:        client,
	}
}

// Emit translates one gtag-style command into a collect request.
// Bootstrap config calls have no server-side equivalent and are skipped.
func (e *ProtocolEmitter) Emit(ctx context.Context, cmd entity.Command) error {
	body, ok := e.translate(cmd)
	if !ok {
		return nil
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode collect payload: %w", err)
	}

	q := url.Values{}
	q.Set("measurement_id", e.measurementID)
	q.Set("api_secret", e.apiSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"?"+q.Encode(), bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to build collect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("collect request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

func (e *ProtocolEmitter) translate(cmd entity.Command) (*payload, bool) {
	p := &payload{
		ClientID:           cmd.VisitorID,
		NonPersonalizedAds: true,
		Events:             []event{},
	}

	switch cmd.Kind {
	case entity.CommandEvent:
		p.Events = append(p.Events, event{Name: cmd.Target, Params: cmd.Params})
	case entity.CommandConfig:
		// Only page views carry a location; the bootstrap config does not.
		if location, _ := cmd.Params["page_location"].(string); location == "" {
			return nil, false
		}
		p.Events = append(p.Events, event{Name: "page_view", Params: cmd.Params})
	case entity.CommandSet:
		props, _ := cmd.Params["user_properties"].(map[string]any)
		if len(props) == 0 {
			return nil, false
		}
		p.UserProperties = make(map[string]propertyWrap, len(props))
		for k, v := range props {
			p.UserProperties[k] = propertyWrap{Value: v}
		}
	default:
		return nil, false
	}
	return p, true
}
